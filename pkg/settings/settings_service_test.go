package settings

import (
	"context"
	"mime/multipart"
	"testing"
	"veronikaextra-backend/domain"
	"veronikaextra-backend/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fakeSettingsRepository struct {
	values map[string]datatypes.JSON
}

func (f *fakeSettingsRepository) GetSetting(_ context.Context, key string) (*entities.Setting, error) {
	v, ok := f.values[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &entities.Setting{Key: key, Value: v}, nil
}

func (f *fakeSettingsRepository) UpsertSetting(_ context.Context, key string, value datatypes.JSON) error {
	f.values[key] = value
	return nil
}

func (f *fakeSettingsRepository) SeedSetting(_ context.Context, key string, value datatypes.JSON) error {
	if _, ok := f.values[key]; !ok {
		f.values[key] = value
	}
	return nil
}

type fakeS3 struct {
	enabled  bool
	uploaded []string
	deleted  []string
}

func (f *fakeS3) UploadFile(fileName string, _ *multipart.FileHeader, folder string, _ ...string) (string, error) {
	key := folder + "/" + fileName + ".png"
	f.uploaded = append(f.uploaded, key)
	return key, nil
}

func (f *fakeS3) DeleteFile(objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func (f *fakeS3) GetPublicLinkKey(objectKey string) string {
	return "https://cdn.example.com/" + objectKey
}

func (f *fakeS3) GetObjectKeyFromLink(link string) string {
	if len(link) > len("https://cdn.example.com/") {
		return link[len("https://cdn.example.com/"):]
	}
	return ""
}

func (f *fakeS3) Enabled() bool { return f.enabled }

func newTestService(s3 *fakeS3) (SettingsService, *fakeSettingsRepository) {
	repo := &fakeSettingsRepository{values: map[string]datatypes.JSON{}}
	return NewSettingsService(repo, s3, 5, 25), repo
}

func TestDefaultsWithoutSeeding(t *testing.T) {
	svc, _ := newTestService(&fakeS3{})
	ctx := context.Background()

	rate, err := svc.GetExchangeRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 83.0, rate)

	contact, err := svc.GetContactInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultContactEmail, contact.Email1)

	notice, err := svc.GetGlobalNotice(ctx)
	require.NoError(t, err)
	assert.Empty(t, notice)

	legal, err := svc.GetLegalContent(ctx)
	require.NoError(t, err)
	assert.Contains(t, legal.Terms, "25 free credits")
	assert.Contains(t, legal.Terms, "costs 5 credits")

	info, err := svc.GetPaymentInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultUpiID, info.UpiID)
}

func TestLatestWriteWins(t *testing.T) {
	svc, _ := newTestService(&fakeS3{})
	ctx := context.Background()

	require.NoError(t, svc.SetGlobalNotice(ctx, "first"))
	require.NoError(t, svc.SetGlobalNotice(ctx, "maintenance tonight"))
	notice, err := svc.GetGlobalNotice(ctx)
	require.NoError(t, err)
	assert.Equal(t, "maintenance tonight", notice)

	require.NoError(t, svc.SetCreditsPageNotice(ctx, "50% bonus"))
	notice, err = svc.GetCreditsPageNotice(ctx)
	require.NoError(t, err)
	assert.Equal(t, "50% bonus", notice)

	require.NoError(t, svc.SetSocialLinks(ctx, domain.SocialLinks{Instagram: "https://instagram.com/v"}))
	links, err := svc.GetSocialLinks(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://instagram.com/v", links.Instagram)
}

func TestExchangeRateMustBePositive(t *testing.T) {
	svc, _ := newTestService(&fakeS3{})
	ctx := context.Background()

	assert.ErrorIs(t, svc.SetExchangeRate(ctx, 0), domain.ErrInvalidExchangeRate)
	require.NoError(t, svc.SetExchangeRate(ctx, 84.5))
	rate, err := svc.GetExchangeRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 84.5, rate)
}

func TestEnsureDefaultsKeepsExistingValues(t *testing.T) {
	svc, repo := newTestService(&fakeS3{})
	ctx := context.Background()

	require.NoError(t, svc.SetContactInfo(ctx, domain.ContactInfo{Email1: "help@example.com", Phone: "123"}))
	require.NoError(t, svc.EnsureDefaults(ctx))
	assert.Len(t, repo.values, 7)

	contact, err := svc.GetContactInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "help@example.com", contact.Email1)
}

func TestUpdatePaymentInfoUploadsQRCode(t *testing.T) {
	s3 := &fakeS3{enabled: true}
	svc, _ := newTestService(s3)
	ctx := context.Background()

	info, err := svc.UpdatePaymentInfo(ctx, "shop@upi", &multipart.FileHeader{Filename: "qr.png"})
	require.NoError(t, err)
	assert.Equal(t, "shop@upi", info.UpiID)
	assert.Equal(t, "https://cdn.example.com/payment/upi-qr.png", info.UpiQRURL)

	_, err = svc.UpdatePaymentInfo(ctx, "", &multipart.FileHeader{Filename: "qr.png"})
	require.NoError(t, err)
	assert.Equal(t, []string{"payment/upi-qr.png"}, s3.deleted)

	stored, err := svc.GetPaymentInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "shop@upi", stored.UpiID)
}

func TestUpdatePaymentInfoWithoutStorage(t *testing.T) {
	svc, _ := newTestService(&fakeS3{})

	_, err := svc.UpdatePaymentInfo(context.Background(), "shop@upi", &multipart.FileHeader{Filename: "qr.png"})
	assert.ErrorIs(t, err, domain.ErrSettingStorageUnavailable)

	info, err := svc.UpdatePaymentInfo(context.Background(), "shop@upi", nil)
	require.NoError(t, err)
	assert.Equal(t, "shop@upi", info.UpiID)
}
