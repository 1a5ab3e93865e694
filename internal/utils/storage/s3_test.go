package storage

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicLinkRoundTrip(t *testing.T) {
	s := &awsS3{bucket: "assets", region: "ap-south-1"}

	link := s.GetPublicLinkKey("payment/upi-qr-1.png")
	assert.Equal(t, "https://assets.s3.ap-south-1.amazonaws.com/payment/upi-qr-1.png", link)
	assert.Equal(t, "payment/upi-qr-1.png", s.GetObjectKeyFromLink(link))
	assert.Equal(t, "", s.GetObjectKeyFromLink("https://elsewhere.example.com/x.png"))
}

func TestDisabledStorageRefusesUploads(t *testing.T) {
	s := &awsS3{}
	assert.False(t, s.Enabled())

	_, err := s.UploadFile("qr", &multipart.FileHeader{Filename: "qr.png"}, "payment", AllowImage...)
	assert.ErrorIs(t, err, ErrStorageDisabled)
	assert.ErrorIs(t, s.DeleteFile("payment/qr.png"), ErrStorageDisabled)
}

func TestAllowedContentTypes(t *testing.T) {
	assert.True(t, allowed("image/PNG", AllowImage))
	assert.False(t, allowed("application/pdf", AllowImage))
	assert.True(t, allowed("application/pdf", nil))
}
