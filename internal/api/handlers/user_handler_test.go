package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"veronikaextra-backend/domain"
	"veronikaextra-backend/entities"
	"veronikaextra-backend/internal/middleware"
	"veronikaextra-backend/internal/utils"
	"veronikaextra-backend/pkg/credit"
	"veronikaextra-backend/pkg/credit/credittest"
	"veronikaextra-backend/pkg/jwt"
	"veronikaextra-backend/pkg/session"
	"veronikaextra-backend/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryUsers struct {
	mu     sync.Mutex
	byID   map[string]entities.User
	ledger *credittest.MemoryRepository
}

func (m *memoryUsers) WithTx(*gorm.DB) user.UserRepository { return m }

func (m *memoryUsers) Transaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (m *memoryUsers) CreateUser(_ context.Context, u *entities.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	m.byID[u.ID.String()] = *u
	m.ledger.SetUser(u.ID.String(), 0)
	return nil
}

func (m *memoryUsers) UpdateUser(_ context.Context, u *entities.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[u.ID.String()] = *u
	return nil
}

func (m *memoryUsers) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	u.Credits = m.ledger.Balance(id)
	return &u, nil
}

func (m *memoryUsers) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	m.mu.Lock()
	id := ""
	for key, u := range m.byID {
		if u.Email == email {
			id = key
		}
	}
	m.mu.Unlock()
	if id == "" {
		return nil, gorm.ErrRecordNotFound
	}
	return m.GetUserByID(ctx, id)
}

func (m *memoryUsers) GetAllUsers(context.Context, int, int) ([]*entities.User, int64, error) {
	return nil, 0, nil
}

func (m *memoryUsers) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memoryUsers) ClaimDevice(context.Context, string, uuid.UUID) (bool, error) {
	return true, nil
}

func newAuthApp(t *testing.T) *fiber.App {
	t.Helper()
	utils.InitValidator()
	utils.SetConfig("JWT_SECRET", "handler-secret")
	jwtService, err := jwt.NewJWTService()
	require.NoError(t, err)

	store := session.NewMemoryStore()
	ledger := credittest.NewMemoryRepository()
	repo := &memoryUsers{byID: map[string]entities.User{}, ledger: ledger}
	h := NewUserHandler(user.NewUserService(repo, credit.NewCreditService(ledger), jwtService, store, 25), utils.Validate)
	auth := middleware.NewMiddleware(store).AuthMiddleware(jwtService)

	app := fiber.New()
	app.Post("/users/register", h.Register)
	app.Post("/users/login", h.Login)
	app.Get("/users/me", auth, h.Me)
	app.Post("/users/logout", auth, h.Logout)
	return app
}

func doAuthed(t *testing.T, app *fiber.App, method, path, token string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestRegisterLoginLogoutFlow(t *testing.T) {
	app := newAuthApp(t)

	resp, body := do(t, app, fiber.MethodPost, "/users/register", fiber.Map{"name": "Asha", "email": "Asha@Example.com", "password": "secret123"})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, domain.MessageSuccessRegister, body["message"])
	registered := body["data"].(map[string]any)
	assert.NotEmpty(t, registered["token"])
	assert.Equal(t, "asha@example.com", registered["user"].(map[string]any)["email"])

	resp, body = do(t, app, fiber.MethodPost, "/users/register", fiber.Map{"name": "Asha", "email": "asha@example.com", "password": "secret123"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, domain.ErrEmailAlreadyExists.Error(), body["error"])

	resp, _ = do(t, app, fiber.MethodPost, "/users/register", fiber.Map{"name": "Asha", "email": "not-an-email", "password": "secret123"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, app, fiber.MethodPost, "/users/login", fiber.Map{"email": "asha@example.com", "password": "wrong-pass"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, domain.ErrInvalidCredentials.Error(), body["error"])

	resp, body = do(t, app, fiber.MethodPost, "/users/login", fiber.Map{"email": "asha@example.com", "password": "secret123"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	token := body["data"].(map[string]any)["token"].(string)

	status, body := doAuthed(t, app, fiber.MethodGet, "/users/me", token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(25), body["data"].(map[string]any)["credits"])

	status, body = doAuthed(t, app, fiber.MethodPost, "/users/logout", token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, domain.MessageSuccessLogout, body["message"])

	status, body = doAuthed(t, app, fiber.MethodGet, "/users/me", token)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, domain.ErrTokenRevoked.Error(), body["error"])
}
