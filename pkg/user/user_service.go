package user

import (
	"context"
	"errors"
	"strings"
	"time"
	"veronikaextra-backend/domain"
	"veronikaextra-backend/entities"
	"veronikaextra-backend/pkg/credit"
	"veronikaextra-backend/pkg/jwt"
	"veronikaextra-backend/pkg/session"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
		Me(ctx context.Context, userID string) (*domain.UserProfile, error)
		Logout(ctx context.Context, token string) error
		GetAllUsers(ctx context.Context, page, limit int) ([]*domain.UserProfile, int64, error)
		DeleteUser(ctx context.Context, adminID, targetID string) error
		EnsureAdmin(ctx context.Context, email, password string) error
	}

	userService struct {
		userRepository UserRepository
		creditService  credit.CreditService
		jwtService     jwt.JWTService
		sessionStore   session.Store
		initialCredits int
	}
)

func NewUserService(
	userRepository UserRepository,
	creditService credit.CreditService,
	jwtService jwt.JWTService,
	sessionStore session.Store,
	initialCredits int,
) UserService {
	return &userService{
		userRepository: userRepository,
		creditService:  creditService,
		jwtService:     jwtService,
		sessionStore:   sessionStore,
		initialCredits: initialCredits,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toProfile(user *entities.User) *domain.UserProfile {
	return &domain.UserProfile{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Credits:   user.Credits,
		IsAdmin:   user.IsAdmin,
		Country:   user.Country,
		CreatedAt: user.CreatedAt,
	}
}

func (s *userService) issue(user *entities.User) (*domain.AuthResponse, error) {
	role := domain.RoleUser
	if user.IsAdmin {
		role = domain.RoleAdmin
	}
	token, err := s.jwtService.GenerateTokenUser(user.ID.String(), role)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResponse{
		User:  *toProfile(user),
		Token: token,
	}, nil
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	_, err := s.userRepository.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	country := strings.TrimSpace(req.Country)
	if country == "" {
		country = domain.DefaultCountry
	}

	user := &entities.User{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: string(hashed),
		Country:  country,
		DeviceID: strings.TrimSpace(req.DeviceID),
	}

	err = s.userRepository.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.userRepository.WithTx(tx)
		if err := repo.CreateUser(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrEmailAlreadyExists
			}
			return err
		}

		starting := s.initialCredits
		if user.DeviceID != "" {
			claimed, err := repo.ClaimDevice(ctx, user.DeviceID, user.ID)
			if err != nil {
				return err
			}
			if !claimed {
				log.Warnf("device %s already claimed free credits, starting user %s at 0", user.DeviceID, user.ID)
				starting = 0
			}
		}

		if starting > 0 {
			balance, err := s.creditService.WithTx(tx).Signup(ctx, user.ID.String(), starting)
			if err != nil {
				return err
			}
			user.Credits = balance
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.issue(user)
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *userService) Me(ctx context.Context, userID string) (*domain.UserProfile, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return toProfile(user), nil
}

func (s *userService) Logout(ctx context.Context, token string) error {
	expiry, err := s.jwtService.GetExpiryByToken(token)
	if err != nil {
		return err
	}
	return s.sessionStore.Revoke(ctx, token, time.Until(expiry))
}

func (s *userService) GetAllUsers(ctx context.Context, page, limit int) ([]*domain.UserProfile, int64, error) {
	users, count, err := s.userRepository.GetAllUsers(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.UserProfile, 0, len(users))
	for _, user := range users {
		result = append(result, toProfile(user))
	}
	return result, count, nil
}

func (s *userService) DeleteUser(ctx context.Context, adminID, targetID string) error {
	if adminID == targetID {
		return domain.ErrCannotDeleteSelf
	}
	if _, err := uuid.Parse(targetID); err != nil {
		return domain.ErrUserNotFound
	}

	// revoke first so a failed revocation leaves the account intact
	if err := s.sessionStore.RevokeUser(ctx, targetID, s.jwtService.TTL()); err != nil {
		return err
	}
	if err := s.userRepository.DeleteUser(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *userService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		log.Warn("admin credentials not configured, skipping admin seed")
		return nil
	}

	admin, err := s.userRepository.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if admin == nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		log.Infof("seeding admin account %s", email)
		return s.userRepository.CreateUser(ctx, &entities.User{
			ID:       uuid.New(),
			Name:     "Admin",
			Email:    email,
			Password: string(hashed),
			Credits:  domain.AdminInitialCredit,
			IsAdmin:  true,
			Country:  domain.DefaultCountry,
		})
	}

	updated := false
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)) != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin.Password = string(hashed)
		updated = true
	}
	if !admin.IsAdmin {
		admin.IsAdmin = true
		updated = true
	}
	if !updated {
		return nil
	}
	log.Infof("repairing admin account %s", email)
	return s.userRepository.UpdateUser(ctx, admin)
}
