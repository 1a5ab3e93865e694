package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"veronikaextra-backend/domain"
	"veronikaextra-backend/internal/utils"

	"github.com/golang-jwt/jwt/v4"
)

const issuer = "VERONIKAextra"

type (
	JWTService interface {
		GenerateTokenUser(userId string, role string) (string, error)
		ValidateTokenUser(token string) (*jwt.Token, error)
		GetUserIDByToken(token string) (string, string, error)
		GetExpiryByToken(token string) (time.Time, error)
		TTL() time.Duration
	}

	jwtUserClaim struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
		ttl       time.Duration
	}
)

// NewJWTService refuses to start without a signing secret.
func NewJWTService() (JWTService, error) {
	secret := utils.GetConfig("JWT_SECRET")
	if strings.TrimSpace(secret) == "" {
		return nil, domain.ErrMissingSecret
	}
	return newJWTService(
		secret,
		time.Duration(utils.GetConfigInt("TOKEN_TTL_MINUTES"))*time.Minute,
	), nil
}

func newJWTService(secretKey string, ttl time.Duration) *jwtService {
	return &jwtService{
		secretKey: secretKey,
		issuer:    issuer,
		ttl:       ttl,
	}
}

func (j *jwtService) TTL() time.Duration {
	return j.ttl
}

func (j *jwtService) GenerateTokenUser(userId string, role string) (string, error) {
	now := time.Now()
	claims := jwtUserClaim{
		userId,
		role,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			// unique per token so a logout never revokes a sibling session
			ID: fmt.Sprintf("%s-%d", userId, now.UnixNano()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateTokenUser(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtUserClaim{}, j.parseToken)
}

func (j *jwtService) claims(token string) (*jwtUserClaim, error) {
	t_Token, err := j.ValidateTokenUser(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := t_Token.Claims.(*jwtUserClaim)
	if !ok || claims.Issuer != j.issuer {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

func (j *jwtService) GetUserIDByToken(token string) (string, string, error) {
	claims, err := j.claims(token)
	if err != nil {
		return "", "", err
	}
	return claims.UserID, claims.Role, nil
}

func (j *jwtService) GetExpiryByToken(token string) (time.Time, error) {
	claims, err := j.claims(token)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Now().Add(j.ttl), nil
	}
	return claims.ExpiresAt.Time, nil
}
