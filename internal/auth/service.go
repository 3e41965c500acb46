// Package auth hashes seller credentials and issues time-limited signed
// tokens. Token payloads carry id, email and display name only.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vendora/salesdesk/internal/domain"
	"github.com/vendora/salesdesk/pkg/common"
)

// Claims is the token payload. No secrets travel in it.
type Claims struct {
	ID        int64  `json:"id,string"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	jwt.RegisteredClaims
}

type Service struct {
	sellers SellerStore
	secret  []byte
	expire  time.Duration
}

func NewService(sellers SellerStore, secret string, expire time.Duration) *Service {
	if expire <= 0 {
		expire = 24 * time.Hour
	}
	return &Service{sellers: sellers, secret: []byte(secret), expire: expire}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a seller account with a salted one-way password
// hash. Duplicate emails are rejected with ErrAlreadyRegistered.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.Seller, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.sellers.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrAlreadyRegistered
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	seller := &domain.Seller{
		ID:        common.UUIDint64(),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     email,
		Password:  string(hash),
		Status:    common.ENABLED,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sellers.Create(ctx, seller); err != nil {
		return nil, err
	}
	zap.L().Info("seller registered", zap.Int64("id", seller.ID), zap.String("email", seller.Email))
	return seller, nil
}

// Authenticate verifies the credentials and returns a signed bearer
// token. An unknown email is ErrNotFound; a wrong password is
// ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	seller, err := s.sellers.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(seller.Password), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	if err := s.sellers.TouchLastLogin(ctx, seller.ID, time.Now()); err != nil {
		zap.L().Warn("failed to record last login", zap.Int64("id", seller.ID), zap.Error(err))
	}
	return s.issueToken(seller)
}

func (s *Service) issueToken(seller *domain.Seller) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:        seller.ID,
		Email:     seller.Email,
		FirstName: seller.FirstName,
		LastName:  seller.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expire)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a bearer token, returning its claims.
// Missing, expired or malformed tokens are all ErrInvalidToken.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, domain.ErrInvalidToken
	}
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// GetSeller loads the seller behind a set of verified claims.
func (s *Service) GetSeller(ctx context.Context, id int64) (*domain.Seller, error) {
	return s.sellers.GetByID(ctx, id)
}
