package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"ai-blueprint-be/internal/config"
	"ai-blueprint-be/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrGateDisabled signals that no access code is configured, so
	// there is nothing to unlock.
	ErrGateDisabled = errors.New("access gate is disabled")

	// ErrInvalidAccessCode signals a failed unlock attempt.
	ErrInvalidAccessCode = errors.New("invalid access code")
)

type IGateService interface {
	// Enabled reports whether an access code is configured at all.
	Enabled() bool
	Unlock(ctx context.Context, request *dto.UnlockRequest) (*dto.UnlockResponse, error)
}

type gateService struct {
	cfg config.GateConfig
}

func NewGateService(cfg config.GateConfig) IGateService {
	return &gateService{cfg: cfg}
}

func (s *gateService) Enabled() bool {
	return s.cfg.AccessCode != "" || s.cfg.AccessCodeHash != ""
}

func (s *gateService) Unlock(ctx context.Context, request *dto.UnlockRequest) (*dto.UnlockResponse, error) {
	// 1. Nothing to unlock when the gate is off
	if !s.Enabled() {
		return nil, ErrGateDisabled
	}

	// 2. Verify the code. A bcrypt hash is preferred; the plain-text
	// variant compares in constant time.
	if s.cfg.AccessCodeHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AccessCodeHash), []byte(request.AccessCode)); err != nil {
			return nil, ErrInvalidAccessCode
		}
	} else {
		if subtle.ConstantTimeCompare([]byte(s.cfg.AccessCode), []byte(request.AccessCode)) != 1 {
			return nil, ErrInvalidAccessCode
		}
	}

	// 3. Generate JWT
	expiresAt := time.Now().Add(time.Duration(s.cfg.TokenTTLHours) * time.Hour)

	claims := jwt.MapClaims{
		"sub": "gate",
		"exp": expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.cfg.TokenSecret))
	if err != nil {
		return nil, err
	}

	return &dto.UnlockResponse{
		AccessToken: signedToken,
		ExpiresAt:   expiresAt,
	}, nil
}
