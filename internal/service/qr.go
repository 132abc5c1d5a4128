package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vietanh2810/canteen-qr-api/internal/domain"
	"github.com/vietanh2810/canteen-qr-api/internal/repository"
)

var (
	ErrQRTokenNotFound = repository.ErrQRTokenNotFound
	ErrQRTokenExpired  = errors.New("QR token expired")
	ErrQRBadFormat     = errors.New("invalid QR payload format")
)

const tokenAttempts = 3

type QRTokenRepository interface {
	Create(ctx context.Context, token domain.QRToken) (domain.QRToken, error)
	FindByToken(ctx context.Context, token string) (domain.QRToken, error)
}

// TTLSource supplies the lifetime of new tokens. It is read on every issue
// so configuration reloads apply to the next token.
type TTLSource interface {
	TTL() time.Duration
}

type QRService struct {
	repo QRTokenRepository
	ttl  TTLSource
	now  func() time.Time
}

func NewQRService(repo QRTokenRepository, ttl TTLSource) *QRService {
	return &QRService{
		repo: repo,
		ttl:  ttl,
		now:  time.Now,
	}
}

// Issue creates a fresh token for user. Earlier tokens of the same user are
// left untouched and stay valid until they expire.
func (s *QRService) Issue(ctx context.Context, user domain.User) (domain.QRToken, error) {
	now := s.now()

	for attempt := 1; ; attempt++ {
		created, err := s.repo.Create(ctx, domain.QRToken{
			UserID:    user.ID,
			User:      user,
			Token:     newTokenValue(),
			CreatedAt: now,
			ExpiresAt: now.Add(s.ttl.TTL()),
		})
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, repository.ErrQRTokenExists) || attempt == tokenAttempts {
			return domain.QRToken{}, fmt.Errorf("s.repo.Create -> %w", err)
		}
	}
}

// Validate looks up a raw token (without the QR prefix). Tokens are not
// consumed: a valid token can be validated any number of times.
func (s *QRService) Validate(ctx context.Context, raw string) (domain.QRToken, error) {
	return checkToken(ctx, s.repo, raw, s.now())
}

type qrTokenFinder interface {
	FindByToken(ctx context.Context, token string) (domain.QRToken, error)
}

func checkToken(ctx context.Context, repo qrTokenFinder, raw string, now time.Time) (domain.QRToken, error) {
	if raw == "" {
		return domain.QRToken{}, ErrQRTokenNotFound
	}

	token, err := repo.FindByToken(ctx, raw)
	if err != nil {
		if errors.Is(err, repository.ErrQRTokenNotFound) {
			return domain.QRToken{}, ErrQRTokenNotFound
		}

		return domain.QRToken{}, fmt.Errorf("repo.FindByToken -> %w", err)
	}

	if !token.IsValidAt(now) {
		return domain.QRToken{}, ErrQRTokenExpired
	}

	return token, nil
}

// newTokenValue returns 32 lowercase hex characters of random data.
func newTokenValue() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
