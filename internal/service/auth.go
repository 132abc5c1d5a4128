package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vietanh2810/canteen-qr-api/internal/domain"
	"github.com/vietanh2810/canteen-qr-api/internal/pkg/jwthelper"
	"github.com/vietanh2810/canteen-qr-api/internal/repository"
)

var (
	ErrNotApproved         = errors.New("this email is not approved for registration")
	ErrUserEmailExists     = repository.ErrUserEmailExists
	ErrUsernameExists      = repository.ErrUsernameExists
	ErrWrongPassword       = errors.New("wrong password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUsernameRequired    = errors.New("a username is required to create the account")
)

const publicIDAttempts = 3

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	SetStaff(ctx context.Context, id uint, isStaff bool) error
}

type AuthAllowlist interface {
	Create(ctx context.Context, entry domain.AllowedEmail) (domain.AllowedEmail, error)
	IsAllowed(ctx context.Context, email string) (bool, error)
}

// RefreshSessionStore tracks live refresh tokens so they can be rotated.
type RefreshSessionStore interface {
	Save(ctx context.Context, jti string, userID uint, ttl time.Duration) error
	Consume(ctx context.Context, jti string, userID uint) (bool, error)
}

type TokenConfig struct {
	SigningKey []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type AuthService struct {
	repo      AuthUserRepository
	allowlist AuthAllowlist
	sessions  RefreshSessionStore
	tokens    TokenConfig
	now       func() time.Time
}

// NewAuthService builds the service. sessions may be nil, in which case
// refresh tokens are not tracked and stay usable until they expire.
func NewAuthService(repo AuthUserRepository, allowlist AuthAllowlist, tokens TokenConfig, sessions RefreshSessionStore) *AuthService {
	return &AuthService{
		repo:      repo,
		allowlist: allowlist,
		sessions:  sessions,
		tokens:    tokens,
		now:       time.Now,
	}
}

// Register creates a regular account. The email must be on the allow-list;
// the password is checked only after the address and username are known to
// be free.
func (s *AuthService) Register(ctx context.Context, user domain.User) (domain.User, error) {
	user.Email = strings.TrimSpace(user.Email)

	allowed, err := s.allowlist.IsAllowed(ctx, user.Email)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.allowlist.IsAllowed -> %w", err)
	}
	if !allowed {
		return domain.User{}, ErrNotApproved
	}

	if err := s.checkEmailExists(ctx, user.Email); err != nil {
		return domain.User{}, err
	}
	if err := s.checkUsernameExists(ctx, user.Username); err != nil {
		return domain.User{}, err
	}

	if err := ValidatePassword(user.Password, user.Username); err != nil {
		return domain.User{}, err
	}

	user.IsStaff = false

	return s.create(ctx, user)
}

// Login accepts either the username or the email address as identifier.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (domain.User, TokenPair, error) {
	user, err := s.repo.FindByUsername(ctx, identifier)
	if errors.Is(err, repository.ErrUserNotFound) && strings.Contains(identifier, "@") {
		user, err = s.repo.FindByEmail(ctx, strings.TrimSpace(identifier))
	}
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, TokenPair{}, ErrUserNotFound
		}

		return domain.User{}, TokenPair{}, fmt.Errorf("s.repo.FindByUsername -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, TokenPair{}, ErrWrongPassword
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return domain.User{}, TokenPair{}, err
	}

	return user, pair, nil
}

// Refresh exchanges a refresh token for a new pair. With a session store the
// old refresh token is consumed and cannot be used again.
func (s *AuthService) Refresh(ctx context.Context, raw string) (TokenPair, error) {
	claims, err := jwthelper.ParseToken(s.tokens.SigningKey, raw, jwthelper.TokenTypeRefresh)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	if s.sessions != nil {
		ok, err := s.sessions.Consume(ctx, claims.ID, claims.UserID)
		if err != nil {
			return TokenPair{}, fmt.Errorf("s.sessions.Consume -> %w", err)
		}
		if !ok {
			return TokenPair{}, ErrInvalidRefreshToken
		}
	}

	if _, err := s.repo.FindByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return TokenPair{}, ErrInvalidRefreshToken
		}

		return TokenPair{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return s.issueTokens(ctx, claims.UserID)
}

// VerifyAccessToken returns the user id carried by a valid access token.
func (s *AuthService) VerifyAccessToken(raw string) (uint, error) {
	claims, err := jwthelper.ParseToken(s.tokens.SigningKey, raw, jwthelper.TokenTypeAccess)
	if err != nil {
		return 0, err
	}

	return claims.UserID, nil
}

// EnsureAdmin allow-lists the email and gives staff rights to its account,
// creating the account when it does not exist yet. It reports whether a new
// account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, user domain.User) (domain.User, bool, error) {
	user.Email = strings.TrimSpace(user.Email)

	_, err := s.allowlist.Create(ctx, domain.AllowedEmail{Email: user.Email, Note: "admin"})
	if err != nil && !errors.Is(err, repository.ErrAllowedEmailExists) {
		return domain.User{}, false, fmt.Errorf("s.allowlist.Create -> %w", err)
	}

	existing, err := s.repo.FindByEmail(ctx, user.Email)
	if err == nil {
		if err := s.repo.SetStaff(ctx, existing.ID, true); err != nil {
			return domain.User{}, false, fmt.Errorf("s.repo.SetStaff -> %w", err)
		}
		existing.IsStaff = true

		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return domain.User{}, false, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if user.Username == "" {
		return domain.User{}, false, ErrUsernameRequired
	}
	if err := s.checkUsernameExists(ctx, user.Username); err != nil {
		return domain.User{}, false, err
	}
	if err := ValidatePassword(user.Password, user.Username); err != nil {
		return domain.User{}, false, err
	}

	user.IsStaff = true
	created, err := s.create(ctx, user)
	if err != nil {
		return domain.User{}, false, err
	}

	return created, true, nil
}

func (s *AuthService) create(ctx context.Context, user domain.User) (domain.User, error) {
	hashedPassword, err := hashPassword(user.Password)
	if err != nil {
		return domain.User{}, err
	}
	user.Password = hashedPassword

	for attempt := 1; ; attempt++ {
		user.PublicID = uuid.New()

		created, err := s.repo.Create(ctx, user)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, repository.ErrUserPublicIDExists) || attempt == publicIDAttempts {
			return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
		}
	}
}

func (s *AuthService) issueTokens(ctx context.Context, userID uint) (TokenPair, error) {
	now := s.now()

	access, _, err := jwthelper.GenerateToken(s.tokens.SigningKey, userID, jwthelper.TokenTypeAccess, s.tokens.AccessTTL, now)
	if err != nil {
		return TokenPair{}, fmt.Errorf("jwthelper.GenerateToken -> %w", err)
	}

	refresh, claims, err := jwthelper.GenerateToken(s.tokens.SigningKey, userID, jwthelper.TokenTypeRefresh, s.tokens.RefreshTTL, now)
	if err != nil {
		return TokenPair{}, fmt.Errorf("jwthelper.GenerateToken -> %w", err)
	}

	if s.sessions != nil {
		if err := s.sessions.Save(ctx, claims.ID, userID, s.tokens.RefreshTTL); err != nil {
			return TokenPair{}, fmt.Errorf("s.sessions.Save -> %w", err)
		}
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}
	return string(hash), nil
}

func (s *AuthService) checkEmailExists(ctx context.Context, email string) error {
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return ErrUserEmailExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}
	return nil
}

func (s *AuthService) checkUsernameExists(ctx context.Context, username string) error {
	_, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return ErrUsernameExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("s.repo.FindByUsername -> %w", err)
	}
	return nil
}
