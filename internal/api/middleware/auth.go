package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/canteen-qr-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/canteen-qr-api/internal/domain"
	"github.com/vietanh2810/canteen-qr-api/internal/pkg/jwthelper"
	"github.com/vietanh2810/canteen-qr-api/internal/service"
)

const (
	UserIDKey = "userID"
	UserKey   = "user"
)

var (
	errMissingCredentials = errors.New("authentication credentials were not provided")
	errInvalidCredentials = errors.New("given token not valid for any token type")
	errNotAdmin           = errors.New("you do not have permission to perform this action")
	errUserGone           = errors.New("user not found")
)

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT rejects requests without a valid access token and stores the
// caller's id under UserIDKey.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw := bearerToken(ctx)
		if raw == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingCredentials))
			return
		}

		if !a.authenticate(ctx, raw) {
			return
		}

		ctx.Next()
	}
}

// OptionalJWT authenticates the caller when a token is sent and lets
// anonymous requests through. A token that is sent but invalid is rejected.
func (a *Authenticator) OptionalJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw := bearerToken(ctx)
		if raw != "" && !a.authenticate(ctx, raw) {
			return
		}

		ctx.Next()
	}
}

func (a *Authenticator) authenticate(ctx *gin.Context, raw string) bool {
	claims, err := jwthelper.ParseToken(a.signingKey, raw, jwthelper.TokenTypeAccess)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(errInvalidCredentials))
		return false
	}

	ctx.Set(UserIDKey, claims.UserID)

	return true
}

func bearerToken(ctx *gin.Context) string {
	header := strings.TrimSpace(ctx.GetHeader("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}

	return strings.TrimSpace(header[7:])
}

type UserLookup interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

// RequireAdmin must run after VerifyJWT. It loads the caller and stops
// non-staff users with 403 before the handler does any work.
func RequireAdmin(users UserLookup) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetUint(UserIDKey)
		if userID == 0 {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingCredentials))
			return
		}

		user, err := users.GetUser(ctx.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				response.RenderErr(ctx, response.ErrUnauthorized(errUserGone))
				return
			}

			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}

		if !user.IsAdmin() {
			response.RenderErr(ctx, response.ErrPermissionDenied(errNotAdmin))
			return
		}

		ctx.Set(UserKey, user)
		ctx.Next()
	}
}
