package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/api/idtoken"

	"github.com/funchapp/funch-server/internal/config"
)

// UserEmailKey is the gin context key carrying the authenticated account.
const UserEmailKey = "user_email"

// validateFunc matches idtoken.Validate; injectable for tests.
type validateFunc func(ctx context.Context, token string, audience string) (*idtoken.Payload, error)

type cachedIdentity struct {
	email     string
	expiresAt time.Time
}

// Authenticator verifies Google ID tokens and restricts access to the
// configured account allow-list. Verified tokens are cached until their
// expiry to avoid a certificate round-trip per request.
type Authenticator struct {
	audience string
	allowed  map[string]struct{}
	validate validateFunc
	logger   *zap.Logger

	mu    sync.RWMutex
	cache map[string]cachedIdentity
}

// NewAuthenticator builds the auth middleware state from configuration.
func NewAuthenticator(cfg config.AuthConfig, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}

	allowed := make(map[string]struct{}, len(cfg.AllowedEmails))
	for _, email := range cfg.AllowedEmails {
		allowed[strings.ToLower(email)] = struct{}{}
	}

	return &Authenticator{
		audience: cfg.GoogleClientID,
		allowed:  allowed,
		validate: idtoken.Validate,
		logger:   logger,
		cache:    make(map[string]cachedIdentity),
	}
}

// Middleware returns the gin handler enforcing authentication.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		email, err := a.identify(c.Request.Context(), token)
		if err != nil {
			a.logger.Warn("token verification failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if _, ok := a.allowed[strings.ToLower(email)]; !ok {
			a.logger.Warn("account not on allow-list", zap.String("email", email))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account not permitted"})
			return
		}

		c.Set(UserEmailKey, email)
		c.Next()
	}
}

func (a *Authenticator) identify(ctx context.Context, token string) (string, error) {
	a.mu.RLock()
	cached, ok := a.cache[token]
	a.mu.RUnlock()
	if ok && time.Now().Before(cached.expiresAt) {
		return cached.email, nil
	}

	payload, err := a.validate(ctx, token, a.audience)
	if err != nil {
		return "", err
	}

	email, _ := payload.Claims["email"].(string)
	expiresAt := time.Unix(payload.Expires, 0)

	a.mu.Lock()
	a.cache[token] = cachedIdentity{email: email, expiresAt: expiresAt}
	// Drop stale entries opportunistically; the cache only ever holds
	// tokens of the handful of permitted admins.
	for key, entry := range a.cache {
		if time.Now().After(entry.expiresAt) {
			delete(a.cache, key)
		}
	}
	a.mu.Unlock()

	return email, nil
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}
