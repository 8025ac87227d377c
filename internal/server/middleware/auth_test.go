package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/api/idtoken"

	"github.com/funchapp/funch-server/internal/config"
)

func newTestAuthenticator(validate validateFunc) *Authenticator {
	auth := NewAuthenticator(config.AuthConfig{
		GoogleClientID: "client-id",
		AllowedEmails:  []string{"Kitchen-Admin@example.co.jp"},
	}, nil)
	auth.validate = validate
	return auth
}

func serve(auth *Authenticator, header string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", auth.Middleware(), func(c *gin.Context) {
		email := c.GetString(UserEmailKey)
		c.JSON(http.StatusOK, gin.H{"email": email})
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func payloadFor(email string) *idtoken.Payload {
	return &idtoken.Payload{
		Claims:  map[string]interface{}{"email": email},
		Expires: time.Now().Add(time.Hour).Unix(),
	}
}

func TestMiddleware_MissingToken(t *testing.T) {
	auth := newTestAuthenticator(func(context.Context, string, string) (*idtoken.Payload, error) {
		t.Fatal("validator should not run without a token")
		return nil, nil
	})

	for _, header := range []string{"", "Basic abc", "Bearer "} {
		if w := serve(auth, header); w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, w.Code)
		}
	}
}

func TestMiddleware_InvalidToken(t *testing.T) {
	auth := newTestAuthenticator(func(context.Context, string, string) (*idtoken.Payload, error) {
		return nil, errors.New("signature mismatch")
	})

	if w := serve(auth, "Bearer bad-token"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestMiddleware_AccountNotPermitted(t *testing.T) {
	auth := newTestAuthenticator(func(context.Context, string, string) (*idtoken.Payload, error) {
		return payloadFor("stranger@example.com"), nil
	})

	if w := serve(auth, "Bearer some-token"); w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestMiddleware_AllowedAccountCaseInsensitive(t *testing.T) {
	var calls int
	auth := newTestAuthenticator(func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		calls++
		if audience != "client-id" {
			t.Errorf("audience = %q, want client-id", audience)
		}
		return payloadFor("kitchen-admin@example.co.jp"), nil
	})

	if w := serve(auth, "Bearer good-token"); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	// Second request with the same token hits the cache.
	if w := serve(auth, "Bearer good-token"); w.Code != http.StatusOK {
		t.Fatalf("cached request status = %d, want 200", w.Code)
	}
	if calls != 1 {
		t.Errorf("validator calls = %d, want 1", calls)
	}
}
