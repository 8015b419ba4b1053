package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shahwaizSattar/mern-blog/internal/utils"
)

type contextKey string

const UserIDKey contextKey = "userID"

// TokenVerifier validates a bearer token and returns the subject user id.
type TokenVerifier interface {
	Verify(tokenString string) (string, error)
}

type Middleware struct {
	tokens TokenVerifier
}

func New(tokens TokenVerifier) *Middleware {
	return &Middleware{tokens: tokens}
}

// RequireAuth rejects requests without a valid `Authorization: Bearer <token>`
// header and puts the verified user id on the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			utils.JSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		userID, err := m.tokens.Verify(tokenStr)
		if err != nil {
			utils.JSONError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated user id attached by RequireAuth.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}
