// Package auth provides the HTTP middleware guarding protected routes. It
// extracts the bearer token from the Authorization header, verifies it, and
// injects the authenticated user's id into the request context.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dkolesni/itemstash/internal/models"
)

// tokenVerifier validates a bearer token and yields the embedded user id.
type tokenVerifier interface {
	Verify(tokenString string) (string, error)
}

// ContextKey is a custom type for storing values in context to avoid collisions.
type ContextKey string

// UserIDKey is the context key used to store and retrieve the authenticated
// user's ID.
const UserIDKey ContextKey = "userID"

// bearerPrefix is the required Authorization header scheme.
const bearerPrefix = "Bearer "

// Auth authenticates incoming requests with signed bearer tokens.
type Auth struct {
	tokens tokenVerifier
}

// New creates the middleware around the given token verifier.
func New(tokens tokenVerifier) *Auth {
	return &Auth{tokens: tokens}
}

// Authenticate rejects requests without a valid bearer token and passes the
// rest through with the user id bound into the request context. Verification
// is CPU-bound only; no storage is consulted here.
func (a *Auth) Authenticate(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		header := request.Header.Get("Authorization")
		if header == "" {
			writeUnauthorized(response, "Unauthorized")

			return
		}

		tokenString := strings.TrimPrefix(header, bearerPrefix)
		userID, err := a.tokens.Verify(tokenString)
		if err != nil {
			writeUnauthorized(response, "Invalid token")

			return
		}

		ctx := context.WithValue(request.Context(), UserIDKey, userID)
		h.ServeHTTP(response, request.WithContext(ctx))
	}

	return http.HandlerFunc(middleware)
}

// UserIDFromContext returns the authenticated user id placed into ctx by
// Authenticate.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)

	return userID, ok && userID != ""
}

func writeUnauthorized(response http.ResponseWriter, message string) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(response).Encode(models.ErrorResponse{Error: message})
}
