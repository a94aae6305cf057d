package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kwybro/guilloteam/internal/application/ports"
)

// APIKeyValidator validates the bearer API key and sets the user in context
// (see AuthFromContext).
type APIKeyValidator struct {
	identity ports.IdentityProvider
}

func NewAPIKeyValidator(identity ports.IdentityProvider) *APIKeyValidator {
	return &APIKeyValidator{identity: identity}
}

func (m *APIKeyValidator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			writeAuthErr(w, "missing or invalid authorization")
			return
		}
		key := strings.TrimPrefix(auth, "Bearer ")
		userID, err := m.identity.VerifyCredential(r.Context(), key)
		if err != nil {
			writeAuthErr(w, "invalid credential")
			return
		}
		ctx := WithAuth(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeAuthErr(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": "unauthorized"})
}
