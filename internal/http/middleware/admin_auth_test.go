package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signAdminToken(t *testing.T, secret, subject, scope string, method jwt.SigningMethod) string {
	t.Helper()
	claims := AdminClaims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAdminJWT(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		header string
		want   int
	}{
		{"disabled", "", "Bearer x", http.StatusUnauthorized},
		{"missing header", "secret", "", http.StatusUnauthorized},
		{"wrong scheme", "secret", "Basic abc", http.StatusUnauthorized},
		{"wrong secret", "secret", "Bearer " + signAdminToken(t, "other", "ops", AdminScope, jwt.SigningMethodHS256), http.StatusUnauthorized},
		{"disallowed alg", "secret", "Bearer " + signAdminToken(t, "secret", "ops", AdminScope, jwt.SigningMethodHS512), http.StatusUnauthorized},
		{"no subject", "secret", "Bearer " + signAdminToken(t, "secret", "", AdminScope, jwt.SigningMethodHS256), http.StatusUnauthorized},
		{"missing scope", "secret", "Bearer " + signAdminToken(t, "secret", "ops", "bills:read", jwt.SigningMethodHS256), http.StatusForbidden},
		{"valid", "secret", "Bearer " + signAdminToken(t, "secret", "ops", "bills:read audit:admin", jwt.SigningMethodHS256), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/audit", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			AdminJWT(tt.secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				claims, ok := AdminClaimsFromContext(r.Context())
				if !ok || claims.Subject != "ops" {
					t.Errorf("expected admin claims for ops, got %+v ok=%v", claims, ok)
				}
				w.WriteHeader(http.StatusOK)
			})).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}
}
