package interceptors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/FACorreiaa/farmstay-api/pkg/api"
)

// Roles issued by the auth provider.
const (
	RoleAdmin           = "admin"
	RoleServiceProvider = "service_provider"
	RoleCustomer        = "customer"
)

type identityKey struct{}

// Identity is the verified caller.
type Identity struct {
	UserID string
	Roles  []string
}

// HasRole reports whether the identity carries any of roles.
func (i Identity) HasRole(roles ...string) bool {
	for _, r := range roles {
		if slices.Contains(i.Roles, r) {
			return true
		}
	}
	return false
}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity set by NewAuthInterceptor.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// GetUserIDFromContext returns the authenticated user id.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return "", false
	}
	return id.UserID, id.UserID != ""
}

var (
	errMissingToken = errors.New("missing bearer token")
	errInvalidToken = errors.New("invalid token")
)

// ParseToken verifies an HS256 token and extracts the caller identity.
func ParseToken(tokenStr string, secret []byte) (Identity, error) {
	if len(secret) == 0 {
		return Identity{}, fmt.Errorf("%w: no signing secret configured", errInvalidToken)
	}
	token, err := jwt.Parse(tokenStr, func(_ *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Identity{}, errInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", errInvalidToken)
	}
	return Identity{UserID: sub, Roles: rolesFromClaims(claims)}, nil
}

func rolesFromClaims(claims jwt.MapClaims) []string {
	var roles []string
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" && !slices.Contains(roles, s) {
			roles = append(roles, s)
		}
	}
	for _, key := range []string{"roles", "role"} {
		switch v := claims[key].(type) {
		case []interface{}:
			for _, r := range v {
				if s, ok := r.(string); ok {
					add(s)
				}
			}
		case []string:
			for _, s := range v {
				add(s)
			}
		case string:
			add(v)
		}
	}
	return roles
}

func bearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", errMissingToken
	}
	tok := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	if tok == "" {
		return "", errMissingToken
	}
	return tok, nil
}

// NewAuthInterceptor requires a valid bearer token on every request it wraps.
func NewAuthInterceptor(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, err := bearerToken(r)
			if err != nil {
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
				return
			}
			id, err := ParseToken(tok, secret)
			if err != nil {
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireRole rejects authenticated callers that carry none of roles.
// It must run after NewAuthInterceptor.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !id.HasRole(roles...) {
				api.ErrorResponse(w, r, http.StatusForbidden, "Insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
