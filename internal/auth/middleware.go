package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/aneeshsrinivas/academy-api/internal/models"
	"github.com/aneeshsrinivas/academy-api/internal/store"
	"github.com/aneeshsrinivas/academy-api/internal/utils"
)

type ctxKey string

const ctxUserKey ctxKey = "currentUser"

func GetUserFromCtx(ctx context.Context) *models.User {
	if u, ok := ctx.Value(ctxUserKey).(*models.User); ok {
		return u
	}
	return nil
}

// Middleware validates bearer JWT, loads the user, ensures the account is
// active, and sets the user in context.
func Middleware(s *store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if authz == "" {
				utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "missing authorization", nil, nil)
				return
			}
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "invalid authorization header", nil, nil)
				return
			}
			claims, err := ParseAndValidateToken(s.Cfg, parts[1])
			if err != nil {
				utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "invalid token", nil, nil)
				return
			}
			u, err := s.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "user not found", nil, nil)
				return
			}
			if !u.Active {
				utils.WriteJSONResponse(w, http.StatusForbidden, false, "account disabled", nil, nil)
				return
			}
			ctx := context.WithValue(r.Context(), ctxUserKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RoleMiddleware allows multiple allowed roles; usage: RoleMiddleware("admin","coach")
func RoleMiddleware(allowedRoles ...models.Role) func(http.Handler) http.Handler {
	set := map[models.Role]struct{}{}
	for _, r := range allowedRoles {
		set[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := GetUserFromCtx(r.Context())
			if u == nil {
				utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "unauthorized", nil, nil)
				return
			}
			if _, ok := set[u.Role]; !ok {
				utils.WriteJSONResponse(w, http.StatusForbidden, false, "forbidden", nil, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
