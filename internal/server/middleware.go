package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/baohm88/mycabs/internal/domain"
	"github.com/baohm88/mycabs/pkg"
)

type ctxKey string

const userCtxKey ctxKey = "user"

// Claims is what handlers see: the role string from the token is parsed into
// the closed Role set exactly once, here.
type Claims struct {
	UserID string
	Email  string
	Role   domain.Role
}

func authMiddleware(next http.Handler, secret []byte) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claim, err := getClaim(r, secret)
		if err != nil {
			errorWrite(w, http.StatusUnauthorized, err)
			return
		}
		role, err := domain.ParseRole(claim.Role)
		if err != nil {
			errorWrite(w, http.StatusUnauthorized, err)
			return
		}
		ctx := context.WithValue(r.Context(), userCtxKey, &Claims{
			UserID: claim.UserID,
			Email:  claim.Email,
			Role:   role,
		})

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getClaim(r *http.Request, secret []byte) (*pkg.MyClaims, error) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return nil, fmt.Errorf("missing Authorization header")
	}

	parts := strings.Split(auth, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, fmt.Errorf("invalid Authorization header")
	}

	return pkg.ParseTokenMyClaims(parts[1], secret)
}

func claimsFrom(r *http.Request) (*Claims, bool) {
	claim, ok := r.Context().Value(userCtxKey).(*Claims)
	return claim, ok
}
