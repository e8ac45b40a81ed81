package middleware

import (
	"context"
	"net/http"
	"staybook/pkg/model"
	"strings"
)

const CallerKey contextKey = "caller"

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// CallerIdentity reads the authenticated user's id and role from the headers
// set by the upstream gateway and places them on the request context.
// Requests without identity headers pass through as an anonymous caller;
// authorization decisions belong to the services, not here.
func CallerIdentity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := model.Caller{
				UserID: strings.TrimSpace(r.Header.Get(HeaderUserID)),
				Role:   normalizeRole(r.Header.Get(HeaderUserRole)),
			}

			ctx := context.WithValue(r.Context(), CallerKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func normalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case model.RoleAdmin:
		return model.RoleAdmin
	case model.RoleHost:
		return model.RoleHost
	default:
		return model.RoleGuest
	}
}

// CallerFromContext returns the caller placed by CallerIdentity. The zero
// Caller is returned for requests that never passed through the middleware.
func CallerFromContext(ctx context.Context) model.Caller {
	if v := ctx.Value(CallerKey); v != nil {
		if caller, ok := v.(model.Caller); ok {
			return caller
		}
	}
	return model.Caller{}
}
