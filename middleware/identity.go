package middleware

import (
	"context"
	"net/http"
	"strings"
)

// UserHeader carries the caller uid set by the authenticating gateway in
// front of this service.
const UserHeader = "X-User-ID"

type ctxKey int

const (
	userKey ctxKey = iota
	requestIDKey
)

// Identity stores the caller uid from UserHeader on the request context.
// Requests without the header pass through anonymous.
func Identity(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if uid := strings.TrimSpace(r.Header.Get(UserHeader)); uid != "" {
			r = r.WithContext(WithUserID(r.Context(), uid))
		}
		next(w, r)
	}
}

func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userKey, uid)
}

// UserID returns the caller uid, or "" for anonymous requests.
func UserID(ctx context.Context) string {
	uid, _ := ctx.Value(userKey).(string)
	return uid
}
