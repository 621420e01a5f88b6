package auth

import (
	"context"
	"net/http"
)

type ctxUserKey struct{}

// WithUser returns ctx carrying u.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, u)
}

// FromContext returns the authenticated user, or nil for guests.
func FromContext(ctx context.Context) *User {
	u, _ := ctx.Value(ctxUserKey{}).(*User)
	return u
}

// resolve returns the user behind the request's token, if any valid one.
func (s *Service) resolve(r *http.Request) *User {
	tok := s.TokenFromRequest(r)
	if tok == "" {
		return nil
	}
	c, err := s.ParseToken(tok)
	if err != nil {
		return nil
	}
	// Ensure user still exists
	u, err := s.FindByID(r.Context(), c.ID)
	if err != nil {
		return nil
	}
	return u
}

// Optional decorates requests with the user if a valid token is present.
// It never rejects; used for routes where guests are allowed.
func (s *Service) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := s.resolve(r); u != nil {
			r = r.WithContext(WithUser(r.Context(), u))
		}
		next.ServeHTTP(w, r)
	})
}

// Require enforces a valid token and injects the user.
func (s *Service) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := s.resolve(r)
		if u == nil {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}
