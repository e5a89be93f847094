// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/admissions/internal/config"
	"github.com/tomtom215/admissions/internal/logging"
)

type contextKey string

const claimsContextKey contextKey = "claims"

var (
	errMissingToken = errors.New("unauthorized: missing token")
	errBadHeader    = errors.New("unauthorized: invalid authorization header")
)

// ErrorWriter writes an error response. The api package passes its
// envelope writer so auth failures look like every other API error.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, status int, code, message string)

func plainError(w http.ResponseWriter, _ *http.Request, status int, _ string, message string) {
	http.Error(w, message, status)
}

// Middleware authenticates requests according to the configured mode.
type Middleware struct {
	jwtManager *JWTManager
	authMode   string
	onError    ErrorWriter
}

// NewMiddleware creates the authentication middleware. jwtManager may be
// nil when authMode is "none". A nil onError falls back to http.Error.
func NewMiddleware(jwtManager *JWTManager, authMode string, onError ErrorWriter) *Middleware {
	if onError == nil {
		onError = plainError
	}
	return &Middleware{
		jwtManager: jwtManager,
		authMode:   authMode,
		onError:    onError,
	}
}

// Enabled reports whether requests are authenticated.
func (m *Middleware) Enabled() bool {
	return m.authMode == config.AuthModeJWT
}

// Authenticate rejects requests without a valid token with 401 and stores
// the claims in the request context otherwise.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractToken(r)
		if err != nil {
			m.onError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Token validation failed")
			m.onError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized: invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// extractToken reads the bearer token from the Authorization header, or
// the "token" cookie when the header is absent.
func extractToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		cookie, err := r.Cookie("token")
		if err != nil || cookie.Value == "" {
			return "", errMissingToken
		}
		return cookie.Value, nil
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" || token == "" {
		return "", errBadHeader
	}
	return token, nil
}

// ContextWithClaims returns ctx carrying claims.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext returns the authenticated caller, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok && claims != nil
}
