// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package authz

import (
	"net/http"

	"github.com/tomtom215/admissions/internal/auth"
	"github.com/tomtom215/admissions/internal/logging"
)

// Middleware authorizes requests after auth.Middleware has run.
type Middleware struct {
	enforcer *Enforcer
	onError  auth.ErrorWriter
}

// NewMiddleware creates the authorization middleware. A nil onError falls
// back to http.Error.
func NewMiddleware(enforcer *Enforcer, onError auth.ErrorWriter) *Middleware {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, status int, _ string, message string) {
			http.Error(w, message, status)
		}
	}
	return &Middleware{enforcer: enforcer, onError: onError}
}

// AuthorizeRequest maps the method to an action and checks the caller's
// role against the request path.
func (m *Middleware) AuthorizeRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.ClaimsFromContext(r.Context())
		if !ok {
			m.onError(w, r, http.StatusForbidden, "FORBIDDEN", "Forbidden: no authentication context")
			return
		}

		allowed, err := m.enforcer.Enforce(claims.Role, r.URL.Path, methodToAction(r.Method))
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
			m.onError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
			return
		}
		if !allowed {
			logging.Ctx(r.Context()).Info().
				Str("user", claims.Username).
				Str("role", claims.Role).
				Str("path", r.URL.Path).
				Msg("Access denied")
			m.onError(w, r, http.StatusForbidden, "FORBIDDEN", "Forbidden: insufficient permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// methodToAction maps HTTP methods to Casbin actions.
func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ActionRead
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return ActionWrite
	case http.MethodDelete:
		return ActionDelete
	default:
		return ActionRead
	}
}
