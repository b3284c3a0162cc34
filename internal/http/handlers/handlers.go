package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/caredesk/caredesk-api/internal/http/response"
	"github.com/caredesk/caredesk-api/internal/service"
	"github.com/caredesk/caredesk-api/pkg/auth"
	"github.com/caredesk/caredesk-api/pkg/config"
	"github.com/caredesk/caredesk-api/pkg/logger"
)

type contextKey string

const claimsKey contextKey = "claims"

type Handlers struct {
	accounts      service.AccountService
	relationships service.RelationshipService
	care          service.CareService
	config        *config.Config
}

func New(
	accounts service.AccountService,
	relationships service.RelationshipService,
	care service.CareService,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		accounts:      accounts,
		relationships: relationships,
		care:          care,
		config:        cfg,
	}
}

// RequireJWT authenticates the bearer token and, when requiredRole is set,
// enforces it. Admins pass every role check.
func (h *Handlers) RequireJWT(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				response.WriteError(w, http.StatusUnauthorized, "Missing or invalid authorization header", response.CodeUnauthorized)
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := auth.Parse(token, h.config.Auth.JWTSecret)
			if err != nil {
				response.WriteError(w, http.StatusUnauthorized, "Invalid token", response.CodeInvalidToken)
				return
			}

			if requiredRole != "" && claims.Role != requiredRole && claims.Role != "ROLE_ADMIN" {
				response.WriteError(w, http.StatusForbidden, "Insufficient permissions", response.CodeForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), logger.LoginKey, claims.Login)
			ctx = context.WithValue(ctx, claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func getClaims(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(claimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}
