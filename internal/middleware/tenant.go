// Package middleware provides HTTP boundary middleware: tenant resolution,
// rate limiting, and idempotent response replay.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pulsefeed/pulsefeed/internal/domain/tenant"
)

const headerTenantID = "X-Tenant-ID"

type tenantCtxKey struct{}

// RequireTenant extracts the tenant ID from the X-Tenant-ID header, rejects
// requests for tenants outside the catalog, and stores the ID in the request
// context. There is no default tenant: an absent header is a client error.
func RequireTenant(cat *tenant.Catalog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tid := r.Header.Get(headerTenantID)
			if tid == "" {
				writeJSONError(w, http.StatusBadRequest, headerTenantID+" header is required")
				return
			}
			if !cat.IsValid(tid) {
				writeJSONError(w, http.StatusNotFound, "unknown tenant")
				return
			}
			ctx := context.WithValue(r.Context(), tenantCtxKey{}, tid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TenantFromContext returns the tenant ID stored in ctx, or "" if absent.
func TenantFromContext(ctx context.Context) string {
	tid, _ := ctx.Value(tenantCtxKey{}).(string)
	return tid
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
