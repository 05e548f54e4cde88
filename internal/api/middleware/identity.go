package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/caredispatch/backend/internal/domain/entities"
)

type contextKey string

const principalKey contextKey = "principal"

// Trusted identity headers set by the upstream auth gateway. The gateway
// strips these from inbound traffic, so their presence is authoritative.
const (
	headerUserID     = "X-User-ID"
	headerUserName   = "X-User-Name"
	headerUserRole   = "X-User-Role"
	headerVerified   = "X-User-Verified"
	headerFacilityID = "X-Facility-ID"
)

// IdentityMiddleware reads the trusted identity headers into a Principal
// and attaches it to the request context. Requests without identity pass
// through with an empty principal; handlers decide what requires one.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := entities.Principal{
			UserID: r.Header.Get(headerUserID),
			Name:   r.Header.Get(headerUserName),
			Role:   r.Header.Get(headerUserRole),
		}

		if verified, err := strconv.ParseBool(r.Header.Get(headerVerified)); err == nil {
			principal.Verified = verified
		}
		if facilityID, err := strconv.ParseInt(r.Header.Get(headerFacilityID), 10, 64); err == nil {
			principal.FacilityID = facilityID
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PrincipalFromContext returns the principal attached by IdentityMiddleware.
func PrincipalFromContext(ctx context.Context) entities.Principal {
	if principal, ok := ctx.Value(principalKey).(entities.Principal); ok {
		return principal
	}
	return entities.Principal{}
}
