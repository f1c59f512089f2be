package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/georgemunganga/marketplace-backend/internal/common"
	"github.com/georgemunganga/marketplace-backend/internal/httpx"
	"github.com/google/uuid"
)

type ctxKey string

const actorKey ctxKey = "actor"

// Authenticate rejects requests without a valid bearer token and stores the
// token's user id for handlers. Handlers read it with ActorFromContext and
// pass it explicitly to services.
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httpx.Error(w, common.ErrUnauthorized)
				return
			}

			userID, err := ParseToken(token, secret)
			if err != nil {
				httpx.Error(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext returns the authenticated user id set by Authenticate.
func ActorFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(actorKey).(uuid.UUID)
	return id, ok
}
