package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"subscribe-server/internal/apierrors"
	"subscribe-server/internal/authstate"
	"subscribe-server/internal/observability"

	"github.com/gin-gonic/gin"
)

// Middleware gates each request on its authentication state. Token
// verification runs concurrently and publishes a terminal state into a
// per-request store; the request proceeds only once the gate observes
// that state, or fails when resolveTimeout elapses first.
func (v *Verifier) Middleware(resolveTimeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		store := authstate.NewStore()
		gate := authstate.NewGate(store, resolveTimeout)

		var subject string
		header := c.GetHeader("Authorization")
		go func() {
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				store.Set(authstate.StateNotAuthed)
				return
			}
			sub, err := v.ValidateToken(ctx, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				store.Set(authstate.StateNotAuthed)
				return
			}
			// The write to subject happens before the state is published.
			subject = sub
			store.Set(authstate.StateAuthed)
		}()

		state, err := gate.Await(ctx)
		if err != nil {
			if errors.Is(err, authstate.ErrAwaitTimeout) {
				ctx = observability.WithFields(ctx, observability.Field{Key: "resolve_timeout", Value: resolveTimeout})
				v.logger.Error(ctx, "auth state did not resolve in time", err)
				c.JSON(http.StatusUnauthorized, apierrors.ErrorResponse{
					Error: "Authentication state could not be resolved",
					Code:  apierrors.CodeUnauthorized,
				})
				c.Abort()
				return
			}
			// Client went away; nothing left to do.
			c.Abort()
			return
		}

		if state != authstate.StateAuthed {
			c.JSON(http.StatusUnauthorized, apierrors.ErrorResponse{
				Error: "Authorization token is missing or invalid",
				Code:  apierrors.CodeUnauthorized,
			})
			c.Abort()
			return
		}

		c.Set("User-ID", subject)
		c.Next()
	}
}
