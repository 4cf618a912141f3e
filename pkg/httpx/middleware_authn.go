package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

// IdentityStore resolves a token subject to a live account. found is false
// when the account no longer exists.
type IdentityStore interface {
	LookupIdentity(ctx context.Context, userID string) (id Identity, found bool, err error)
}

// AuthnMiddleware guards a route with a bearer access token. The token must
// verify, and its subject must still resolve through ids; the resolved
// Identity is what downstream handlers see.
func AuthnMiddleware(v jwtx.Verifier, ids IdentityStore) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := bearerToken(r)
			if !ok {
				writeBearerError(w, CodeNoToken, "access token is required")
				return
			}

			claims, err := v.Verify(raw)
			switch {
			case err == nil:
			case errors.Is(err, jwtx.ErrExpired):
				writeBearerError(w, CodeTokenExpired, "access token has expired")
				return
			case jwtx.IsInvalid(err):
				log.Debug("jwt rejected", "err", err)
				writeBearerError(w, CodeInvalidToken, "access token is invalid")
				return
			default:
				log.Warn("jwt verify failed", "err", err)
				writeBearerError(w, CodeAuthError, "access token could not be verified")
				return
			}

			id, found, err := ids.LookupIdentity(ctx, claims.Subject)
			if err != nil {
				log.Error("identity lookup failed", "err", err)
				WriteError(w, http.StatusInternalServerError, CodeInternal, "internal server error")
				return
			}
			if !found {
				log.Warn("token subject no longer exists", "sub", claims.Subject)
				writeBearerError(w, CodeInvalidToken, "access token is invalid")
				return
			}

			ctx = WithIdentity(ctx, id)
			ctx = slogx.WithUser(ctx, id.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(authz, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RFC 6750 style challenge plus our envelope.
func writeBearerError(w http.ResponseWriter, code, desc string) {
	errParam := "invalid_token"
	if code == CodeNoToken {
		errParam = "invalid_request"
	}
	w.Header().Set("WWW-Authenticate", `Bearer error="`+errParam+`", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, code, desc)
}
