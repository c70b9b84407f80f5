// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/policy"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from [sec.TokenService],
// allowing tests to inject fakes.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// CallerResolver loads the current identity behind verified claims.
//
// A token only proves who the bearer was when it was issued; role changes and
// account deletion take effect through the resolver on the next request.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, claims *sec.AuthClaims) (*sec.Caller, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, parse and verify the JWT via [TokenVerifier].
//  4. Resolve the stored account via [CallerResolver]; a deleted account is 401.
//  5. Inject the resolved [*sec.Caller] into the request context.
func Authenticate(verifier TokenVerifier, resolver CallerResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(parts[1])
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Current Identity ───────────────────────────────────────────
			caller, err := resolver.ResolveCaller(request.Context(), claims)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithCaller(request.Context(), caller)
			recordCaller(ctx, caller.UserID)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// Gate builds a middleware from a collection-level decision over (method, caller).
//
// Denials map to 401 for anonymous callers and 403 otherwise.
func Gate(decide func(method string, caller *sec.Caller) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			caller := ctxutil.GetCaller(request.Context())
			if err := policy.Check(decide(request.Method, caller), caller); err != nil {
				respond.Error(writer, request, err)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return Gate(func(_ string, caller *sec.Caller) bool {
		return caller.IsAuthenticated()
	})(next)
}

// RequireAdmin blocks every method for callers that are not admins or superusers.
func RequireAdmin(next http.Handler) http.Handler {
	return Gate(func(_ string, caller *sec.Caller) bool {
		return policy.AdminOnly(caller)
	})(next)
}

// AdminOrReadOnly lets safe methods through and requires an admin otherwise.
func AdminOrReadOnly(next http.Handler) http.Handler {
	return Gate(policy.AdminOrReadOnly)(next)
}

// AuthenticatedOrReadOnly lets safe methods through and requires an
// authenticated caller otherwise. Ownership is checked later, per object.
func AuthenticatedOrReadOnly(next http.Handler) http.Handler {
	return Gate(policy.AuthorModeratorAdminOrReadOnly)(next)
}
