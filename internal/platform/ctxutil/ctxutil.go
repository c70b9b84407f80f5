// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil carries the per-request values that middleware resolves
// once and handlers read many times: the request ID, the request-scoped
// logger and the authenticated caller.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// contextKey is unexported so no other package can read or shadow these values.
type contextKey uint8

const (
	requestIDKey contextKey = iota
	loggerKey
	callerKey
)

// WithRequestID attaches the X-Request-ID correlation value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the correlation value, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithLogger attaches a logger already tagged with request attributes.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger returns the request logger, falling back to [slog.Default].
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// WithCaller stores the authenticated caller. Nil leaves the request anonymous.
func WithCaller(ctx context.Context, caller *sec.Caller) context.Context {
	if caller == nil {
		return ctx
	}
	return context.WithValue(ctx, callerKey, caller)
}

// WithAuthUser stores the caller described by token claims as-is.
// Nil claims leave the request anonymous.
func WithAuthUser(ctx context.Context, claims *sec.AuthClaims) context.Context {
	return WithCaller(ctx, claims.Caller())
}

// GetCaller returns the authenticated caller, or nil for an anonymous request.
func GetCaller(ctx context.Context) *sec.Caller {
	caller, _ := ctx.Value(callerKey).(*sec.Caller)
	return caller
}
