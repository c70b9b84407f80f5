// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", ctxutil.GetRequestID(ctx))
}

func TestLogger(t *testing.T) {
	ctx := context.Background()
	assert.Same(t, slog.Default(), ctxutil.GetLogger(ctx))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Same(t, logger, ctxutil.GetLogger(ctxutil.WithLogger(ctx, logger)))
}

func TestCaller(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ctxutil.GetCaller(ctx))
	assert.Nil(t, ctxutil.GetCaller(ctxutil.WithAuthUser(ctx, nil)))

	ctx = ctxutil.WithAuthUser(ctx, &sec.AuthClaims{
		UserID:   "7",
		Username: "critic",
		Role:     string(sec.RoleModerator),
	})

	caller := ctxutil.GetCaller(ctx)
	require.NotNil(t, caller)
	assert.Equal(t, "critic", caller.Username)
	assert.Equal(t, sec.RoleModerator, caller.Role)
	assert.False(t, caller.IsAdmin())
}
