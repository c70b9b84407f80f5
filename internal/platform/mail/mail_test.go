// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/smtp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSender remembers every message it was asked to send.
type recordingSender struct {
	mu       sync.Mutex
	messages []Message
	err      error
}

func (sender *recordingSender) Send(_ context.Context, message Message) error {
	sender.mu.Lock()
	defer sender.mu.Unlock()
	sender.messages = append(sender.messages, message)
	return sender.err
}

func TestSMTPSender_Send(t *testing.T) {
	sender := NewSMTPSender("smtp.example.com", "587", "user", "secret", "no-reply@yamdb.local")

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	sender.sendMail = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		assert.NotNil(t, auth)
		return nil
	}

	err := sender.Send(context.Background(), Message{To: "alice@example.com", Subject: "Your login code", Body: "123456"})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "no-reply@yamdb.local", gotFrom)
	assert.Equal(t, []string{"alice@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Your login code\r\n")
	assert.Contains(t, string(gotMsg), "\r\n\r\n123456")
}

func TestSMTPSender_Errors(t *testing.T) {
	sender := NewSMTPSender("smtp.example.com", "25", "", "", "no-reply@yamdb.local")
	sender.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := sender.Send(context.Background(), Message{To: "alice@example.com"})
	assert.ErrorContains(t, err, "connection refused")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sender.Send(ctx, Message{To: "alice@example.com"}), context.Canceled)
}

/*
TestDispatcher_SwallowsFailures verifies that delivery failures are logged, not returned.
*/
func TestDispatcher_SwallowsFailures(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	sender := &recordingSender{err: errors.New("smtp down")}
	dispatcher := NewDispatcher(sender, time.Second, logger)

	dispatcher.Dispatch(Message{To: "a@example.com", Subject: "s", Body: "b"})
	dispatcher.Dispatch(Message{To: "b@example.com", Subject: "s", Body: "b"})
	require.NoError(t, dispatcher.Wait(context.Background()))

	assert.Len(t, sender.messages, 2)
	assert.Contains(t, logs.String(), "mail_delivery_failed")
}

func TestLogSender(t *testing.T) {
	var logs bytes.Buffer
	sender := NewLogSender(slog.New(slog.NewJSONHandler(&logs, nil)))

	require.NoError(t, sender.Send(context.Background(), Message{To: "a@example.com", Subject: "hi", Body: "654321"}))
	assert.Contains(t, logs.String(), "654321")
}
