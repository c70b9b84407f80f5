// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail delivers outbound email.

Senders:

  - SMTPSender: Relays through an SMTP server with PLAIN auth.
  - LogSender: Writes the message to the structured log (development).

A [Dispatcher] runs deliveries in the background. Failures are logged and
never returned to the request that triggered them.
*/
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"sync"
	"time"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a single [Message].
type Sender interface {
	Send(ctx context.Context, message Message) error
}

// # SMTP

// SMTPSender relays messages through an SMTP server.
type SMTPSender struct {
	host     string
	port     string
	user     string
	password string
	from     string

	// sendMail is smtp.SendMail, replaceable in tests.
	sendMail func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender constructs an [SMTPSender].
func NewSMTPSender(host, port, user, password, from string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
		sendMail: smtp.SendMail,
	}
}

// Send implements [Sender]. smtp.SendMail has no context support, so the
// context only short-circuits a delivery that was cancelled before it began.
func (sender *SMTPSender) Send(ctx context.Context, message Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if sender.user != "" {
		auth = smtp.PlainAuth("", sender.user, sender.password, sender.host)
	}

	addr := net.JoinHostPort(sender.host, sender.port)
	if err := sender.sendMail(addr, auth, sender.from, []string{message.To}, sender.render(message)); err != nil {
		return fmt.Errorf("mail: smtp send to %s failed: %w", addr, err)
	}
	return nil
}

// render builds the RFC 5322 payload.
func (sender *SMTPSender) render(message Message) []byte {
	var builder strings.Builder
	fmt.Fprintf(&builder, "From: %s\r\n", sender.from)
	fmt.Fprintf(&builder, "To: %s\r\n", message.To)
	fmt.Fprintf(&builder, "Subject: %s\r\n", message.Subject)
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(message.Body)
	builder.WriteString("\r\n")
	return []byte(builder.String())
}

// # Log

// LogSender writes messages to the logger instead of delivering them.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender constructs a [LogSender].
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send implements [Sender].
func (sender *LogSender) Send(ctx context.Context, message Message) error {
	sender.logger.InfoContext(ctx, "mail_logged",
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
		slog.String("body", message.Body),
	)
	return nil
}

// # Background Dispatch

// Dispatcher sends messages on background goroutines.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher constructs a [Dispatcher]. Each delivery gets its own timeout.
func NewDispatcher(sender Sender, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, timeout: timeout, logger: logger}
}

// Dispatch queues message for delivery and returns immediately.
//
// The delivery is detached from the request context so that the response
// being written does not cancel it.
func (dispatcher *Dispatcher) Dispatch(message Message) {
	dispatcher.wg.Add(1)
	go func() {
		defer dispatcher.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), dispatcher.timeout)
		defer cancel()

		if err := dispatcher.sender.Send(ctx, message); err != nil {
			dispatcher.logger.Error("mail_delivery_failed",
				slog.String("to", message.To),
				slog.String("subject", message.Subject),
				slog.Any("error", err),
			)
			return
		}

		dispatcher.logger.Debug("mail_delivered", slog.String("to", message.To))
	}()
}

// Wait blocks until in-flight deliveries finish or ctx is done.
func (dispatcher *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		dispatcher.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
