// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mailer

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"bizdir/internal/config"
)

func TestNewPicksSender(t *testing.T) {
	if _, ok := New(config.SMTPConfig{}).(LogSender); !ok {
		t.Error("expected LogSender without SMTP host")
	}
	if _, ok := New(config.SMTPConfig{Host: "smtp.example.com", Port: 587}).(*SMTPSender); !ok {
		t.Error("expected SMTPSender with SMTP host")
	}
}

func TestLogSenderSend(t *testing.T) {
	err := LogSender{}.Send(context.Background(), Message{To: "a@example.com", Subject: "hi", Text: "body"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
}

func TestSMTPSenderCancelled(t *testing.T) {
	s := NewSMTP(config.SMTPConfig{Host: "127.0.0.1", Port: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Send(ctx, Message{To: "a@example.com"}); err != context.Canceled {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestCompose(t *testing.T) {
	m := compose("BizDir <no-reply@bizdir.local>", Message{
		To: "owner@example.com", Subject: "Subject line", Text: "plain", HTML: "<p>rich</p>",
	})

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"owner@example.com", "Subject line", "text/plain", "text/html", "multipart/alternative"} {
		if !strings.Contains(out, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestResetMail(t *testing.T) {
	msg := ResetMail("owner@example.com", "https://bizdir.example.com/reset?lang=ro", "abc123", 30*time.Minute)

	if msg.To != "owner@example.com" {
		t.Errorf("To = %q", msg.To)
	}
	if !strings.Contains(msg.Text, "https://bizdir.example.com/reset?lang=ro&token=abc123") {
		t.Errorf("text link missing or malformed:\n%s", msg.Text)
	}
	if !strings.Contains(msg.Text, "30 minutes") {
		t.Error("expiry not mentioned")
	}
	if !strings.Contains(msg.HTML, "lang=ro&amp;token=abc123") {
		t.Errorf("html link not escaped:\n%s", msg.HTML)
	}
}

func TestResetLink(t *testing.T) {
	tests := []struct {
		link, token, want string
	}{
		{"http://localhost:5173/reset-password", "t1", "http://localhost:5173/reset-password?token=t1"},
		{"https://x.example/r?a=1", "t2", "https://x.example/r?a=1&token=t2"},
	}
	for _, tt := range tests {
		if got := resetLink(tt.link, tt.token); got != tt.want {
			t.Errorf("resetLink(%q) = %q, want %q", tt.link, got, tt.want)
		}
	}
}
