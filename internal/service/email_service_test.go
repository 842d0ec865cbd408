package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/krishi-setu/internal/config"
)

func TestBuildEmailMessageIsHTML(t *testing.T) {
	msg := string(buildEmailMessage(emailHeaders{
		From:    "noreply@krishisetu.local",
		To:      "asha@example.com",
		Subject: "Order Confirmation - Krishi-Setu",
	}, "<h2>Order Confirmation</h2>"))
	for _, want := range []string{
		"To: asha@example.com\r\n",
		"Content-Type: text/html; charset=UTF-8\r\n",
		"\r\n\r\n<h2>Order Confirmation</h2>",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestEmailServiceSendGuards(t *testing.T) {
	if err := NewEmailService(nil).Send("a@b.c", "s", "h"); !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("nil config want ErrEmailServiceDisabled got %v", err)
	}
	svc := NewEmailService(&config.EmailConfig{Enabled: true})
	if svc.Enabled() {
		t.Fatalf("service without host should not report enabled")
	}
	if err := svc.Send("a@b.c", "s", "h"); !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("missing host want ErrEmailServiceNotConfigured got %v", err)
	}
	svc = NewEmailService(&config.EmailConfig{Enabled: true, Host: "smtp.local", Port: 25, From: "noreply@krishisetu.local"})
	if err := svc.Send("not-an-email", "s", "h"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("bad receiver want ErrInvalidEmail got %v", err)
	}
}

func TestClassifySMTPError(t *testing.T) {
	network := errors.New("dial tcp 10.0.0.1:587: i/o timeout")
	tests := []struct {
		name     string
		err      error
		rejected bool
	}{
		{name: "no such recipient", err: errors.New("550 No such recipient here"), rejected: true},
		{name: "user unknown", err: errors.New("SMTP 5.1.1 user unknown"), rejected: true},
		{name: "bare 553", err: errors.New("553 sorry, that domain isn't allowed"), rejected: true},
		{name: "network", err: network},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifySMTPError(tt.err)
			if errors.Is(got, ErrEmailRecipientRejected) != tt.rejected {
				t.Fatalf("classifySMTPError(%v) = %v", tt.err, got)
			}
			if !tt.rejected && got != tt.err {
				t.Fatalf("non-recipient error should be returned unchanged, got %v", got)
			}
		})
	}
	if classifySMTPError(nil) != nil {
		t.Fatalf("nil error should stay nil")
	}
}

func TestComposeMessageHeaders(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: true, Host: "smtp.local", Port: 25, From: "noreply@krishisetu.in", FromName: "Krishi-Setu"})
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }

	msg := string(svc.composeMessage("ravi@farm.in", "Low Stock Alert", "<p>hi</p>"))
	for _, want := range []string{
		"From: \"Krishi-Setu\" <noreply@krishisetu.in>\r\n",
		"Date: Sun, 01 Mar 2026 09:30:00 +0000\r\n",
		"@krishisetu.in>\r\n",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}
