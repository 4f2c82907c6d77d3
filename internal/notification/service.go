// Package notification delivers best-effort security notices to account
// owners. Delivery failures are logged and never block the auth or device
// decision that triggered them.
package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"sync"
	"authguard/internal/config"
	"authguard/internal/repository"

	"github.com/google/uuid"
)

// EventKind identifies the security event being reported to the owner.
type EventKind string

const (
	EventDeviceChangeWarning EventKind = "device_change_warning"
	EventDeviceLocked        EventKind = "device_locked"
	EventTokenReuse          EventKind = "token_reuse"
)

// Sender is the collaborator interface consumed by the core. Fire and
// forget: implementations must not make callers wait on transport retries.
type Sender interface {
	Notify(ctx context.Context, accountID uuid.UUID, kind EventKind) error
}

// Service implements Sender over SMTP.
type Service struct {
	config   config.SMTPConfig
	accounts repository.AccountRepository
	client   *smtp.Client
	mu       sync.Mutex
}

// NewService creates an SMTP-backed notification sender
func NewService(cfg config.SMTPConfig, accounts repository.AccountRepository) *Service {
	return &Service{
		config:   cfg,
		accounts: accounts,
	}
}

var subjects = map[EventKind]string{
	EventDeviceChangeWarning: "Device change warning",
	EventDeviceLocked:        "Account locked pending review",
	EventTokenReuse:          "Security alert: session revoked",
}

var bodies = map[EventKind]string{
	EventDeviceChangeWarning: `
		<h2>Hello,</h2>
		<p>Your account was just accessed from a new device. You are close to
		the maximum number of device changes allowed on your plan.</p>
		<p>If this was not you, please change your password immediately.</p>`,
	EventDeviceLocked: `
		<h2>Hello,</h2>
		<p>Your account has changed devices too many times and has been locked
		pending a manual review.</p>
		<p>Please contact support to restore access.</p>`,
	EventTokenReuse: `
		<h2>Hello,</h2>
		<p>A sign-in credential for your account was used twice, so all active
		sessions have been signed out as a precaution.</p>
		<p>Please sign in again. If this was not you, change your password.</p>`,
}

// Notify sends the notice for kind to the account's email address.
func (s *Service) Notify(ctx context.Context, accountID uuid.UUID, kind EventKind) error {
	subject, ok := subjects[kind]
	if !ok {
		return fmt.Errorf("unknown notification kind %q", kind)
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	tmpl, err := template.New(string(kind)).Parse(bodies[kind])
	if err != nil {
		return fmt.Errorf("failed to parse notification template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, nil); err != nil {
		return fmt.Errorf("failed to execute notification template: %w", err)
	}

	msg := fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s", account.Email, s.config.FromAddress, subject, body.String())

	if err := s.sendMail([]string{account.Email}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send %s notification: %w", kind, err)
	}
	return nil
}

// dialSMTP establishes an SMTP connection, reusing a live one when possible
func (s *Service) dialSMTP() (*smtp.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		if err := s.client.Noop(); err == nil {
			return s.client, nil
		}
		s.client.Close()
		s.client = nil
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	client, err := smtp.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial SMTP server: %w", err)
	}

	if err := client.Auth(smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to authenticate with SMTP server: %w", err)
	}

	s.client = client
	return client, nil
}

func (s *Service) sendMail(to []string, msg []byte) error {
	client, err := s.dialSMTP()
	if err != nil {
		return err
	}

	if err := client.Mail(s.config.Username); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("failed to add recipient %s: %w", addr, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to create message writer: %w", err)
	}

	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return w.Close()
}

// Close closes the pooled SMTP connection
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		err := s.client.Quit()
		s.client = nil
		return err
	}
	return nil
}

// LogOnFailure wraps a Notify call for the fire-and-forget call sites.
func LogOnFailure(sender Sender, ctx context.Context, accountID uuid.UUID, kind EventKind) {
	if sender == nil {
		return
	}
	if err := sender.Notify(ctx, accountID, kind); err != nil {
		log.Printf("Failed to send %s notification for account %s: %v", kind, accountID, err)
	}
}
