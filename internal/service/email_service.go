package service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/krishi-setu/internal/config"

	"github.com/google/uuid"
)

const smtpDialTimeout = 15 * time.Second

// EmailService SMTP 邮件发送
type EmailService struct {
	cfg *config.EmailConfig
	now func() time.Time
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg, now: time.Now}
}

// Enabled 是否已启用并配置 SMTP
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled && s.cfg.Host != "" && s.cfg.From != ""
}

// Send 发送 HTML 邮件
func (s *EmailService) Send(toEmail, subject, html string) error {
	if s == nil || s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	to, err := mail.ParseAddress(toEmail)
	if err != nil {
		return ErrInvalidEmail
	}

	msg := s.composeMessage(to.Address, subject, html)
	return classifySMTPError(s.deliver(to.Address, msg))
}

func (s *EmailService) composeMessage(to, subject, html string) []byte {
	return buildEmailMessage(emailHeaders{
		From:      formatSender(s.cfg.From, s.cfg.FromName),
		To:        to,
		Subject:   subject,
		Date:      s.now(),
		MessageID: fmt.Sprintf("<%s@%s>", uuid.NewString(), senderDomain(s.cfg.From)),
	}, html)
}

// deliver 建立连接（SSL 直连或明文后按需 STARTTLS），认证后投递
func (s *EmailService) deliver(to string, msg []byte) error {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprintf("%d", s.cfg.Port))
	tlsConfig := &tls.Config{ServerName: s.cfg.Host}
	dialer := &net.Dialer{Timeout: smtpDialTimeout}

	var conn net.Conn
	var err error
	if s.cfg.UseSSL {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, tlsConfig)
	} else {
		conn, err = dialer.Dial("tcp", addr)
	}
	if err != nil {
		return err
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if !s.cfg.UseSSL && s.cfg.UseTLS {
		if err := client.StartTLS(tlsConfig); err != nil {
			return err
		}
	}
	if s.cfg.Username != "" || s.cfg.Password != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
				return err
			}
		}
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

type emailHeaders struct {
	From      string
	To        string
	Subject   string
	Date      time.Time
	MessageID string
}

func buildEmailMessage(h emailHeaders, html string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", h.From)
	fmt.Fprintf(&buf, "To: %s\r\n", h.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", h.Subject))
	if !h.Date.IsZero() {
		fmt.Fprintf(&buf, "Date: %s\r\n", h.Date.Format(time.RFC1123Z))
	}
	if h.MessageID != "" {
		fmt.Fprintf(&buf, "Message-ID: %s\r\n", h.MessageID)
	}
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(html)
	return buf.Bytes()
}

func formatSender(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	return (&mail.Address{Name: name, Address: from}).String()
}

func senderDomain(from string) string {
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		return from[at+1:]
	}
	return "localhost"
}

// classifySMTPError 把收件人被拒类错误归一为 ErrEmailRecipientRejected
func classifySMTPError(err error) error {
	if err == nil {
		return nil
	}
	message := strings.ToLower(err.Error())
	for _, keyword := range []string{
		"no such recipient",
		"no such user",
		"recipient address rejected",
		"user unknown",
		"unknown mailbox",
		"mailbox unavailable",
	} {
		if strings.Contains(message, keyword) {
			return ErrEmailRecipientRejected
		}
	}
	if strings.HasPrefix(message, "550") || strings.HasPrefix(message, "553") {
		return ErrEmailRecipientRejected
	}
	return err
}
