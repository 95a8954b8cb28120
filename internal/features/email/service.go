package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go-bighil/internal/config"

	"go.uber.org/zap"
)

type Sender interface {
	Send(ctx context.Context, to []string, subject, html string) Result
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPSender struct {
	cfg    config.SMTPConfig
	log    DeliveryLog
	logger *zap.Logger
	send   sendFunc
}

func NewSender(cfg *config.Config, log DeliveryLog, logger *zap.Logger) Sender {
	return &SMTPSender{
		cfg:    cfg.SMTP,
		log:    log,
		logger: logger,
		send:   smtp.SendMail,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to []string, subject, html string) Result {
	recipients := make([]string, 0, len(to))
	for _, addr := range to {
		if addr = strings.TrimSpace(addr); addr != "" {
			recipients = append(recipients, addr)
		}
	}
	if len(recipients) == 0 {
		return Result{Success: false, Message: "no recipient address"}
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 {
		return Result{Success: false, Message: "email transport not configured"}
	}

	from := s.cfg.From
	if from == "" {
		from = s.cfg.User
	}

	record := &Email{
		From:     from,
		To:       recipients,
		Subject:  subject,
		HtmlBody: html,
	}
	if s.log != nil {
		if err := s.log.Queue(ctx, record); err != nil {
			s.logger.Warn("failed to record outbound email", zap.Error(err))
		}
	}

	msg := []byte(fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=\"utf-8\"\r\n"+
		"\r\n"+
		"%s\r\n", from, strings.Join(recipients, ", "), subject, html))

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	result := Result{Success: true, Message: "sent"}
	if err := s.send(addr, auth, from, recipients, msg); err != nil {
		result = Result{Success: false, Message: err.Error()}
		s.logger.Warn("email send failed", zap.Strings("to", recipients), zap.Error(err))
	} else {
		s.logger.Info("email sent", zap.Strings("to", recipients), zap.String("subject", subject))
	}

	if s.log != nil && !record.ID.IsZero() {
		if err := s.log.Finish(ctx, record.ID, result); err != nil {
			s.logger.Warn("failed to update outbound email", zap.Error(err))
		}
	}
	return result
}
