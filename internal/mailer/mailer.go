// Package mailer отправляет письма с кодами подтверждения.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"

	"github.com/ignatzorin/wxai-backend/internal/config"
	"github.com/ignatzorin/wxai-backend/internal/logger"
)

const otpSubject = "Your OTP Code"

var otpBody = template.Must(template.New("otp").Parse(
	"Hello {{.Name}}, your OTP code is {{.Code}}. It will expire in {{.Minutes}} minutes.\n",
))

// OTPMessage данные письма с кодом.
type OTPMessage struct {
	To   string
	Name string
	Code string
	TTL  time.Duration
}

// Sender отправляет код получателю.
type Sender interface {
	SendOTP(ctx context.Context, msg OTPMessage) error
}

// RenderOTP возвращает текст письма.
func RenderOTP(msg OTPMessage) (string, error) {
	minutes := int(msg.TTL.Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}

	var buf bytes.Buffer
	data := struct {
		Name    string
		Code    string
		Minutes int
	}{msg.Name, msg.Code, minutes}

	if err := otpBody.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("mailer: render otp: %w", err)
	}
	return buf.String(), nil
}

// SMTPSender отправляет письма через SMTP сервер.
type SMTPSender struct {
	cfg    config.MailConfig
	client *mail.Client
}

// NewSMTPSender готовит клиента. Соединение открывается на каждую отправку.
func NewSMTPSender(cfg config.MailConfig) (*SMTPSender, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	}
	if cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mailer: new client: %w", err)
	}
	return &SMTPSender{cfg: cfg, client: client}, nil
}

func (s *SMTPSender) SendOTP(ctx context.Context, msg OTPMessage) error {
	m, err := s.buildMessage(msg)
	if err != nil {
		return err
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "mailer",
			"to":        msg.To,
		}).WithError(err).Error("не удалось отправить письмо")
		return fmt.Errorf("mailer: send: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "mailer",
		"to":        msg.To,
	}).Info("письмо с кодом отправлено")
	return nil
}

func (s *SMTPSender) buildMessage(msg OTPMessage) (*mail.Msg, error) {
	body, err := RenderOTP(msg)
	if err != nil {
		return nil, err
	}

	m := mail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("mailer: from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("mailer: to: %w", err)
	}
	m.Subject(otpSubject)
	m.SetBodyString(mail.TypeTextPlain, body)
	return m, nil
}

// LogSender пишет код в лог вместо отправки. Только для разработки.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (LogSender) SendOTP(_ context.Context, msg OTPMessage) error {
	logger.Log.WithFields(logrus.Fields{
		"component": "mailer",
		"to":        msg.To,
		"code":      msg.Code,
	}).Warn("SMTP не настроен, код выведен в лог")
	return nil
}
