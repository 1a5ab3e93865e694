package mailing

import (
	"strconv"
	"veronikaextra-backend/domain"
	"veronikaextra-backend/internal/utils"

	"gopkg.in/gomail.v2"
)

type (
	MailConfig struct {
		AppURL       string
		SMTPHost     string
		SMTPPort     string
		SMTPSender   string
		SMTPEmail    string
		SMTPPassword string
	}

	Mailer interface {
		Enabled() bool
		Send(toEmail string, subject string, body string) error
	}

	smtpMailer struct {
		cfg MailConfig
	}
)

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

func NewMailer(cfg MailConfig) Mailer {
	if cfg.SMTPSender == "" {
		cfg.SMTPSender = domain.BrandName
	}
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Enabled() bool {
	return m.cfg.SMTPHost != "" && m.cfg.SMTPEmail != ""
}

func (m *smtpMailer) Send(toEmail string, subject string, body string) error {
	mailer := gomail.NewMessage()
	mailer.SetAddressHeader("From", m.cfg.SMTPEmail, m.cfg.SMTPSender)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	port, err := strconv.Atoi(m.cfg.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		m.cfg.SMTPHost,
		port,
		m.cfg.SMTPEmail,
		m.cfg.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}
