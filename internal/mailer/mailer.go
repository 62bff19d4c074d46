package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/wfunc/nation-game/internal/config"
	"github.com/wfunc/nation-game/internal/errors"
	"github.com/wfunc/nation-game/internal/logger"
)

// Mailer 邮件发送器
type Mailer interface {
	Send(to, subject, body string) error
	SendCaptureNotification(to, country string) error
	SendEmailVerification(to, token string) error
}

// SMTPMailer 基于SMTP的邮件发送器
type SMTPMailer struct {
	cfg *config.EmailConfig
}

// NewSMTPMailer 创建SMTP邮件发送器
func NewSMTPMailer(cfg *config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send 发送纯文本邮件
func (m *SMTPMailer) Send(to, subject, body string) error {
	if !m.cfg.Enabled || m.cfg.Host == "" || m.cfg.From == "" {
		return errors.New(errors.ErrEmailNotConfigured)
	}

	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg))
	logger.LogEmailDelivery(to, subject, err)
	if err != nil {
		return errors.Wrap(err, errors.ErrEmailSend)
	}
	return nil
}

// SendCaptureNotification 发送占领成功通知
func (m *SMTPMailer) SendCaptureNotification(to, country string) error {
	subject := "Country Captured Successfully"
	body := fmt.Sprintf("Congratulations! You have successfully captured %s.\n\nResources gained: 100 gold, 50 oil.", country)
	return m.Send(to, subject, body)
}

// SendEmailVerification 发送换绑邮箱验证邮件
func (m *SMTPMailer) SendEmailVerification(to, token string) error {
	verifyLink := verificationLink(m.cfg.BaseURL, token)

	subject := "Confirm your new email address"
	body := fmt.Sprintf("Use this link to confirm your new email address:\n\n%s\n\nIf you did not request this change, you can ignore this email.", verifyLink)
	return m.Send(to, subject, body)
}

// verificationLink 拼接换绑验证链接
// 验证路由挂载在/api/v1下，链接必须带前缀
func verificationLink(baseURL, token string) string {
	return fmt.Sprintf("%s/api/v1/auth/verify-email?token=%s", strings.TrimRight(baseURL, "/"), token)
}

// NopMailer 空实现，邮件未启用时使用
type NopMailer struct{}

// NewNopMailer 创建空邮件发送器
func NewNopMailer() *NopMailer {
	return &NopMailer{}
}

// Send 丢弃邮件并记录日志
func (m *NopMailer) Send(to, subject, body string) error {
	logger.Debug("邮件未启用，跳过发送")
	return nil
}

// SendCaptureNotification 丢弃占领通知
func (m *NopMailer) SendCaptureNotification(to, country string) error {
	return nil
}

// SendEmailVerification 丢弃验证邮件
func (m *NopMailer) SendEmailVerification(to, token string) error {
	return nil
}
