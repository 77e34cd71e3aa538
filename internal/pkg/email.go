package pkg

import (
	"crypto/tls"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func SendEmail(cfg SMTPConfig, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	return d.DialAndSend(m)
}

func EmailCodeHTML(subject, code string, ttl time.Duration) string {
	mins := int(ttl.Minutes())
	return fmt.Sprintf(
		`<p>Hello,</p><p>Your verification code for <b>%s</b> is <b style="font-size:18px;">%s</b>.</p><p>It expires in %d minutes. Do not share it with anyone.</p>`,
		subject, code, mins)
}
