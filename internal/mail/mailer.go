// Package mail sends transactional email over SMTP with implicit TLS.
package mail

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
)

type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewMailer(host, port, username, password, from string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (m *Mailer) SendVerification(to, code string) error {
	body, err := render(verificationTemplate, struct{ Code string }{Code: code})
	if err != nil {
		return err
	}
	return m.send(to, "Verify your email", body)
}

func (m *Mailer) SendWelcome(to, name string) error {
	body, err := render(welcomeTemplate, struct{ Name string }{Name: name})
	if err != nil {
		return err
	}
	return m.send(to, "Welcome aboard", body)
}

func (m *Mailer) SendPasswordReset(to, resetURL string) error {
	body, err := render(passwordResetTemplate, struct{ ResetURL string }{ResetURL: resetURL})
	if err != nil {
		return err
	}
	return m.send(to, "Reset your password", body)
}

func (m *Mailer) SendResetSuccess(to string) error {
	body, err := render(resetSuccessTemplate, nil)
	if err != nil {
		return err
	}
	return m.send(to, "Password Reset Successful", body)
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render mail template: %w", err)
	}
	return buf.String(), nil
}

func (m *Mailer) send(to, subject, body string) error {
	msg := []byte(
		fmt.Sprintf("From: %s\r\n", m.from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)

	serverAddr := m.host + ":" + m.port

	// Implicit TLS, port 465 style.
	conn, err := tls.Dial("tcp", serverAddr, &tls.Config{ServerName: m.host})
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Quit()

	if m.username != "" {
		auth := smtp.PlainAuth("", m.username, m.password, m.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}

	return nil
}
