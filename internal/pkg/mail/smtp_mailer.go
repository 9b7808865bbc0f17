package mail

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/scrivehq/scrive/internal/pkg/env"
)

// SendMail sends one HTML email via SMTP.
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnv("SMTP_PORT", "")
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if sender == "" {
		sender = fmt.Sprintf("no-reply@%s", "localhost")
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body,
	)

	err := smtp.SendMail(addr, auth, sender, []string{to}, msg)
	if err != nil {
		log.Printf("SMTP send error: %v", err)
	} else {
		log.Printf("Email sent to %s via %s", to, addr)
	}
	return err
}

// SendWelcomeMail greets a fresh account. Best effort; registration never
// fails because of mail trouble.
func SendWelcomeMail(to, displayName string) {
	if env.GetEnv("SMTP_HOST", "") == "" {
		return
	}
	name := displayName
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf(
		"<h2>Welcome to scrive, %s!</h2>"+
			"<p>Sketch your idea, pick your settings and let the generator turn it into thumbnails.</p>"+
			"<p>Your account starts without a plan. Pick one in the app to unlock generations.</p>",
		name,
	)
	_ = SendMail(to, "Welcome to scrive", body)
}
