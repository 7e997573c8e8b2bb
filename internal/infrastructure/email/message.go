// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package email

import (
	"fmt"
	"net/smtp"
	"strings"
)

// buildEmailMessage assembles a multipart/alternative message with a plain
// text part first, so clients that render the last supported part prefer the
// HTML one.
func buildEmailMessage(recipient, subject, htmlContent, textContent string, config SMTPConfig) string {
	boundary := "===============1234567890123456789=="

	var message strings.Builder

	message.WriteString(fmt.Sprintf("From: %s\r\n", config.From))
	message.WriteString(fmt.Sprintf("To: %s\r\n", recipient))
	message.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary))
	message.WriteString("\r\n")

	// Plain text part
	message.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	message.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	message.WriteString("\r\n")
	message.WriteString(textContent)
	message.WriteString("\r\n")

	// HTML part
	message.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	message.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	message.WriteString("\r\n")
	message.WriteString(htmlContent)
	message.WriteString("\r\n")

	message.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	return message.String()
}

// sendEmailMessage hands a built message to the SMTP server. Auth is skipped
// when no credentials are configured, which is the local mailcatcher case.
func sendEmailMessage(recipient, message string, config SMTPConfig) error {
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)

	var auth smtp.Auth
	if config.Username != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	err := smtp.SendMail(addr, auth, config.From, []string{recipient}, []byte(message))
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
