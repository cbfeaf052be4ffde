package email

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/smtp"
	"net/textproto"
	"time"

	"github.com/busops/transit-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// ErrNotConfigured is returned instead of silently dropping a slip when no
// SMTP host is set.
var ErrNotConfigured = errors.New("smtp is not configured")

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SlipMailer sends salary slips as HTML mail with the PDF attached.
type SlipMailer struct {
	cfg         config.SMTPConfig
	companyName string
	templates   *template.Template
	send        sendFunc
	backoff     func(attempt int) time.Duration
}

func NewSlipMailer(cfg config.SMTPConfig, companyName string) (*SlipMailer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &SlipMailer{
		cfg:         cfg,
		companyName: companyName,
		templates:   tmpl,
		send:        smtp.SendMail,
		// 1s, 2s
		backoff: func(attempt int) time.Duration { return time.Duration(1<<(attempt-1)) * time.Second },
	}, nil
}

type salarySlipEmailData struct {
	StaffName   string
	MonthYear   string
	CompanyName string
}

// SendSalarySlip returns nil only once the SMTP server accepted the message.
func (m *SlipMailer) SendSalarySlip(ctx context.Context, to, staffName, monthYear string, attachment []byte, filename string) error {
	if m.cfg.Host == "" {
		return ErrNotConfigured
	}

	var body bytes.Buffer
	data := salarySlipEmailData{StaffName: staffName, MonthYear: monthYear, CompanyName: m.companyName}
	if err := m.templates.ExecuteTemplate(&body, "salary_slip.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	msg, err := buildMessage(m.cfg.From, m.cfg.FromName, to, "Salary slip for "+monthYear, body.String(), attachment, filename)
	if err != nil {
		return err
	}
	return m.deliver(ctx, to, msg)
}

func (m *SlipMailer) deliver(ctx context.Context, to string, msg []byte) error {
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := m.send(addr, auth, m.cfg.From, []string{to}, msg)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return fmt.Errorf("email send cancelled after %d attempts: %w", attempt, ctx.Err())
			case <-time.After(m.backoff(attempt)):
			}
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}

// buildMessage assembles a multipart/mixed message: the HTML body followed by
// one base64 encoded PDF attachment.
func buildMessage(from, fromName, to, subject, htmlBody string, attachment []byte, filename string) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	htmlPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {`text/html; charset="UTF-8"`},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return nil, err
	}
	if err := writeQuotedPrintable(htmlPart, htmlBody); err != nil {
		return nil, err
	}

	attPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {mime.FormatMediaType("application/pdf", map[string]string{"name": filename})},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": filename})},
	})
	if err != nil {
		return nil, err
	}
	if err := writeBase64Lines(attPart, attachment); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", fromName), from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/mixed; boundary=%q\r\n", mw.Boundary())
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}

func writeQuotedPrintable(w io.Writer, s string) error {
	qp := quotedprintable.NewWriter(w)
	if _, err := qp.Write([]byte(s)); err != nil {
		return err
	}
	return qp.Close()
}

// writeBase64Lines wraps encoded output at 76 characters as RFC 2045 requires.
func writeBase64Lines(w io.Writer, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 0 {
		n := min(76, len(encoded))
		if _, err := io.WriteString(w, encoded[:n]+"\r\n"); err != nil {
			return err
		}
		encoded = encoded[n:]
	}
	return nil
}
