package mailer

import (
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"os"
	"strings"
)

// Mailer sends order receipts as PDF attachments over SMTP.
type Mailer struct {
	addr     string // host:port
	host     string
	username string
	password string
	from     string
	logger   *log.Logger

	// send is swapped in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func New(addr, username, password, from string, logger *log.Logger) *Mailer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	host, _, _ := strings.Cut(addr, ":")
	return &Mailer{
		addr:     addr,
		host:     host,
		username: username,
		password: password,
		from:     from,
		logger:   logger,
		send:     smtp.SendMail,
	}
}

// DecodePDF decodes a base64 payload, tolerating a data-URI prefix such as
// "data:application/pdf;base64,".
func DecodePDF(payload string) ([]byte, error) {
	if i := strings.Index(payload, ";base64,"); i >= 0 {
		payload = payload[i+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode pdf: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty pdf")
	}
	return data, nil
}

// SendReceipt reads the PDF at path and emails it to the given address.
func (m *Mailer) SendReceipt(email, path string) error {
	pdf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read receipt: %w", err)
	}
	msg, err := buildMessage(m.from, email, pdf)
	if err != nil {
		return err
	}
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	if err := m.send(m.addr, auth, m.from, []string{email}, msg); err != nil {
		m.logger.Printf("mailer: send to=%s error=%v", email, err)
		return err
	}
	m.logger.Printf("mailer: receipt sent to=%s bytes=%d", email, len(pdf))
	return nil
}

func buildMessage(from, to string, pdf []byte) ([]byte, error) {
	var body strings.Builder
	mw := multipart.NewWriter(&body)

	headers := fmt.Sprintf(
		"From: \"StandardTime\" <%s>\r\nTo: %s\r\nSubject: Your Order Receipt\r\nMIME-Version: 1.0\r\nContent-Type: multipart/mixed; boundary=%s\r\n\r\n",
		from, to, mw.Boundary(),
	)

	textPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(textPart, "Thank you for your order.\r\n"); err != nil {
		return nil, err
	}

	pdfPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"application/pdf; name=receipt.pdf"},
		"Content-Disposition":       {`attachment; filename="receipt.pdf"`},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return nil, err
	}
	enc := base64.NewEncoder(base64.StdEncoding, pdfPart)
	if _, err := enc.Write(pdf); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	return []byte(headers + body.String()), nil
}
