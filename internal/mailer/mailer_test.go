package mailer

import (
	"encoding/base64"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodePDF(t *testing.T) {
	raw := []byte("%PDF-1.4 fake")
	encoded := base64.StdEncoding.EncodeToString(raw)

	got, err := DecodePDF(encoded)
	if err != nil {
		t.Fatalf("DecodePDF: %v", err)
	}
	if string(got) != string(raw) {
		t.Errorf("decoded %q, want %q", got, raw)
	}
}

func TestDecodePDFStripsDataURIPrefix(t *testing.T) {
	raw := []byte("%PDF-1.4 fake")
	payload := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(raw)

	got, err := DecodePDF(payload)
	if err != nil {
		t.Fatalf("DecodePDF: %v", err)
	}
	if string(got) != string(raw) {
		t.Errorf("decoded %q, want %q", got, raw)
	}
}

func TestDecodePDFRejectsBadInput(t *testing.T) {
	if _, err := DecodePDF("!!! not base64 !!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
	if _, err := DecodePDF(""); err == nil {
		t.Error("expected error for empty payload")
	}
}

type capturedSend struct {
	addr string
	from string
	to   []string
	msg  []byte
}

func captureMailer(t *testing.T, fail error) (*Mailer, *capturedSend) {
	t.Helper()
	captured := &capturedSend{}
	m := New("smtp.example.com:587", "relay", "secret", "receipts@standardtime.example", nil)
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		captured.addr = addr
		captured.from = from
		captured.to = to
		captured.msg = msg
		return fail
	}
	return m, captured
}

func writeTempPDF(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "receipt.pdf")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write temp pdf: %v", err)
	}
	return path
}

func TestSendReceipt(t *testing.T) {
	m, captured := captureMailer(t, nil)
	pdf := []byte("%PDF-1.4 fake receipt")
	path := writeTempPDF(t, pdf)

	if err := m.SendReceipt("alex@example.com", path); err != nil {
		t.Fatalf("SendReceipt: %v", err)
	}
	if captured.addr != "smtp.example.com:587" {
		t.Errorf("addr = %q", captured.addr)
	}
	if len(captured.to) != 1 || captured.to[0] != "alex@example.com" {
		t.Errorf("to = %v", captured.to)
	}

	msg := string(captured.msg)
	for _, want := range []string{
		"From: \"StandardTime\" <receipts@standardtime.example>",
		"To: alex@example.com",
		"Subject: Your Order Receipt",
		"multipart/mixed",
		`attachment; filename="receipt.pdf"`,
		base64.StdEncoding.EncodeToString(pdf),
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestSendReceiptMissingFile(t *testing.T) {
	m, captured := captureMailer(t, nil)

	if err := m.SendReceipt("alex@example.com", filepath.Join(t.TempDir(), "gone.pdf")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if captured.msg != nil {
		t.Error("send invoked despite unreadable file")
	}
}

func TestSendReceiptPropagatesSMTPError(t *testing.T) {
	m, _ := captureMailer(t, os.ErrDeadlineExceeded)
	path := writeTempPDF(t, []byte("%PDF-1.4"))

	if err := m.SendReceipt("alex@example.com", path); err == nil {
		t.Fatal("expected smtp error to propagate")
	}
}
