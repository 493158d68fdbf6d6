package impl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/smtp"
	"time"
)

// NotifierConfig carries mail and SMS provider credentials. Empty host or
// key disables the corresponding channel.
type NotifierConfig struct {
	SMTPHost string
	SMTPPort string
	SMTPFrom string
	SMTPPass string

	SMSAPIURL    string
	SMSAPIKey    string
	SMSAPISecret string
	SMSFrom      string
}

type NotifierImpl struct {
	cfg    NotifierConfig
	client *http.Client
}

func NewNotifier(cfg NotifierConfig) *NotifierImpl {
	return &NotifierImpl{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *NotifierImpl) SendEmail(ctx context.Context, to, subject, message string) error {
	if n.cfg.SMTPHost == "" {
		return errors.New("mail channel not configured")
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		n.cfg.SMTPFrom, to, subject, message)

	addr := n.cfg.SMTPHost + ":" + n.cfg.SMTPPort
	auth := smtp.PlainAuth("", n.cfg.SMTPFrom, n.cfg.SMTPPass, n.cfg.SMTPHost)
	return smtp.SendMail(addr, auth, n.cfg.SMTPFrom, []string{to}, []byte(msg))
}

func (n *NotifierImpl) SendSMS(ctx context.Context, to, message string) error {
	if n.cfg.SMSAPIKey == "" {
		return errors.New("sms channel not configured")
	}

	body, err := json.Marshal(map[string]string{
		"api_key":    n.cfg.SMSAPIKey,
		"api_secret": n.cfg.SMSAPISecret,
		"from":       n.cfg.SMSFrom,
		"to":         to,
		"text":       message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.SMSAPIURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms provider returned %s", resp.Status)
	}
	return nil
}
