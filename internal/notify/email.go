package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/edgewatch/edgewatch/internal/config"
	"github.com/edgewatch/edgewatch/internal/logsource"
)

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 2048

// DeliveryError reports a failed notification send. Status is 0 when the
// request never produced a response (transport failure).
type DeliveryError struct {
	Status int
	Body   string
	Err    error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("notification delivery failed: %v", e.Err)
	}
	return fmt.Sprintf("notification delivery failed: status %d: %s", e.Status, e.Body)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// message is the wire shape of one send request.
type message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

// Emailer sends notifications through a transactional email API.
type Emailer struct {
	cfg    config.EmailConfig
	client *http.Client
}

// New returns an Emailer for the given email configuration.
func New(cfg config.EmailConfig) *Emailer {
	return &Emailer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Notify sends one email for e to every configured recipient in a single
// message. A non-2xx response or transport failure is a *DeliveryError;
// nothing is retried here.
func (m *Emailer) Notify(ctx context.Context, e logsource.Entry) error {
	payload, err := json.Marshal(message{
		From:    m.cfg.Sender,
		To:      m.cfg.Recipients,
		Subject: subject(e),
		HTML:    htmlBody(e),
		Text:    textBody(e),
	})
	if err != nil {
		return fmt.Errorf("notify: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if key := m.cfg.APIKey(); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return &DeliveryError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &DeliveryError{
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	slog.Debug("notify: email sent",
		"entry_id", e.ID,
		"origin", shortOrigin(e.OriginID),
		"recipients", len(m.cfg.Recipients),
	)
	return nil
}
