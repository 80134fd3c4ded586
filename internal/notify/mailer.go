package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Mailer calls the serverless email endpoint. Sends are fire-and-forget:
// failures are logged and never fail the caller's flow.
type Mailer struct {
	endpoint   string
	token      string
	httpClient *http.Client
	log        *logrus.Entry
}

func NewMailer(endpoint, token string, logger *logrus.Logger) *Mailer {
	return &Mailer{
		endpoint: endpoint,
		token:    token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: logger.WithField("component", "mailer"),
	}
}

// Enabled reports whether an endpoint is configured.
func (m *Mailer) Enabled() bool { return m != nil && m.endpoint != "" }

type welcomePayload struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// SendWelcome posts the welcome email request. The returned error is for
// tests; production callers run it in a goroutine and rely on the log line.
func (m *Mailer) SendWelcome(ctx context.Context, email, username string) error {
	if !m.Enabled() {
		return nil
	}

	body, err := json.Marshal(welcomePayload{Email: email, Username: username})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if m.token != "" {
		req.Header.Set("Authorization", "Bearer "+m.token)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.log.WithError(err).WithField("email", email).Warn("welcome email send failed")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		err := fmt.Errorf("welcome email endpoint returned %d", resp.StatusCode)
		m.log.WithError(err).WithField("email", email).Warn("welcome email send failed")
		return err
	}
	return nil
}
