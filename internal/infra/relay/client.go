// Package relay implements the HTTP client for the external chat automation
// webhook. The upstream is best-effort: failures surface as
// ErrUnavailable and are never retried here.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rylimitless/electrolytes/internal/core/port"
)

// ErrUnavailable indicates the relay endpoint timed out, refused the
// connection, or answered with a non-200 status.
var ErrUnavailable = errors.New("relay: upstream unavailable")

const (
	defaultTimeout = 30 * time.Second

	// genericAck is returned for 200 responses whose body carries no
	// recognizable reply field.
	genericAck = "Message received."
)

// Config carries the webhook endpoint and its basic-auth credentials.
type Config struct {
	URL      string
	Username string
	Password string
	Timeout  time.Duration
}

// Client forwards chat messages to the automation webhook.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// NewClient constructs a relay client with a bounded request timeout.
func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: log,
	}
}

type relayRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
	UserID    string `json:"userId,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Send posts the message to the webhook and returns the assistant reply text.
func (c *Client) Send(ctx context.Context, msg port.RelayMessage) (string, error) {
	if c.cfg.URL == "" {
		return "", fmt.Errorf("%w: endpoint not configured", ErrUnavailable)
	}

	payload := relayRequest{
		SessionID: msg.SessionID,
		Message:   msg.Text,
		UserID:    msg.UserID,
		Timestamp: msg.Timestamp.UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode relay payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Username != "" {
		req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("relay returned non-200 status",
			zap.Int("status", resp.StatusCode),
			zap.String("session_id", msg.SessionID),
		)
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	return decodeReply(data), nil
}

// decodeReply extracts the reply text from the ad hoc response shapes the
// automation tool produces: an array of objects carrying output/message, a
// single object carrying response/message/output, or anything else, which
// degrades to a generic acknowledgement.
func decodeReply(data []byte) string {
	type replyFields struct {
		Output   string `json:"output"`
		Message  string `json:"message"`
		Response string `json:"response"`
	}

	var items []replyFields
	if err := json.Unmarshal(data, &items); err == nil && len(items) > 0 {
		if text := firstNonEmpty(items[0].Output, items[0].Message); text != "" {
			return text
		}
		return genericAck
	}

	var single replyFields
	if err := json.Unmarshal(data, &single); err == nil {
		if text := firstNonEmpty(single.Response, single.Message, single.Output); text != "" {
			return text
		}
	}

	return genericAck
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

var _ port.RelayClient = (*Client)(nil)
