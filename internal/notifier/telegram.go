package notifier

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

	"golang.org/x/time/rate"

	"matchwatch/internal/alert"
)

const (
	DefaultBaseURL = "https://api.telegram.org"
	DefaultTimeout = 10 * time.Second
	maxErrBody     = 512
)

// Config configures the Telegram notifier.
type Config struct {
	BaseURL    string
	Token      string
	ChatID     string
	Timeout    time.Duration
	RatePerSec int
}

// Telegram sends payloads through the Bot API sendMessage method.
type Telegram struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
}

func NewTelegram(cfg Config) *Telegram {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 1
	}
	return &Telegram{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		// Token bucket: burst = rate per sec, so short spikes don't block too hard.
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec),
	}
}

type sendMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// Send delivers p with one POST. The returned error, if any, is a *NotifyError.
func (t *Telegram) Send(ctx context.Context, p alert.Payload) error {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	if err := t.limiter.Wait(ctx); err != nil {
		return &NotifyError{Kind: KindTransport, Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	b, err := json.Marshal(sendMessage{ChatID: t.cfg.ChatID, Text: p.Text, ParseMode: alert.ParseMode})
	if err != nil {
		return &NotifyError{Kind: KindTransport, Err: err}
	}

	url := t.cfg.BaseURL + "/bot" + strings.TrimSpace(t.cfg.Token) + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return &NotifyError{Kind: KindTransport, Err: errors.New("create request failed")}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return &NotifyError{Kind: KindTransport, Err: redact(err, t.cfg.Token)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return &NotifyError{Kind: KindTransport, Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode/100 != 2 {
		return &NotifyError{Kind: KindHTTPStatus, StatusCode: resp.StatusCode, Body: truncate(body)}
	}
	// The Bot API can answer 200 with ok=false.
	var out apiResponse
	if json.Unmarshal(body, &out) == nil && !out.OK {
		return &NotifyError{Kind: KindHTTPStatus, StatusCode: resp.StatusCode, Body: truncate(body)}
	}
	return nil
}

// redact strips the bot token from transport errors, which embed the URL.
func redact(err error, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return err
	}
	msg := err.Error()
	if !strings.Contains(msg, token) {
		return err
	}
	return errors.New(strings.ReplaceAll(msg, token, "<token>"))
}

func truncate(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= maxErrBody {
		return s
	}
	return s[:maxErrBody] + "..."
}
