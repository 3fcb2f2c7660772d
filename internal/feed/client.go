// Package feed fetches and decodes the public match listing.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single feed request.
const DefaultTimeout = 10 * time.Second

// maxBody caps how much of the response we read.
const maxBody = 16 << 20

// Client fetches the match listing with one GET per call.
type Client struct {
	httpClient *http.Client
	url        string
	timeout    time.Duration
}

// NewClient creates a feed client. timeout <= 0 uses DefaultTimeout.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        strings.TrimSpace(url),
		timeout:    timeout,
	}
}

// Result is a decoded listing.
type Result struct {
	Records []MatchRecord
	// Skipped counts array elements that could not be decoded as a match.
	Skipped int
}

// Fetch performs one request. It never retries.
func (c *Client) Fetch(ctx context.Context) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Result{}, &FetchError{Kind: KindTransport, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, &FetchError{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return Result{}, &FetchError{Kind: KindTransport, Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode/100 != 2 {
		return Result{}, &FetchError{
			Kind:       KindHTTPStatus,
			StatusCode: resp.StatusCode,
			Err:        errors.New(truncate(body, 200)),
		}
	}

	res, err := Decode(body)
	if err != nil {
		return Result{}, &FetchError{Kind: KindParse, Err: err}
	}
	return res, nil
}

// Decode parses a listing body. The top level must be a JSON array; elements
// that fail to decode are skipped and counted.
func Decode(body []byte) (Result, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return Result{}, fmt.Errorf("decode listing: %w", err)
	}
	if raw == nil {
		// literal null
		return Result{}, errors.New("decode listing: body is null")
	}

	res := Result{Records: make([]MatchRecord, 0, len(raw))}
	for _, item := range raw {
		var r MatchRecord
		if err := json.Unmarshal(item, &r); err != nil || !isObject(item) {
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, r)
	}
	return res, nil
}

func isObject(b json.RawMessage) bool {
	s := strings.TrimSpace(string(b))
	return strings.HasPrefix(s, "{")
}

func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
