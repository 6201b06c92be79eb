package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Code, e.Body)
}

// DecodeError is returned when an upstream body does not parse as the
// expected shape. Adapters downgrade it to an empty result, but keeping it
// typed makes the failure observable in tests.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "decode upstream response: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// Client is a small JSON HTTP client shared by all provider adapters.
type Client struct {
	client  *http.Client
	retries int
	backoff time.Duration
}

func NewClient(timeout time.Duration, retries int, backoff time.Duration) *Client {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	if retries < 0 {
		retries = 0
	}
	if backoff == 0 {
		backoff = 300 * time.Millisecond
	}
	return &Client{client: &http.Client{Timeout: timeout}, retries: retries, backoff: backoff}
}

// DoJSON issues one request (plus configured retries), decoding a 2xx body
// into out. Non-2xx resolves to *StatusError, malformed bodies to *DecodeError.
func (c *Client) DoJSON(ctx context.Context, method, rawurl string, headers map[string]string, body any, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = b
	}

	var lastErr error
	tries := c.retries + 1
	for attempt := 0; attempt < tries; attempt++ {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, rawurl, bodyReader)
		if err != nil {
			return err
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		if payload != nil && req.Header.Get("Content-Type") == "" {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
		} else {
			func() {
				defer resp.Body.Close()
				if resp.StatusCode >= 200 && resp.StatusCode < 300 {
					if out == nil {
						lastErr = nil
						return
					}
					if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
						lastErr = &DecodeError{Err: err}
						return
					}
					lastErr = nil
					return
				}
				b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
				lastErr = &StatusError{Code: resp.StatusCode, Body: string(b)}
			}()
			if lastErr == nil {
				return nil
			}
			// decode failures won't improve on retry
			var de *DecodeError
			if errors.As(lastErr, &de) {
				return lastErr
			}
		}

		if attempt < tries-1 {
			select {
			case <-time.After(c.backoff * time.Duration(1<<attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return lastErr
}

// Query escapes a free-text term for use in a URL query component.
func Query(s string) string { return url.QueryEscape(s) }
