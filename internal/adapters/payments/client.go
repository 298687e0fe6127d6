package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/Bekimoon0043/Hotel-connecter/internal/adapters/observability"
	"github.com/Bekimoon0043/Hotel-connecter/internal/domain"
)

// Client talks to the external payment processor. Charges are keyed by
// the booking reference, so the processor can deduplicate retried
// submissions on its side.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

var (
	ErrDeclined     = errors.New("payments: card declined")
	ErrUnauthorized = errors.New("payments: unauthorized")
)

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// Charge submits a charge and waits for the processor's verdict.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
// A decline (402) is final and never retried.
func (c *Client) Charge(ctx context.Context, req domain.ChargeRequest) (domain.Receipt, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return domain.Receipt{}, err
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return domain.Receipt{}, err
	}
	url := c.base + "/v1/charges"

	var lastErr error
	for i := 0; i < 4; i++ {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return domain.Receipt{}, err
		}
		httpReq.Header.Set("X-API-Key", c.key)
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Accept", "application/json")
		// Processor-side idempotency across retries of the same booking.
		httpReq.Header.Set("Idempotency-Key", req.Reference)

		start := time.Now()
		resp, err := c.hc.Do(httpReq)
		if err != nil {
			lastErr = err
			if sleepErr := sleepCtx(ctx, backoff(i)); sleepErr != nil {
				return domain.Receipt{}, sleepErr
			}
			continue
		}

		observability.ObserveExternal("payments", "charges", resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
			var rec domain.Receipt
			err := json.NewDecoder(resp.Body).Decode(&rec)
			resp.Body.Close()
			if err != nil {
				return domain.Receipt{}, fmt.Errorf("decode receipt: %w", err)
			}
			return rec, nil

		case resp.StatusCode == http.StatusPaymentRequired:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return domain.Receipt{}, fmt.Errorf("%w: %s", ErrDeclined, bytes.TrimSpace(body))

		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			resp.Body.Close()
			return domain.Receipt{}, ErrUnauthorized

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			wait := backoff(i)
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil {
					wait = time.Duration(secs) * time.Second
				}
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("payments: status %d", resp.StatusCode)
			if sleepErr := sleepCtx(ctx, wait); sleepErr != nil {
				return domain.Receipt{}, sleepErr
			}
			continue

		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return domain.Receipt{}, fmt.Errorf("payments: status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
		}
	}
	return domain.Receipt{}, lastErr
}

func backoff(attempt int) time.Duration {
	return time.Duration(250*(1<<attempt)) * time.Millisecond
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
