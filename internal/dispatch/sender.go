package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/drcalc/drcalc-backend/pkg/config"
	pkgerrors "github.com/drcalc/drcalc-backend/pkg/errors"
	"github.com/drcalc/drcalc-backend/pkg/logger"
)

// Sender delivers envelopes to a webhook endpoint.
type Sender interface {
	Send(ctx context.Context, endpoint string, envelopes []Envelope) (int, error)
}

// maxErrorExcerpt bounds how much of a failure response body is
// carried into the error message.
const maxErrorExcerpt = 200

type httpSender struct {
	client *http.Client
	logg   *logger.Logger
}

// NewSender builds a webhook sender with the configured request timeout.
func NewSender(cfg config.DispatchConfig, logg *logger.Logger) Sender {
	return &httpSender{
		client: &http.Client{Timeout: cfg.RequestTimeout},
		logg:   logg,
	}
}

// Send posts envelopes one at a time, in order, stopping at the first
// failure. It returns how many envelopes were accepted; on error the
// count tells the caller which chunks already went out.
func (s *httpSender) Send(ctx context.Context, endpoint string, envelopes []Envelope) (int, error) {
	for i, env := range envelopes {
		if err := s.post(ctx, endpoint, env); err != nil {
			return i, pkgerrors.Wrap(pkgerrors.CodeDelivery, err,
				fmt.Sprintf("envelope %d of %d failed: %v", i+1, len(envelopes), err)).
				WithDetails(map[string]int{"delivered": i, "total": len(envelopes)})
		}
	}
	return len(envelopes), nil
}

func (s *httpSender) post(ctx context.Context, endpoint string, env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	// Webhook endpoints answer 204 on success; accept any 2xx.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorExcerpt))
		if len(excerpt) > 0 {
			return fmt.Errorf("endpoint answered %s: %s", resp.Status, excerpt)
		}
		return fmt.Errorf("endpoint answered %s", resp.Status)
	}
	return nil
}
