// Package reporting is the HTTP transport for the reports:batchGet endpoint.
package reporting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/rs/zerolog/log"

	"analytics-report-backend/config"
	"analytics-report-backend/internal/dto"
)

// Client executes one batchGet call and returns the decoded response.
type Client interface {
	BatchGet(ctx context.Context, body *dto.BatchGetRequest) (*dto.BatchGetResponse, error)
}

// StatusError is returned when the API answers with a non-OK status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("reporting API error: status code %d: %s", e.StatusCode, e.Body)
}

type httpClient struct {
	endpoint    string
	accessToken string
	httpClient  *http.Client
	maxRetries  uint64
}

func NewHTTPClient(cfg *config.Config) Client {
	timeout := cfg.Reporting.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &httpClient{
		endpoint:    cfg.Reporting.Endpoint,
		accessToken: cfg.Reporting.AccessToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: cfg.Reporting.MaxRetries,
	}
}

func (c *httpClient) BatchGet(ctx context.Context, body *dto.BatchGetRequest) (*dto.BatchGetResponse, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal batchGet request body")
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	var respBodyBytes []byte
	operation := func() error {
		respBodyBytes, err = c.post(ctx, bodyBytes)
		if err == nil {
			return nil
		}
		if se, ok := err.(*StatusError); ok && !retryable(se.StatusCode) {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		log.Warn().Err(err).Msg("Attempt failed: reporting API call")
		return err
	}

	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = 500 * time.Millisecond
	retry.MaxInterval = 10 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(retry, c.maxRetries), ctx)); err != nil {
		if pe, ok := err.(*backoff.PermanentError); ok {
			return nil, pe.Err
		}
		return nil, err
	}

	var resp dto.BatchGetResponse
	if err := json.Unmarshal(respBodyBytes, &resp); err != nil {
		log.Error().Err(err).Bytes("response_body", respBodyBytes).Msg("Failed to unmarshal batchGet response")
		return nil, fmt.Errorf("failed to parse reporting response: %w", err)
	}
	return &resp, nil
}

func (c *httpClient) post(ctx context.Context, bodyBytes []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		log.Error().Err(err).Msg("Failed to create reporting HTTP request")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Responses must reflect the current report state.
	req.Header.Set("Cache-Control", "no-cache")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Reporting HTTP request failed")
		return nil, fmt.Errorf("reporting request failed: %w", err)
	}
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read reporting response body")
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status_code", resp.StatusCode).Bytes("response_body", respBodyBytes).Msg("Reporting API returned non-OK status")
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(respBodyBytes)}
	}
	return respBodyBytes, nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
