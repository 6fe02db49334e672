package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"linklet/internal/config"
	"linklet/internal/lib/sl"
	"log/slog"
	"net/http"
	"time"
)

// Adapter error taxonomy. Transport failures and engine 5xx map to
// ErrUnavailable, engine validation (4xx) to ErrRejected, a missing remote
// object to ErrNotFound.
var (
	ErrUnavailable = errors.New("n8n unavailable")
	ErrRejected    = errors.New("n8n rejected request")
	ErrNotFound    = errors.New("n8n workflow not found")
)

type Service struct {
	BaseURL string
	ApiKey  string
	Client  *http.Client
	Log     *slog.Logger
}

func NewService(conf *config.Config, logger *slog.Logger) *Service {
	return &Service{
		BaseURL: conf.N8N.BaseURL,
		ApiKey:  conf.N8N.ApiKey,
		Client:  &http.Client{Timeout: 30 * time.Second},
		Log:     logger.With(sl.Module("n8n")),
	}
}

func (s *Service) url(path string) string {
	return fmt.Sprintf("%s/api/v1/%s", s.BaseURL, path)
}

// request performs one engine call and maps the response status to the
// adapter error taxonomy. The response body is returned for 2xx only.
func (s *Service) request(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.url(path), reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("X-N8N-API-KEY", s.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		s.Log.With(
			slog.Int("status", resp.StatusCode),
			slog.String("path", path),
			slog.String("body", string(body)),
		).Warn("engine rejected request")
		return nil, fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, string(body))
	default:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
}
