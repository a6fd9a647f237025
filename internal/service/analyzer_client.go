package service

import (
	"bytes"
	"chatlens/internal/config"
	"chatlens/internal/logger"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// AnalyzerClient forwards a chat export to the analytics backend
type AnalyzerClient interface {
	// Analyze posts the file as multipart field "chat" and returns the
	// response body and status. A non-2xx status is returned as an error
	// together with the body and status.
	Analyze(ctx context.Context, fileName string, content io.Reader) ([]byte, int, error)
}

type analyzerClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewAnalyzerClient creates a client for the configured backend. A zero
// timeout leaves the request unbounded.
func NewAnalyzerClient(cfg config.AnalyzerConfig) AnalyzerClient {
	return &analyzerClient{
		endpoint: cfg.Endpoint(),
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

func (c *analyzerClient) Analyze(ctx context.Context, fileName string, content io.Reader) ([]byte, int, error) {
	log := logger.Component("analyzer")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("chat", fileName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, 0, fmt.Errorf("failed to copy upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, 0, fmt.Errorf("failed to close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	log.Debug().Str("url", c.endpoint).Str("file", fileName).Int("bytes", body.Len()).Msg("POST analyze")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("HTTP request failed")
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read response body")
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	log.Debug().Int("status", resp.StatusCode).Int("bytes", len(respBody)).Msg("Analyze response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return respBody, resp.StatusCode, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	return respBody, resp.StatusCode, nil
}
