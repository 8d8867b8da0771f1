package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/agentflow/agentflow-api/internal/logger"
)

// RemoteAnalyzer calls an external model endpoint and falls back to the
// keyword strategy on any failure, so the reply pipeline never stalls on the
// model being down.
type RemoteAnalyzer struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	fallback   Analyzer
	log        *logger.Logger
}

func NewRemoteAnalyzer(endpoint, apiKey string, fallback Analyzer, log *logger.Logger) *RemoteAnalyzer {
	return &RemoteAnalyzer{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		fallback:   fallback,
		log:        log.Child("ai:remote", nil),
	}
}

func (a *RemoteAnalyzer) Analyze(ctx context.Context, text string) (Analysis, error) {
	if a.endpoint == "" {
		return a.fallback.Analyze(ctx, text)
	}

	analysis, err := a.call(ctx, text)
	if err != nil {
		a.log.Warn("remote analysis failed, using keyword fallback", map[string]any{"error": err.Error()})
		return a.fallback.Analyze(ctx, text)
	}
	return analysis, nil
}

func (a *RemoteAnalyzer) call(ctx context.Context, text string) (Analysis, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return Analysis{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return Analysis{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return Analysis{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return Analysis{}, fmt.Errorf("analysis endpoint returned status %d", resp.StatusCode)
	}

	var analysis Analysis
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return Analysis{}, err
	}
	if analysis.Intent == "" {
		analysis.Intent = IntentUnknown
	}
	if analysis.Language == "" {
		analysis.Language = detectLanguage(text)
	}
	return analysis, nil
}
