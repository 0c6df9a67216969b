package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spacesedan/commentflow/internal/models"
)

const (
	HF_SENTIMENT_ANALYSIS_ENDPOINT = "https://spacesedan-sentiment-analyzer.hf.space/analyze_batch"
	HF_ANALYZER_HEALTH_ENDPOINT    = "https://spacesedan-sentiment-analyzer.hf.space/health"
)

type HuggingFaceConfig struct {
	AnalyzerEndpoint string
	HealthEndpoint   string
	Timeout          time.Duration
	InitialBackoff   time.Duration
}

type HuggingFaceClient struct {
	Client           *http.Client
	analyzerEndpoint string
	healthEndpoint   string
	initialBackoff   time.Duration
}

// NewHuggingFaceClient builds a client for the hosted sentiment analyzer.
// Production deployments should use a short timeout, the space sleeps when idle.
func NewHuggingFaceClient(cfg HuggingFaceConfig) *HuggingFaceClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	client := &HuggingFaceClient{
		Client:           &http.Client{Timeout: timeout},
		analyzerEndpoint: cfg.AnalyzerEndpoint,
		healthEndpoint:   cfg.HealthEndpoint,
		initialBackoff:   cfg.InitialBackoff,
	}
	if client.analyzerEndpoint == "" {
		client.analyzerEndpoint = HF_SENTIMENT_ANALYSIS_ENDPOINT
	}
	if client.healthEndpoint == "" {
		client.healthEndpoint = HF_ANALYZER_HEALTH_ENDPOINT
	}
	if client.initialBackoff == 0 {
		client.initialBackoff = INITIAL_BACKOFF
	}

	slog.Info("[HuggingFaceClient] Initializing Client",
		slog.Duration("timeout", timeout),
		slog.String("endpoint", client.analyzerEndpoint))
	return client
}

func (h *HuggingFaceClient) DoWithRetry(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error
	backoff := h.initialBackoff

	for attempt := 0; attempt < MAX_RETRIES; attempt++ {
		if attempt > 0 && req.GetBody != nil {
			body, bodyErr := req.GetBody()
			if bodyErr != nil {
				return nil, fmt.Errorf("failed to rewind request body: %w", bodyErr)
			}
			req.Body = body
		}

		resp, err = h.Client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		slog.Warn("[HuggingFaceClient] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", errMsg(err, resp)))

		if resp != nil {
			resp.Body.Close()
		}
		if err == nil {
			err = fmt.Errorf("status code %d", resp.StatusCode)
		}

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(backoff):
		}
		backoff = nextBackoff(backoff)
	}

	return nil, err
}

func (h *HuggingFaceClient) GetBatchedSentimentAnalysis(ctx context.Context, input models.SentimentAnalysisBatchRequest) (models.SentimentAnalysisBatchResponse, error) {
	var result models.SentimentAnalysisBatchResponse
	slog.Debug("[HuggingFaceClient] Requesting sentiment analysis from sentiment analysis service",
		slog.Int("batch_size", len(input)))
	start := time.Now()

	err := h.postJSON(ctx, h.analyzerEndpoint, input, &result)
	if err != nil {
		slog.Error("[HuggingFaceClient] Sentiment Analysis request failed",
			slog.Duration("elapsed", time.Since(start)))
		return result, err
	}

	slog.Debug("[HuggingFaceClient] Sentiment Analysis request successful",
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

// AnalyzerHealthCheck reports whether the analyzer answers its health endpoint
// with a 200.
func (h *HuggingFaceClient) AnalyzerHealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.healthEndpoint, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := h.Client.Do(req)
	if err != nil {
		slog.Warn("[HuggingFaceClient] Analyzer health check failed",
			slog.String("error", err.Error()))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

// helper function for posting data to the AI services
func (h *HuggingFaceClient) postJSON(ctx context.Context, endpoint string, input interface{}, output interface{}) error {
	body, err := json.Marshal(input)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to marshal input",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to build request",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := h.DoWithRetry(req)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed request after retries",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))

		return fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to read response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return errors.New(errMsg(nil, resp))
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[HuggingFaceClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			getPreview(respBody),
			slog.Int("raw_response_length", len(string(respBody))))

		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
