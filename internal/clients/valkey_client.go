package clients

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spacesedan/commentflow/internal/metrics"
	"github.com/spacesedan/commentflow/internal/models"
	"github.com/valkey-io/valkey-go"
)

const (
	VALKEY_SUMMARY_KEY_PREFIX = "commentflow:summary:"
	VALKEY_SUMMARY_TTL        = 86400
	valkeyRetries             = 3
)

var ErrSummaryNotFound = errors.New("summary not found")

type ValkeyConfig struct {
	Address  string
	Password string
	UseTLS   bool
}

// ValkeyClient keeps finished summaries for a day so a run can be fetched
// again by its ID.
type ValkeyClient struct {
	Client valkey.Client
	opts   valkey.ClientOption
	mu     sync.Mutex
}

func NewValkeyClient(cfg ValkeyConfig) (*ValkeyClient, error) {
	opts := valkey.ClientOption{
		InitAddress: []string{
			cfg.Address,
		},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := connectValkey(opts)
	if err != nil {
		return nil, err
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", cfg.Address))

	return &ValkeyClient{Client: client, opts: opts}, nil
}

func connectValkey(opts valkey.ClientOption) (valkey.Client, error) {
	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}
	return client, nil
}

func (vc *ValkeyClient) recreateClient() {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")

	client, err := connectValkey(vc.opts)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed",
			slog.String("error", err.Error()))
		return
	}

	vc.Client.Close()
	vc.Client = client
	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
}

func (vc *ValkeyClient) client() valkey.Client {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.Client
}

func (vc *ValkeyClient) Close() {
	vc.client().Close()
}

// SaveSummary stores a summary under its run ID with a one day TTL.
func (vc *ValkeyClient) SaveSummary(ctx context.Context, runID string, summary *models.VideoSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("[ValkeyClient] failed to marshal summary: %w", err)
	}

	key := summaryKey(runID)
	responses := vc.DoMultiWithRetry(ctx, func(c valkey.Client) []valkey.Completed {
		return []valkey.Completed{
			c.B().Set().Key(key).Value(string(payload)).Build(),
			c.B().Expire().Key(key).Seconds(VALKEY_SUMMARY_TTL).Build(),
		}
	}, valkeyRetries)
	for _, res := range responses {
		if err := res.Error(); err != nil {
			metrics.RunStoreOps.WithLabelValues("save", "error").Inc()
			return fmt.Errorf("[ValkeyClient] failed to save summary: %w", err)
		}
	}

	metrics.RunStoreOps.WithLabelValues("save", "ok").Inc()
	slog.Info("[ValkeyClient] Stored summary",
		slog.String("run_id", runID),
		slog.String("video_id", summary.VideoID))
	return nil
}

func (vc *ValkeyClient) GetSummary(ctx context.Context, runID string) (*models.VideoSummary, error) {
	key := summaryKey(runID)
	res := vc.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Get().Key(key).Build()
	}, valkeyRetries)

	raw, err := res.ToString()
	if valkey.IsValkeyNil(err) {
		metrics.RunStoreOps.WithLabelValues("get", "miss").Inc()
		return nil, fmt.Errorf("run %q: %w", runID, ErrSummaryNotFound)
	}
	if err != nil {
		if isConnectionError(err) {
			vc.recreateClient()
		}
		metrics.RunStoreOps.WithLabelValues("get", "error").Inc()
		return nil, fmt.Errorf("[ValkeyClient] failed to read summary: %w", err)
	}

	var summary models.VideoSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		metrics.RunStoreOps.WithLabelValues("get", "error").Inc()
		return nil, fmt.Errorf("[ValkeyClient] failed to unmarshal summary: %w", err)
	}

	metrics.RunStoreOps.WithLabelValues("get", "hit").Inc()
	return &summary, nil
}

func summaryKey(runID string) string {
	return VALKEY_SUMMARY_KEY_PREFIX + runID
}

// DoMultiWithRetry rebuilds the commands on every attempt since a completed
// command cannot be sent twice.
func (vc *ValkeyClient) DoMultiWithRetry(ctx context.Context, build func(valkey.Client) []valkey.Completed, retries int) []valkey.ValkeyResult {
	var results []valkey.ValkeyResult

	for i := 0; i < retries; i++ {
		c := vc.client()
		results = c.DoMulti(ctx, build(c)...)
		hasErr := false
		for _, r := range results {
			if r.Error() != nil {
				hasErr = true
				slog.Warn("[ValkeyClient] Do Multi failed",
					slog.Int("attempt", i+1),
					slog.String("error", r.Error().Error()))
				if isConnectionError(r.Error()) {
					vc.recreateClient()
				}
				break
			}
		}
		if !hasErr {
			break
		}
		time.Sleep(time.Millisecond * 250)
	}

	return results
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, build func(valkey.Client) valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		c := vc.client()
		result = c.Do(ctx, build(c))
		if err := result.Error(); err == nil || valkey.IsValkeyNil(err) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		time.Sleep(250 * time.Millisecond)
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
