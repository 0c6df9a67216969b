package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spacesedan/commentflow/internal/analysis"
	"github.com/spacesedan/commentflow/internal/metrics"
	"github.com/spacesedan/commentflow/internal/models"
	"golang.org/x/oauth2"
)

const (
	YOUTUBE_API_BASE_URL   = "https://www.googleapis.com/youtube/v3"
	youtubePageSize        = 100
	youtubeRequestTimeout  = 30 * time.Second
	youtubeCommentThreads  = "commentThreads"
	youtubeVideos          = "videos"
	youtubeThumbnailLarge  = "standard"
	youtubeThumbnailSmall  = "default"
	youtubeErrorBodyLength = 200
)

// ErrQuotaExceeded is returned for 403 responses caused by API quota rather
// than by the video itself.
var ErrQuotaExceeded = errors.New("youtube quota exceeded")

var quotaReasons = map[string]bool{
	"quotaExceeded":      true,
	"dailyLimitExceeded": true,
	"rateLimitExceeded":  true,
}

type YouTubeConfig struct {
	APIKey     string
	OAuthToken string
	BaseURL    string
	Timeout    time.Duration
	// InitialBackoff overrides INITIAL_BACKOFF between retries.
	InitialBackoff time.Duration
}

// YouTubeClient reads comment threads and video metadata from the YouTube
// Data API. It is the production CommentSource.
type YouTubeClient struct {
	Client         *http.Client
	baseURL        string
	apiKey         string
	initialBackoff time.Duration
}

func NewYouTubeClient(cfg YouTubeConfig) (*YouTubeClient, error) {
	if cfg.APIKey == "" && cfg.OAuthToken == "" {
		return nil, errors.New("[YouTubeClient] either an API key or an OAuth token is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = youtubeRequestTimeout
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = YOUTUBE_API_BASE_URL
	}
	backoff := cfg.InitialBackoff
	if backoff == 0 {
		backoff = INITIAL_BACKOFF
	}

	httpClient := &http.Client{Timeout: timeout}
	if cfg.OAuthToken != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.OAuthToken,
			TokenType:   "Bearer",
		}))
		httpClient.Timeout = timeout
	}

	slog.Info("[YouTubeClient] Client initialized",
		slog.String("base_url", baseURL),
		slog.Bool("oauth", cfg.OAuthToken != ""),
		slog.Duration("timeout", timeout))

	return &YouTubeClient{
		Client:         httpClient,
		baseURL:        baseURL,
		apiKey:         cfg.APIKey,
		initialBackoff: backoff,
	}, nil
}

// FetchPage returns one page of comment threads with their inline replies.
func (y *YouTubeClient) FetchPage(ctx context.Context, videoID, pageToken string) (models.CommentPage, error) {
	params := url.Values{}
	params.Set("part", "snippet,replies")
	params.Set("videoId", videoID)
	params.Set("maxResults", strconv.Itoa(youtubePageSize))
	params.Set("textFormat", "plainText")
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var response models.YouTubeCommentThreadListResponse
	if err := y.getJSON(ctx, youtubeCommentThreads, params, &response); err != nil {
		return models.CommentPage{}, err
	}

	page := models.CommentPage{
		NextPageToken: response.NextPageToken,
		Items:         make([]models.RawComment, 0, len(response.Items)),
	}
	for _, thread := range response.Items {
		page.Items = append(page.Items, threadToRaw(thread))
	}

	slog.Debug("[YouTubeClient] Fetched comment page",
		slog.String("video_id", videoID),
		slog.Int("items", len(page.Items)),
		slog.Bool("has_next", page.NextPageToken != ""))

	return page, nil
}

// GetVideo looks up the title, channel, thumbnail and counters of a video.
func (y *YouTubeClient) GetVideo(ctx context.Context, videoID string) (models.VideoMetadata, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", videoID)

	var response models.YouTubeVideoListResponse
	if err := y.getJSON(ctx, youtubeVideos, params, &response); err != nil {
		return models.VideoMetadata{}, err
	}
	if len(response.Items) == 0 {
		return models.VideoMetadata{}, fmt.Errorf("[YouTubeClient] no video with id %q: %w", videoID, analysis.ErrVideoNotFound)
	}

	video := response.Items[0]
	thumbnail := video.Snippet.Thumbnails[youtubeThumbnailLarge].URL
	if thumbnail == "" {
		thumbnail = video.Snippet.Thumbnails[youtubeThumbnailSmall].URL
	}

	return models.VideoMetadata{
		ID:        video.ID,
		Title:     video.Snippet.Title,
		Channel:   video.Snippet.ChannelTitle,
		Thumbnail: thumbnail,
		Views:     parseCount(video.Statistics.ViewCount),
		Likes:     parseCount(video.Statistics.LikeCount),
		Favorites: parseCount(video.Statistics.FavoriteCount),
		Comments:  parseCount(video.Statistics.CommentCount),
	}, nil
}

func (y *YouTubeClient) getJSON(ctx context.Context, endpoint string, params url.Values, output any) error {
	if y.apiKey != "" {
		params.Set("key", y.apiKey)
	}
	reqURL := fmt.Sprintf("%s/%s?%s", y.baseURL, endpoint, params.Encode())

	var lastErr error
	backoff := y.initialBackoff

	for attempt := 1; attempt <= MAX_RETRIES; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("[YouTubeClient] failed to build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", USER_AGENT)

		res, err := y.Client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("[YouTubeClient] request canceled: %w", ctx.Err())
			}
			slog.Warn("[YouTubeClient] Request failed, will retry",
				slog.String("endpoint", endpoint),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			metrics.YouTubeRequests.WithLabelValues(endpoint, "error").Inc()
			lastErr = err
		} else {
			body, readErr := io.ReadAll(res.Body)
			res.Body.Close()
			metrics.YouTubeRequests.WithLabelValues(endpoint, strconv.Itoa(res.StatusCode)).Inc()

			switch {
			case res.StatusCode == http.StatusOK:
				if readErr != nil {
					return fmt.Errorf("[YouTubeClient] failed to read response: %w", readErr)
				}
				if err := json.Unmarshal(body, output); err != nil {
					slog.Error("[YouTubeClient] Failed to unmarshal response",
						slog.String("endpoint", endpoint),
						slog.String("error", err.Error()),
						getPreview(body))
					return fmt.Errorf("[YouTubeClient] failed to unmarshal response: %w", err)
				}
				return nil
			case res.StatusCode == http.StatusNotFound:
				return fmt.Errorf("[YouTubeClient] %s: %w", describeError(body), analysis.ErrVideoNotFound)
			case res.StatusCode == http.StatusForbidden:
				if isQuotaError(body) {
					return fmt.Errorf("[YouTubeClient] %s: %w", describeError(body), ErrQuotaExceeded)
				}
				return fmt.Errorf("[YouTubeClient] %s: %w", describeError(body), analysis.ErrCommentsDisabled)
			case res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= http.StatusInternalServerError:
				slog.Warn("[YouTubeClient] Retryable status, backing off",
					slog.String("endpoint", endpoint),
					slog.Int("status", res.StatusCode),
					slog.Int("attempt", attempt),
					slog.Duration("backoff", backoff))
				lastErr = fmt.Errorf("status code %d", res.StatusCode)
			default:
				return fmt.Errorf("[YouTubeClient] unexpected status code %d: %s", res.StatusCode, describeError(body))
			}
		}

		if attempt == MAX_RETRIES {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("[YouTubeClient] request canceled: %w", ctx.Err())
		case <-time.After(backoff):
		}
		backoff = nextBackoff(backoff)
	}

	return fmt.Errorf("[YouTubeClient] %s failed after %d attempts: %w", endpoint, MAX_RETRIES, lastErr)
}

func threadToRaw(thread models.YouTubeCommentThread) models.RawComment {
	top := thread.Snippet.TopLevelComment
	comment := models.RawComment{
		ID:              top.ID,
		Author:          top.Snippet.AuthorDisplayName,
		Text:            commentText(top),
		LikeCount:       top.Snippet.LikeCount,
		TotalReplyCount: thread.Snippet.TotalReplyCount,
	}
	if comment.ID == "" {
		comment.ID = thread.ID
	}

	if thread.Snippet.TotalReplyCount > 0 {
		comment.Replies = make([]models.RawReply, 0, len(thread.Replies.Comments))
		for _, r := range thread.Replies.Comments {
			comment.Replies = append(comment.Replies, models.RawReply{
				ID:        r.ID,
				Author:    r.Snippet.AuthorDisplayName,
				Text:      commentText(r),
				LikeCount: r.Snippet.LikeCount,
			})
		}
	}
	return comment
}

func commentText(c models.YouTubeComment) string {
	if c.Snippet.TextDisplay != "" {
		return c.Snippet.TextDisplay
	}
	return c.Snippet.TextOriginal
}

// parseCount reads a string counter; hidden counters come back empty.
func parseCount(raw string) int64 {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func decodeError(body []byte) (models.YouTubeErrorResponse, bool) {
	var apiErr models.YouTubeErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Code == 0 {
		return apiErr, false
	}
	return apiErr, true
}

func isQuotaError(body []byte) bool {
	apiErr, ok := decodeError(body)
	if !ok {
		return false
	}
	for _, e := range apiErr.Error.Errors {
		if quotaReasons[e.Reason] {
			return true
		}
	}
	return false
}

func describeError(body []byte) string {
	if apiErr, ok := decodeError(body); ok {
		return apiErr.Error.Message
	}
	raw := string(body)
	if len(raw) > youtubeErrorBodyLength {
		cut := youtubeErrorBodyLength
		for cut > 0 && !utf8.RuneStart(raw[cut]) {
			cut--
		}
		raw = raw[:cut]
	}
	return raw
}
