package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spacesedan/commentflow/internal/models"
)

// fakeSource serves pages in order; page i is requested with token "page-i".
type fakeSource struct {
	mu       sync.Mutex
	pages    []models.CommentPage
	failAt   map[int]error
	requests []string
}

func newFakeSource(pages ...[]models.RawComment) *fakeSource {
	src := &fakeSource{failAt: map[int]error{}}
	for i, items := range pages {
		page := models.CommentPage{Items: items}
		if i < len(pages)-1 {
			page.NextPageToken = fmt.Sprintf("page-%d", i+1)
		}
		src.pages = append(src.pages, page)
	}
	return src
}

func (f *fakeSource) FetchPage(_ context.Context, _ string, pageToken string) (models.CommentPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, pageToken)

	idx := 0
	if pageToken != "" {
		if _, err := fmt.Sscanf(pageToken, "page-%d", &idx); err != nil {
			return models.CommentPage{}, err
		}
	}
	if err, ok := f.failAt[idx]; ok {
		return models.CommentPage{}, err
	}
	if idx >= len(f.pages) {
		return models.CommentPage{}, errors.New("no such page")
	}
	return f.pages[idx], nil
}

func (f *fakeSource) fetches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// stubProvider returns fixed results per text; unknown texts are neutral.
type stubProvider struct {
	mu      sync.Mutex
	results map[string]models.SentimentResult
	errs    map[string]error
	panics  map[string]bool
	calls   []string
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		results: map[string]models.SentimentResult{},
		errs:    map[string]error{},
		panics:  map[string]bool{},
	}
}

func (s *stubProvider) score(text string, score float64) *stubProvider {
	s.results[text] = models.SentimentResult{Label: models.LabelFromScore(score), Score: score}
	return s
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Analyze(_ context.Context, text string) (models.SentimentResult, error) {
	s.mu.Lock()
	s.calls = append(s.calls, text)
	s.mu.Unlock()

	if s.panics[text] {
		panic("provider exploded")
	}
	if err, ok := s.errs[text]; ok {
		return models.SentimentResult{}, err
	}
	if res, ok := s.results[text]; ok {
		return res, nil
	}
	return models.NeutralResult(), nil
}

func comment(text string, likes int, replies ...models.RawReply) models.RawComment {
	return models.RawComment{
		Text:            text,
		LikeCount:       likes,
		TotalReplyCount: len(replies),
		Replies:         replies,
	}
}

func reply(text string, likes int) models.RawReply {
	return models.RawReply{Text: text, LikeCount: likes}
}
