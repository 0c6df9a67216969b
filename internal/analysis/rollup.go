package analysis

import "github.com/spacesedan/commentflow/internal/models"

// run holds the running totals of a single invocation. It is never shared.
type run struct {
	summary models.VideoSummary
}

func newRun(videoID, provider string, cfg RunConfig) *run {
	return &run{
		summary: models.VideoSummary{
			VideoID:     videoID,
			Provider:    provider,
			LikeWeight:  cfg.LikeWeight,
			ReplyWeight: cfg.ReplyWeight,
			MaxComments: cfg.MaxComments,
			Comments:    []models.CommentRecord{},
		},
	}
}

func (r *run) processed() int {
	return len(r.summary.Comments)
}

// nextIndex is the 1-based index the next comment will be stored under.
func (r *run) nextIndex() int {
	return r.processed() + 1
}

// add buckets the comment by the sign of its raw score and updates the totals.
// The label is not consulted.
func (r *run) add(record models.CommentRecord) {
	switch {
	case record.SentimentScore > 0:
		r.summary.PositiveCount++
	case record.SentimentScore < 0:
		r.summary.NegativeCount++
	default:
		r.summary.NeutralCount++
	}
	r.summary.TotalRawScore += record.SentimentScore
	r.summary.TotalWeightedScore += record.WeightedScore
	r.summary.Comments = append(r.summary.Comments, record)
}

func (r *run) capReached(cfg RunConfig) bool {
	return cfg.MaxComments != 0 && r.processed() >= cfg.MaxComments
}

func (r *run) truncate(err error) {
	r.summary.Truncated = true
	r.summary.TruncatedReason = err.Error()
}

func (r *run) finalize() *models.VideoSummary {
	r.summary.NetLabelScore = r.summary.PositiveCount - r.summary.NegativeCount
	r.summary.OverallLabel = overallLabel(r.summary.NetLabelScore)
	summary := r.summary
	return &summary
}

func overallLabel(net int) models.Label {
	switch {
	case net > 0:
		return models.LabelPositive
	case net < 0:
		return models.LabelNegative
	default:
		return models.LabelNeutral
	}
}
