package models

type ReplyRecord struct {
	Index          int     `json:"index"`
	Text           string  `json:"reply"`
	Author         string  `json:"author,omitempty"`
	LikeCount      int     `json:"reply_like_count"`
	SentimentLabel Label   `json:"reply_sentiment_label"`
	SentimentScore float64 `json:"reply_sentiment_score"`
	WeightedScore  float64 `json:"reply_sentiment_score_weighted"`
}

type CommentRecord struct {
	Index           int           `json:"index"`
	Text            string        `json:"comment"`
	Author          string        `json:"author,omitempty"`
	LikeCount       int           `json:"like_count"`
	TotalReplyCount int           `json:"total_reply_count"`
	SentimentLabel  Label         `json:"comment_sentiment_label"`
	SentimentScore  float64       `json:"comment_sentiment_score"`
	WeightedScore   float64       `json:"comment_sentiment_score_weighted"`
	ReplyPositive   int           `json:"reply_positive"`
	ReplyNegative   int           `json:"reply_negative"`
	ReplyNeutral    int           `json:"reply_neutral"`
	Replies         []ReplyRecord `json:"replies"`
}

// VideoSummary is the result of one analysis run. Comments is ordered by
// Index, which starts at 1 and never skips.
type VideoSummary struct {
	VideoID            string          `json:"video_id"`
	Provider           string          `json:"provider"`
	LikeWeight         float64         `json:"like_input"`
	ReplyWeight        float64         `json:"reply_input"`
	MaxComments        int             `json:"max_input"`
	PositiveCount      int             `json:"total_positive_com"`
	NegativeCount      int             `json:"total_negative_com"`
	NeutralCount       int             `json:"total_neutral_com"`
	NetLabelScore      int             `json:"total_sentiment_label"`
	TotalRawScore      float64         `json:"total_sentiment_score"`
	TotalWeightedScore float64         `json:"total_sentiment_score_weighted"`
	OverallLabel       Label           `json:"overall_label"`
	PagesFetched       int             `json:"pages_fetched"`
	Truncated          bool            `json:"truncated"`
	TruncatedReason    string          `json:"truncated_reason,omitempty"`
	Comments           []CommentRecord `json:"comments"`
}

// VideoMetadata is the display information shown next to a summary.
type VideoMetadata struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Channel   string `json:"channel"`
	Thumbnail string `json:"thumbnail"`
	Views     int64  `json:"views"`
	Likes     int64  `json:"likes"`
	Favorites int64  `json:"favorites"`
	Comments  int64  `json:"comments"`
}
