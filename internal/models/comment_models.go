package models

// RawComment is a top-level comment as yielded by a comment source, with the
// replies that came back alongside it.
type RawComment struct {
	ID              string     `json:"id"`
	Author          string     `json:"author"`
	Text            string     `json:"text"`
	LikeCount       int        `json:"like_count"`
	TotalReplyCount int        `json:"total_reply_count"`
	Replies         []RawReply `json:"replies,omitempty"`
}

type RawReply struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Text      string `json:"text"`
	LikeCount int    `json:"like_count"`
}

// CommentPage is one page of comment threads. An empty NextPageToken means the
// source has nothing further.
type CommentPage struct {
	Items         []RawComment `json:"items"`
	NextPageToken string       `json:"next_page_token,omitempty"`
}
