package models

// Wire shapes for the YouTube Data API v3. Only the fields we read are mapped.

type YouTubeCommentThreadListResponse struct {
	NextPageToken string                 `json:"nextPageToken"`
	Items         []YouTubeCommentThread `json:"items"`
}

type YouTubeCommentThread struct {
	ID      string `json:"id"`
	Snippet struct {
		VideoID         string         `json:"videoId"`
		TopLevelComment YouTubeComment `json:"topLevelComment"`
		TotalReplyCount int            `json:"totalReplyCount"`
	} `json:"snippet"`
	Replies struct {
		Comments []YouTubeComment `json:"comments"`
	} `json:"replies"`
}

type YouTubeComment struct {
	ID      string `json:"id"`
	Snippet struct {
		AuthorDisplayName string `json:"authorDisplayName"`
		TextDisplay       string `json:"textDisplay"`
		TextOriginal      string `json:"textOriginal"`
		LikeCount         int    `json:"likeCount"`
		ParentID          string `json:"parentId,omitempty"`
	} `json:"snippet"`
}

type YouTubeVideoListResponse struct {
	Items []YouTubeVideo `json:"items"`
}

type YouTubeThumbnail struct {
	URL string `json:"url"`
}

type YouTubeVideo struct {
	ID      string `json:"id"`
	Snippet struct {
		Title        string                      `json:"title"`
		ChannelTitle string                      `json:"channelTitle"`
		Thumbnails   map[string]YouTubeThumbnail `json:"thumbnails"`
	} `json:"snippet"`
	// The API encodes counters as strings.
	Statistics struct {
		ViewCount     string `json:"viewCount"`
		LikeCount     string `json:"likeCount"`
		FavoriteCount string `json:"favoriteCount"`
		CommentCount  string `json:"commentCount"`
	} `json:"statistics"`
}

type YouTubeErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}
