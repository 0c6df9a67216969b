package analysis

// WeighReply returns a reply's weighted score. Like weighting only applies
// when reply weighting is enabled at all.
func WeighReply(score float64, likeCount int, cfg RunConfig) float64 {
	weighted := score
	if cfg.ReplyWeight != 0 {
		weighted = weighted * cfg.ReplyWeight
		if likeCount > 0 && cfg.LikeWeight != 0 {
			weighted = weighted * float64(likeCount) * cfg.LikeWeight
		}
	}
	return weighted
}

// WeighComment returns the base weighted score of a top-level comment before
// any replies are folded in. The like boost is derived from the raw score, it
// never compounds.
func WeighComment(score float64, likeCount int, cfg RunConfig) float64 {
	weighted := score
	if likeCount > 0 && cfg.LikeWeight != 0 {
		weighted = score * float64(likeCount) * cfg.LikeWeight
	}
	return weighted
}

// FoldReply folds one weighted reply into its parent's running weighted score.
// Replies to a negative comment always push it further down, whatever their
// own sign.
func FoldReply(commentWeighted, commentScore, replyWeighted float64, cfg RunConfig) float64 {
	if cfg.ReplyWeight == 0 {
		return commentWeighted
	}
	switch {
	case commentScore > 0:
		return commentWeighted + replyWeighted
	case commentScore < 0:
		return commentWeighted - replyWeighted
	default:
		return commentWeighted
	}
}
