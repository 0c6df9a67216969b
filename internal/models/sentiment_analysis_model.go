package models

type Label string

const (
	LabelPositive Label = "positive"
	LabelNeutral  Label = "neutral"
	LabelNegative Label = "negative"
)

// LabelFromScore buckets a score by its sign.
func LabelFromScore(score float64) Label {
	switch {
	case score > 0:
		return LabelPositive
	case score < 0:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

func (l Label) Valid() bool {
	switch l {
	case LabelPositive, LabelNeutral, LabelNegative:
		return true
	}
	return false
}

type SentimentResult struct {
	Label Label   `json:"label"`
	Score float64 `json:"score"`
}

func NeutralResult() SentimentResult {
	return SentimentResult{Label: LabelNeutral, Score: 0}
}
