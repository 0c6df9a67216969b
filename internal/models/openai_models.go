package models

import "encoding/json"

// OpenAISentimentResponse is the JSON object the model is asked to reply with.
// Score arrives as a number or a quoted number depending on the model's mood.
type OpenAISentimentResponse struct {
	Label string      `json:"label"`
	Score json.Number `json:"score"`
}
