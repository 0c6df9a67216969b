package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RunConfig parameterizes one run. Zero values disable the matching behaviour.
type RunConfig struct {
	// LikeWeight multiplies the like-driven boost of comments and replies.
	LikeWeight float64 `json:"like_weight"`
	// ReplyWeight scales how much a reply perturbs its parent.
	ReplyWeight float64 `json:"reply_weight"`
	// MaxComments caps top-level comments processed; 0 is unlimited.
	MaxComments int `json:"max_comments"`
}

// ParseRunConfig parses raw form values. An empty value keeps the default of 0;
// anything else has to be a finite non-negative number.
func ParseRunConfig(likeWeight, replyWeight, maxComments string) (RunConfig, error) {
	var cfg RunConfig
	var err error

	if cfg.LikeWeight, err = parseWeight("likeWeight", likeWeight); err != nil {
		return RunConfig{}, err
	}
	if cfg.ReplyWeight, err = parseWeight("replyWeight", replyWeight); err != nil {
		return RunConfig{}, err
	}

	capValue, err := parseWeight("maxComments", maxComments)
	if err != nil {
		return RunConfig{}, err
	}
	if capValue != math.Trunc(capValue) || capValue > math.MaxInt32 {
		return RunConfig{}, fmt.Errorf("%w: maxComments must be a whole number, got %q", ErrInvalidConfiguration, maxComments)
	}
	cfg.MaxComments = int(capValue)

	return cfg, nil
}

func parseWeight(field, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not a number: %q", ErrInvalidConfiguration, field, raw)
	}
	if err := checkNonNegative(field, v); err != nil {
		return 0, err
	}
	return v, nil
}

func checkNonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite", ErrInvalidConfiguration, field)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s must be non-negative, got %v", ErrInvalidConfiguration, field, v)
	}
	return nil
}

// Validate checks an already typed config, e.g. one decoded from a queue message.
func (c RunConfig) Validate() error {
	if err := checkNonNegative("likeWeight", c.LikeWeight); err != nil {
		return err
	}
	if err := checkNonNegative("replyWeight", c.ReplyWeight); err != nil {
		return err
	}
	if c.MaxComments < 0 {
		return fmt.Errorf("%w: maxComments must be non-negative, got %d", ErrInvalidConfiguration, c.MaxComments)
	}
	return nil
}
