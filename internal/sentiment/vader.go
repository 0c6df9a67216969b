package sentiment

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/commentflow/internal/models"
)

const (
	PROVIDER_VADER = "vader"

	// compound scores inside (-VADER_THRESHOLD, VADER_THRESHOLD) count as neutral
	VADER_THRESHOLD = 0.20
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	bareURLPattern      = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTagPattern      = regexp.MustCompile(`<[^>]*>`)
)

func RemoveLinks(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return bareURLPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText renders markdown and strips the resulting markup and
// links, leaving single-spaced plain text.
func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(RemoveLinks(input)),
		blackfriday.WithNoExtensions(),
		blackfriday.WithRenderer(blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
			Flags: blackfriday.UseXHTML,
		})))
	stripped := html.UnescapeString(htmlTagPattern.ReplaceAllString(string(output), " "))
	return strings.Join(strings.Fields(stripped), " ")
}

// VaderProvider scores text locally with the VADER lexicon.
type VaderProvider struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderProvider() *VaderProvider {
	return &VaderProvider{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderProvider) Name() string { return PROVIDER_VADER }

// Analyze returns the compound score. Inside the neutral band the score is
// reported as 0 so that label and sign agree.
func (v *VaderProvider) Analyze(_ context.Context, text string) (models.SentimentResult, error) {
	plainText := ConvertMarkdownToText(text)
	score := v.analyzer.PolarityScores(plainText).Compound

	switch {
	case score >= VADER_THRESHOLD:
		return models.SentimentResult{Label: models.LabelPositive, Score: score}, nil
	case score <= -VADER_THRESHOLD:
		return models.SentimentResult{Label: models.LabelNegative, Score: score}, nil
	default:
		return models.NeutralResult(), nil
	}
}
