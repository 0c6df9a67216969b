package sentiment

import (
	"context"
	"testing"

	"github.com/spacesedan/commentflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertMarkdownToText(t *testing.T) {
	got := ConvertMarkdownToText("**bold** [link](https://example.com/a) see https://example.org/b")
	assert.Equal(t, "bold link see", got)
}

func TestRemoveLinks(t *testing.T) {
	assert.Equal(t, "visit  now", RemoveLinks("visit www.example.com now"))
	assert.Equal(t, "the docs", RemoveLinks("the [docs](http://example.com/docs)"))
}

func TestVaderProvider_Analyze(t *testing.T) {
	p := NewVaderProvider()
	ctx := context.Background()

	tests := []struct {
		name  string
		text  string
		label models.Label
	}{
		{"positive", "I love this video, it is great and wonderful!", models.LabelPositive},
		{"negative", "This is terrible, awful and I hate it.", models.LabelNegative},
		{"neutral", "The video is ten minutes long.", models.LabelNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.Analyze(ctx, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.label, res.Label)
			assert.Equal(t, tt.label, models.LabelFromScore(res.Score))
			assert.GreaterOrEqual(t, res.Score, -1.0)
			assert.LessOrEqual(t, res.Score, 1.0)
		})
	}
}

func TestVaderProvider_Name(t *testing.T) {
	assert.Equal(t, "vader", NewVaderProvider().Name())
}

func TestConvertMarkdownToText_KeepsPunctuation(t *testing.T) {
	assert.Equal(t, `don't "stop" & go`, ConvertMarkdownToText(`don't "stop" & go`))
}
