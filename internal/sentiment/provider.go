package sentiment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spacesedan/commentflow/internal/analysis"
	"github.com/spacesedan/commentflow/internal/clients"
)

var ErrUnknownProvider = errors.New("unknown sentiment provider")

// Deps carries the clients remote providers are built on. A nil client makes
// the matching provider unavailable.
type Deps struct {
	OpenAI      *clients.OpenAIClient
	HuggingFace *clients.HuggingFaceClient
}

// Names lists every provider New understands.
func Names() []string {
	return []string{PROVIDER_VADER, PROVIDER_OPENAI, PROVIDER_HUGGINGFACE}
}

// New returns the provider registered under name. Names are case-insensitive.
func New(name string, deps Deps) (analysis.SentimentProvider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PROVIDER_VADER:
		return NewVaderProvider(), nil
	case PROVIDER_OPENAI:
		if deps.OpenAI == nil {
			return nil, fmt.Errorf("%w: openai client not configured", ErrUnknownProvider)
		}
		return NewOpenAIProvider(deps.OpenAI.Client, deps.OpenAI.Model), nil
	case PROVIDER_HUGGINGFACE:
		if deps.HuggingFace == nil {
			return nil, fmt.Errorf("%w: huggingface client not configured", ErrUnknownProvider)
		}
		return NewHuggingFaceProvider(deps.HuggingFace), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}
