package sentiment

import (
	"testing"

	"github.com/spacesedan/commentflow/internal/clients"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	p, err := New("VADER", Deps{})
	require.NoError(t, err)
	assert.Equal(t, PROVIDER_VADER, p.Name())

	hf, err := New("huggingface", Deps{HuggingFace: clients.NewHuggingFaceClient(clients.HuggingFaceConfig{})})
	require.NoError(t, err)
	assert.Equal(t, PROVIDER_HUGGINGFACE, hf.Name())
}

func TestNew_Errors(t *testing.T) {
	for _, name := range []string{"watson", "", "openai", "huggingface"} {
		_, err := New(name, Deps{})
		assert.ErrorIs(t, err, ErrUnknownProvider, name)
	}
}

func TestNames(t *testing.T) {
	assert.ElementsMatch(t, []string{"vader", "openai", "huggingface"}, Names())
}
