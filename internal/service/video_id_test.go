package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractVideoID(t *testing.T) {
	tests := map[string]string{
		"dQw4w9WgXcQ":                                   "dQw4w9WgXcQ",
		"  dQw4w9WgXcQ ":                                "dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":   "dQw4w9WgXcQ",
		"youtube.com/watch?v=dQw4w9WgXcQ&t=42":          "dQw4w9WgXcQ",
		"https://m.youtube.com/watch?v=dQw4w9WgXcQ":     "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?si=xyz":           "dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ":    "dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ/foo": "dQw4w9WgXcQ",
		"https://example.com/watch?v=dQw4w9WgXcQ":       "",
		"":                                              "",
	}

	for in, want := range tests {
		assert.Equal(t, want, ExtractVideoID(in), in)
	}
}
