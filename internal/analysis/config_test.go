package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRunConfig(t *testing.T) {
	tests := []struct {
		name    string
		like    string
		reply   string
		max     string
		want    RunConfig
		wantErr bool
	}{
		{name: "all empty uses defaults", want: RunConfig{}},
		{name: "typical form", like: "2", reply: "0.5", max: "100", want: RunConfig{LikeWeight: 2, ReplyWeight: 0.5, MaxComments: 100}},
		{name: "whitespace trimmed", like: " 1.5 ", reply: "1", max: " 3 ", want: RunConfig{LikeWeight: 1.5, ReplyWeight: 1, MaxComments: 3}},
		{name: "integral float cap", max: "3.0", want: RunConfig{MaxComments: 3}},
		{name: "fractional cap", max: "2.5", wantErr: true},
		{name: "negative like weight", like: "-1", wantErr: true},
		{name: "negative cap", max: "-4", wantErr: true},
		{name: "not a number", reply: "lots", wantErr: true},
		{name: "NaN rejected", like: "NaN", wantErr: true},
		{name: "infinity rejected", reply: "+Inf", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRunConfig(tt.like, tt.reply, tt.max)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunConfigValidate(t *testing.T) {
	assert.NoError(t, RunConfig{LikeWeight: 1, ReplyWeight: 2, MaxComments: 10}.Validate())
	assert.ErrorIs(t, RunConfig{LikeWeight: -1}.Validate(), ErrInvalidConfiguration)
	assert.ErrorIs(t, RunConfig{ReplyWeight: math.NaN()}.Validate(), ErrInvalidConfiguration)
	assert.ErrorIs(t, RunConfig{MaxComments: -1}.Validate(), ErrInvalidConfiguration)
}
