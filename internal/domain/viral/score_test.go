package viral

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"viralcut/internal/types"
)

func TestTotalScore_Table(t *testing.T) {
	tests := []struct {
		name  string
		score types.ViralScore
		want  float64
	}{
		{"all zero", types.ViralScore{}, 0.0},
		{"all max", types.ViralScore{HookStrength: 10, EmotionalImpact: 10, Shareability: 10, Completeness: 10}, 10.0},
		{"hook only", types.ViralScore{HookStrength: 10}, 3.0},
		{"emotional only", types.ViralScore{EmotionalImpact: 10}, 2.5},
		{"shareability only", types.ViralScore{Shareability: 10}, 2.5},
		{"completeness only", types.ViralScore{Completeness: 10}, 2.0},
		{"mixed", types.ViralScore{HookStrength: 8, EmotionalImpact: 6, Shareability: 4, Completeness: 2}, 5.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TotalScore(tt.score), 1e-9)
		})
	}
}

func TestTotalScore_HookWeighsHighest(t *testing.T) {
	hook := types.ViralScore{HookStrength: 10, EmotionalImpact: 5, Shareability: 5, Completeness: 5}
	flat := types.ViralScore{HookStrength: 5, EmotionalImpact: 10, Shareability: 5, Completeness: 5}
	assert.Greater(t, TotalScore(hook), TotalScore(flat))
}

func TestClampInt(t *testing.T) {
	assert.Equal(t, 0, clampInt(-3, 0, 10))
	assert.Equal(t, 10, clampInt(15, 0, 10))
	assert.Equal(t, 7, clampInt(7, 0, 10))
}
