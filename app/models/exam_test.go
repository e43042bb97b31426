package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeForScore(t *testing.T) {
	cases := []struct {
		name     string
		score    float64
		maxScore float64
		want     string
	}{
		{"full marks", 100, 100, "A"},
		{"boundary A", 80, 100, "A"},
		{"boundary B", 79, 100, "B"},
		{"boundary C", 65, 100, "C"},
		{"boundary D", 50, 100, "D"},
		{"boundary E", 40, 100, "E"},
		{"fail", 39, 100, "F"},
		{"scaled max", 36, 40, "A"},
		{"zero max", 10, 0, "N/A"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GradeForScore(tc.score, tc.maxScore))
		})
	}
}
