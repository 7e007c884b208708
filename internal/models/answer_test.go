package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceString(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"Paris"`, "Paris"},
		{`["A","C"]`, "A,C"},
		{`{"a":1}`, "[object Object]"},
		{`null`, ""},
		{`true`, "true"},
		{`4`, "4"},
		{`4.50`, "4.5"},
		{`-0.25`, "-0.25"},
		{`0`, "0"},
		{`123456789012345680000`, "123456789012345680000"},
		{`1e21`, "1e+21"},
		{`-2.5e22`, "-2.5e+22"},
		{`0.000001`, "0.000001"},
		{`1e-7`, "1e-7"},
		{`1.5e-10`, "1.5e-10"},
		{`[1e21, 2]`, "1e+21,2"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceString(json.RawMessage(tt.raw)))
		})
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		score, total, want int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{29, 200, 15},
		{3, 3, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percentage(tt.score, tt.total), "%d/%d", tt.score, tt.total)
	}
}
