package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextSequence(t *testing.T) {
	tests := []struct {
		name string
		last string
		want int
	}{
		{"first of the day", "", 1},
		{"follows the highest", "IMP-20260131-0007", 8},
		{"past four digits", "IMP-20260131-9999", 10000},
		{"other prefix", "EXP-20260131-0004", 1},
		{"garbage suffix", "IMP-20260131-x1", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextSequence("IMP-20260131-", tt.last))
		})
	}
}
