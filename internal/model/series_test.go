package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeRangeDays(t *testing.T) {
	tests := []struct {
		r    TimeRange
		want int
	}{
		{Range1D, 1},
		{Range1W, 7},
		{Range1M, 30},
		{Range3M, 90},
		{Range6M, 180},
		{Range1Y, 365},
		{Range5Y, 1825},
		{RangeMax, 3650},
		{TimeRange("bogus"), 365},
		{TimeRange(""), 365},
	}

	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.Days())
		})
	}
}
