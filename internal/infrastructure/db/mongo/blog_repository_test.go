package mongo

import (
	"math"
	"testing"
)

func TestPageSkip(t *testing.T) {
	cases := []struct {
		name  string
		page  int
		limit int
		want  int64
		ok    bool
	}{
		{"first page", 1, 50, 0, true},
		{"third page", 3, 20, 40, true},
		{"unset page", 0, 50, 0, true},
		{"largest safe page", math.MaxInt64/100 + 1, 100, (math.MaxInt64 / 100) * 100, true},
		{"overflowing page", math.MaxInt64, 100, 0, false},
		{"just past the limit", math.MaxInt64/100 + 2, 100, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := pageSkip(tc.page, tc.limit)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("pageSkip(%d, %d) = %d, %v; want %d, %v", tc.page, tc.limit, got, ok, tc.want, tc.ok)
			}
		})
	}
}
