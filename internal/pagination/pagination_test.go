package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	limits := Limits{DefaultPerPage: 20, MaxPerPage: 50}

	tests := []struct {
		name                     string
		number, perPage, total   int
		wantNumber, wantPerPage  int
		wantPages, wantOffset    int
		wantHasPrev, wantHasNext bool
	}{
		{"first page", 1, 10, 95, 1, 10, 10, 0, false, true},
		{"middle page", 3, 10, 95, 3, 10, 10, 20, true, true},
		{"last partial page", 10, 10, 95, 10, 10, 10, 90, true, false},
		{"past the end clamps to last", 42, 10, 95, 10, 10, 10, 90, true, false},
		{"zero page becomes first", 0, 10, 95, 1, 10, 10, 0, false, true},
		{"negative page becomes first", -3, 10, 95, 1, 10, 10, 0, false, true},
		{"default page size", 1, 0, 95, 1, 20, 5, 0, false, true},
		{"page size capped", 1, 500, 95, 1, 50, 2, 0, false, true},
		{"empty result", 4, 10, 0, 1, 10, 0, 0, false, false},
		{"exact multiple", 2, 10, 20, 2, 10, 2, 10, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.number, tt.perPage, tt.total, limits)
			assert.Equal(t, tt.wantNumber, p.Number)
			assert.Equal(t, tt.wantPerPage, p.PerPage)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantOffset, p.Offset())
			assert.Equal(t, tt.wantHasPrev, p.HasPrev)
			assert.Equal(t, tt.wantHasNext, p.HasNext)
		})
	}
}

func TestNewZeroLimitsFallBackToDefaults(t *testing.T) {
	p := New(1, 0, 100, Limits{})
	assert.Equal(t, DefaultPerPage, p.PerPage)
}

func TestPrevNext(t *testing.T) {
	p := New(2, 10, 30, DefaultLimits())
	assert.Equal(t, 1, p.Prev())
	assert.Equal(t, 3, p.Next())

	first := New(1, 10, 30, DefaultLimits())
	assert.Equal(t, 0, first.Prev())

	last := New(3, 10, 30, DefaultLimits())
	assert.Equal(t, 0, last.Next())
}

func TestSpan(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		offset int
		limit  int
		want   []Window
	}{
		{
			name:   "inside first shard",
			counts: []int{10, 5},
			offset: 2, limit: 3,
			want: []Window{{Shard: 0, Offset: 2, Limit: 3}},
		},
		{
			name:   "crosses shard boundary",
			counts: []int{3, 0, 5},
			offset: 2, limit: 4,
			want: []Window{{Shard: 0, Offset: 2, Limit: 1}, {Shard: 2, Offset: 0, Limit: 3}},
		},
		{
			name:   "spans several shards",
			counts: []int{2, 2, 2, 2},
			offset: 1, limit: 6,
			want: []Window{
				{Shard: 0, Offset: 1, Limit: 1},
				{Shard: 1, Offset: 0, Limit: 2},
				{Shard: 2, Offset: 0, Limit: 2},
				{Shard: 3, Offset: 0, Limit: 1},
			},
		},
		{
			name:   "starts in later shard",
			counts: []int{4, 4, 4},
			offset: 9, limit: 10,
			want: []Window{{Shard: 2, Offset: 1, Limit: 3}},
		},
		{
			name:   "offset past the end",
			counts: []int{1, 1},
			offset: 5, limit: 10,
			want: nil,
		},
		{
			name:   "zero limit",
			counts: []int{5},
			offset: 0, limit: 0,
			want: nil,
		},
		{
			name:   "all empty",
			counts: []int{0, 0, 0},
			offset: 0, limit: 10,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Span(tt.counts, tt.offset, tt.limit))
		})
	}
}

func TestSpanCoversRequestedRange(t *testing.T) {
	counts := []int{7, 0, 3, 11, 0, 1, 9}
	total := 0
	for _, n := range counts {
		total += n
	}
	for offset := 0; offset <= total; offset++ {
		for limit := 1; limit <= 12; limit++ {
			got := 0
			for _, w := range Span(counts, offset, limit) {
				assert.LessOrEqual(t, w.Offset+w.Limit, counts[w.Shard])
				got += w.Limit
			}
			want := limit
			if total-offset < want {
				want = total - offset
			}
			assert.Equal(t, want, got, "offset=%d limit=%d", offset, limit)
		}
	}
}
