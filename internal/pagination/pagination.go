// Package pagination holds page arithmetic, including windows over
// letter-sharded tables that are read one after another.
package pagination

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Limits bounds the page size a client may ask for.
type Limits struct {
	DefaultPerPage int
	MaxPerPage     int
}

func DefaultLimits() Limits {
	return Limits{DefaultPerPage: DefaultPerPage, MaxPerPage: MaxPerPage}
}

// Page describes one page of a result set.
type Page struct {
	Number     int  `json:"page"`
	PerPage    int  `json:"perPage"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasPrev    bool `json:"hasPrev"`
	HasNext    bool `json:"hasNext"`
}

// New clamps the requested page and page size and computes the page metadata.
// A page past the end is moved to the last page.
func New(number, perPage, total int, limits Limits) Page {
	if limits.DefaultPerPage <= 0 {
		limits.DefaultPerPage = DefaultPerPage
	}
	if limits.MaxPerPage < limits.DefaultPerPage {
		limits.MaxPerPage = limits.DefaultPerPage
	}
	if perPage <= 0 {
		perPage = limits.DefaultPerPage
	}
	if perPage > limits.MaxPerPage {
		perPage = limits.MaxPerPage
	}
	if total < 0 {
		total = 0
	}
	if number < 1 {
		number = 1
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages > 0 && number > totalPages {
		number = totalPages
	}
	if totalPages == 0 {
		number = 1
	}
	return Page{
		Number:     number,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    number > 1,
		HasNext:    number < totalPages,
	}
}

func (p Page) Offset() int { return (p.Number - 1) * p.PerPage }

func (p Page) Limit() int { return p.PerPage }

// Prev returns the previous page number, or 0 when there is none.
func (p Page) Prev() int {
	if !p.HasPrev {
		return 0
	}
	return p.Number - 1
}

// Next returns the next page number, or 0 when there is none.
func (p Page) Next() int {
	if !p.HasNext {
		return 0
	}
	return p.Number + 1
}

// Window is the part of one shard that falls into a global offset/limit range.
type Window struct {
	Shard  int
	Offset int
	Limit  int
}

// Span maps the global range [offset, offset+limit) over shards laid out in
// order with the given sizes onto per-shard windows. Empty shards and shards
// outside the range produce no window.
func Span(counts []int, offset, limit int) []Window {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return nil
	}
	var windows []Window
	start := 0
	for i, n := range counts {
		if n <= 0 {
			continue
		}
		end := start + n
		if offset < end {
			from := offset - start
			if from < 0 {
				from = 0
			}
			take := n - from
			if take > limit {
				take = limit
			}
			windows = append(windows, Window{Shard: i, Offset: from, Limit: take})
			limit -= take
			if limit == 0 {
				break
			}
		}
		start = end
	}
	return windows
}
