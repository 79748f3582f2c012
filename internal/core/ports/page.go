package ports

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	MaxPage      = 100_000
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Limit  int
}

// NewPage normalizes user input: non-positive values fall back to the defaults,
// number is capped at MaxPage and limit at MaxLimit.
func NewPage(number, limit int) Page {
	if number <= 0 {
		number = DefaultPage
	}
	if number > MaxPage {
		number = MaxPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Number: number, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}
