package search

const (
	DefaultPageSize = 12
	maxPageSize     = 100
	maxPage         = 10000
)

// Window converts a 1-based page number into an offset and limit. Pages past
// maxPage are clamped so the offset cannot overflow.
func Window(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if size <= 0 || size > maxPageSize {
		size = DefaultPageSize
	}
	return (page - 1) * size, size
}
