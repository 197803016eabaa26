package finder

// DefaultPageSize is the number of rows per page in paged listings.
const DefaultPageSize = 45

// Paginate returns page (zero based) of items and the total page count.
// page is clamped into range; an empty input has one empty page.
func Paginate[T any](items []T, page, size int) ([]T, int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (len(items) + size - 1) / size
	if pages == 0 {
		return nil, 1
	}
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}
	start := page * size
	end := min(start+size, len(items))
	return items[start:end], pages
}
