package utils

// PostsPerPage is the fixed page size for every listing in the app.
const PostsPerPage = 10

// Page is one slice of an ordered list plus the metadata the templates
// need to render previous/next controls.
type Page[T any] struct {
	Items      []T
	Number     int // 1-indexed
	TotalPages int
	Total      int
	HasPrev    bool
	HasNext    bool
}

// Paginate slices items into fixed-size pages. The requested page number
// is 1-indexed and clamps to the nearest valid page instead of failing:
// anything below 1 becomes page 1, anything past the end becomes the last
// page. An empty list yields a single empty page.
func Paginate[T any](items []T, perPage, number int) Page[T] {
	if perPage < 1 {
		perPage = PostsPerPage
	}

	total := len(items)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}

	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	start := (number - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end],
		Number:     number,
		TotalPages: totalPages,
		Total:      total,
		HasPrev:    number > 1,
		HasNext:    number < totalPages,
	}
}
