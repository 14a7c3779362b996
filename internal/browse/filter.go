package browse

import (
	"strings"

	"golang.org/x/text/cases"
)

var folder = cases.Fold()

func fold(s string) string {
	return folder.String(s)
}

// categoryKey is the comparison form of a category: trimmed and case-folded.
func categoryKey(s string) string {
	return fold(strings.TrimSpace(s))
}

// ApplyFilters keeps books matching every non-default criterion, in input
// order. The input slice is never modified.
//
// Title search is a case-insensitive substring match. Category is a
// case-insensitive exact match ignoring surrounding whitespace. A minRating
// of zero or less disables the rating filter.
func ApplyFilters(full []Book, search, category string, minRating float64) []Book {
	search = fold(search)
	category = categoryKey(category)

	out := make([]Book, 0, len(full))
	for _, b := range full {
		if search != "" && !strings.Contains(fold(b.Title), search) {
			continue
		}
		if category != "" && categoryKey(b.Category) != category {
			continue
		}
		if minRating > 0 && b.Rating < minRating {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Derive computes the displayed list for the given axes. Filtering always
// happens before sorting.
func Derive(full []Book, axes Axes) []Book {
	return ApplySort(ApplyFilters(full, axes.Search, axes.Category, axes.MinRating), axes.Sort)
}
