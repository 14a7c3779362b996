package browse

import (
	"slices"
	"strings"
)

// SortKey selects the ordering of the displayed list.
type SortKey int

const (
	SortNone SortKey = iota
	SortPriceAsc
	SortPriceDesc
	SortRatingAsc
	SortRatingDesc
)

var sortKeyNames = map[SortKey]string{
	SortNone:       "none",
	SortPriceAsc:   "price-asc",
	SortPriceDesc:  "price-desc",
	SortRatingAsc:  "rating-asc",
	SortRatingDesc: "rating-desc",
}

var sortKeyLabels = map[SortKey]string{
	SortNone:       "Relevance",
	SortPriceAsc:   "Price (Low to High)",
	SortPriceDesc:  "Price (High to Low)",
	SortRatingAsc:  "Rating (Low to High)",
	SortRatingDesc: "Rating (High to Low)",
}

// SortKeys lists every key in menu order.
var SortKeys = []SortKey{SortNone, SortPriceAsc, SortPriceDesc, SortRatingAsc, SortRatingDesc}

func (k SortKey) String() string {
	if name, ok := sortKeyNames[k]; ok {
		return name
	}
	return sortKeyNames[SortNone]
}

// Label is the human readable menu text.
func (k SortKey) Label() string {
	if label, ok := sortKeyLabels[k]; ok {
		return label
	}
	return sortKeyLabels[SortNone]
}

// ParseSortKey accepts the short names (price-asc, price_asc) and the menu
// labels, case-insensitively. Anything else is SortNone.
func ParseSortKey(s string) SortKey {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortNone
	}
	normalized := strings.ReplaceAll(s, "_", "-")
	for _, k := range SortKeys {
		if normalized == sortKeyNames[k] || s == strings.ToLower(sortKeyLabels[k]) {
			return k
		}
	}
	return SortNone
}

// ApplySort returns a stably sorted copy of books. SortNone keeps the input
// order. Equal keys keep their relative order.
func ApplySort(books []Book, key SortKey) []Book {
	out := slices.Clone(books)
	if out == nil {
		out = []Book{}
	}

	var cmp func(a, b Book) int
	switch key {
	case SortPriceAsc:
		cmp = func(a, b Book) int { return compareFloat(a.Price, b.Price) }
	case SortPriceDesc:
		cmp = func(a, b Book) int { return compareFloat(b.Price, a.Price) }
	case SortRatingAsc:
		cmp = func(a, b Book) int { return compareFloat(a.Rating, b.Rating) }
	case SortRatingDesc:
		cmp = func(a, b Book) int { return compareFloat(b.Rating, a.Rating) }
	default:
		return out
	}

	slices.SortStableFunc(out, cmp)
	return out
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
