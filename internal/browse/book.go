// Package browse holds a fetched catalog in memory and derives the displayed
// list from four independent axes: search text, category, minimum rating and
// sort order.
package browse

// Book is the read model the engine filters and sorts.
type Book struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	Category   string  `json:"category"`
	Price      float64 `json:"price"`
	Rating     float64 `json:"rating"`
	Image      string  `json:"image"`
	TotalLikes int     `json:"totalLikes"`
}

// Axes is the query state. The zero value selects the whole catalog in
// server order.
type Axes struct {
	Search    string
	Category  string
	MinRating float64
	Sort      SortKey
}

// IsDefault reports whether no axis narrows or reorders the catalog.
func (a Axes) IsDefault() bool {
	return a == Axes{}
}
