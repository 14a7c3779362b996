package browse

import (
	"slices"
	"strings"
	"sync"
)

// SearchOption overrides an axis for a single Search call. The override is
// stored, so the displayed list keeps matching the axes afterwards.
type SearchOption func(*Axes)

// WithCategory replaces the category axis. An empty value clears it.
func WithCategory(category string) SearchOption {
	return func(a *Axes) { a.Category = category }
}

// WithMinRating replaces the minimum rating axis. Zero clears it.
func WithMinRating(rating float64) SearchOption {
	return func(a *Axes) { a.MinRating = rating }
}

// Engine owns the full catalog and the current axes. The displayed list is
// always recomputed from the full catalog, never from a previous result.
// It is safe for concurrent use.
type Engine struct {
	mu        sync.RWMutex
	full      []Book
	axes      Axes
	displayed []Book
	gen       uint64
	loaded    bool
}

func NewEngine() *Engine {
	return &Engine{full: []Book{}, displayed: []Book{}}
}

// Load replaces the catalog wholesale and resets every axis. A generation
// older than the last accepted one is ignored and Load returns false, so a
// slow response cannot overwrite a newer one.
func (e *Engine) Load(gen uint64, books []Book) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.loaded && gen < e.gen {
		return false
	}
	e.gen = gen
	e.loaded = true
	e.full = slices.Clone(books)
	if e.full == nil {
		e.full = []Book{}
	}
	e.axes = Axes{}
	e.recompute()
	return true
}

// Generation returns the generation of the catalog currently held.
func (e *Engine) Generation() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.gen
}

// Search narrows the catalog by title. An empty query leaves the state
// untouched. Category and rating stay as they are unless overridden.
func (e *Engine) Search(query string, opts ...SearchOption) {
	if query == "" {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.axes.Search = strings.ToLower(query)
	for _, opt := range opts {
		opt(&e.axes)
	}
	e.recompute()
}

// Filter sets the category and minimum rating, keeping search and sort.
func (e *Engine) Filter(category string, minRating float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.axes.Category = category
	e.axes.MinRating = minRating
	e.recompute()
}

// SetSort changes the ordering and keeps every filter.
func (e *Engine) SetSort(key SortKey) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.axes.Sort = key
	e.recompute()
}

// ClearSearch drops the search text and keeps the other axes.
func (e *Engine) ClearSearch() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.axes.Search = ""
	e.recompute()
}

// ResetToFullCatalog clears search, category and rating but keeps the sort.
func (e *Engine) ResetToFullCatalog() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.axes = Axes{Sort: e.axes.Sort}
	e.recompute()
}

// Reset returns every axis to its default.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.axes = Axes{}
	e.recompute()
}

// caller holds e.mu.
func (e *Engine) recompute() {
	e.displayed = Derive(e.full, e.axes)
}

func (e *Engine) Displayed() []Book {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.displayed)
}

func (e *Engine) Full() []Book {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.full)
}

func (e *Engine) Axes() Axes {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.axes
}

// Categories returns the distinct upper-cased categories of the full catalog
// in first-seen order. Every entry selects at least one book when passed to
// Filter.
func (e *Engine) Categories() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	seen := make(map[string]struct{}, len(e.full))
	out := []string{}
	for _, b := range e.full {
		key := categoryKey(b.Category)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		label := strings.ToUpper(strings.TrimSpace(b.Category))
		if categoryKey(label) != key {
			label = strings.TrimSpace(b.Category)
		}
		out = append(out, label)
	}
	return out
}

// Titles returns the autocomplete options: every title of the full catalog.
func (e *Engine) Titles() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]string, 0, len(e.full))
	for _, b := range e.full {
		out = append(out, b.Title)
	}
	return out
}

// Lookup returns the book with the given id from the full catalog.
func (e *Engine) Lookup(id string) (Book, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, b := range e.full {
		if b.ID == id {
			return b, true
		}
	}
	return Book{}, false
}
