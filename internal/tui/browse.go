// Package tui provides the interactive catalog browser.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bookcatalog/internal/browse"
	"bookcatalog/internal/client"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 20
)

// ratingSteps are the minimum-rating choices offered by the rating key.
var ratingSteps = []float64{0, 1, 2, 3, 4}

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, tea.WithAltScreen()).Run()
}

type bookItem struct {
	browse.Book
	liked bool
	likes int
}

func (i bookItem) Title() string       { return i.Book.Title }
func (i bookItem) Description() string { return i.Author }
func (i bookItem) FilterValue() string { return i.Book.Title }

type bookDelegate struct {
	styles itemStyles
}

func (d bookDelegate) Height() int                         { return 4 }
func (d bookDelegate) Spacing() int                        { return 0 }
func (d bookDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d bookDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	b, ok := item.(bookItem)
	if !ok {
		return
	}

	heart := "  "
	if b.liked {
		heart = d.styles.likedStyle.Render("♥ ")
	}
	titleLine := heart + d.styles.titleStyle.Render(truncate(b.Book.Title, m.Width()-8))
	metaLine := d.styles.metaStyle.Render(fmt.Sprintf("%s | %s | $%.2f | %d likes",
		truncate(b.Author, 30), strings.ToUpper(b.Category), b.Price, b.likes))
	ratingLine := d.styles.ratingStyle.Render(fmt.Sprintf("%.1f/5", b.Rating))

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(lipgloss.JoinVertical(lipgloss.Left, titleLine, metaLine, ratingLine)))
}

type catalogLoadedMsg struct {
	accepted bool
	err      error
}

type likeDoneMsg struct {
	bookID string
	liked  bool
	err    error
}

// Model is the bubbletea model of the browser.
type Model struct {
	ctx     context.Context
	session *client.Session
	engine  *browse.Engine

	list      list.Model
	search    textinput.Model
	searching bool
	titles    []string

	categoryIdx int
	ratingIdx   int
	sortIdx     int

	status string
	err    error
}

func NewModel(ctx context.Context, session *client.Session) *Model {
	l := list.New(nil, bookDelegate{styles: newItemStyles()}, defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	ti := textinput.New()
	ti.Placeholder = "search titles"
	ti.CharLimit = 120
	ti.Width = 40

	m := &Model{
		ctx:     ctx,
		session: session,
		engine:  session.Engine(),
		list:    l,
		search:  ti,
	}
	m.refreshItems()
	return m
}

func (m *Model) Init() tea.Cmd {
	return m.loadCatalog()
}

func (m *Model) loadCatalog() tea.Cmd {
	m.status = "loading catalog..."
	return func() tea.Msg {
		accepted, err := m.session.RefreshCatalog(m.ctx)
		return catalogLoadedMsg{accepted: accepted, err: err}
	}
}

func (m *Model) toggleLike() tea.Cmd {
	selected, ok := m.list.SelectedItem().(bookItem)
	if !ok {
		return nil
	}
	if _, ok := m.session.Identity(); !ok {
		m.err = client.ErrNotLoggedIn
		return nil
	}
	id, wasLiked := selected.ID, selected.liked
	return func() tea.Msg {
		var err error
		if wasLiked {
			err = m.session.Unlike(m.ctx, id)
		} else {
			err = m.session.Like(m.ctx, id)
		}
		return likeDoneMsg{bookID: id, liked: !wasLiked, err: err}
	}
}

// refreshItems mirrors the engine's displayed list into the list widget.
func (m *Model) refreshItems() {
	displayed := m.engine.Displayed()
	items := make([]list.Item, 0, len(displayed))
	for _, b := range displayed {
		items = append(items, bookItem{
			Book:  b,
			liked: m.session.IsLiked(b.ID),
			likes: m.session.LikeCount(b.ID),
		})
	}
	m.list.SetItems(items)
	m.titles = m.engine.Titles()
}

// suggestion is the first catalog title that extends the typed search text,
// matched case-insensitively.
func (m *Model) suggestion() string {
	typed := strings.ToLower(m.search.Value())
	if typed == "" {
		return ""
	}
	for _, title := range m.titles {
		if len(title) > len(typed) && strings.HasPrefix(strings.ToLower(title), typed) {
			return title
		}
	}
	return ""
}

func (m *Model) categories() []string {
	return append([]string{""}, m.engine.Categories()...)
}

func (m *Model) applyFilter() {
	cats := m.categories()
	if m.categoryIdx >= len(cats) {
		m.categoryIdx = 0
	}
	m.engine.Filter(cats[m.categoryIdx], ratingSteps[m.ratingIdx])
	m.refreshItems()
}

// clearFilters drops category and rating. An active search is re-run with
// both overridden so it keeps narrowing the catalog.
func (m *Model) clearFilters() {
	m.categoryIdx, m.ratingIdx = 0, 0
	if q := m.engine.Axes().Search; q != "" {
		m.engine.Search(q, browse.WithCategory(""), browse.WithMinRating(0))
	} else {
		m.engine.Filter("", 0)
	}
	m.refreshItems()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = fmt.Sprintf("%d books", len(m.engine.Full()))
			if msg.accepted {
				m.categoryIdx, m.ratingIdx, m.sortIdx = 0, 0, 0
				m.search.SetValue("")
			}
		}
		m.refreshItems()
		return m, nil

	case likeDoneMsg:
		m.err = msg.err
		if msg.err == nil {
			verb := "unliked"
			if msg.liked {
				verb = "liked"
			}
			m.status = verb
			if b, ok := m.engine.Lookup(msg.bookID); ok {
				m.status = fmt.Sprintf("%s %q", verb, b.Title)
			}
		}
		m.refreshItems()
		return m, nil

	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-4, 40)
		height := clamp(defaultListHeight, msg.Height-8, 4)
		m.list.SetSize(width, height)
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		m.engine.Search(strings.TrimSpace(m.search.Value()))
		m.refreshItems()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyTab:
		if title := m.suggestion(); title != "" {
			m.search.SetValue(title)
			m.search.CursorEnd()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	m.err = nil
	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit, true
	case "/":
		m.searching = true
		return m.search.Focus(), true
	case "c":
		m.categoryIdx = (m.categoryIdx + 1) % len(m.categories())
		m.applyFilter()
		return nil, true
	case "r":
		m.ratingIdx = (m.ratingIdx + 1) % len(ratingSteps)
		m.applyFilter()
		return nil, true
	case "s":
		m.sortIdx = (m.sortIdx + 1) % len(browse.SortKeys)
		m.engine.SetSort(browse.SortKeys[m.sortIdx])
		m.refreshItems()
		return nil, true
	case "f":
		m.clearFilters()
		return nil, true
	case "x":
		m.categoryIdx, m.ratingIdx = 0, 0
		m.search.SetValue("")
		m.engine.ResetToFullCatalog()
		m.refreshItems()
		return nil, true
	case "l":
		return m.toggleLike(), true
	case "R":
		return m.loadCatalog(), true
	}
	return nil, false
}

func (m *Model) View() string {
	header := headerStyle.Render("bookcatalog")
	if id, ok := m.session.Identity(); ok {
		header = headerStyle.Render("bookcatalog · " + id.Email)
	}

	axes := m.engine.Axes()
	var axesLine string
	if axes.IsDefault() {
		axesLine = axesStyle.Render(fmt.Sprintf("whole catalog | %d books", len(m.engine.Full())))
	} else {
		category := axes.Category
		if category == "" {
			category = "all"
		}
		axesLine = axesStyle.Render(fmt.Sprintf("search: %q | category: %s | rating ≥ %.0f | sort: %s | %d/%d shown",
			axes.Search, category, axes.MinRating, axes.Sort.Label(), len(m.engine.Displayed()), len(m.engine.Full())))
	}

	parts := []string{header, axesLine}
	if m.searching {
		input := m.search.View()
		if title := m.suggestion(); title != "" {
			input += hintStyle.Render("  tab: " + title)
		}
		parts = append(parts, input)
	}
	parts = append(parts, m.list.View())
	if m.err != nil {
		parts = append(parts, errorStyle.Render(m.err.Error()))
	} else if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	parts = append(parts, helpStyle.Render("/ search | c category | r rating | f clear filters | s sort | x reset | l like | R reload | q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Run starts the browser and blocks until the user quits.
func Run(ctx context.Context, session *client.Session) error {
	_, err := runProgram(NewModel(ctx, session))
	return err
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	if width <= 0 || len(value) <= width {
		return value
	}
	if width <= 3 {
		return value[:width]
	}
	return value[:width-3] + "..."
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
