package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/anicrunch/anicrunch/internal/domain"
	"github.com/anicrunch/anicrunch/internal/tui/components"
	"github.com/anicrunch/anicrunch/internal/tui/styles"
	"github.com/anicrunch/anicrunch/internal/view"
)

// Focus areas
type focusArea int

const (
	focusContent focusArea = iota
	focusChips
	focusSearch
)

// Layout proportions
const (
	InspectorPercent  = 35
	MinInspectorWidth = 30
	MinContentWidth   = 50

	// Search line + chip line above, status line below
	HeaderHeight = 2
	ChromeHeight = 1

	tickInterval  = 100 * time.Millisecond
	statusTimeout = 4 * time.Second
)

// homeTitles labels the home rows
var homeTitles = map[view.Section]string{
	view.SectionSeasonal: "This Season",
	view.SectionTrending: "Trending Now",
	view.SectionTop:      "Top Rated",
}

// Model is the main Bubble Tea model for the application
type Model struct {
	Ready    bool
	ShowHelp bool

	// Collaborators
	Controller *view.Controller
	Events     *Renderer
	Catalog    domain.CatalogRepository
	Watchlist  Watchlist // nil when not logged in
	Opener     Opener
	Username   string

	// UI components
	SearchBar components.SearchBar
	Genres    components.Chips
	Days      components.Chips
	Hero      components.Hero
	Rows      map[view.Section]*components.Row
	Grid      components.Grid
	Inspector components.Inspector

	// Mirrors the controller's last reported ViewState
	ViewState view.ViewState

	focus       focusArea
	homeCursor  int // index into view.HomeSections
	heroHovered bool

	Saved   map[int]bool
	Picked  *domain.Anime // Random pick shown in the inspector
	Details *domain.Anime // Full record of the last inspected anime

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg     string
	StatusIsErr   bool
	SpinnerFrame  int
	ShowInspector bool
}

// NewModel creates a new application model. events must be the Renderer the
// controller was built with.
func NewModel(
	ctrl *view.Controller,
	events *Renderer,
	catalog domain.CatalogRepository,
	watchlist Watchlist,
	opener Opener,
	username string,
) Model {
	genreLabels := make([]string, len(domain.Genres))
	for i, g := range domain.Genres {
		genreLabels[i] = g.Name
	}
	dayLabels := make([]string, len(domain.Weekdays))
	for i, d := range domain.Weekdays {
		dayLabels[i] = d.Title()[:3]
	}

	rows := make(map[view.Section]*components.Row, len(homeTitles))
	for s, title := range homeTitles {
		r := components.NewRow(title)
		rows[s] = &r
	}

	return Model{
		Controller:    ctrl,
		Events:        events,
		Catalog:       catalog,
		Watchlist:     watchlist,
		Opener:        opener,
		Username:      username,
		SearchBar:     components.NewSearchBar(),
		Genres:        components.NewChips(genreLabels),
		Days:          components.NewChips(dayLabels),
		Hero:          components.NewHero(),
		Rows:          rows,
		Grid:          components.NewGrid(),
		Inspector:     components.NewInspector(),
		ViewState:     view.ViewState{Mode: view.ModeHome},
		Saved:         make(map[int]bool),
		ShowInspector: true,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.Events.Wait(),
		StartHomeCmd(m.Controller),
		TickCmd(tickInterval),
	}
	if m.Watchlist != nil {
		cmds = append(cmds, LoadWatchlistCmd(m.Watchlist))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		next, cmd := m.handleKeyMsg(msg)
		if nm, ok := next.(Model); ok {
			nm.syncFocus()
			nm.updateInspector()
			return nm, cmd
		}
		return next, cmd

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(tickInterval)

	case StateChangedMsg, SectionLoadingMsg, CardsMsg, SectionEmptyMsg,
		SectionFailedMsg, LoadMoreMsg, CarouselMsg, HeroMsg:
		m.applyRenderEvent(msg)
		m.syncFocus()
		m.updateInspector()
		return m, m.Events.Wait()

	case RandomPickedMsg:
		anime := msg.Anime
		m.Picked = &anime
		m.Details = &anime
		m.ShowInspector = true
		m.updateLayout()
		m.updateInspector()
		return m, m.setStatus("Random pick: "+anime.Title, false)

	case DetailsLoadedMsg:
		anime := msg.Anime
		m.Details = &anime
		m.updateInspector()
		return m, nil

	case WatchlistLoadedMsg:
		m.Saved = make(map[int]bool, len(msg.IDs))
		for _, id := range msg.IDs {
			m.Saved[id] = true
		}
		m.applySaved()
		return m, nil

	case WatchlistToggledMsg:
		saved := make(map[int]bool, len(m.Saved)+1)
		for id := range m.Saved {
			saved[id] = true
		}
		if msg.Added {
			saved[msg.Anime.ID] = true
		} else {
			delete(saved, msg.Anime.ID)
		}
		m.Saved = saved
		m.applySaved()
		if m.ViewState.Mode == view.ModeWatchlist {
			m.Controller.ShowWatchlist()
		}
		text := "Removed " + msg.Anime.Title + " from watchlist"
		if msg.Added {
			text = "Added " + msg.Anime.Title + " to watchlist"
		}
		return m, m.setStatus(text, false)

	case BrowserOpenedMsg:
		return m, m.setStatus("Opened in browser", false)

	case ErrMsg:
		text := msg.Error()
		if errors.Is(msg.Err, domain.ErrAuthRequired) {
			text = "Log in first: run `anicrunch login`"
		}
		return m, m.setStatus(text, true)

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Cursor blink and similar input housekeeping
	var cmd tea.Cmd
	if m.SearchBar.Focused() {
		m.SearchBar, cmd = m.SearchBar.Update(msg)
	} else if m.Grid.IsFilterTyping() {
		m.Grid, cmd = m.Grid.Update(msg)
	}
	return m, cmd
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(statusTimeout)
}

// applyRenderEvent routes one renderer call to the component that owns the section
func (m *Model) applyRenderEvent(msg tea.Msg) {
	switch msg := msg.(type) {
	case StateChangedMsg:
		prev := m.ViewState
		m.ViewState = msg.State
		m.Grid.SetTitle(msg.State.Title())
		m.Genres.SetActive(-1)
		m.Days.SetActive(-1)
		switch msg.State.Mode {
		case view.ModeGenre:
			for i, g := range domain.Genres {
				if g.ID == msg.State.Genre.ID {
					m.Genres.SetActive(i)
				}
			}
		case view.ModeSchedule:
			for i, d := range domain.Weekdays {
				if d == msg.State.Day {
					m.Days.SetActive(i)
				}
			}
		}
		if prev.Mode != msg.State.Mode {
			m.Picked = nil
		}

	case SectionLoadingMsg:
		switch msg.Section {
		case view.SectionResults:
			m.Grid.SetLoading(msg.Count)
		case view.SectionHero:
			m.Hero.SetLoading(msg.Count)
		default:
			if r := m.Rows[msg.Section]; r != nil {
				r.SetLoading(msg.Count)
			}
		}

	case CardsMsg:
		switch msg.Section {
		case view.SectionResults:
			m.Grid.SetCards(msg.Items, msg.Append)
		default:
			if r := m.Rows[msg.Section]; r != nil {
				r.SetCards(msg.Items, msg.Append)
			}
		}

	case SectionEmptyMsg:
		switch msg.Section {
		case view.SectionResults:
			m.Grid.SetEmpty(msg.Message)
		case view.SectionHero:
			m.Hero.SetEmpty(msg.Message)
		default:
			if r := m.Rows[msg.Section]; r != nil {
				r.SetEmpty(msg.Message)
			}
		}

	case SectionFailedMsg:
		switch msg.Section {
		case view.SectionResults:
			m.Grid.SetFailed(msg.Err)
		case view.SectionHero:
			m.Hero.SetFailed(msg.Err)
		default:
			if r := m.Rows[msg.Section]; r != nil {
				r.SetFailed(msg.Err)
			}
		}

	case LoadMoreMsg:
		m.Grid.SetLoadMore(msg.Status, msg.Err)

	case CarouselMsg:
		if r := m.Rows[msg.Section]; r != nil {
			r.SetCarousel(msg.State)
		}

	case HeroMsg:
		m.Hero.SetSlide(msg.Slide)
	}
}

// applySaved pushes the watchlist ids to every card renderer
func (m *Model) applySaved() {
	m.Grid.SetSaved(m.Saved)
	for _, r := range m.Rows {
		r.SetSaved(m.Saved)
	}
	m.updateInspector()
}

// handleKeyMsg processes keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.ShowHelp {
		m.ShowHelp = false
		return m, nil
	}

	if m.focus == focusSearch {
		return m.handleSearchKey(msg)
	}

	// Typing into the grid filter
	if m.inResults() && m.Grid.IsFilterTyping() {
		var cmd tea.Cmd
		m.Grid, cmd = m.Grid.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, Keys.Search):
		m.focus = focusSearch
		return m, m.SearchBar.Focus()

	case key.Matches(msg, Keys.Escape):
		return m.handleEscape(msg)

	case key.Matches(msg, Keys.Tab):
		if m.focus == focusChips {
			m.focus = focusContent
		} else {
			m.focus = focusChips
		}
		return m, nil

	case key.Matches(msg, Keys.Schedule):
		m.focus = focusContent
		m.Controller.ShowSchedule(domain.WeekdayOf(time.Now()))
		return m, nil

	case key.Matches(msg, Keys.Watchlist):
		m.focus = focusContent
		m.Controller.ShowWatchlist()
		return m, nil

	case key.Matches(msg, Keys.Home):
		m.focus = focusContent
		m.SearchBar.Reset()
		m.Controller.ShowHome()
		return m, nil

	case key.Matches(msg, Keys.Spin):
		m.StatusMsg = "Spinning..."
		m.StatusIsErr = false
		return m, RandomCmd(m.Catalog)

	case key.Matches(msg, Keys.ToggleSaved):
		sel := m.selected()
		if sel == nil {
			return m, nil
		}
		if m.Watchlist == nil {
			return m, m.setStatus("Log in first: run `anicrunch login`", true)
		}
		return m, ToggleWatchlistCmd(m.Watchlist, *sel)

	case key.Matches(msg, Keys.Open):
		sel := m.selected()
		if sel == nil {
			return m, nil
		}
		if sel.URL == "" {
			return m, m.setStatus("No page for "+sel.Title, true)
		}
		return m, OpenCmd(m.Opener, sel.URL)

	case key.Matches(msg, Keys.ScrollDown):
		m.Inspector.Scroll(1)
		return m, nil

	case key.Matches(msg, Keys.ScrollUp):
		m.Inspector.Scroll(-1)
		return m, nil

	case key.Matches(msg, Keys.ToggleInspector):
		m.ShowInspector = !m.ShowInspector
		m.updateLayout()
		return m, nil

	case key.Matches(msg, Keys.Retry):
		if s := m.focusedSection(); m.Controller.CanRetry(s) {
			m.Controller.Retry(s)
		}
		return m, nil

	case key.Matches(msg, Keys.LoadMore):
		m.Controller.LoadMore()
		return m, nil
	}

	if m.focus == focusChips {
		return m.handleChipsKey(msg)
	}

	if m.inResults() {
		return m.handleResultsKey(msg)
	}
	return m.handleHomeKey(msg)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.SearchBar.Reset()
		m.SearchBar.Blur()
		m.focus = focusContent
		m.Controller.Clear()
		return m, nil
	case "enter":
		m.SearchBar.Blur()
		m.focus = focusContent
		m.Controller.Search(m.SearchBar.Query())
		return m, nil
	case "tab", "down":
		m.SearchBar.Blur()
		m.focus = focusContent
		return m, nil
	}

	var cmd tea.Cmd
	m.SearchBar, cmd = m.SearchBar.Update(msg)
	if m.SearchBar.QueryChanged() {
		m.Controller.Input(m.SearchBar.Query())
	}
	return m, cmd
}

func (m Model) handleEscape(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.inResults() && m.Grid.IsFiltering():
		var cmd tea.Cmd
		m.Grid, cmd = m.Grid.Update(msg)
		return m, cmd
	case m.focus == focusChips:
		m.focus = focusContent
	case m.Picked != nil:
		m.Picked = nil
	case m.ViewState.Mode != view.ModeHome:
		m.SearchBar.Reset()
		m.Controller.Clear()
	}
	return m, nil
}

// handleChipsKey moves over the genre chips, or the day chips while the
// schedule is showing
func (m Model) handleChipsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	chips := &m.Genres
	if m.ViewState.Mode == view.ModeSchedule {
		chips = &m.Days
	}

	switch {
	case key.Matches(msg, Keys.Left):
		chips.Move(-1)
	case key.Matches(msg, Keys.Right):
		chips.Move(1)
	case key.Matches(msg, Keys.Enter), key.Matches(msg, Keys.Down):
		i := chips.Cursor()
		if m.ViewState.Mode == view.ModeSchedule {
			m.Controller.ShowSchedule(domain.Weekdays[i])
		} else {
			m.Controller.SelectGenre(domain.Genres[i])
		}
		m.focus = focusContent
	}
	return m, nil
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Filter):
		m.Grid.ToggleFilter()
		m.updateLayout()
		return m, nil

	case key.Matches(msg, Keys.Enter):
		return m, m.inspectSelected()

	case key.Matches(msg, Keys.PagePrev), key.Matches(msg, Keys.PageNext):
		if m.ViewState.Mode == view.ModeSchedule {
			step := 1
			if key.Matches(msg, Keys.PagePrev) {
				step = -1
			}
			m.Controller.ShowSchedule(m.ViewState.Day.Shift(step))
		}
		return m, nil

	case key.Matches(msg, Keys.Down):
		// Moving past the last card pages in more results
		if m.Grid.AtEnd() && !m.Grid.IsFiltering() && m.Grid.LoadMoreStatus() == view.LoadMoreReady {
			m.Controller.LoadMore()
			return m, nil
		}
	}

	m.Picked = nil
	var cmd tea.Cmd
	m.Grid, cmd = m.Grid.Update(msg)
	return m, cmd
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	section := view.HomeSections[m.homeCursor]
	row := m.Rows[section]

	switch {
	case key.Matches(msg, Keys.Up):
		if m.homeCursor > 0 {
			m.homeCursor--
		}
	case key.Matches(msg, Keys.Down):
		if m.homeCursor < len(view.HomeSections)-1 {
			m.homeCursor++
		}
	case key.Matches(msg, Keys.Left):
		if section == view.SectionHero {
			m.Controller.HeroPrev()
		} else if row != nil && !row.MoveCursor(-1) && m.Controller.CarouselPrev(section) {
			m.syncCarousel(section)
			row.CursorToEnd()
		}
	case key.Matches(msg, Keys.Right):
		if section == view.SectionHero {
			m.Controller.HeroNext()
		} else if row != nil && !row.MoveCursor(1) && m.Controller.CarouselNext(section) {
			m.syncCarousel(section)
		}
	case key.Matches(msg, Keys.PagePrev):
		if section == view.SectionHero {
			m.Controller.HeroPrev()
		} else if m.Controller.CarouselPrev(section) {
			m.syncCarousel(section)
		}
	case key.Matches(msg, Keys.PageNext):
		if section == view.SectionHero {
			m.Controller.HeroNext()
		} else if m.Controller.CarouselNext(section) {
			m.syncCarousel(section)
		}
	case key.Matches(msg, Keys.Enter):
		return m, m.inspectSelected()
	default:
		// 1-9 jump straight to a hero slide
		if s := msg.String(); section == view.SectionHero && len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			m.Controller.HeroGoTo(int(s[0] - '1'))
		}
	}
	m.Picked = nil
	return m, nil
}

// syncCarousel applies a page move right away so the cursor can be placed
// on the new page before the renderer event arrives
func (m *Model) syncCarousel(s view.Section) {
	if cs, ok := m.Controller.Carousel(s); ok {
		m.Rows[s].SetCarousel(cs)
	}
}

func (m *Model) inspectSelected() tea.Cmd {
	sel := m.selected()
	if sel == nil {
		return nil
	}
	m.Picked = nil
	if !m.ShowInspector {
		m.ShowInspector = true
		m.updateLayout()
	}
	return DetailsCmd(m.Catalog, sel.ID)
}

func (m Model) inResults() bool {
	return m.ViewState.Mode != view.ModeHome
}

// focusedSection is the section Retry applies to
func (m Model) focusedSection() view.Section {
	if m.inResults() {
		return view.SectionResults
	}
	return view.HomeSections[m.homeCursor]
}

// selected returns the anime under the cursor, or nil
func (m Model) selected() *domain.Anime {
	if m.Picked != nil {
		return m.Picked
	}
	if m.inResults() {
		return m.Grid.Selected()
	}
	section := view.HomeSections[m.homeCursor]
	if section == view.SectionHero {
		if slide, ok := m.Hero.Slide(); ok {
			item := slide.Item
			return &item
		}
		return nil
	}
	if r := m.Rows[section]; r != nil {
		return r.Selected()
	}
	return nil
}

// syncFocus hands key focus to the grid in result views and pauses the hero
// autoplay while the hero has focus
func (m *Model) syncFocus() {
	m.Grid.SetFocused(m.inResults() && m.focus == focusContent)

	hovered := !m.inResults() && m.focus == focusContent && m.homeCursor == 0 && !m.ShowHelp
	if hovered != m.heroHovered {
		m.heroHovered = hovered
		m.Controller.HeroHover(hovered)
	}
}

// updateInspector shows the selection, preferring the full record once loaded
func (m *Model) updateInspector() {
	label := "Info"
	if m.Picked != nil {
		label = "Random pick"
	}
	sel := m.selected()
	if sel != nil && m.Details != nil && m.Details.ID == sel.ID {
		sel = m.Details
	}
	m.Inspector.SetItem(sel, label)
	m.Inspector.SetSaved(sel != nil && m.Saved[sel.ID])
}

// inspectorWidth returns 0 when the inspector is hidden or does not fit
func (m Model) inspectorWidth() int {
	if !m.ShowInspector {
		return 0
	}
	w := m.Width * InspectorPercent / 100
	if w < MinInspectorWidth || m.Width-w < MinContentWidth {
		return 0
	}
	return w
}

func (m *Model) updateLayout() {
	if !m.Ready {
		return
	}
	mainHeight := max(m.Height-HeaderHeight-ChromeHeight, 3)
	inspW := m.inspectorWidth()

	m.SearchBar.SetWidth(m.Width / 2)
	m.Grid.SetSize(m.Width-inspW, mainHeight)
	m.Inspector.SetSize(inspW, mainHeight)
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}
	if m.ShowHelp {
		return m.renderHelp()
	}

	mainHeight := max(m.Height-HeaderHeight-ChromeHeight, 3)
	inspW := m.inspectorWidth()
	contentW := m.Width - inspW

	var content string
	if m.inResults() {
		content = m.Grid.View()
	} else {
		content = m.renderHome(contentW, mainHeight)
	}
	if inspW > 0 {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.Inspector.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderChips(),
		content,
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	brand := styles.AccentStyle.Bold(true).Render("anicrunch") + "  "

	user := styles.DimStyle.Render("not logged in")
	if m.Username != "" {
		user = styles.SubtitleStyle.Render("@" + m.Username)
	}

	bar := m.SearchBar.View()
	gap := max(m.Width-lipgloss.Width(brand)-lipgloss.Width(bar)-lipgloss.Width(user), 1)
	return brand + bar + strings.Repeat(" ", gap) + user
}

func (m Model) renderChips() string {
	focused := m.focus == focusChips
	if m.ViewState.Mode == view.ModeSchedule {
		return styles.DimStyle.Render("Day ") + m.Days.View(m.Width-4, focused)
	}
	return m.Genres.View(m.Width, focused)
}

// renderHome stacks the hero and rows, dropping rows above the cursor when
// they do not all fit
func (m Model) renderHome(width, height int) string {
	focused := m.focus == focusContent
	blocks := make([]string, 0, len(view.HomeSections))
	for i, s := range view.HomeSections {
		active := focused && i == m.homeCursor
		if s == view.SectionHero {
			blocks = append(blocks, m.Hero.View(width, active))
			continue
		}
		if r := m.Rows[s]; r != nil {
			title := r.View(width, active)
			if active {
				title = styles.AccentStyle.Render("▸ ") + title
			}
			blocks = append(blocks, title)
		}
	}

	start := 0
	for start < m.homeCursor && lipgloss.Height(strings.Join(blocks[start:], "\n")) > height {
		start++
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		MaxHeight(height).
		Render(strings.Join(blocks[start:], "\n"))
}

// RenderSpinner renders the spinner animation frame
func RenderSpinner(frame int) string {
	return styles.SpinnerStyle.Render(styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])
}

func (m Model) loading() bool {
	if m.inResults() {
		return m.ViewState.Loading
	}
	if m.Hero.Shelf().Status == components.ShelfLoading {
		return true
	}
	for _, r := range m.Rows {
		if r.Shelf().Status == components.ShelfLoading {
			return true
		}
	}
	return false
}

func (m Model) renderFooter() string {
	// Left side: status message, or spinner while loading
	var left string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.DimStyle.Render(m.StatusMsg)
	case m.loading():
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Loading...")
	}

	// Center section: hints for the current view
	var hints [][2]string
	switch {
	case m.focus == focusSearch:
		hints = [][2]string{{"enter", "search"}, {"esc", "clear"}}
	case m.focus == focusChips:
		hints = [][2]string{{"←/→", "choose"}, {"enter", "apply"}}
	case m.inResults():
		hints = [][2]string{{"/", "filter"}, {"w", "watchlist"}, {"o", "open"}}
		if m.Grid.LoadMoreStatus() == view.LoadMoreReady || m.Grid.LoadMoreStatus() == view.LoadMoreFailed {
			hints = append(hints, [2]string{"L", "more"})
		}
		if m.ViewState.Mode == view.ModeSchedule {
			hints = append(hints, [2]string{"[/]", "day"})
		}
	default:
		hints = [][2]string{{"f", "search"}, {"tab", "genres"}, {"[/]", "page"}, {"s", "spin"}}
	}
	var parts []string
	for _, h := range hints {
		parts = append(parts, styles.AccentStyle.Render(h[0])+styles.DimStyle.Render(" "+h[1]))
	}
	center := strings.Join(parts, "  ")

	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		// Not enough space - just left + right
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	// Center the hints in available space
	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := fmt.Sprintf(`
BROWSE                          VIEWS
  j/k        Up/down               f      Search titles
  h/l        Left/right            tab    Genre / day chips
  [ ]        Page row / day        d      Airing schedule
  1-9        Jump to hero slide    W      My watchlist
  enter      Details               H      Home
  g/G        First/last result     esc    Back / clear

ACTIONS                         OTHER
  w          Add/remove watchlist  /      Filter results
  o          Open in browser       i      Toggle inspector
  s          Random pick           ?      This help
  r          Retry section         J/K    Scroll inspector
  L          Load more             q      Quit

%s
Press any key to return...
`, m.accountLine())

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

func (m Model) accountLine() string {
	if m.Username == "" {
		return "Not logged in. Run `anicrunch login` to use the watchlist."
	}
	return "Logged in as " + m.Username + "."
}
