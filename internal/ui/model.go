// Package ui is the terminal front end: timeframe tabs, a grouped goal
// list with live statuses, search and category filters, and an add/edit
// form.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/routineland/routine/internal/dateutil"
	"github.com/routineland/routine/internal/goals"
	"github.com/routineland/routine/internal/model"
	"github.com/routineland/routine/internal/stats"
	"github.com/routineland/routine/internal/store"
)

// viewState selects between the list screen and the goal form.
type viewState int

const (
	viewList viewState = iota
	viewForm
)

// goalsLoadedMsg carries a reloaded listing plus home statistics.
type goalsLoadedMsg struct {
	groups []goals.Group
	home   stats.HomeStats
	totals stats.Totals
}

// prefsLoadedMsg carries the stored preferences for the active timeframe.
type prefsLoadedMsg struct {
	prefs model.GoalsUIPrefs
}

// opResultMsg reports the outcome of a mutation.
type opResultMsg struct {
	toast string
	err   error
}

// Model is the root Bubble Tea model.
type Model struct {
	service *goals.Service
	store   store.Store
	keys    KeyMap

	tfIndex        int
	categoryFilter string
	formCategory   string
	searchInput    textinput.Model
	searching      bool

	groups []goals.Group
	flat   []model.Goal
	cursor int

	home   stats.HomeStats
	totals stats.Totals

	view      viewState
	form      *huh.Form
	fb        *formBindings
	editingID string

	toast  string
	width  int
	height int
}

// New creates the root model.
func New(service *goals.Service, st store.Store) Model {
	si := textinput.New()
	si.Placeholder = "search goals..."
	si.Prompt = "/ "

	return Model{
		service:        service,
		store:          st,
		keys:           DefaultKeyMap(),
		categoryFilter: model.CategoryFilterAll,
		formCategory:   model.DefaultCategories[0].ID,
		searchInput:    si,
		fb:             &formBindings{},
	}
}

// Init loads the stored preferences and the first listing.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadPrefs(), m.loadGoals())
}

func (m Model) timeframe() model.Timeframe {
	return model.Timeframes[m.tfIndex]
}

// loadGoals reloads the filtered listing and home statistics.
func (m Model) loadGoals() tea.Cmd {
	svc := m.service
	filter := goals.ListFilter{
		Timeframe: m.timeframe(),
		Category:  m.categoryFilter,
		Query:     m.searchInput.Value(),
	}
	return func() tea.Msg {
		ctx := context.Background()
		groups, err := svc.List(ctx, filter)
		if err != nil {
			return opResultMsg{err: err}
		}
		state, err := svc.State(ctx)
		if err != nil {
			return opResultMsg{err: err}
		}
		now := svc.Now()
		return goalsLoadedMsg{
			groups: groups,
			home:   stats.ComputeHomeStats(now, state.Goals),
			totals: stats.ComputeTotals(now, state.Goals),
		}
	}
}

// loadPrefs restores the last-used filters for the active timeframe.
func (m Model) loadPrefs() tea.Cmd {
	st := m.store
	tf := m.timeframe()
	return func() tea.Msg {
		p, err := st.LoadUIPrefs(context.Background(), tf)
		if err != nil || p == nil {
			return prefsLoadedMsg{prefs: model.GoalsUIPrefs{}.Normalize()}
		}
		return prefsLoadedMsg{prefs: p.Normalize()}
	}
}

// savePrefs persists the current filters for the active timeframe.
func (m Model) savePrefs() tea.Cmd {
	st := m.store
	tf := m.timeframe()
	prefs := model.GoalsUIPrefs{
		CategoryID:     m.formCategory,
		CategoryFilter: m.categoryFilter,
		Query:          m.searchInput.Value(),
	}
	return func() tea.Msg {
		_ = st.SaveUIPrefs(context.Background(), tf, prefs)
		return nil
	}
}

// Update routes messages by view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.searchInput.Width = msg.Width - 4

	case goalsLoadedMsg:
		m.groups = msg.groups
		m.home = msg.home
		m.totals = msg.totals
		m.flat = flatten(msg.groups)
		if m.cursor >= len(m.flat) {
			m.cursor = max(0, len(m.flat)-1)
		}
		return m, nil

	case prefsLoadedMsg:
		m.categoryFilter = msg.prefs.CategoryFilter
		m.formCategory = msg.prefs.CategoryID
		m.searchInput.SetValue(msg.prefs.Query)
		return m, m.loadGoals()

	case opResultMsg:
		if msg.err != nil {
			m.toast = msg.err.Error()
		} else {
			m.toast = msg.toast
		}
		return m, m.loadGoals()
	}

	if m.view == viewForm {
		return m.updateForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.searching {
			return m.updateSearch(keyMsg)
		}
		return m.updateList(keyMsg)
	}

	return m, nil
}

// updateSearch handles key input while the search field is focused.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		return m, tea.Batch(m.savePrefs(), m.loadGoals())
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		return m, tea.Batch(m.savePrefs(), m.loadGoals())
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// updateList handles key input on the list screen.
func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextTimeframe):
		m.tfIndex = (m.tfIndex + 1) % len(model.Timeframes)
		m.cursor = 0
		return m, m.loadPrefs()

	case key.Matches(msg, m.keys.PrevTimeframe):
		m.tfIndex = (m.tfIndex + len(model.Timeframes) - 1) % len(model.Timeframes)
		m.cursor = 0
		return m, m.loadPrefs()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.flat)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.CycleCategory):
		m.categoryFilter = nextCategoryFilter(m.categoryFilter)
		m.cursor = 0
		return m, tea.Batch(m.savePrefs(), m.loadGoals())

	case key.Matches(msg, m.keys.ClearFilters):
		m.categoryFilter = model.CategoryFilterAll
		m.searchInput.SetValue("")
		m.toast = "filters cleared"
		return m, tea.Batch(m.savePrefs(), m.loadGoals())

	case key.Matches(msg, m.keys.Add):
		return m.startAdd()

	case key.Matches(msg, m.keys.Edit):
		if g, ok := m.selected(); ok {
			return m.startEdit(g)
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if g, ok := m.selected(); ok {
			return m, m.toggleGoal(g.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if g, ok := m.selected(); ok {
			return m, m.removeGoal(g.ID)
		}
		return m, nil
	}

	return m, nil
}

// startAdd opens the form pre-filled with today 09:00 and the timeframe's
// default duration.
func (m Model) startAdd() (tea.Model, tea.Cmd) {
	now := m.service.Now()
	policy := model.PolicyFor(m.timeframe())

	m.editingID = ""
	m.fb.title = ""
	m.fb.categoryID = m.formCategory
	m.fb.startDate = dateutil.FormatDate(now)
	m.fb.startTime = "09:00"
	m.fb.durationStr = fmt.Sprintf("%g", policy.DefaultValue)

	m.form = buildGoalForm(m.timeframe(), m.fb)
	m.view = viewForm
	return m, m.form.Init()
}

// startEdit opens the form with the goal's current values.
func (m Model) startEdit(g model.Goal) (tea.Model, tea.Cmd) {
	date, timePart, _ := strings.Cut(g.StartAt, "T")

	m.editingID = g.ID
	m.fb.title = g.Title
	m.fb.categoryID = g.CategoryID
	m.fb.startDate = date
	m.fb.startTime = timePart
	m.fb.durationStr = fmt.Sprintf("%g", g.DurationValue)

	m.form = buildGoalForm(g.Timeframe, m.fb)
	m.view = viewForm
	return m, m.form.Init()
}

// updateForm advances the huh form and submits on completion.
func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.view = viewList
		m.formCategory = m.fb.categoryID
		if m.editingID == "" {
			return m, tea.Batch(m.savePrefs(), m.submitAdd())
		}
		return m, tea.Batch(m.savePrefs(), m.submitEdit())
	case huh.StateAborted:
		m.view = viewList
		return m, nil
	}

	return m, cmd
}

func (m Model) submitAdd() tea.Cmd {
	svc := m.service
	params := goals.AddParams{
		Timeframe:     m.timeframe(),
		Title:         m.fb.title,
		CategoryID:    m.fb.categoryID,
		StartAt:       m.fb.StartAt(),
		DurationValue: m.fb.DurationValue(),
	}
	return func() tea.Msg {
		if _, err := svc.Add(context.Background(), params); err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{toast: "goal added"}
	}
}

func (m Model) submitEdit() tea.Cmd {
	svc := m.service
	id := m.editingID
	params := goals.EditParams{
		Title:         m.fb.title,
		CategoryID:    m.fb.categoryID,
		StartAt:       m.fb.StartAt(),
		DurationValue: m.fb.DurationValue(),
	}
	return func() tea.Msg {
		if _, err := svc.Edit(context.Background(), id, params); err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{toast: "goal updated"}
	}
}

func (m Model) toggleGoal(id string) tea.Cmd {
	svc := m.service
	return func() tea.Msg {
		goal, err := svc.ToggleDone(context.Background(), id)
		if err != nil {
			return opResultMsg{err: err}
		}
		if goal.Status == model.StatusDone {
			return opResultMsg{toast: "marked done"}
		}
		return opResultMsg{toast: "reopened"}
	}
}

func (m Model) removeGoal(id string) tea.Cmd {
	svc := m.service
	return func() tea.Msg {
		if err := svc.Remove(context.Background(), id); err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{toast: "goal deleted"}
	}
}

// selected returns the goal under the cursor.
func (m Model) selected() (model.Goal, bool) {
	if m.cursor < 0 || m.cursor >= len(m.flat) {
		return model.Goal{}, false
	}
	return m.flat[m.cursor], true
}

// flatten lays groups out in render order for cursor navigation.
func flatten(groups []goals.Group) []model.Goal {
	var out []model.Goal
	for _, g := range groups {
		out = append(out, g.Goals...)
	}
	return out
}

// nextCategoryFilter cycles all -> home -> ... -> other -> all.
func nextCategoryFilter(current string) string {
	if current == model.CategoryFilterAll {
		return model.DefaultCategories[0].ID
	}
	for i, c := range model.DefaultCategories {
		if c.ID == current {
			if i == len(model.DefaultCategories)-1 {
				return model.CategoryFilterAll
			}
			return model.DefaultCategories[i+1].ID
		}
	}
	return model.CategoryFilterAll
}

// View renders the active screen.
func (m Model) View() string {
	if m.view == viewForm {
		return m.form.View()
	}

	var b strings.Builder

	// Timeframe tabs.
	var tabs []string
	for i, tf := range model.Timeframes {
		label := model.TimeframeLabels[tf]
		if i == m.tfIndex {
			tabs = append(tabs, headerStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")

	b.WriteString(statsStyle.Render(fmt.Sprintf(
		"today %d · this week %d · streak %d days · done %d/%d",
		m.home.DoneToday, m.home.DoneThisWeek, m.home.StreakDays,
		m.totals.Done, m.totals.All,
	)))
	b.WriteString("\n\n")

	if m.searching || m.searchInput.Value() != "" {
		b.WriteString(m.searchInput.View())
		b.WriteString("\n\n")
	}

	if m.categoryFilter != model.CategoryFilterAll {
		b.WriteString(helpStyle.Render("category: " + model.CategoryByID(m.categoryFilter).DisplayName))
		b.WriteString("\n\n")
	}

	if len(m.flat) == 0 {
		b.WriteString(helpStyle.Render("no goals here yet, press 'a' to add one"))
		b.WriteString("\n")
	}

	now := m.service.Now()
	idx := 0
	for _, group := range m.groups {
		b.WriteString(categoryStyle.Render(group.Category.DisplayName))
		b.WriteString("\n")
		for _, g := range group.Goals {
			b.WriteString(m.renderGoal(g, idx == m.cursor, now))
			b.WriteString("\n")
			idx++
		}
		b.WriteString("\n")
	}

	if m.toast != "" {
		b.WriteString(toastStyle.Render(m.toast))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(
		"a add · e edit · space toggle · d delete · / search · f filter · tab timeframe · q quit",
	))

	return b.String()
}

// renderGoal draws one goal row with a status marker.
func (m Model) renderGoal(g model.Goal, isSelected bool, now time.Time) string {
	var marker string
	style := lipgloss.NewStyle()

	switch stats.LiveStatus(now, g) {
	case model.StatusDone:
		marker = "✔"
		style = doneStyle
	case model.StatusFuture:
		marker = "◷"
		style = futureStyle
	default:
		marker = "•"
	}

	row := fmt.Sprintf("  %s %s  %s → %s", marker, g.Title, g.StartAt, g.EndAt)
	if isSelected {
		return selectedStyle.Render("▸" + row[1:])
	}
	return style.Render(row)
}
