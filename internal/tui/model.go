// Package tui implements the interactive explorer: a product picker that
// shows co-purchase recommendations and an RFM form that predicts a segment.
package tui

import (
	"errors"
	"fmt"

	"github.com/Veraticus/shopper-spectrum/internal/analytics"
	"github.com/Veraticus/shopper-spectrum/internal/cli"
	"github.com/Veraticus/shopper-spectrum/internal/common"
	"github.com/Veraticus/shopper-spectrum/internal/model"
	"github.com/Veraticus/shopper-spectrum/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Mode is the active screen.
type Mode int

const (
	ModeProducts Mode = iota
	ModeSegments
)

type statusKind int

const (
	statusNone statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

var fieldNames = [3]string{"Recency (days)", "Frequency (purchases)", "Monetary (total spend)"}

// Model holds the explorer state.
type Model struct {
	core       *analytics.Core
	theme      themes.Theme
	keymap     KeyMap
	help       help.Model
	filter     textinput.Model
	fields     [3]textinput.Model
	matches    []string
	recs       []analytics.Recommendation
	profiles   []model.SegmentProfile
	population model.SegmentProfile
	selected   string
	status     string
	statusKind statusKind
	prediction int
	cursor     int
	offset     int
	focus      int
	width      int
	height     int
	topN       int
	mode       Mode
	showHelp   bool
	quitting   bool
}

// NewModel creates the explorer model for a fitted core.
func NewModel(core *analytics.Core, opts ...Option) (Model, error) {
	if core == nil {
		return Model{}, errors.New("analytics core is required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	filter := textinput.New()
	filter.Placeholder = "type to filter products"
	filter.Prompt = "Search: "
	filter.CharLimit = 128
	filter.Focus()

	var fields [3]textinput.Model
	for i := range fields {
		fields[i] = textinput.New()
		fields[i].Prompt = ""
		fields[i].Placeholder = "0"
		fields[i].CharLimit = 16
	}

	m := Model{
		core:       core,
		theme:      cfg.Theme,
		keymap:     DefaultKeyMap(),
		help:       help.New(),
		filter:     filter,
		fields:     fields,
		profiles:   core.Profiles(),
		population: core.Population(),
		prediction: -1,
		width:      cfg.Width,
		height:     cfg.Height,
		topN:       cfg.TopN,
		mode:       ModeProducts,
	}
	m.matches = core.Catalog().Search("")
	return m, nil
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
			return m, nil
		case key.Matches(msg, m.keymap.SwitchTo):
			m.switchMode()
			return m, nil
		}

		if m.mode == ModeProducts {
			return m.updateProducts(msg)
		}
		return m.updateSegments(msg)
	}

	return m, nil
}

func (m *Model) switchMode() {
	m.status, m.statusKind = "", statusNone
	if m.mode == ModeProducts {
		m.mode = ModeSegments
		m.filter.Blur()
		m.focusField(0)
		return
	}
	m.mode = ModeProducts
	for i := range m.fields {
		m.fields[i].Blur()
	}
	m.filter.Focus()
}

func (m Model) updateProducts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Up):
		m.cursor--
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.keymap.Down):
		m.cursor++
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.keymap.PageUp):
		m.cursor -= m.listHeight()
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.keymap.PageDown):
		m.cursor += m.listHeight()
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.keymap.Select):
		if len(m.matches) > 0 {
			m.recommend(m.matches[m.cursor])
		}
		return m, nil
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.matches = m.core.Catalog().Search(m.filter.Value())
		m.cursor, m.offset = 0, 0
	}
	return m, cmd
}

func (m *Model) recommend(label string) {
	m.selected = label
	recs, err := m.core.RecommendDetailed(label, m.topN)
	switch {
	case common.IsQueryMiss(err):
		m.recs = nil
		m.setStatus(statusWarning, common.UserMessage(err))
	case err != nil:
		m.recs = nil
		m.setStatus(statusError, err.Error())
	case len(recs) == 0:
		m.recs = nil
		m.setStatus(statusWarning, common.UserMessage(common.ErrNoSimilarItems))
	default:
		m.recs = recs
		m.setStatus(statusSuccess, fmt.Sprintf("%d recommendations for %s", len(recs), label))
	}
}

func (m Model) updateSegments(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Next), key.Matches(msg, m.keymap.Down):
		m.focusField((m.focus + 1) % len(m.fields))
		return m, nil
	case key.Matches(msg, m.keymap.Prev), key.Matches(msg, m.keymap.Up):
		m.focusField((m.focus + len(m.fields) - 1) % len(m.fields))
		return m, nil
	case key.Matches(msg, m.keymap.Select):
		if m.focus < len(m.fields)-1 {
			m.focusField(m.focus + 1)
			return m, nil
		}
		m.predict()
		return m, nil
	}

	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) focusField(i int) {
	for j := range m.fields {
		m.fields[j].Blur()
	}
	m.focus = i
	m.fields[i].Focus()
}

func (m *Model) predict() {
	var values [3]float64
	for i, field := range m.fields {
		v, err := cli.ParseNonNegative(field.Value())
		if err != nil {
			m.prediction = -1
			m.setStatus(statusWarning, fmt.Sprintf("%s: %v", fieldNames[i], err))
			m.focusField(i)
			return
		}
		values[i] = v
	}

	cluster, err := m.core.PredictSegment(values[0], values[1], values[2])
	if err != nil {
		m.prediction = -1
		m.setStatus(statusError, common.UserMessage(err))
		return
	}

	m.prediction = cluster
	m.setStatus(statusSuccess, fmt.Sprintf("Customer belongs to cluster %d (%s)",
		cluster, m.profiles[cluster].Label(m.population)))
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.status = text
}

func (m Model) listHeight() int {
	return max(m.height-10, 3)
}

func (m *Model) clampCursor() {
	if len(m.matches) == 0 {
		m.cursor, m.offset = 0, 0
		return
	}
	m.cursor = min(max(m.cursor, 0), len(m.matches)-1)

	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}

// Mode returns the active screen.
func (m Model) Mode() Mode {
	return m.mode
}

// Selected returns the product whose recommendations are shown.
func (m Model) Selected() string {
	return m.selected
}

// Recommendations returns the recommendations currently shown.
func (m Model) Recommendations() []analytics.Recommendation {
	return m.recs
}

// Matches returns the products matching the filter.
func (m Model) Matches() []string {
	return m.matches
}

// Prediction returns the last predicted cluster, or -1.
func (m Model) Prediction() int {
	return m.prediction
}

// Status returns the status line text.
func (m Model) Status() string {
	return m.status
}
