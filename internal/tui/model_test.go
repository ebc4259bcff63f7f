package tui

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/shopper-spectrum/internal/analytics"
	"github.com/Veraticus/shopper-spectrum/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCore(t *testing.T) *analytics.Core {
	t.Helper()
	mug := testutil.Line("A", "WHITE MUG", 2, "10")
	teapot := testutil.Line("B", "TEAPOT", 1, "10")

	txns := testutil.NewTransactionBuilder(time.Date(2011, 12, 9, 12, 0, 0, 0, time.UTC)).
		Repeat("c1", 6, 4, mug, teapot).
		Repeat("c2", 6, 4, mug, teapot).
		Invoice("c3", 180, testutil.Line("C", "CANDLE", 1, "10")).
		Invoice("c4", 220, testutil.Line("C", "CANDLE", 2, "10")).
		Build()

	opts := analytics.DefaultOptions()
	opts.Clusters = 2
	core, err := analytics.Build(context.Background(), txns, opts)
	require.NoError(t, err)
	return core
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := NewModel(testCore(t), WithSize(120, 40), WithTopN(3))
	require.NoError(t, err)
	return m
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func typeText(s string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter   = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown    = tea.KeyMsg{Type: tea.KeyDown}
	keyUp      = tea.KeyMsg{Type: tea.KeyUp}
	keyTab     = tea.KeyMsg{Type: tea.KeyTab}
	keySwitch  = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyEscape  = tea.KeyMsg{Type: tea.KeyEsc}
	keyHelp    = tea.KeyMsg{Type: tea.KeyF1}
	keyBackspc = tea.KeyMsg{Type: tea.KeyBackspace}
)

func TestNewModel(t *testing.T) {
	_, err := NewModel(nil)
	require.Error(t, err)

	m := newTestModel(t)
	assert.Equal(t, ModeProducts, m.Mode())
	assert.Equal(t, []string{"CANDLE", "TEAPOT", "WHITE MUG"}, m.Matches())
	assert.Equal(t, -1, m.Prediction())
	assert.NotNil(t, m.Init())
}

func TestProducts_FilterAndRecommend(t *testing.T) {
	m := newTestModel(t)

	m = send(m, typeText("mug"))
	require.Equal(t, []string{"WHITE MUG"}, m.Matches())

	m = send(m, keyEnter)
	assert.Equal(t, "WHITE MUG", m.Selected())
	require.Len(t, m.Recommendations(), 1)
	assert.Equal(t, "TEAPOT", m.Recommendations()[0].Label)
	assert.Contains(t, m.View(), "also bought")

	m = send(m, keyBackspc, keyBackspc, keyBackspc)
	assert.Len(t, m.Matches(), 3)
}

func TestProducts_NoSimilarItems(t *testing.T) {
	m := newTestModel(t)

	// CANDLE is first in the list.
	m = send(m, keyEnter)
	assert.Equal(t, "CANDLE", m.Selected())
	assert.Empty(t, m.Recommendations())
	assert.Equal(t, "Could not find similar products.", m.Status())
}

func TestProducts_Navigation(t *testing.T) {
	m := newTestModel(t)

	m = send(m, keyDown, keyDown, keyDown, keyDown)
	m = send(m, keyEnter)
	assert.Equal(t, "WHITE MUG", m.Selected(), "cursor stops at the last product")

	m = send(m, keyUp, keyEnter)
	assert.Equal(t, "TEAPOT", m.Selected())

	m = send(m, typeText("zzz"))
	assert.Empty(t, m.Matches())
	m = send(m, keyEnter, keyDown)
	assert.Contains(t, m.View(), "No matching products")
}

func TestSegments_Predict(t *testing.T) {
	core := testCore(t)
	m, err := NewModel(core)
	require.NoError(t, err)

	m = send(m, keySwitch)
	require.Equal(t, ModeSegments, m.Mode())

	m = send(m, typeText("2"), keyEnter, typeText("6"), keyEnter, typeText("180"), keyEnter)

	want, err := core.PredictSegment(2, 6, 180)
	require.NoError(t, err)
	assert.Equal(t, want, m.Prediction())
	assert.Contains(t, m.Status(), fmt.Sprintf("cluster %d", want))
	assert.Contains(t, m.View(), "Predicted cluster")
}

func TestSegments_InvalidInput(t *testing.T) {
	m := newTestModel(t)

	m = send(m, keySwitch, typeText("abc"), keyTab, typeText("1"), keyTab, typeText("5"), keyEnter)
	assert.Equal(t, -1, m.Prediction())
	assert.Contains(t, m.Status(), "Recency")

	// Switching back keeps the product screen usable.
	m = send(m, keySwitch, keyEnter)
	assert.Equal(t, ModeProducts, m.Mode())
	assert.Equal(t, "CANDLE", m.Selected())
}

func TestHelpAndQuit(t *testing.T) {
	m := newTestModel(t)

	m = send(m, keyHelp)
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "switch products / segments")

	next, cmd := m.Update(keyEscape)
	require.NotNil(t, cmd)
	assert.Equal(t, "", next.(Model).View())
}

func TestWindowResize(t *testing.T) {
	m := newTestModel(t)
	m = send(m, tea.WindowSizeMsg{Width: 60, Height: 12})
	assert.Equal(t, 60, m.width)
	assert.NotEmpty(t, m.View())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
