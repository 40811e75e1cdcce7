package main

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel() Model {
	config := defaultConfig()
	config.Sound = false
	return Model{
		screen: screenMenu,
		config: config,
		game:   NewGame(),
	}
}

func TestStalePlayClockTickDropped(t *testing.T) {
	m := newTestModel()
	_ = m.startNewGame()
	m.game.Start()
	m.startCount = 0

	next, cmd := m.Update(playClockMsg{session: m.session})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.game.Stats().PlaySeconds)

	// A tick scheduled for the previous game neither counts a second
	// nor re-arms its chain.
	next, cmd = m.Update(playClockMsg{session: m.session - 1})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.game.Stats().PlaySeconds)
}

func TestStalePlayClockDoesNotDoubleCountAcrossRestart(t *testing.T) {
	m := newTestModel()
	_ = m.startNewGame()
	staleSession := m.session
	m.screen = screenMenu

	// Restart while the old game's 1s tick is still in flight.
	_ = m.startNewGame()
	m.game.Start()
	m.startCount = 0

	next, cmd := m.Update(playClockMsg{session: staleSession})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Zero(t, m.game.Stats().PlaySeconds)

	next, cmd = m.Update(playClockMsg{session: m.session})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.game.Stats().PlaySeconds)
}

func TestStaleGravityAndCountdownTicksDropped(t *testing.T) {
	m := newTestModel()
	_ = m.startNewGame()

	next, cmd := m.Update(countdownMsg{session: m.session - 1})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, 3, m.startCount)

	next, cmd = m.Update(tickMsg{session: m.session - 1})
	m = next.(Model)
	assert.Nil(t, cmd)
}

func TestSoftDropKeyArmsAndAutoReleases(t *testing.T) {
	m := newTestModel()
	_ = m.startNewGame()
	m.game.Start()
	m.startCount = 0

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	assert.True(t, m.game.softDrop)
	assert.False(t, m.softDropKeyAt.IsZero())

	// No repeat inside the hold window: the next gravity tick releases
	// the fast interval.
	m.softDropKeyAt = time.Now().Add(-softDropHoldWindow - time.Millisecond)
	next, _ = m.Update(tickMsg{session: m.session})
	m = next.(Model)
	assert.False(t, m.game.softDrop)
	assert.True(t, m.softDropKeyAt.IsZero())
}

func TestLeavingGameReleasesSoftDrop(t *testing.T) {
	m := newTestModel()
	_ = m.startNewGame()
	m.game.Start()
	m.startCount = 0

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	require.True(t, m.game.softDrop)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	assert.Equal(t, screenMenu, m.screen)
	assert.False(t, m.game.softDrop)
	assert.Equal(t, StatusPaused, m.game.Status())
}
