package main

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type Screen int

const (
	screenMenu Screen = iota
	screenGame
	screenThemes
	screenScores
	screenConfig
	screenNameEntry
)

// Timer messages carry the session they were scheduled for. A tick
// still in flight when its game ends is dropped on arrival instead of
// re-arming a chain into the next session.
type tickMsg struct{ session int }
type playClockMsg struct{ session int }
type countdownMsg struct{ session int }
type soundMsg struct{}

const (
	// Gravity resolution. The engine decides when an actual descent is
	// due; the tick just supplies it with a steady clock.
	gravityTickInterval = 16 * time.Millisecond

	lineClearFlashDuration = 140 * time.Millisecond
	tetrisFlashDuration    = 200 * time.Millisecond
	scorePopupDuration     = 900 * time.Millisecond
	countdownStep          = 380 * time.Millisecond

	// Terminals deliver no key-release events, so a held soft-drop is
	// inferred from key repeats: each down-key arms the fast interval
	// and it auto-releases after this long without another repeat.
	softDropHoldWindow = 150 * time.Millisecond
)

type Model struct {
	screen       Screen
	width        int
	height       int
	menuIndex    int
	configIndex  int
	themeIndex   int
	scoresOffset int
	config       Config
	scores       []ScoreEntry
	highScore    int
	newHighScore bool
	game         *Game
	nameInput    textinput.Model
	sound        *SoundEngine
	// session increments per new game; timer messages tagged with an
	// older value are stale and ignored.
	session       int
	softDropKeyAt time.Time
	startCount    int
	flashRows    []int
	flashUntil   time.Time
	lastDelta    int
	lastDeltaTil time.Time
}

func NewModel() Model {
	config, err := loadConfig()
	if err != nil {
		DebugLogf("config load error: %v", err)
	}
	index := themeIndexByName(config.Theme)
	if index < 0 {
		index = 0
		config.Theme = themes[index].Name
	}
	scores, err := loadScores()
	if err != nil {
		DebugLogf("scores load error: %v", err)
	}
	nameInput := textinput.New()
	nameInput.Placeholder = "AAA"
	nameInput.CharLimit = 12
	nameInput.Width = 14
	return Model{
		screen:     screenMenu,
		config:     config,
		scores:     scores,
		highScore:  loadHighScore(),
		themeIndex: index,
		game:       NewGame(),
		nameInput:  nameInput,
		sound:      NewSoundEngine(config.Sound, volumeFromPercent(config.Volume)),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if msg.session != m.session {
			return m, nil
		}
		return m.updateTick()
	case playClockMsg:
		if msg.session != m.session || m.screen != screenGame {
			return m, nil
		}
		m.game.TickSecond()
		return m, playClockCmd(m.session)
	case countdownMsg:
		if msg.session != m.session {
			return m, nil
		}
		return m.updateCountdown()
	case soundMsg:
		return m, nil
	case tea.KeyMsg:
		switch m.screen {
		case screenMenu:
			return m.updateMenu(msg)
		case screenGame:
			return m.updateGame(msg)
		case screenThemes:
			return m.updateThemes(msg)
		case screenScores:
			return m.updateScores(msg)
		case screenConfig:
			return m.updateConfig(msg)
		case screenNameEntry:
			return m.updateNameEntry(msg)
		}
	}
	if m.screen == screenNameEntry {
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.screen {
	case screenMenu:
		return viewMenu(m)
	case screenGame:
		return viewGame(m)
	case screenThemes:
		return viewThemes(m)
	case screenScores:
		return viewScores(m)
	case screenConfig:
		return viewConfig(m)
	case screenNameEntry:
		return viewNameEntry(m)
	default:
		return ""
	}
}

func tickCmd(session int) tea.Cmd {
	return tea.Tick(gravityTickInterval, func(time.Time) tea.Msg { return tickMsg{session: session} })
}

func playClockCmd(session int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return playClockMsg{session: session} })
}

func countdownCmd(session int) tea.Cmd {
	return tea.Tick(countdownStep, func(time.Time) tea.Msg { return countdownMsg{session: session} })
}

func playSound(engine *SoundEngine, event SoundEvent) tea.Cmd {
	return func() tea.Msg {
		if engine != nil {
			engine.Play(event)
		}
		return soundMsg{}
	}
}

func playComboSound(engine *SoundEngine, combo int) tea.Cmd {
	return func() tea.Msg {
		if engine != nil {
			engine.PlayCombo(combo)
		}
		return soundMsg{}
	}
}

func (m Model) updateTick() (tea.Model, tea.Cmd) {
	if m.screen != screenGame {
		// Leaving the game screen tears the tick down by simply not
		// rescheduling it.
		return m, nil
	}
	m.expireEffects()
	if m.startCount > 0 {
		return m, tickCmd(m.session)
	}
	if !m.softDropKeyAt.IsZero() && time.Since(m.softDropKeyAt) > softDropHoldWindow {
		m.game.SetSoftDrop(false)
		m.softDropKeyAt = time.Time{}
	}
	result := m.game.Advance(time.Now())
	cmds := []tea.Cmd{tickCmd(m.session)}
	cmds = append(cmds, m.applyLockResult(result)...)
	if result.TopOut {
		return m, tea.Batch(m.finishGame(), tea.Batch(cmds...))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateCountdown() (tea.Model, tea.Cmd) {
	if m.screen != screenGame {
		return m, nil
	}
	if m.startCount <= 0 {
		return m, nil
	}
	m.startCount--
	if m.startCount > 0 {
		return m, countdownCmd(m.session)
	}
	m.game.Start()
	cmds := []tea.Cmd{tickCmd(m.session), playClockCmd(m.session)}
	if m.config.Sound {
		cmds = append(cmds, playSound(m.sound, SoundMenuSelect))
	}
	return m, tea.Batch(cmds...)
}

// applyLockResult turns a LockResult into flash effects and sounds.
func (m *Model) applyLockResult(result LockResult) []tea.Cmd {
	if !result.Locked || result.TopOut {
		return nil
	}
	var cmds []tea.Cmd
	if result.Cleared > 0 {
		m.flashRows = append([]int{}, result.ClearedRows...)
		flash := lineClearFlashDuration
		if result.Cleared >= 4 {
			flash = tetrisFlashDuration
		}
		m.flashUntil = time.Now().Add(flash)
		m.lastDelta = result.ScoreDelta
		m.lastDeltaTil = time.Now().Add(scorePopupDuration)
		if m.config.Sound {
			cmds = append(cmds, playSound(m.sound, soundForClear(result.Cleared)))
			if result.Combo > 1 {
				cmds = append(cmds, playComboSound(m.sound, result.Combo))
			}
		}
	} else if m.config.Sound {
		cmds = append(cmds, playSound(m.sound, SoundLock))
	}
	return cmds
}

func (m *Model) expireEffects() {
	now := time.Now()
	if !m.flashUntil.IsZero() && now.After(m.flashUntil) {
		m.flashRows = nil
		m.flashUntil = time.Time{}
	}
	if !m.lastDeltaTil.IsZero() && now.After(m.lastDeltaTil) {
		m.lastDelta = 0
		m.lastDeltaTil = time.Time{}
	}
}

// finishGame commits the session score and moves to name entry.
func (m *Model) finishGame() tea.Cmd {
	score := m.game.Stats().Score
	m.newHighScore = false
	if score > m.highScore {
		m.highScore = score
		m.newHighScore = true
		if err := saveHighScore(score); err != nil {
			DebugLogf("high score save error: %v", err)
		}
	}
	m.flashRows = nil
	m.flashUntil = time.Time{}
	m.nameInput.Reset()
	m.screen = screenNameEntry
	cmds := []tea.Cmd{m.nameInput.Focus(), textinput.Blink}
	if m.config.Sound {
		cmds = append(cmds, playSound(m.sound, SoundGameOver))
	}
	return tea.Batch(cmds...)
}

func (m *Model) startNewGame() tea.Cmd {
	m.session++
	m.game = NewGame()
	m.flashRows = nil
	m.flashUntil = time.Time{}
	m.lastDelta = 0
	m.lastDeltaTil = time.Time{}
	m.softDropKeyAt = time.Time{}
	m.startCount = 3
	m.screen = screenGame
	return countdownCmd(m.session)
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
			if m.config.Sound {
				cmd = playSound(m.sound, SoundMenuMove)
			}
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
			if m.config.Sound {
				cmd = playSound(m.sound, SoundMenuMove)
			}
		}
	case "enter":
		if m.config.Sound {
			cmd = playSound(m.sound, SoundMenuSelect)
		}
		switch m.menuIndex {
		case 0:
			return m, tea.Batch(cmd, m.startNewGame())
		case 1:
			m.screen = screenThemes
		case 2:
			m.scoresOffset = 0
			m.screen = screenScores
		case 3:
			m.screen = screenConfig
		case 4:
			return m, tea.Quit
		}
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	}
	return m, cmd
}

func (m Model) updateGame(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.startCount > 0 {
		if key := msg.String(); key == "q" || key == "esc" {
			m.screen = screenMenu
		}
		return m, nil
	}
	switch msg.String() {
	case "left", "h":
		if m.game.Move(-1) && m.config.Sound {
			return m, playSound(m.sound, SoundMove)
		}
	case "right", "l":
		if m.game.Move(1) && m.config.Sound {
			return m, playSound(m.sound, SoundMove)
		}
	case "up", "x":
		if m.game.Rotate(1) && m.config.Sound {
			return m, playSound(m.sound, SoundRotate)
		}
	case "z":
		if m.game.Rotate(-1) && m.config.Sound {
			return m, playSound(m.sound, SoundRotate)
		}
	case "down", "j":
		m.game.SoftDrop()
		m.game.SetSoftDrop(true)
		m.softDropKeyAt = time.Now()
	case " ":
		result := m.game.HardDrop()
		var cmds []tea.Cmd
		if m.config.Sound && result.Locked && result.Cleared == 0 && !result.TopOut {
			cmds = append(cmds, playSound(m.sound, SoundDrop))
		}
		cmds = append(cmds, m.applyLockResult(result)...)
		if result.TopOut {
			cmds = append(cmds, m.finishGame())
		}
		return m, tea.Batch(cmds...)
	case "c":
		if m.game.Hold() && m.config.Sound {
			return m, playSound(m.sound, SoundHold)
		}
	case "p":
		m.game.TogglePause()
	case "q", "esc":
		m.game.SetSoftDrop(false)
		m.softDropKeyAt = time.Time{}
		m.game.Pause()
		m.screen = screenMenu
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateThemes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.themeIndex > 0 {
			m.themeIndex--
			if m.config.Sound {
				return m, playSound(m.sound, SoundMenuMove)
			}
		}
	case "down", "j":
		if m.themeIndex < len(themes)-1 {
			m.themeIndex++
			if m.config.Sound {
				return m, playSound(m.sound, SoundMenuMove)
			}
		}
	case "enter":
		m.config.Theme = themes[m.themeIndex].Name
		if err := saveConfig(m.config); err != nil {
			DebugLogf("config save error: %v", err)
		}
		m.screen = screenMenu
		if m.config.Sound {
			return m, playSound(m.sound, SoundMenuSelect)
		}
	case "q", "esc":
		m.screen = screenMenu
	}
	return m, nil
}

func (m Model) updateScores(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "enter":
		m.screen = screenMenu
		if m.config.Sound {
			return m, playSound(m.sound, SoundMenuSelect)
		}
	case "up", "k":
		if m.scoresOffset > 0 {
			m.scoresOffset--
		}
	case "down", "j":
		max := len(m.scores) - scoresPageSize
		if max < 0 {
			max = 0
		}
		if m.scoresOffset < max {
			m.scoresOffset++
		}
	}
	return m, nil
}

func (m Model) updateConfig(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.configIndex > 0 {
			m.configIndex--
			if m.config.Sound {
				return m, playSound(m.sound, SoundMenuMove)
			}
		}
	case "down", "j":
		if m.configIndex < len(configItems)-1 {
			m.configIndex++
			if m.config.Sound {
				return m, playSound(m.sound, SoundMenuMove)
			}
		}
	case "enter":
		switch m.configIndex {
		case configItemSound:
			m.config.Sound = !m.config.Sound
			m.sound.SetEnabled(m.config.Sound)
		case configItemGhost:
			m.config.Ghost = !m.config.Ghost
		case configItemVolume:
			m.adjustVolume(5)
		case configItemLookahead:
			m.adjustLookahead(1)
		case configItemScale:
			m.adjustScale(1)
		}
		m.saveConfigLogged()
		if m.config.Sound {
			return m, playSound(m.sound, SoundMenuSelect)
		}
	case "left", "h":
		m.adjustConfigItem(-1)
		if m.config.Sound {
			return m, playSound(m.sound, SoundMenuMove)
		}
	case "right", "l":
		m.adjustConfigItem(1)
		if m.config.Sound {
			return m, playSound(m.sound, SoundMenuMove)
		}
	case "q", "esc":
		m.screen = screenMenu
	}
	return m, nil
}

func (m *Model) adjustConfigItem(delta int) {
	switch m.configIndex {
	case configItemVolume:
		m.adjustVolume(delta * 5)
	case configItemLookahead:
		m.adjustLookahead(delta)
	case configItemScale:
		m.adjustScale(delta)
	default:
		return
	}
	m.saveConfigLogged()
}

func (m Model) updateNameEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			name = "AAA"
		}
		stats := m.game.Stats()
		entry := ScoreEntry{
			Name:  name,
			Score: stats.Score,
			Lines: stats.Lines,
			Level: stats.Level,
			When:  time.Now().Format("2006-01-02 15:04"),
		}
		m.scores = insertScore(m.scores, entry)
		if err := saveScores(m.scores); err != nil {
			DebugLogf("scores save error: %v", err)
		}
		m.scoresOffset = 0
		m.screen = screenScores
		return m, nil
	case tea.KeyEsc:
		m.screen = screenMenu
		return m, nil
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m *Model) adjustVolume(delta int) {
	volume := m.config.Volume + delta
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	m.config.Volume = volume
	m.sound.SetVolume(volumeFromPercent(volume))
}

func (m *Model) adjustLookahead(delta int) {
	m.config.Lookahead = clampLookahead(m.config.Lookahead + delta)
}

func (m *Model) adjustScale(delta int) {
	scale := m.config.Scale + delta
	if scale < 1 {
		scale = 1
	}
	if scale > 3 {
		scale = 3
	}
	m.config.Scale = scale
}

func (m *Model) saveConfigLogged() {
	if err := saveConfig(m.config); err != nil {
		DebugLogf("config save error: %v", err)
	}
}

func volumeFromPercent(value int) float64 {
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	return float64(value) / 100
}

var menuItems = []string{
	"Start Game",
	"Themes",
	"Scores",
	"Config",
	"Quit",
}

const (
	configItemSound = iota
	configItemVolume
	configItemGhost
	configItemLookahead
	configItemScale
)

var configItems = []string{
	"Sound Effects",
	"Volume",
	"Ghost Piece",
	"Queue Preview",
	"Board Scale",
}
