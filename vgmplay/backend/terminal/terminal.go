package terminal

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-vgmplay/vgmplay/backend"
	"github.com/valerio/go-vgmplay/vgmplay/backend/terminal/render"
	"github.com/valerio/go-vgmplay/vgmplay/input"
	"github.com/valerio/go-vgmplay/vgmplay/input/action"
	"github.com/valerio/go-vgmplay/vgmplay/input/event"
)

const (
	statusHeight  = 11
	meterWidth    = 40
	minTermWidth  = 60
	minTermHeight = 16
	logCapacity   = 200
)

const helpLine = "space pause  r restart  +/- volume  d/1-4 mute  F11/F12 logs  q quit"

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen     tcell.Screen
	logBuffer  *render.LogBuffer
	logLevel   slog.Level
	config     backend.Config
	eventQueue []backend.InputEvent
}

// New creates a new terminal backend
func New() *Backend {
	return &Backend{
		logLevel: slog.LevelInfo,
	}
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	return t.initScreen(screen, config)
}

// initScreen finishes Init on an already initialized screen.
func (t *Backend) initScreen(screen tcell.Screen, config backend.Config) error {
	t.config = config
	t.screen = screen
	t.logLevel = config.LogLevel

	// Logs are captured at every level and filtered when drawn
	t.logBuffer = render.NewLogBuffer(logCapacity)
	handler := render.NewLogBufferHandler(t.logBuffer, slog.LevelDebug)
	slog.SetDefault(slog.New(handler))

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	slog.Info("Terminal backend initialized", "title", config.Title)
	return nil
}

// Update draws the status and collects key presses
func (t *Backend) Update(status backend.Status) ([]backend.InputEvent, error) {
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	events := t.eventQueue
	t.eventQueue = nil
	for _, evt := range events {
		slog.Debug("UI event", "action", action.GetInfo(evt.Action).Description, "type", evt.Type)
	}

	t.render(status)
	t.screen.Show()

	return events, nil
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.screen != nil {
		t.screen.Fini()
		t.screen = nil
	}
	return nil
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey) {
	act, ok := keyMapping[ev.Key()]
	if !ok && ev.Key() == tcell.KeyRune {
		act, ok = runeMapping[ev.Rune()]
	}
	if !ok {
		return
	}

	// Log filtering is local to this backend
	switch act {
	case action.DebugLogLevelIncrease:
		t.changeLogLevel(1)
		return
	case action.DebugLogLevelDecrease:
		t.changeLogLevel(-1)
		return
	}
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyUp:     "Up",
	tcell.KeyDown:   "Down",
	tcell.KeyEscape: "Escape",
	tcell.KeyF11:    "F11",
	tcell.KeyF12:    "F12",
}

// tcellRuneNameMap converts runes to key names used in default mappings
var tcellRuneNameMap = map[rune]string{
	' ': "Space",
	'p': "p",
	'r': "r",
	'q': "q",
	'd': "d",
	'1': "1",
	'2': "2",
	'3': "3",
	'4': "4",
	'+': "+",
	'=': "=",
	'-': "-",
	'_': "_",
}

// buildKeyMapping creates the key mapping from default mappings
func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)
	for key, keyName := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}
	mapping[tcell.KeyCtrlC] = action.PlayerQuit
	return mapping
}

// buildRuneMapping creates the rune mapping from default mappings
func buildRuneMapping() map[rune]action.Action {
	mapping := make(map[rune]action.Action)
	for r, keyName := range tcellRuneNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[r] = act
		}
	}
	return mapping
}

var (
	keyMapping  = buildKeyMapping()
	runeMapping = buildRuneMapping()
)

func (t *Backend) changeLogLevel(direction int) {
	oldLevel := t.logLevel
	switch direction {
	case -1:
		switch t.logLevel {
		case slog.LevelDebug:
			t.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			t.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			t.logLevel = slog.LevelError
		}
	case 1:
		switch t.logLevel {
		case slog.LevelError:
			t.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			t.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			t.logLevel = slog.LevelDebug
		}
	}
	if oldLevel != t.logLevel {
		slog.Info("Log filter changed", "from", oldLevel, "to", t.logLevel)
	}
}

func (t *Backend) render(status backend.Status) {
	t.screen.Clear()

	termWidth, termHeight := t.screen.Size()
	if termWidth < minTermWidth || termHeight < minTermHeight {
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, style, msg)
		return
	}

	t.drawStatus(status, termWidth)
	t.drawDivider(statusHeight, termWidth)
	t.drawLogs(statusHeight+1, termWidth, termHeight)
}

func (t *Backend) drawStatus(s backend.Status, width int) {
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	labelStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	valueStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	meterStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	title := s.Track
	if title == "" {
		title = s.Name
	}
	t.drawText(0, 0, width, titleStyle, title)

	rows := []struct{ label, value string }{
		{"Game", s.Game},
		{"System", s.System},
		{"Author", s.Author},
		{"State", stateLine(s)},
		{"Time", timeLine(s)},
		{"Volume", fmt.Sprintf("%.0f%%", s.Volume*100)},
	}
	for i, row := range rows {
		t.drawText(0, i+1, 8, labelStyle, row.label)
		t.drawText(8, i+1, width-8, valueStyle, row.value)
	}

	bar := min(meterWidth, width-4)
	t.drawText(0, 7, 3, labelStyle, "L")
	t.drawText(3, 7, bar, meterStyle, render.Meter(s.Level.PeakL, bar))
	t.drawText(0, 8, 3, labelStyle, "R")
	t.drawText(3, 8, bar, meterStyle, render.Meter(s.Level.PeakR, bar))

	if s.Err != nil {
		t.drawText(0, 9, width, errStyle, "Error: "+s.Err.Error())
	} else {
		t.drawText(0, 9, width, labelStyle, helpLine)
	}
}

func stateLine(s backend.Status) string {
	line := s.State
	if s.Ended {
		line += " (ended)"
	}
	if len(s.Muted) > 0 {
		line += "  muted: " + strings.Join(s.Muted, " ")
	}
	return line
}

func timeLine(s backend.Status) string {
	line := render.Clock(s.Position)
	if s.Duration > 0 {
		line += " / " + render.Clock(s.Duration)
	}
	if s.Loops > 0 {
		line += fmt.Sprintf("  loop %d", s.Loops)
	}
	return line
}

func (t *Backend) drawDivider(y, width int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for x := 0; x < width; x++ {
		t.screen.SetContent(x, y, '─', nil, style)
	}
	t.drawText(2, y, width-2, style.Foreground(tcell.ColorYellow), " Logs ")
}

func (t *Backend) drawLogs(startY, width, termHeight int) {
	availableHeight := termHeight - startY
	if availableHeight <= 0 {
		return
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, entry := range t.logBuffer.GetRecent(availableHeight, t.logLevel) {
		style := infoStyle
		switch {
		case entry.Level >= slog.LevelError:
			style = errStyle
		case entry.Level >= slog.LevelWarn:
			style = warnStyle
		case entry.Level < slog.LevelInfo:
			style = debugStyle
		}
		t.drawText(0, startY+i, width, style, render.FormatLogEntry(entry))
	}
}

// drawText writes text at (x, y), truncating it to width cells.
func (t *Backend) drawText(x, y, width int, style tcell.Style, text string) {
	runes := []rune(text)
	if len(runes) > width {
		if width > 3 {
			runes = append(runes[:width-3], '.', '.', '.')
		} else if width > 0 {
			runes = runes[:width]
		} else {
			return
		}
	}
	for i, r := range runes {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}
