package views

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xolan/breakruptcy/internal/clock"
	"github.com/xolan/breakruptcy/internal/service"
	"github.com/xolan/breakruptcy/internal/storage"
	"github.com/xolan/breakruptcy/internal/timer"
	"github.com/xolan/breakruptcy/internal/tui/ui"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T, store storage.Store) (*service.SessionService, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(t0)
	session := service.NewSessionService(context.Background(), store, service.SessionOptions{Clock: clk})
	t.Cleanup(func() { _ = session.Close() })
	return session, clk
}

func smallConfig() timer.Config {
	return timer.Config{
		Bank1Duration: 5 * time.Second,
		Bank2Duration: 3 * time.Second,
		Bank1Label:    "A",
		Bank2Label:    "B",
	}
}

func testStyles() ui.Styles {
	return ui.NewThemeProvider("dracula").Styles()
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

var spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
