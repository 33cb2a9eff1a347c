package monitor

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Key bindings as constants for consistency.
const (
	KeyQuit        = "q"
	KeyQuitAlt     = "ctrl+c"
	KeyRefresh     = "r"
	KeyRefreshAll  = "R"
	KeyRestart     = "enter"
	KeyRestartAlt  = "x"
	KeyUp          = "up"
	KeyUpK         = "k"
	KeyDown        = "down"
	KeyDownJ       = "j"
	KeyLeft        = "left"
	KeyLeftH       = "h"
	KeyRight       = "right"
	KeyRightL      = "l"
	KeySelectFirst = "home"
	KeySelectLast  = "end"
	KeyLogUp       = "pgup"
	KeyLogDown     = "pgdown"
	KeyClose       = "esc"
	KeyToggleHelp  = "?"
)

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	// Help toggle takes priority
	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	// If help is showing, Esc closes it
	if m.showHelp && key == KeyClose {
		m.showHelp = false
		return true, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyClose:
		m.notice = ""
		return true, nil

	case KeyRefresh:
		return true, m.refreshSelectedCmd()

	case KeyRefreshAll:
		return true, m.refreshAllCmd()

	case KeyRestart, KeyRestartAlt:
		return true, m.restartSelectedCmd()

	case KeyUp, KeyUpK:
		if m.row > 0 {
			m.row--
		}
		return true, nil

	case KeyDown, KeyDownJ:
		if m.row < len(m.hosts)-1 {
			m.row++
		}
		return true, nil

	case KeyLeft, KeyLeftH:
		if m.col > 0 {
			m.col--
		}
		return true, nil

	case KeyRight, KeyRightL:
		if m.col < len(m.services)-1 {
			m.col++
		}
		return true, nil

	case KeySelectFirst:
		m.row = 0
		return true, nil

	case KeySelectLast:
		if len(m.hosts) > 0 {
			m.row = len(m.hosts) - 1
		}
		return true, nil

	case KeyLogUp:
		m.logView.HalfViewUp()
		return true, nil

	case KeyLogDown:
		m.logView.HalfViewDown()
		return true, nil
	}

	return false, nil
}
