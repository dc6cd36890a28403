package testing

import (
	tea "github.com/charmbracelet/bubbletea"
)

// TestHarness drives a Bubble Tea model without a terminal
type TestHarness struct {
	model tea.Model
}

// NewTestHarness creates a new test harness wrapping a Bubble Tea model
func NewTestHarness(model tea.Model) *TestHarness {
	return &TestHarness{model: model}
}

// Model returns the current model state
func (h *TestHarness) Model() tea.Model {
	return h.model
}

// SendKey sends a single key message and returns the resulting command
func (h *TestHarness) SendKey(key string) tea.Cmd {
	return h.SendMsg(KeyMsg(key))
}

// SendMsg sends any tea.Msg to the model
func (h *TestHarness) SendMsg(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.model, cmd = h.model.Update(msg)
	return cmd
}

// SendWindowSize sends a window size message
func (h *TestHarness) SendWindowSize(width, height int) tea.Cmd {
	return h.SendMsg(tea.WindowSizeMsg{Width: width, Height: height})
}

// ExecuteCmd runs cmd and feeds its message back into the model. Batches
// are expanded, so every message produced is delivered in order.
func (h *TestHarness) ExecuteCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, h.ExecuteCmd(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	h.model, _ = h.model.Update(msg)
	return []tea.Msg{msg}
}

// View returns the current view of the model
func (h *TestHarness) View() string {
	return h.model.View()
}

// Init returns the model's init command
func (h *TestHarness) Init() tea.Cmd {
	return h.model.Init()
}

// KeyMsg converts a key name such as "enter", "pgdown" or "ctrl+c" to a
// tea.KeyMsg. Anything else is sent as literal runes.
func KeyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "pgup":
		return tea.KeyMsg{Type: tea.KeyPgUp}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}
