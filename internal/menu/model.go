// Package menu is the interactive front end: pick an operation, enter a
// path, see the result, repeat.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Action is a menu entry.
type Action int

const (
	ActionNone Action = iota
	ActionTranscribe
	ActionConvert
	ActionSummarize
	ActionFull
	ActionExit
)

type option struct {
	action Action
	label  string
	prompt string
}

var options = []option{
	{ActionTranscribe, "Transcribe media to captions", "Path to the media file"},
	{ActionConvert, "Convert captions to JSON", "Path to the caption (.vtt) file"},
	{ActionSummarize, "Summarize transcript JSON", "Path to the transcript JSON file"},
	{ActionFull, "Run full pipeline", "Path to the media file"},
	{ActionExit, "Exit", ""},
}

// Selection is what the user chose in one pass through the menu.
type Selection struct {
	Action Action
	Path   string
}

// Model is the bubbletea model for one menu pass.
type Model struct {
	cursor   int
	entering bool
	input    string
	status   string

	selection Selection
}

// NewModel creates a menu model. status is shown under the title, usually
// the outcome of the previous operation.
func NewModel(status string) Model {
	return Model{status: status}
}

// Selection returns the final choice once the program has quit.
func (m Model) Selection() Selection {
	return m.selection
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.entering {
			return m.handleInput(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case keyCtrlC, keyQuit:
		m.selection = Selection{Action: ActionExit}
		return m, tea.Quit
	case keyUp, keyK:
		if m.cursor > 0 {
			m.cursor--
		}
	case keyDown, keyJ:
		if m.cursor < len(options)-1 {
			m.cursor++
		}
	case keyEnter:
		return m.choose(m.cursor)
	default:
		if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < len(options) {
			return m.choose(int(key[0] - '1'))
		}
	}
	return m, nil
}

func (m Model) choose(i int) (tea.Model, tea.Cmd) {
	m.cursor = i
	if options[i].action == ActionExit {
		m.selection = Selection{Action: ActionExit}
		return m, tea.Quit
	}
	m.entering = true
	m.input = ""
	return m, nil
}

func (m Model) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyCtrlC:
		m.selection = Selection{Action: ActionExit}
		return m, tea.Quit
	case keyEsc:
		m.entering = false
		m.input = ""
		return m, nil
	case keyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
		return m, nil
	case keyEnter:
		path := cleanPath(m.input)
		if path == "" {
			return m, nil
		}
		m.selection = Selection{Action: options[m.cursor].action, Path: path}
		return m, tea.Quit
	}

	switch msg.Type {
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	case tea.KeySpace:
		m.input += " "
	}
	return m, nil
}

// cleanPath trims whitespace and the quotes terminals add when a file is
// dragged in.
func cleanPath(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Study Digest"))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, opt := range options {
		line := fmt.Sprintf("%d. %s", i+1, opt.label)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.entering {
		b.WriteString(promptStyle.Render(options[m.cursor].prompt + ": "))
		b.WriteString(m.input)
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("enter to run, esc to go back"))
	} else {
		b.WriteString(dimStyle.Render("1-5 or arrows + enter to choose, q to quit"))
	}
	b.WriteString("\n")

	return b.String()
}
