package browse

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// QuickSearches are the preset queries offered before a custom search.
var QuickSearches = []string{
	"Technology Director",
	"Programme Director",
	"Head of Transformation",
	"Sales Director Technology",
	"VP Technology",
	"Digital Director",
	"Head of Technology",
	"Managing Director",
}

const customSearchLabel = "Custom search…"

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)

	pickerInputStyle = lipgloss.NewStyle().
				Padding(1, 0, 0, 2)
)

type pickerModel struct {
	presets []string
	cursor  int
	input   textinput.Model
	typing  bool
	chosen  string
	quit    bool
}

func newPickerModel(presets []string, initial string) pickerModel {
	ti := textinput.New()
	ti.Placeholder = "e.g. Transformation Director London"
	ti.Prompt = "search: "
	ti.CharLimit = 120
	ti.SetValue(initial)
	return pickerModel{presets: presets, input: ti}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.typing {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.typing {
		switch key.String() {
		case "ctrl+c":
			m.quit = true
			return m, tea.Quit
		case "esc":
			m.typing = false
			m.input.Blur()
			return m, nil
		case "enter":
			if q := strings.TrimSpace(m.input.Value()); q != "" {
				m.chosen = q
				return m, tea.Quit
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "q", "ctrl+c":
		m.quit = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets) {
			m.cursor++
		}
	case "/":
		return m.startTyping()
	case "enter":
		if m.cursor == len(m.presets) {
			return m.startTyping()
		}
		m.chosen = m.presets[m.cursor]
		return m, tea.Quit
	}
	return m, nil
}

func (m pickerModel) startTyping() (tea.Model, tea.Cmd) {
	m.typing = true
	m.cursor = len(m.presets)
	cmd := m.input.Focus()
	return m, cmd
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render("Live Job Search — pick a search"))
	b.WriteByte('\n')

	items := append(append([]string(nil), m.presets...), customSearchLabel)
	for i, label := range items {
		if i == m.cursor {
			b.WriteString(pickerSelectedStyle.Render("> " + label))
		} else {
			b.WriteString(pickerItemStyle.Render(label))
		}
		b.WriteByte('\n')
	}

	if m.typing {
		b.WriteString(pickerInputStyle.Render(m.input.View()))
		b.WriteByte('\n')
		b.WriteString(pickerHintStyle.Render("enter search  esc back  ctrl+c quit"))
		return b.String()
	}

	b.WriteString(pickerHintStyle.Render("↑/↓/j/k navigate  enter select  / type a search  q quit"))
	return b.String()
}

// RunQueryPicker shows the preset searches plus a free-text entry. initial
// prefills the free-text box. quit is true when the user left without
// choosing.
func RunQueryPicker(presets []string, initial string) (query string, quit bool, err error) {
	p := tea.NewProgram(newPickerModel(presets, initial))
	result, err := p.Run()
	if err != nil {
		return "", true, err
	}

	final := result.(pickerModel)
	return final.chosen, final.quit, nil
}
