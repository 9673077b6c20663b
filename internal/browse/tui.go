package browse

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobdesk/internal/filter"
	"github.com/amishk599/jobdesk/internal/model"
)

// Lines per listing in the list pane (title + subtitle + blank separator).
const listingItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")) // bright blue

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")) // dim gray

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	activeHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("39"))

	inactiveHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	listingTitleStyle = lipgloss.NewStyle().
				Bold(true)

	listingSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")). // bright white
				Background(lipgloss.Color("24"))  // dark blue bg

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	savedMarkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")) // green

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(12)

	detailValueStyle = lipgloss.NewStyle()

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	descDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	descBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// Saver records listings in the application tracker.
type Saver interface {
	AddFromListing(l model.Listing) (model.Application, bool, error)
	IsSaved(l model.Listing) bool
}

// savedMsg is sent when an async save completes.
type savedMsg struct {
	key   string
	title string
	added bool
	err   error
}

type browseModel struct {
	query     string
	listings  []model.Listing // API order
	visible   []model.Listing // after work-type filter and sort
	workType  string
	sortOrder string

	saver Saver
	saved map[string]bool // by Listing.Key

	listViewport    viewport.Model
	previewViewport viewport.Model
	activePane      int // 0=list, 1=preview
	cursor          int
	width           int
	height          int
	ready           bool

	view           viewState
	detail         model.Listing
	detailViewport viewport.Model

	notice    string
	noticeErr bool

	wantQuit bool
}

func newBrowseModel(query string, listings []model.Listing, saver Saver) browseModel {
	m := browseModel{
		query:     query,
		listings:  listings,
		workType:  filter.WorkTypeAll,
		sortOrder: filter.SortRelevance,
		saver:     saver,
		saved:     make(map[string]bool),
	}
	for _, l := range listings {
		if saver != nil && saver.IsSaved(l) {
			m.saved[l.Key] = true
		}
	}
	m.applyView()
	return m
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.notice = "Could not save: " + model.UserMessage(msg.err)
			m.noticeErr = true
			return m, nil
		}
		m.saved[msg.key] = true
		m.noticeErr = false
		if msg.added {
			m.notice = fmt.Sprintf("Saved %q to tracker", msg.title)
		} else {
			m.notice = fmt.Sprintf("%q is already in the tracker", msg.title)
		}
		m.recalcContent()
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m browseModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "b":
		m.wantQuit = false
		return m, tea.Quit
	case "tab", "left", "right":
		m.activePane = 1 - m.activePane
		m.recalcContent()
		return m, nil
	case "up", "k":
		if m.activePane == 0 {
			m.moveCursor(-1)
			return m, nil
		}
	case "down", "j":
		if m.activePane == 0 {
			m.moveCursor(1)
			return m, nil
		}
	case "f":
		m.workType = cycle(filter.WorkTypes, m.workType)
		m.applyView()
		m.recalcContent()
		return m, nil
	case "t":
		m.sortOrder = cycle(filter.SortOrders, m.sortOrder)
		m.applyView()
		m.recalcContent()
		return m, nil
	case "s":
		if l, ok := m.current(); ok {
			return m, m.saveCmd(l)
		}
		return m, nil
	case "o":
		if l, ok := m.current(); ok && l.URL != "" {
			openURL(l.URL)
		}
		return m, nil
	case "enter":
		return m.openDetailView()
	}

	// Forward other keys (pgup/pgdn/home/end, arrows in the preview) to the active viewport.
	var cmd tea.Cmd
	if m.activePane == 0 {
		m.listViewport, cmd = m.listViewport.Update(msg)
	} else {
		m.previewViewport, cmd = m.previewViewport.Update(msg)
	}
	return m, cmd
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		m.recalcContent()
		return m, nil
	case "o":
		if m.detail.URL != "" {
			openURL(m.detail.URL)
		}
		return m, nil
	case "s":
		return m, m.saveCmd(m.detail)
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m browseModel) saveCmd(l model.Listing) tea.Cmd {
	saver := m.saver
	if saver == nil {
		return nil
	}
	return func() tea.Msg {
		_, added, err := saver.AddFromListing(l)
		return savedMsg{key: l.Key, title: l.Title, added: added, err: err}
	}
}

// applyView recomputes the visible listings and keeps the cursor in range.
func (m *browseModel) applyView() {
	visible := filter.Apply(filter.NewWorkTypeFilter(m.workType), m.listings)
	sorted, err := filter.Sort(visible, m.sortOrder)
	if err != nil {
		sorted = visible
	}
	m.visible = sorted
	m.cursor = clamp(m.cursor, 0, max(len(m.visible)-1, 0))
}

func (m browseModel) current() (model.Listing, bool) {
	if len(m.visible) == 0 {
		return model.Listing{}, false
	}
	return m.visible[m.cursor], true
}

func (m *browseModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(len(m.visible)-1, 0))
	m.recalcContent()
	m.ensureCursorVisible()
}

func (m *browseModel) ensureCursorVisible() {
	vp := &m.listViewport
	cursorTop := m.cursor * listingItemHeight
	cursorBottom := cursorTop + listingItemHeight - 1

	if cursorTop < vp.YOffset {
		vp.SetYOffset(cursorTop)
	} else if cursorBottom >= vp.YOffset+vp.Height {
		vp.SetYOffset(cursorBottom - vp.Height + 1)
	}
}

func (m browseModel) openDetailView() (tea.Model, tea.Cmd) {
	l, ok := m.current()
	if !ok {
		return m, nil
	}
	m.view = viewDetail
	m.detail = l
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())
	return m, nil
}

func (m *browseModel) recalcLayout() {
	// 2 border chars per pane + 1 gap between panes.
	paneWidth := max((m.width-5)/2, 20)

	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.listViewport = viewport.New(paneWidth, paneHeight)
		m.previewViewport = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		m.listViewport.Width = paneWidth
		m.listViewport.Height = paneHeight
		m.previewViewport.Width = paneWidth
		m.previewViewport.Height = paneHeight
	}

	m.recalcContent()
}

func (m *browseModel) recalcContent() {
	if !m.ready {
		return
	}
	m.listViewport.SetContent(renderListings(m.visible, m.saved, m.cursor, m.activePane == 0))
	if l, ok := m.current(); ok {
		m.previewViewport.SetContent(renderPreview(l, m.saved[l.Key], m.previewViewport.Width))
	} else {
		m.previewViewport.SetContent("  (nothing to preview)")
	}
	m.previewViewport.SetYOffset(0)
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.view == viewDetail {
		return m.viewDetail()
	}

	return m.viewList()
}

func (m browseModel) viewList() string {
	paneWidth := m.listViewport.Width

	leftHeader := fmt.Sprintf(" %q (%d/%d)", m.query, len(m.visible), len(m.listings))
	rightHeader := " Preview"

	var leftHeaderRendered, rightHeaderRendered string
	var leftBorder, rightBorder lipgloss.Style

	if m.activePane == 0 {
		leftHeaderRendered = activeHeaderStyle.Render(leftHeader)
		rightHeaderRendered = inactiveHeaderStyle.Render(rightHeader)
		leftBorder = activeBorderStyle.Width(paneWidth)
		rightBorder = inactiveBorderStyle.Width(paneWidth)
	} else {
		leftHeaderRendered = inactiveHeaderStyle.Render(leftHeader)
		rightHeaderRendered = activeHeaderStyle.Render(rightHeader)
		leftBorder = inactiveBorderStyle.Width(paneWidth)
		rightBorder = activeBorderStyle.Width(paneWidth)
	}

	leftPane := leftBorder.Render(m.listViewport.View())
	rightPane := rightBorder.Render(m.previewViewport.View())

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(paneWidth+2).Render(leftHeaderRendered),
		" ",
		lipgloss.NewStyle().Width(paneWidth+2).Render(rightHeaderRendered),
	)

	panes := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, " ", rightPane)

	statusText := fmt.Sprintf(" type: %s | sort: %s    f type  t sort  s save  o open  Enter detail  Esc new search  q quit",
		m.workType, m.sortOrder)
	if m.notice != "" {
		statusText = " " + m.notice + "  |" + statusText
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return headerRow + "\n" + panes + "\n" + statusBar
}

func (m browseModel) viewDetail() string {
	title := detailTitleStyle.Render("Listing Details")
	if m.saved[m.detail.Key] {
		title += savedMarkStyle.Render("  ★ saved")
	}

	border := activeBorderStyle.Width(m.width - 2)
	content := border.Render(m.detailViewport.View())

	statusText := " s save  o open URL  esc/backspace back  ↑/↓ scroll  q quit"
	if m.notice != "" {
		statusText = " " + m.notice + "  |" + statusText
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return title + "\n" + content + "\n" + statusBar
}

func (m browseModel) renderDetail() string {
	l := m.detail
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("Title", l.Title)
	addField("Company", l.Company)
	addField("Location", l.Location)
	addField("Salary", l.Salary)
	addField("Type", l.Type)
	addField("Work type", filter.WorkType(l))

	b.WriteByte('\n')
	addField("Apply URL", l.URL)

	if m.notice != "" {
		b.WriteByte('\n')
		if m.noticeErr {
			b.WriteString(errorStyle.Render("⚠ "+m.notice) + "\n")
		} else {
			b.WriteString(noticeStyle.Render(m.notice) + "\n")
		}
	}

	wrapWidth := max(m.width-8, 20)
	if l.Description != "" {
		b.WriteByte('\n')
		b.WriteString(divider("── Job Description ", wrapWidth) + "\n\n")
		b.WriteString(descBodyStyle.Render(wordWrap(l.Description, wrapWidth)) + "\n")
	}

	return b.String()
}

func renderPreview(l model.Listing, saved bool, width int) string {
	wrapWidth := max(width-2, 20)
	var b strings.Builder

	b.WriteString(listingTitleStyle.Render(wordWrap(l.Title, wrapWidth)))
	if saved {
		b.WriteString(savedMarkStyle.Render("  ★ saved"))
	}
	b.WriteString("\n")
	b.WriteString(l.Company + "\n")
	b.WriteString(listingSubtitleStyle.Render(fmt.Sprintf("%s · %s · %s", l.Location, l.Type, filter.WorkType(l))) + "\n")
	b.WriteString(l.Salary + "\n\n")
	b.WriteString(descBodyStyle.Render(wordWrap(l.Summary, wrapWidth)) + "\n")
	if l.URL != "" {
		b.WriteString("\n" + listingSubtitleStyle.Render(l.URL) + "\n")
	}
	return b.String()
}

func renderListings(listings []model.Listing, saved map[string]bool, cursor int, isActive bool) string {
	if len(listings) == 0 {
		return "  (no listings match this work type)"
	}

	var b strings.Builder
	for i, l := range listings {
		isSelected := isActive && i == cursor

		titleSt := listingTitleStyle
		subtitleSt := listingSubtitleStyle
		prefix := "  "
		if isSelected {
			titleSt = selectedTitleStyle
			subtitleSt = selectedSubtitleStyle
			prefix = "> "
		}

		mark := ""
		if saved[l.Key] {
			mark = savedMarkStyle.Render(" ★")
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(l.Title))
		b.WriteString(mark)
		b.WriteByte('\n')

		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(fmt.Sprintf("%s · %s · %s", l.Company, l.Location, l.Salary)))
		b.WriteByte('\n')

		if i < len(listings)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func divider(label string, width int) string {
	fill := strings.Repeat("─", max(width-len(label), 3))
	return descDividerStyle.Render(label + fill)
}

// cycle returns the element after current in options, wrapping around.
func cycle(options []string, current string) string {
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// RunBrowser launches the split-pane listing browser for one search.
// saver may be nil, which disables saving.
// Returns wantQuit=true if the user pressed q/ctrl+c, false if they pressed
// esc to return to the picker.
func RunBrowser(query string, listings []model.Listing, saver Saver) (bool, error) {
	m := newBrowseModel(query, listings, saver)

	p := tea.NewProgram(m, tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	final := result.(browseModel)
	return final.wantQuit, nil
}
