// Package tui is an interactive browser over the todo collection.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/todos"
	"github.com/Makepad-fr/tada/internal/ui"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	msgRestored    = "Todo restored!"
	msgNoUndo      = "Nothing to undo"
	msgNotEditable = "This entry is not a valid todo"
)

// listItem adapts model.Todo to bubbles/list.Item.
type listItem struct {
	todo model.Todo
}

func (i listItem) FilterValue() string {
	if i.todo.Malformed() {
		return string(i.todo.Raw())
	}
	return i.todo.Todo
}

// itemDelegate renders one line per todo.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = ui.Current().Selected.Render(">") + " "
	}
	fmt.Fprintln(w, prefix+ui.LineFor(it.todo, ui.IDLabel(it.todo)))
}

type mode int

const (
	browsing mode = iota
	adding
	editing
)

// Model is the bubbletea model. Every change goes straight through the
// service, so the file is always up to date.
type Model struct {
	svc   *todos.Service
	list  list.Model
	input textinput.Model

	mode     mode
	editKey  todos.Key
	inputErr string

	status string
	failed bool

	// single-level undo of the last delete
	undo *model.Todo

	width, height int
}

// New loads the collection and builds the browser.
func New(svc *todos.Service) (Model, error) {
	items, err := svc.List()
	if err != nil {
		return Model{}, err
	}

	l := list.New(toListItems(items), itemDelegate{}, defaultWidth, defaultHeight)
	l.Title = "Todos"
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.Current().Title
	l.Styles.HelpStyle = ui.Current().Muted
	l.Styles.PaginationStyle = ui.Current().Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("todo", "todos")

	// d and u are ours; keep paging on the arrow keys.
	l.KeyMap.NextPage.SetKeys("right", "l", "pgdown", "f")
	l.KeyMap.PrevPage.SetKeys("left", "h", "pgup", "b")

	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind := key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	delBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	undoBind := key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo"))
	extra := func() []key.Binding { return []key.Binding{addBind, editBind, delBind, undoBind} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := Model{
		svc:    svc,
		list:   l,
		input:  ti,
		width:  defaultWidth,
		height: defaultHeight,
	}
	m.resize()
	return m, nil
}

// Run starts the browser on the alternate screen and blocks until it quits.
func Run(svc *todos.Service) error {
	m, err := New(svc)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}

	if m.mode != browsing {
		return m.updateInput(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch km.String() {
	case "q":
		return m, tea.Quit
	case "a":
		return m.startInput(adding, "", "<id> <todo>")
	case "e":
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		if it.Malformed() {
			m.setStatus(msgNotEditable, true)
			return m, nil
		}
		m.editKey = todos.KeyOf(it.ID)
		return m.startInput(editing, it.Todo, "new text")
	case "d":
		return m.deleteSelected()
	case "u":
		return m.undoDelete()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			return m.submit()
		case "esc":
			m.stopInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) startInput(md mode, value, placeholder string) (tea.Model, tea.Cmd) {
	m.mode = md
	m.inputErr = ""
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Placeholder = placeholder
	cmd := m.input.Focus()
	m.resize()
	return m, cmd
}

func (m *Model) stopInput() {
	m.mode = browsing
	m.inputErr = ""
	m.input.SetValue("")
	m.input.Blur()
	m.resize()
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())

	var err error
	var done string
	switch m.mode {
	case adding:
		idText, text, _ := strings.Cut(value, " ")
		var req todos.CreateRequest
		if req, err = todos.NewCreateRequest(idText, strings.TrimSpace(text)); err == nil {
			_, err = m.svc.Create(req)
		}
		done = todos.MsgCreated
	case editing:
		_, err = m.svc.Update(m.editKey, todos.UpdateRequest{Todo: value})
		done = todos.MsgUpdated
	}
	if err != nil {
		m.inputErr = failureText(err)
		return m, nil
	}

	m.stopInput()
	m.setStatus(done, false)
	cmd := m.reload()
	return m, cmd
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	it, ok := m.selected()
	if !ok {
		return m, nil
	}
	if it.Malformed() {
		m.setStatus(msgNotEditable, true)
		return m, nil
	}
	if err := m.svc.Delete(todos.KeyOf(it.ID)); err != nil {
		m.setStatus(failureText(err), true)
		cmd := m.reload()
		return m, cmd
	}
	m.undo = &it
	m.setStatus(todos.MsgDeleted, false)
	cmd := m.reload()
	return m, cmd
}

func (m Model) undoDelete() (tea.Model, tea.Cmd) {
	if m.undo == nil {
		m.setStatus(msgNoUndo, true)
		return m, nil
	}
	_, err := m.svc.Create(todos.CreateRequest{ID: m.undo.ID, Todo: m.undo.Todo})
	if err != nil {
		m.setStatus(failureText(err), true)
		return m, nil
	}
	m.undo = nil
	m.setStatus(msgRestored, false)
	cmd := m.reload()
	return m, cmd
}

// reload re-reads the collection so the view matches the store.
func (m *Model) reload() tea.Cmd {
	items, err := m.svc.List()
	if err != nil {
		m.setStatus(failureText(err), true)
		return nil
	}
	return m.list.SetItems(toListItems(items))
}

func (m Model) selected() (model.Todo, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Todo{}, false
	}
	return it.todo, true
}

func (m *Model) setStatus(msg string, failed bool) {
	m.status, m.failed = msg, failed
}

func (m *Model) resize() {
	h := m.height - 5
	if m.mode != browsing {
		h -= 4
	}
	if h < 1 {
		h = 1
	}
	m.list.SetSize(m.width-4, h)
}

func (m Model) View() string {
	t := ui.Current()
	content := m.list.View()

	if m.mode != browsing {
		title := "Add todo"
		if m.mode == editing {
			title = "Edit todo " + m.editKey.String()
		}
		if m.inputErr != "" {
			title += "  " + t.Error.Render(m.inputErr)
		}
		content += "\n" + ui.Frame(title+"\n"+m.input.View())
	}

	switch {
	case m.status == "":
	case m.failed:
		content += "\n" + t.Error.Render(t.SymFail+" "+m.status)
	default:
		content += "\n" + t.Success.Render(t.SymOK+" "+m.status)
	}
	return ui.Frame(content)
}

func toListItems(items []model.Todo) []list.Item {
	out := make([]list.Item, 0, len(items))
	for _, it := range items {
		out = append(out, listItem{todo: it})
	}
	return out
}

func failureText(err error) string {
	res := todos.Failure(err)
	if res.Error != "" {
		return res.Message + ": " + res.Error
	}
	return res.Message
}
