package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"tasklist/internal/app"
	"tasklist/internal/models"
)

// InputMode represents the current screen
type InputMode int

const (
	LoginMode InputMode = iota
	RegisterMode
	ListMode
	AddMode
	UsersMode // admin account management
)

// RefreshMsg is sent when a store reports a change; the model reloads
// its view state from the services.
type RefreshMsg struct{}

// Model represents the application state
type Model struct {
	app  *app.App
	mode InputMode

	width, height int

	// Login / register form
	usernameInput textinput.Model
	passwordInput textinput.Model

	// Add-task form
	titleInput    textinput.Model
	categoryInput textinput.Model
	priorityInput textinput.Model
	dueDateInput  textinput.Model

	activeInput int

	// List state
	tasks  []models.Task
	cursor int

	// Users state (admin)
	users      []models.User
	userCursor int

	status string
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))
	selectedStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#3C3C3C"))
	doneStyle   = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EAB308"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
	adminStyle  = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("#F97316"))
)

// NewModel creates the initial TUI model on top of the app container.
func NewModel(a *app.App) Model {
	username := textinput.New()
	username.Placeholder = "Username"
	username.Focus()
	username.Width = 32

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.Width = 32

	title := textinput.New()
	title.Placeholder = "Title"
	title.Width = 40

	category := textinput.New()
	category.Placeholder = "Category (default General)"
	category.Width = 40

	priority := textinput.New()
	priority.Placeholder = "Priority (H/M/L, blank for none)"
	priority.Width = 40

	dueDate := textinput.New()
	dueDate.Placeholder = "Due date (YYYY-MM-DD, optional)"
	dueDate.Width = 40

	return Model{
		app:           a,
		mode:          LoginMode,
		usernameInput: username,
		passwordInput: password,
		titleInput:    title,
		categoryInput: category,
		priorityInput: priority,
		dueDateInput:  dueDate,
	}
}

// refresh reloads view state from the services.
func (m *Model) refresh() {
	if cur := m.app.Users.GetCurrentUser(); cur != nil {
		m.tasks = m.app.Todos.GetForUser(cur.ID)
		if m.cursor >= len(m.tasks) {
			m.cursor = max(0, len(m.tasks)-1)
		}
	} else {
		m.tasks = nil
		m.cursor = 0
	}

	m.users = m.app.Users.GetAllUsers()
	if m.userCursor >= len(m.users) {
		m.userCursor = max(0, len(m.users)-1)
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
