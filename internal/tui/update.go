package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tasklist/internal/models"
)

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case RefreshMsg:
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case LoginMode, RegisterMode:
			return m.updateAuth(msg)
		case ListMode:
			return m.updateList(msg)
		case AddMode:
			return m.updateAdd(msg)
		case UsersMode:
			return m.updateUsers(msg)
		}
	}
	return m, nil
}

func (m Model) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "tab", "shift+tab":
		m.activeInput = (m.activeInput + 1) % 2
		m.focusAuthInput()
		return m, nil

	case "ctrl+r":
		// Toggle between login and register
		if m.mode == LoginMode {
			m.mode = RegisterMode
		} else {
			m.mode = LoginMode
		}
		m.status = ""
		return m, nil

	case "enter":
		username := m.usernameInput.Value()
		password := m.passwordInput.Value()

		if m.mode == RegisterMode {
			ok, err := m.app.Users.Register(ctx, username, password)
			m.reportErr(err)
			if !ok {
				m.status = "registration rejected: blank or duplicate username"
				return m, nil
			}
			m.mode = LoginMode
			m.status = "account created, log in"
			return m, nil
		}

		ok, err := m.app.Users.Login(ctx, username, password)
		m.reportErr(err)
		if !ok {
			m.status = "invalid username or password"
			return m, nil
		}
		m.mode = ListMode
		m.status = ""
		m.passwordInput.SetValue("")
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	if m.activeInput == 0 {
		m.usernameInput, cmd = m.usernameInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}

	case "a":
		m.mode = AddMode
		m.activeInput = 0
		m.resetAddInputs()

	case " ", "space", "enter":
		if m.cursor < len(m.tasks) {
			item := m.tasks[m.cursor]
			item.IsCompleted = !item.IsCompleted
			m.reportErr(m.app.Todos.Update(ctx, item))
			m.refresh()
		}

	case "x":
		if m.cursor < len(m.tasks) {
			m.reportErr(m.app.Todos.Delete(ctx, m.tasks[m.cursor].ID))
			m.refresh()
		}

	case "r":
		m.reportErr(m.app.Todos.Reload(ctx))
		m.refresh()
		m.status = "reloaded from snapshot"

	case "u":
		if m.app.Users.IsAdmin() {
			m.mode = UsersMode
			m.refresh()
		}

	case "L":
		m.reportErr(m.app.Users.Logout(ctx))
		m.mode = LoginMode
		m.usernameInput.SetValue("")
		m.passwordInput.SetValue("")
		m.activeInput = 0
		m.focusAuthInput()
	}

	return m, nil
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.mode = ListMode
		return m, nil

	case "tab":
		m.activeInput = (m.activeInput + 1) % 4
		m.focusAddInput()
		return m, nil

	case "shift+tab":
		m.activeInput = (m.activeInput + 3) % 4
		m.focusAddInput()
		return m, nil

	case "enter":
		cur := m.app.Users.GetCurrentUser()
		if cur == nil {
			m.mode = LoginMode
			return m, nil
		}
		title := strings.TrimSpace(m.titleInput.Value())
		if title == "" {
			m.status = "title is required"
			return m, nil
		}

		item := models.Task{
			UserID:   cur.ID,
			Title:    title,
			Category: strings.TrimSpace(m.categoryInput.Value()),
			Priority: models.ParsePriority(m.priorityInput.Value()),
		}
		if raw := strings.TrimSpace(m.dueDateInput.Value()); raw != "" {
			due, err := time.Parse("2006-01-02", raw)
			if err != nil {
				m.status = "due date must be YYYY-MM-DD"
				return m, nil
			}
			item.DueDate = &due
		}

		_, err := m.app.Todos.Add(ctx, item)
		m.reportErr(err)
		m.mode = ListMode
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	switch m.activeInput {
	case 0:
		m.titleInput, cmd = m.titleInput.Update(msg)
	case 1:
		m.categoryInput, cmd = m.categoryInput.Update(msg)
	case 2:
		m.priorityInput, cmd = m.priorityInput.Update(msg)
	case 3:
		m.dueDateInput, cmd = m.dueDateInput.Update(msg)
	}
	return m, cmd
}

func (m Model) updateUsers(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.mode = ListMode
		m.status = ""

	case "up", "k":
		if m.userCursor > 0 {
			m.userCursor--
		}

	case "down", "j":
		if m.userCursor < len(m.users)-1 {
			m.userCursor++
		}

	case "x":
		if m.userCursor < len(m.users) {
			ok, err := m.app.Users.DeleteUser(ctx, m.users[m.userCursor].ID)
			m.reportErr(err)
			if !ok {
				m.status = "cannot delete this account (last admin or current session)"
			} else {
				m.status = "account deleted"
			}
			m.refresh()
		}

	case "p":
		if m.userCursor < len(m.users) {
			updated := m.users[m.userCursor]
			if updated.Role.Capabilities().Admin {
				updated.Role = models.RoleUser
			} else {
				updated.Role = models.RoleAdmin
			}
			ok, err := m.app.Users.UpdateUser(ctx, updated)
			m.reportErr(err)
			if !ok {
				m.status = "cannot demote the last admin"
			} else {
				m.status = "role updated"
			}
			m.refresh()
		}
	}

	return m, nil
}

func (m *Model) focusAuthInput() {
	m.usernameInput.Blur()
	m.passwordInput.Blur()
	if m.activeInput == 0 {
		m.usernameInput.Focus()
	} else {
		m.passwordInput.Focus()
	}
}

func (m *Model) focusAddInput() {
	m.titleInput.Blur()
	m.categoryInput.Blur()
	m.priorityInput.Blur()
	m.dueDateInput.Blur()
	switch m.activeInput {
	case 0:
		m.titleInput.Focus()
	case 1:
		m.categoryInput.Focus()
	case 2:
		m.priorityInput.Focus()
	case 3:
		m.dueDateInput.Focus()
	}
}

func (m *Model) resetAddInputs() {
	m.titleInput.SetValue("")
	m.categoryInput.SetValue("")
	m.priorityInput.SetValue("")
	m.dueDateInput.SetValue("")
	m.focusAddInput()
}

// reportErr surfaces a persistence/subscriber failure in the status line.
// The mutation itself has already taken effect in memory.
func (m *Model) reportErr(err error) {
	if err != nil {
		m.status = "warning: " + err.Error()
	}
}
