package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current screen
func (m Model) View() string {
	var b strings.Builder

	switch m.mode {
	case LoginMode, RegisterMode:
		heading := "Log in"
		if m.mode == RegisterMode {
			heading = "Register"
		}
		b.WriteString(titleStyle.Render("tasklist — "+heading) + "\n\n")
		b.WriteString(m.usernameInput.View() + "\n")
		b.WriteString(m.passwordInput.View() + "\n\n")
		b.WriteString(helpStyle.Render("enter: submit • tab: next field • ctrl+r: switch login/register • ctrl+c: quit"))

	case ListMode:
		b.WriteString(m.headerLine() + "\n\n")
		if len(m.tasks) == 0 {
			b.WriteString(helpStyle.Render("no tasks — press 'a' to add one") + "\n")
		}
		for i, t := range m.tasks {
			line := m.taskLine(i)
			if i == m.cursor {
				line = selectedStyle.Render(line)
			} else if t.IsCompleted {
				line = doneStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("a: add • space: toggle • x: delete • r: reload • u: users • L: logout • q: quit"))

	case AddMode:
		b.WriteString(titleStyle.Render("tasklist — New task") + "\n\n")
		b.WriteString(m.titleInput.View() + "\n")
		b.WriteString(m.categoryInput.View() + "\n")
		b.WriteString(m.priorityInput.View() + "\n")
		b.WriteString(m.dueDateInput.View() + "\n\n")
		b.WriteString(helpStyle.Render("enter: save • tab: next field • esc: cancel"))

	case UsersMode:
		b.WriteString(titleStyle.Render("tasklist — Accounts") + "\n\n")
		for i, u := range m.users {
			role := string(u.Role)
			if u.Role.Capabilities().Admin {
				role = adminStyle.Render(role)
			}
			line := fmt.Sprintf("%-20s %s", u.Username, role)
			if i == m.userCursor {
				line = selectedStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("p: promote/demote • x: delete • esc: back"))
	}

	if m.status != "" {
		b.WriteString("\n\n" + statusStyle.Render(m.status))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) headerLine() string {
	cur := m.app.Users.GetCurrentUser()
	if cur == nil {
		return titleStyle.Render("tasklist")
	}
	header := titleStyle.Render("tasklist — " + cur.Username)
	if m.app.Users.IsAdmin() {
		header += " " + adminStyle.Render("[admin]")
	}
	return header
}

func (m Model) taskLine(i int) string {
	t := m.tasks[i]

	check := "[ ]"
	if t.IsCompleted {
		check = "[x]"
	}

	due := "          "
	if t.DueDate != nil {
		due = t.DueDate.Format("2006-01-02")
	}

	prio := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Priority.Color())).
		Render(fmt.Sprintf("%-6s", t.Priority.Label()))

	return fmt.Sprintf("%s %s %s %-12s %s", check, due, prio, t.Category, t.Title)
}
