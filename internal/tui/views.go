package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/shopper-spectrum/internal/cli"
	"github.com/charmbracelet/lipgloss"
)

// View renders the model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	if m.mode == ModeProducts {
		body = m.productsView()
	} else {
		body = m.segmentsView()
	}

	sections := []string{m.headerView(), body}
	if status := m.statusView(); status != "" {
		sections = append(sections, status)
	}
	sections = append(sections, m.help.View(m.keymap))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) headerView() string {
	tab := func(label string, active bool) string {
		if active {
			return m.theme.Selected.Padding(0, 1).Render(label)
		}
		return m.theme.Muted.Padding(0, 1).Render(label)
	}

	summary := m.core.Summary()
	info := m.theme.Subtitle.Render(fmt.Sprintf("%d customers · %d products · %d segments",
		summary.Customers, summary.Items, summary.Clusters))

	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Shopper Spectrum"),
		lipgloss.JoinHorizontal(lipgloss.Top,
			tab("Products", m.mode == ModeProducts),
			tab("Segments", m.mode == ModeSegments),
			"  ", info),
		"")
}

func (m Model) productsView() string {
	paneWidth := max(m.width/2-2, 20)

	var list strings.Builder
	list.WriteString(m.filter.View())
	list.WriteString("\n\n")
	if len(m.matches) == 0 {
		list.WriteString(m.theme.Muted.Render("No matching products"))
	}
	end := min(m.offset+m.listHeight(), len(m.matches))
	for i := m.offset; i < end; i++ {
		line := truncate(m.matches[i], paneWidth-4)
		if i == m.cursor {
			list.WriteString(m.theme.Selected.Render("> " + line))
		} else {
			list.WriteString(m.theme.Normal.Render("  " + line))
		}
		if i < end-1 {
			list.WriteString("\n")
		}
	}

	var results strings.Builder
	if m.selected == "" {
		results.WriteString(m.theme.Muted.Render("Select a product and press Enter"))
	} else {
		results.WriteString(m.theme.Bold.Render("Customers who bought"))
		results.WriteString("\n")
		results.WriteString(m.theme.Title.Render(truncate(m.selected, paneWidth-4)))
		results.WriteString("\n")
		results.WriteString(m.theme.Bold.Render("also bought:"))
		results.WriteString("\n\n")
		for i, r := range m.recs {
			results.WriteString(fmt.Sprintf("%d. %s %s\n", i+1,
				truncate(r.Label, paneWidth-14),
				m.theme.Muted.Render(fmt.Sprintf("%.3f", r.Score))))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.theme.ActivePane.Width(paneWidth).Render(list.String()),
		m.theme.Pane.Width(paneWidth).Render(results.String()))
}

func (m Model) segmentsView() string {
	var form strings.Builder
	form.WriteString(m.theme.Bold.Render("Enter a customer's RFM values"))
	form.WriteString("\n\n")
	for i, field := range m.fields {
		label := fmt.Sprintf("%-24s", fieldNames[i])
		if i == m.focus {
			form.WriteString(m.theme.Title.Render(label))
		} else {
			form.WriteString(m.theme.Normal.Render(label))
		}
		form.WriteString(field.View())
		form.WriteString("\n")
	}

	if m.prediction >= 0 {
		p := m.profiles[m.prediction]
		form.WriteString("\n")
		form.WriteString(m.theme.StatusSuccess.Render(
			fmt.Sprintf("Predicted cluster %d: %s", p.Cluster, p.Label(m.population))))
		form.WriteString("\n")
	}

	form.WriteString("\n")
	form.WriteString(m.theme.Muted.Render("Mean RFM per cluster"))
	form.WriteString("\n")
	form.WriteString(cli.RenderProfiles(m.profiles, m.population))

	return m.theme.ActivePane.Width(max(m.width-2, 40)).Render(form.String())
}

func (m Model) statusView() string {
	switch m.statusKind {
	case statusSuccess:
		return m.theme.StatusSuccess.Render(m.status)
	case statusWarning:
		return m.theme.StatusWarning.Render(m.status)
	case statusError:
		return m.theme.StatusError.Render(m.status)
	default:
		return ""
	}
}

func truncate(s string, width int) string {
	if width <= 1 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) > width-1 {
		runes = runes[:width-1]
	}
	return string(runes) + "…"
}
