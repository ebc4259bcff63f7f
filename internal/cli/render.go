package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/shopper-spectrum/internal/analytics"
	"github.com/Veraticus/shopper-spectrum/internal/model"
	"github.com/Veraticus/shopper-spectrum/internal/service"
	"github.com/charmbracelet/lipgloss"
)

// RenderTable lays out rows under a header with aligned columns.
func RenderTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	renderRow := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = TableCellStyle.Render(style.Width(widths[i]).Render(cell))
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, renderRow(header, TableHeaderStyle))
	for _, row := range rows {
		lines = append(lines, renderRow(row, lipgloss.NewStyle()))
	}
	return strings.Join(lines, "\n")
}

// RenderProfiles renders the per-cluster mean RFM table.
func RenderProfiles(profiles []model.SegmentProfile, population model.SegmentProfile) string {
	header := []string{"Cluster", "Segment", "Customers", "Recency (days)", "Frequency", "Monetary"}
	rows := make([][]string, 0, len(profiles)+1)
	for _, p := range profiles {
		rows = append(rows, []string{
			strconv.Itoa(p.Cluster),
			p.Label(population),
			strconv.Itoa(p.Customers),
			fmt.Sprintf("%.1f", p.MeanRecency),
			fmt.Sprintf("%.1f", p.MeanFrequency),
			fmt.Sprintf("%.2f", p.MeanMonetary),
		})
	}
	rows = append(rows, []string{
		"all",
		"",
		strconv.Itoa(population.Customers),
		fmt.Sprintf("%.1f", population.MeanRecency),
		fmt.Sprintf("%.1f", population.MeanFrequency),
		fmt.Sprintf("%.2f", population.MeanMonetary),
	})
	return RenderTable(header, rows)
}

// RenderRecommendations renders a ranked recommendation list.
func RenderRecommendations(product string, recs []analytics.Recommendation) string {
	if len(recs) == 0 {
		return FormatWarning("Could not find similar products for " + product + ".")
	}

	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = []string{strconv.Itoa(i + 1), r.Label, r.ItemID, fmt.Sprintf("%.3f", r.Score)}
	}
	return RenderBox(CartIcon+" Customers who bought "+product+" also bought",
		RenderTable([]string{"#", "Product", "Stock code", "Score"}, rows))
}

// RenderImportSummary renders the outcome of an import.
func RenderImportSummary(s service.ImportSummary) string {
	lines := []string{
		fmt.Sprintf("Rows read:          %d", s.Stats.Rows),
		fmt.Sprintf("Rows kept:          %d", s.Stats.Kept),
		fmt.Sprintf("Newly stored:       %d", s.Inserted),
		fmt.Sprintf("Already stored:     %d", s.Duplicates()),
		SubtleStyle.Render(fmt.Sprintf("Missing customer:   %d", s.Stats.MissingCustomer)),
		SubtleStyle.Render(fmt.Sprintf("Cancelled invoices: %d", s.Stats.Cancelled)),
		SubtleStyle.Render(fmt.Sprintf("Returns:            %d", s.Stats.Returns)),
		SubtleStyle.Render(fmt.Sprintf("Invalid price:      %d", s.Stats.InvalidPrice)),
	}
	return RenderBox("Imported "+s.Source, strings.Join(lines, "\n"))
}
