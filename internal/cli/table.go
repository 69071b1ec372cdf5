package cli

import (
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ramrodpineapple01/autoexel/internal/models"
)

var (
	headerRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle      = lipgloss.NewStyle()
)

func renderDirectoryTable(entries []models.DirectoryEntry) string {
	if len(entries) == 0 {
		return "No directory entries found."
	}
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{strconv.Itoa(e.ID), e.Owner, e.Phone, e.Address, e.City, e.State, e.Zip, e.Email, e.LotNumber}
	}
	return renderTable([]string{"ID", "Owner", "Phone", "Address", "City", "State", "Zip", "Email", "Lot"}, rows)
}

func renderBoardTable(positions []models.BoardPosition) string {
	if len(positions) == 0 {
		return "No board positions found."
	}
	rows := make([][]string, len(positions))
	for i, p := range positions {
		rows[i] = []string{p.Year, p.Position, p.Name, p.AdditionalDuties, p.ContactInfo}
	}
	return renderTable([]string{"Year", "Position", "Name", "Duties", "Contact"}, rows)
}

func renderCommitteeTable(byName map[string]models.Committee) string {
	if len(byName) == 0 {
		return "No committees found."
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	var rows [][]string
	for _, name := range names {
		c := byName[name]
		for i, m := range c.Members {
			notes := ""
			if i == 0 {
				notes = c.MeetingNotes
			}
			rows = append(rows, []string{name, m.Name, m.Role, m.Contact, notes})
		}
	}
	return renderTable([]string{"Committee", "Member", "Role", "Contact", "Notes"}, rows)
}

func renderLotOwnerTable(owners []models.LotOwner) string {
	if len(owners) == 0 {
		return "No lot owners found."
	}
	rows := make([][]string, len(owners))
	for i, o := range owners {
		rows[i] = []string{o.Surname, o.FirstName, o.LotNumbers}
	}
	return renderTable([]string{"Surname", "First Name", "Lots"}, rows)
}

func renderRegionTable(regions []models.LotMapRegion) string {
	if len(regions) == 0 {
		return "No lot map regions found."
	}
	rows := make([][]string, len(regions))
	for i, r := range regions {
		rows[i] = []string{
			r.LotNumber,
			r.OwnerName,
			r.RegionType,
			strconv.Itoa(len(r.Coordinates)),
			strconv.FormatFloat(r.LabelX, 'g', -1, 64) + ", " + strconv.FormatFloat(r.LabelY, 'g', -1, 64),
		}
	}
	return renderTable([]string{"Lot", "Owner", "Type", "Points", "Label"}, rows)
}

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerRowStyle
			}
			return cellStyle
		})
	return t.Render()
}
