package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"time"

	"go-helpdesk/internal/common/models"

	"github.com/xuri/excelize/v2"
)

// AgentNamer resolves agent IDs to display names.
type AgentNamer interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

type ReportService interface {
	TicketVolume(ctx context.Context, from, to time.Time) ([]VolumeRow, error)
	AgentPerformance(ctx context.Context, from, to time.Time) ([]AgentRow, error)
	ExportTicketVolume(ctx context.Context, from, to time.Time, format string) ([]byte, string, error)
	ExportAgentPerformance(ctx context.Context, from, to time.Time, format string) ([]byte, string, error)
}

type ReportServiceImpl struct {
	repo   ReportRepository
	agents AgentNamer
}

func NewReportService(repo ReportRepository, agents AgentNamer) ReportService {
	return &ReportServiceImpl{
		repo:   repo,
		agents: agents,
	}
}

func (s *ReportServiceImpl) TicketVolume(ctx context.Context, from, to time.Time) ([]VolumeRow, error) {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())

	created, err := s.repo.DailyCounts(ctx, "created_at", from, to)
	if err != nil {
		return nil, err
	}
	resolved, err := s.repo.DailyCounts(ctx, "resolved_at", from, to)
	if err != nil {
		return nil, err
	}

	var rows []VolumeRow
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		rows = append(rows, VolumeRow{
			Date:     date,
			Created:  created[date],
			Resolved: resolved[date],
		})
	}
	return rows, nil
}

func (s *ReportServiceImpl) AgentPerformance(ctx context.Context, from, to time.Time) ([]AgentRow, error) {
	stats, err := s.repo.ResolvedByAgent(ctx, from, to)
	if err != nil {
		return nil, err
	}
	open, err := s.repo.OpenCountByAgent(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(stats))
	for _, st := range stats {
		ids = append(ids, st.ID.Hex())
	}
	for id := range open {
		ids = append(ids, id)
	}

	names := map[string]string{}
	if len(ids) > 0 {
		if users, err := s.agents.FindByIDs(ctx, ids); err == nil {
			for _, u := range users {
				names[u.ID.Hex()] = u.Username
			}
		}
	}

	seen := map[string]bool{}
	rows := make([]AgentRow, 0, len(stats))
	for _, st := range stats {
		id := st.ID.Hex()
		seen[id] = true
		row := AgentRow{
			AgentID:           id,
			AgentName:         displayName(names, id),
			OpenTickets:       open[id],
			ResolvedTickets:   st.Resolved,
			AvgResolutionMins: math.Round(st.AvgResolutionMins*10) / 10,
		}
		if st.Resolved > 0 {
			row.SLACompliancePct = math.Round(float64(st.InSLA)/float64(st.Resolved)*1000) / 10
		}
		rows = append(rows, row)
	}

	// agents with open work but nothing resolved in range
	for id, count := range open {
		if seen[id] {
			continue
		}
		rows = append(rows, AgentRow{
			AgentID:     id,
			AgentName:   displayName(names, id),
			OpenTickets: count,
		})
	}
	return rows, nil
}

func displayName(names map[string]string, id string) string {
	if name := names[id]; name != "" {
		return name
	}
	return "Unknown"
}

func (s *ReportServiceImpl) ExportTicketVolume(ctx context.Context, from, to time.Time, format string) ([]byte, string, error) {
	rows, err := s.TicketVolume(ctx, from, to)
	if err != nil {
		return nil, "", err
	}

	columns := []string{"Date", "Created", "Resolved"}
	cells := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, []interface{}{row.Date, row.Created, row.Resolved})
	}

	name := fmt.Sprintf("ticket_volume_%s", time.Now().Format("20060102_150405"))
	return s.export(format, name, "Ticket Volume", columns, cells)
}

func (s *ReportServiceImpl) ExportAgentPerformance(ctx context.Context, from, to time.Time, format string) ([]byte, string, error) {
	rows, err := s.AgentPerformance(ctx, from, to)
	if err != nil {
		return nil, "", err
	}

	columns := []string{"Agent", "Open", "Resolved", "Avg Resolution (min)", "SLA Compliance (%)"}
	cells := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, []interface{}{
			row.AgentName, row.OpenTickets, row.ResolvedTickets,
			row.AvgResolutionMins, row.SLACompliancePct,
		})
	}

	name := fmt.Sprintf("agent_performance_%s", time.Now().Format("20060102_150405"))
	return s.export(format, name, "Agent Performance", columns, cells)
}

func (s *ReportServiceImpl) export(format, name, sheet string, columns []string, rows [][]interface{}) ([]byte, string, error) {
	switch format {
	case "csv":
		data, err := writeCSV(columns, rows)
		if err != nil {
			return nil, "", err
		}
		return data, name + ".csv", nil
	case "xlsx":
		data, err := writeExcel(sheet, columns, rows)
		if err != nil {
			return nil, "", err
		}
		return data, name + ".xlsx", nil
	default:
		return nil, "", fmt.Errorf("unsupported format: %s", format)
	}
}

func writeCSV(columns []string, rows [][]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(columns); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := make([]string, len(row))
		for i, val := range row {
			record[i] = fmt.Sprintf("%v", val)
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeExcel(sheetName string, columns []string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range rows {
		for colIdx, val := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	for i := range columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
