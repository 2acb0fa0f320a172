package timesheet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-helpdesk/internal/common/models"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AgentNamer resolves agent display names for exports.
type AgentNamer interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

type TimesheetService interface {
	CreateEntry(ctx context.Context, entry *TimeEntry) error
	GetEntry(ctx context.Context, id string) (*TimeEntry, error)
	ListWeek(ctx context.Context, agentID string, weekStart time.Time) ([]TimeEntry, error)
	UpdateEntry(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteEntry(ctx context.Context, id string) error

	// ExportWeek renders a week of entries (all agents, or one) as an XLSX
	// workbook.
	ExportWeek(ctx context.Context, agentID string, weekStart time.Time) ([]byte, string, error)
}

type TimesheetServiceImpl struct {
	repo   TimeEntryRepository
	agents AgentNamer
}

func NewTimesheetService(repo TimeEntryRepository, agents AgentNamer) TimesheetService {
	return &TimesheetServiceImpl{
		repo:   repo,
		agents: agents,
	}
}

func (s *TimesheetServiceImpl) CreateEntry(ctx context.Context, entry *TimeEntry) error {
	if entry.AgentID.IsZero() {
		return errors.New("agent is required")
	}
	if entry.StartedAt.IsZero() {
		return errors.New("start time is required")
	}
	if entry.EndedAt != nil {
		if !entry.EndedAt.After(entry.StartedAt) {
			return errors.New("end time must be after start time")
		}
		entry.DurationMins = int(entry.EndedAt.Sub(entry.StartedAt).Minutes())
	}
	if entry.DurationMins <= 0 {
		return errors.New("duration must be positive")
	}
	return s.repo.Create(ctx, entry)
}

func (s *TimesheetServiceImpl) GetEntry(ctx context.Context, id string) (*TimeEntry, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid entry ID")
	}
	return s.repo.FindByID(ctx, objID)
}

func (s *TimesheetServiceImpl) ListWeek(ctx context.Context, agentID string, weekStart time.Time) ([]TimeEntry, error) {
	var agent *primitive.ObjectID
	if agentID != "" {
		objID, err := primitive.ObjectIDFromHex(agentID)
		if err != nil {
			return nil, errors.New("invalid agent ID")
		}
		agent = &objID
	}
	return s.repo.FindRange(ctx, agent, weekStart, weekStart.AddDate(0, 0, 7))
}

func (s *TimesheetServiceImpl) UpdateEntry(ctx context.Context, id string, updates map[string]interface{}) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid entry ID")
	}
	set := bson.M{}
	for k, v := range updates {
		if k == "_id" || k == "agent_id" || k == "created_at" {
			continue
		}
		set[k] = v
	}
	return s.repo.Update(ctx, objID, set)
}

func (s *TimesheetServiceImpl) DeleteEntry(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid entry ID")
	}
	return s.repo.Delete(ctx, objID)
}

func (s *TimesheetServiceImpl) ExportWeek(ctx context.Context, agentID string, weekStart time.Time) ([]byte, string, error) {
	entries, err := s.ListWeek(ctx, agentID, weekStart)
	if err != nil {
		return nil, "", err
	}

	names := s.resolveAgentNames(ctx, entries)

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Timesheet"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	headers := []string{"Agent", "Date", "Start", "Duration (min)", "Ticket", "Billable", "Note"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	var totalMins int
	for rowIdx, entry := range entries {
		row := rowIdx + 2
		name := names[entry.AgentID.Hex()]
		if name == "" {
			name = entry.AgentID.Hex()
		}
		ticketRef := ""
		if entry.TicketID != nil {
			ticketRef = entry.TicketID.Hex()
		}

		values := []interface{}{
			name,
			entry.StartedAt.Format("2006-01-02"),
			entry.StartedAt.Format("15:04"),
			entry.DurationMins,
			ticketRef,
			entry.Billable,
			entry.Note,
		}
		for colIdx, val := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, row)
			f.SetCellValue(sheetName, cell, val)
		}
		totalMins += entry.DurationMins
	}

	totalRow := len(entries) + 3
	cell, _ := excelize.CoordinatesToCellName(1, totalRow)
	f.SetCellValue(sheetName, cell, "Total")
	cell, _ = excelize.CoordinatesToCellName(4, totalRow)
	f.SetCellValue(sheetName, cell, totalMins)

	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("timesheet_%s.xlsx", weekStart.Format("20060102"))
	return buffer.Bytes(), filename, nil
}

func (s *TimesheetServiceImpl) resolveAgentNames(ctx context.Context, entries []TimeEntry) map[string]string {
	seen := map[string]bool{}
	var ids []string
	for _, entry := range entries {
		id := entry.AgentID.Hex()
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	names := map[string]string{}
	if len(ids) == 0 {
		return names
	}
	users, err := s.agents.FindByIDs(ctx, ids)
	if err != nil {
		return names
	}
	for _, u := range users {
		names[u.ID.Hex()] = u.Username
	}
	return names
}
