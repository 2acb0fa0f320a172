package dashboard

import (
	"context"
	"time"

	"go-helpdesk/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
)

// AgentNamer resolves agent IDs to display names for the workload widget.
type AgentNamer interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

type DashboardService interface {
	GetStats(ctx context.Context, trendDays int) (*Stats, error)
}

type DashboardServiceImpl struct {
	repo   StatsRepository
	agents AgentNamer
}

func NewDashboardService(repo StatsRepository, agents AgentNamer) DashboardService {
	return &DashboardServiceImpl{
		repo:   repo,
		agents: agents,
	}
}

var openStatuses = bson.M{"$in": []string{"new", "open", "pending"}}

func (s *DashboardServiceImpl) GetStats(ctx context.Context, trendDays int) (*Stats, error) {
	if trendDays < 1 || trendDays > 90 {
		trendDays = 14
	}
	now := time.Now()
	stats := &Stats{}

	total, err := s.repo.Count(ctx, nil)
	if err != nil {
		return nil, err
	}
	stats.TotalTickets = total

	open, err := s.repo.Count(ctx, bson.M{"status": openStatuses})
	if err != nil {
		return nil, err
	}
	stats.OpenTickets = open

	unassigned, err := s.repo.Count(ctx, bson.M{
		"status":      openStatuses,
		"assigned_to": bson.M{"$exists": false},
	})
	if err != nil {
		return nil, err
	}
	stats.UnassignedCount = unassigned

	overdue, err := s.repo.Count(ctx, bson.M{
		"status":   openStatuses,
		"due_date": bson.M{"$lt": now},
	})
	if err != nil {
		return nil, err
	}
	stats.OverdueCount = overdue

	if stats.ByStatus, err = s.repo.GroupCount(ctx, "status", nil); err != nil {
		return nil, err
	}
	if stats.ByPriority, err = s.repo.GroupCount(ctx, "priority", bson.M{"status": openStatuses}); err != nil {
		return nil, err
	}

	if stats.Trend, err = s.buildTrend(ctx, now, trendDays); err != nil {
		return nil, err
	}

	inSLA, resolved, err := s.repo.SLAOutcomes(ctx, now.AddDate(0, -1, 0))
	if err != nil {
		return nil, err
	}
	if resolved > 0 {
		stats.SLACompliance = float64(inSLA) / float64(resolved) * 100
	}

	if stats.AgentWorkload, err = s.buildWorkload(ctx); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *DashboardServiceImpl) buildTrend(ctx context.Context, now time.Time, days int) ([]TrendPoint, error) {
	from := now.AddDate(0, 0, -days+1)
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())

	created, err := s.repo.DailyCounts(ctx, "created_at", from)
	if err != nil {
		return nil, err
	}
	resolved, err := s.repo.DailyCounts(ctx, "resolved_at", from)
	if err != nil {
		return nil, err
	}

	trend := make([]TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i).Format("2006-01-02")
		trend = append(trend, TrendPoint{
			Date:     date,
			Created:  created[date],
			Resolved: resolved[date],
		})
	}
	return trend, nil
}

func (s *DashboardServiceImpl) buildWorkload(ctx context.Context) ([]AgentLoad, error) {
	counts, err := s.repo.OpenByAgent(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(counts))
	for _, c := range counts {
		ids = append(ids, c.Name)
	}

	names := map[string]string{}
	if len(ids) > 0 {
		if users, err := s.agents.FindByIDs(ctx, ids); err == nil {
			for _, u := range users {
				names[u.ID.Hex()] = u.Username
			}
		}
	}

	workload := make([]AgentLoad, 0, len(counts))
	for _, c := range counts {
		name := names[c.Name]
		if name == "" {
			name = "Unknown"
		}
		workload = append(workload, AgentLoad{
			AgentID:   c.Name,
			AgentName: name,
			Open:      c.Count,
		})
	}
	return workload, nil
}
