package ticket

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SLABreachInfo describes how a ticket stands against its SLA targets.
type SLABreachInfo struct {
	TicketID         primitive.ObjectID `json:"ticket_id"`
	ResponseBreached bool               `json:"response_breached"`
	ResolutionAtRisk bool               `json:"resolution_at_risk"`
	Breached         bool               `json:"breached"`
	DueDate          *time.Time         `json:"due_date,omitempty"`
	ResponseDueDate  *time.Time         `json:"response_due_date,omitempty"`
}

// SLAMetrics aggregates compliance figures over resolved tickets.
type SLAMetrics struct {
	TotalResolved     int64   `json:"total_resolved"`
	ResolvedInSLA     int64   `json:"resolved_in_sla"`
	CompliancePercent float64 `json:"compliance_percent"`
	AvgResolutionMins float64 `json:"avg_resolution_mins"`
}

type SLAService interface {
	CreatePolicy(ctx context.Context, policy *SLAPolicy) error
	GetPolicy(ctx context.Context, id string) (*SLAPolicy, error)
	ListPolicies(ctx context.Context) ([]SLAPolicy, error)
	UpdatePolicy(ctx context.Context, id string, update map[string]interface{}) error
	DeletePolicy(ctx context.Context, id string) error

	// ApplyPolicy stamps the ticket with due dates from the active policy
	// matching its priority. A ticket without a matching policy is left as is.
	ApplyPolicy(ctx context.Context, t *Ticket) error

	CheckBreach(t *Ticket, now time.Time) SLABreachInfo
	GetMetrics(ctx context.Context, from, to time.Time) (*SLAMetrics, error)
}

type SLAServiceImpl struct {
	policyRepo SLAPolicyRepository
	ticketRepo TicketRepository
}

func NewSLAService(policyRepo SLAPolicyRepository, ticketRepo TicketRepository) SLAService {
	return &SLAServiceImpl{
		policyRepo: policyRepo,
		ticketRepo: ticketRepo,
	}
}

func (s *SLAServiceImpl) CreatePolicy(ctx context.Context, policy *SLAPolicy) error {
	return s.policyRepo.Create(ctx, policy)
}

func (s *SLAServiceImpl) GetPolicy(ctx context.Context, id string) (*SLAPolicy, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	return s.policyRepo.FindByID(ctx, objID)
}

func (s *SLAServiceImpl) ListPolicies(ctx context.Context) ([]SLAPolicy, error) {
	return s.policyRepo.FindAll(ctx)
}

func (s *SLAServiceImpl) UpdatePolicy(ctx context.Context, id string, update map[string]interface{}) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	set := bson.M{}
	for k, v := range update {
		if k == "_id" {
			continue
		}
		set[k] = v
	}
	return s.policyRepo.Update(ctx, objID, set)
}

func (s *SLAServiceImpl) DeletePolicy(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	return s.policyRepo.Delete(ctx, objID)
}

func (s *SLAServiceImpl) ApplyPolicy(ctx context.Context, t *Ticket) error {
	policy, err := s.policyRepo.FindByPriority(ctx, t.Priority)
	if err != nil {
		return err
	}
	if policy == nil {
		return nil
	}

	base := t.CreatedAt
	if base.IsZero() {
		base = time.Now()
	}
	responseDue := base.Add(time.Duration(policy.ResponseTime) * time.Minute)
	resolutionDue := base.Add(time.Duration(policy.ResolutionTime) * time.Minute)

	t.SLAPolicyID = &policy.ID
	t.ResponseDueDate = &responseDue
	t.DueDate = &resolutionDue
	return nil
}

func (s *SLAServiceImpl) CheckBreach(t *Ticket, now time.Time) SLABreachInfo {
	info := SLABreachInfo{
		TicketID:        t.ID,
		DueDate:         t.DueDate,
		ResponseDueDate: t.ResponseDueDate,
	}

	if t.ResponseDueDate != nil {
		if t.FirstResponseAt == nil {
			info.ResponseBreached = now.After(*t.ResponseDueDate)
		} else {
			info.ResponseBreached = t.FirstResponseAt.After(*t.ResponseDueDate)
		}
	}
	if t.DueDate != nil && t.ResolvedAt == nil {
		info.Breached = now.After(*t.DueDate)
		// flag tickets within 30 minutes of the resolution deadline
		info.ResolutionAtRisk = !info.Breached && now.Add(30*time.Minute).After(*t.DueDate)
	}
	if t.DueDate != nil && t.ResolvedAt != nil {
		info.Breached = t.ResolvedAt.After(*t.DueDate)
	}
	return info
}

func (s *SLAServiceImpl) GetMetrics(ctx context.Context, from, to time.Time) (*SLAMetrics, error) {
	filter := bson.M{
		"resolved_at": bson.M{"$gte": from, "$lte": to},
	}
	resolved, _, err := s.ticketRepo.FindAll(ctx, filter, 1, 10000, "resolved_at", -1)
	if err != nil {
		return nil, err
	}

	metrics := &SLAMetrics{}
	var totalResolutionMins float64
	for _, t := range resolved {
		if t.ResolvedAt == nil {
			continue
		}
		metrics.TotalResolved++
		totalResolutionMins += t.ResolvedAt.Sub(t.CreatedAt).Minutes()
		if t.DueDate == nil || !t.ResolvedAt.After(*t.DueDate) {
			metrics.ResolvedInSLA++
		}
	}
	if metrics.TotalResolved > 0 {
		metrics.CompliancePercent = float64(metrics.ResolvedInSLA) / float64(metrics.TotalResolved) * 100
		metrics.AvgResolutionMins = totalResolutionMins / float64(metrics.TotalResolved)
	}
	return metrics, nil
}
