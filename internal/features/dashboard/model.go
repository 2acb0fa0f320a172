package dashboard

// StatusCount is one slice of a grouped ticket count.
type StatusCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// TrendPoint is one day of created-vs-resolved counts.
type TrendPoint struct {
	Date     string `json:"date"`
	Created  int64  `json:"created"`
	Resolved int64  `json:"resolved"`
}

// AgentLoad is one agent's share of the open-ticket workload.
type AgentLoad struct {
	AgentID   string `json:"agent_id"`
	AgentName string `json:"agent_name"`
	Open      int64  `json:"open"`
}

// Stats is the dashboard payload.
type Stats struct {
	TotalTickets    int64         `json:"total_tickets"`
	OpenTickets     int64         `json:"open_tickets"`
	UnassignedCount int64         `json:"unassigned_count"`
	OverdueCount    int64         `json:"overdue_count"`
	ByStatus        []StatusCount `json:"by_status"`
	ByPriority      []StatusCount `json:"by_priority"`
	Trend           []TrendPoint  `json:"trend"`
	SLACompliance   float64       `json:"sla_compliance"`
	AgentWorkload   []AgentLoad   `json:"agent_workload"`
}
