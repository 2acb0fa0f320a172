package report

// VolumeRow is one day of ticket traffic.
type VolumeRow struct {
	Date     string `json:"date"`
	Created  int64  `json:"created"`
	Resolved int64  `json:"resolved"`
}

// AgentRow summarizes one agent's output over the report range.
type AgentRow struct {
	AgentID           string  `json:"agent_id"`
	AgentName         string  `json:"agent_name"`
	OpenTickets       int64   `json:"open_tickets"`
	ResolvedTickets   int64   `json:"resolved_tickets"`
	AvgResolutionMins float64 `json:"avg_resolution_mins"`
	SLACompliancePct  float64 `json:"sla_compliance_pct"`
}
