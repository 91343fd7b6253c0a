package domain

import "time"

// PassReport describes one reconciliation pass. Remote is nil when the peer
// summary could not be obtained.
type PassReport struct {
	PassID     string               `json:"pass_id"`
	StartedAt  time.Time            `json:"started_at"`
	Duration   time.Duration        `json:"duration"`
	Local      NodeStateSummary     `json:"local"`
	Remote     *NodeStateSummary    `json:"remote,omitempty"`
	Violations ReconciliationResult `json:"violations"`
	Error      string               `json:"error,omitempty"`
}

func (r PassReport) Failed() bool {
	return r.Error != ""
}

type Status struct {
	NodeID              string      `json:"node_id"`
	PeerAddr            string      `json:"peer_addr"`
	Running             bool        `json:"running"`
	Readiness           string      `json:"readiness"`
	Ready               bool        `json:"ready"`
	StartedAt           time.Time   `json:"started_at,omitempty"`
	Passes              uint64      `json:"passes"`
	FailedPasses        uint64      `json:"failed_passes"`
	ConsecutiveFailures uint64      `json:"consecutive_failures"`
	LastPass            *PassReport `json:"last_pass,omitempty"`
}
