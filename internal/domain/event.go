package domain

import (
	"fmt"
	"strings"
)

// FailoverEvent is a VRRP transition reported for one interface, or an
// administrative force takeover.
type FailoverEvent int

const (
	EventMaster FailoverEvent = iota + 1
	EventBackup
	EventForceTakeover
)

func (e FailoverEvent) String() string {
	switch e {
	case EventMaster:
		return "MASTER"
	case EventBackup:
		return "BACKUP"
	case EventForceTakeover:
		return "forcetakeover"
	default:
		return "unknown"
	}
}

func ParseFailoverEvent(s string) (FailoverEvent, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MASTER":
		return EventMaster, nil
	case "BACKUP":
		return EventBackup, nil
	case "FORCETAKEOVER":
		return EventForceTakeover, nil
	}
	return 0, fmt.Errorf("%w: failover event %q", ErrInvalidInput, s)
}

func (e FailoverEvent) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *FailoverEvent) UnmarshalText(text []byte) error {
	parsed, err := ParseFailoverEvent(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

type DecisionAction int

const (
	ActionIgnore DecisionAction = iota
	ActionProceed
)

func (a DecisionAction) String() string {
	if a == ActionProceed {
		return "proceed"
	}
	return "ignore"
}

func (a DecisionAction) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *DecisionAction) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ignore":
		*a = ActionIgnore
	case "proceed":
		*a = ActionProceed
	default:
		return fmt.Errorf("%w: decision action %q", ErrInvalidInput, text)
	}
	return nil
}

// Decision is the outcome of evaluating one failover event. The engine only
// reports it; promotion and demotion belong to the caller.
type Decision struct {
	Event     FailoverEvent  `json:"event"`
	Interface string         `json:"interface"`
	Action    DecisionAction `json:"action"`
	Reason    string         `json:"reason"`
	Masters   []string       `json:"sibling_masters,omitempty"`
	Backups   []string       `json:"sibling_backups,omitempty"`
}

func (d Decision) Proceed() bool {
	return d.Action == ActionProceed
}

// Coverage lists the siblings of an interface that currently hold a VRRP role.
type Coverage struct {
	Interface string   `json:"interface"`
	Group     string   `json:"group,omitempty"`
	Masters   []string `json:"masters"`
	Backups   []string `json:"backups"`
}

// Redundant reports whether some sibling still holds MASTER, meaning losing
// Interface alone is not failover-significant.
func (c Coverage) Redundant() bool {
	return len(c.Masters) > 0
}

func (c Coverage) Grouped() bool {
	return c.Group != ""
}
