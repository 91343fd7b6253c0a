package domain

import (
	"fmt"
)

// NodeStateSummary is the per-node reduction of an interface snapshot. It is
// rebuilt on every pass and never persisted.
type NodeStateSummary struct {
	Masters []string `json:"masters" yaml:"masters"`
	Backups []string `json:"backups" yaml:"backups"`
	Inits   []string `json:"inits" yaml:"inits"`
}

func (s NodeStateSummary) IsMaster(name string) bool {
	return contains(s.Masters, name)
}

func (s NodeStateSummary) IsBackup(name string) bool {
	return contains(s.Backups, name)
}

func (s NodeStateSummary) IsInit(name string) bool {
	return contains(s.Inits, name)
}

// Relevant returns every name in the summary: masters, then backups, then inits.
func (s NodeStateSummary) Relevant() []string {
	out := make([]string, 0, len(s.Masters)+len(s.Backups)+len(s.Inits))
	out = append(out, s.Masters...)
	out = append(out, s.Backups...)
	out = append(out, s.Inits...)
	return out
}

func (s NodeStateSummary) IsEmpty() bool {
	return len(s.Masters) == 0 && len(s.Backups) == 0 && len(s.Inits) == 0
}

// Validate checks that no name appears twice across the three sets. Summaries
// computed locally always satisfy this; remote ones are checked on receipt.
func (s NodeStateSummary) Validate() error {
	seen := make(map[string]string, len(s.Masters)+len(s.Backups)+len(s.Inits))
	check := func(set string, names []string) error {
		for _, name := range names {
			if name == "" {
				return fmt.Errorf("%w: empty interface name in %s", ErrInvalidInput, set)
			}
			if prev, ok := seen[name]; ok {
				return fmt.Errorf("%w: interface %q listed in both %s and %s", ErrInvalidInput, name, prev, set)
			}
			seen[name] = set
		}
		return nil
	}
	if err := check("masters", s.Masters); err != nil {
		return err
	}
	if err := check("backups", s.Backups); err != nil {
		return err
	}
	return check("inits", s.Inits)
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

type ViolationKind int

const (
	ViolationNoFailoverInterfaces ViolationKind = iota
	ViolationDoubleBackup
	ViolationDoubleMaster
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationNoFailoverInterfaces:
		return "no_failover_interfaces"
	case ViolationDoubleBackup:
		return "double_backup"
	case ViolationDoubleMaster:
		return "double_master"
	default:
		return "unknown"
	}
}

func (k ViolationKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ViolationKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "no_failover_interfaces":
		*k = ViolationNoFailoverInterfaces
	case "double_backup":
		*k = ViolationDoubleBackup
	case "double_master":
		*k = ViolationDoubleMaster
	default:
		return fmt.Errorf("%w: violation kind %q", ErrInvalidInput, text)
	}
	return nil
}

// Violation is one operator-facing consistency problem. Interface is empty for
// ViolationNoFailoverInterfaces.
type Violation struct {
	Kind      ViolationKind `json:"kind"`
	Interface string        `json:"interface,omitempty"`
	Message   string        `json:"message"`
}

func NewNoFailoverInterfacesViolation() Violation {
	return Violation{
		Kind:    ViolationNoFailoverInterfaces,
		Message: "There are no failover interfaces",
	}
}

func NewDoubleBackupViolation(name string) Violation {
	return Violation{
		Kind:      ViolationDoubleBackup,
		Interface: name,
		Message:   fmt.Sprintf("Interface %q is BACKUP on both nodes", name),
	}
}

func NewDoubleMasterViolation(name string) Violation {
	return Violation{
		Kind:      ViolationDoubleMaster,
		Interface: name,
		Message:   fmt.Sprintf("Interface %q is MASTER on both nodes", name),
	}
}

// ReconciliationResult lists violations in the order they were found.
// An empty result means the pair is consistent.
type ReconciliationResult []Violation

func (r ReconciliationResult) Consistent() bool {
	return len(r) == 0
}

func (r ReconciliationResult) Messages() []string {
	out := make([]string, 0, len(r))
	for _, v := range r {
		out = append(out, v.Message)
	}
	return out
}

func (r ReconciliationResult) SplitBrain() bool {
	for _, v := range r {
		if v.Kind == ViolationDoubleMaster {
			return true
		}
	}
	return false
}

func (r ReconciliationResult) Count(kind ViolationKind) int {
	n := 0
	for _, v := range r {
		if v.Kind == kind {
			n++
		}
	}
	return n
}
