package domain

import (
	"fmt"
	"strings"
)

// LinkState is the physical link state reported for an interface.
type LinkState int

const (
	LinkStateUnknown LinkState = iota
	LinkStateUp
	LinkStateDown
)

func (s LinkState) String() string {
	switch s {
	case LinkStateUp:
		return "UP"
	case LinkStateDown:
		return "DOWN"
	default:
		return "UNKNOWN"
	}
}

// ParseLinkState accepts both the short form ("UP") and the form used by the
// interface service ("LINK_STATE_UP").
func ParseLinkState(s string) (LinkState, error) {
	switch strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "LINK_STATE_") {
	case "UP":
		return LinkStateUp, nil
	case "DOWN":
		return LinkStateDown, nil
	case "UNKNOWN":
		return LinkStateUnknown, nil
	}
	return LinkStateUnknown, fmt.Errorf("%w: %q", ErrUnknownLinkState, s)
}

func (s LinkState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *LinkState) UnmarshalText(text []byte) error {
	parsed, err := ParseLinkState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// VrrpState is the winning VRRP state of an interface. VrrpNone means VRRP is
// not configured, which is never interpreted as any role.
type VrrpState int

const (
	VrrpNone VrrpState = iota
	VrrpInit
	VrrpBackup
	VrrpMaster
)

func (s VrrpState) String() string {
	switch s {
	case VrrpInit:
		return "INIT"
	case VrrpBackup:
		return "BACKUP"
	case VrrpMaster:
		return "MASTER"
	default:
		return ""
	}
}

func ParseVrrpState(s string) (VrrpState, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return VrrpNone, nil
	case "INIT":
		return VrrpInit, nil
	case "BACKUP":
		return VrrpBackup, nil
	case "MASTER":
		return VrrpMaster, nil
	}
	return VrrpNone, fmt.Errorf("%w: %q", ErrUnknownVrrpState, s)
}

func (s VrrpState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *VrrpState) UnmarshalText(text []byte) error {
	parsed, err := ParseVrrpState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// NetworkInterface is a read-only view of one interface as reported by the
// interface provider.
type NetworkInterface struct {
	Name      string    `json:"name" yaml:"name"`
	Internal  bool      `json:"internal" yaml:"internal"`
	LinkState LinkState `json:"link_state" yaml:"link_state"`
	VrrpState VrrpState `json:"vrrp_state,omitempty" yaml:"vrrp_state,omitempty"`
}

func (i NetworkInterface) HasVrrp() bool {
	return i.VrrpState != VrrpNone
}

func (i NetworkInterface) IsUp() bool {
	return i.LinkState == LinkStateUp
}

// InterfaceFilter narrows a provider query. An empty filter matches everything.
type InterfaceFilter struct {
	Names []string
}

func (f InterfaceFilter) Matches(name string) bool {
	if len(f.Names) == 0 {
		return true
	}
	for _, n := range f.Names {
		if n == name {
			return true
		}
	}
	return false
}

// InterfaceConfig is the persisted failover configuration of one interface.
type InterfaceConfig struct {
	Name     string `json:"name" yaml:"name"`
	Critical bool   `json:"critical" yaml:"critical"`
	Group    int    `json:"group,omitempty" yaml:"group,omitempty"`
	Internal bool   `json:"internal,omitempty" yaml:"internal,omitempty"`
}

// FailoverGroups maps a group name to its member interfaces in configured order.
type FailoverGroups map[string][]string
