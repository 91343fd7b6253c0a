package failover

import (
	"fmt"
	"strings"

	"github.com/eleven-am/failover/internal/domain"
)

// EventInput is everything Decide needs about one failover event. Coverage
// must describe the siblings of Interface at the time of the event.
type EventInput struct {
	Interface     string
	Event         domain.FailoverEvent
	Failover      domain.FailoverConfig
	NonCritical   []string
	HasPools      bool
	PoolsImported bool
	Running       []domain.FailoverEvent
	Coverage      domain.Coverage
}

// Gate names one check of Decide, in evaluation order.
type Gate int

const (
	GateDisabled Gate = iota + 1
	GateNonCritical
	GatePools
	GateDuplicate
	GateCoverage
)

// Check runs the gates up to and including last and returns the ignore
// decision of the first one that matches. Callers that gather EventInput
// piece by piece can stop as soon as a gate settles the event:
//
//  1. failover disabled (forcetakeover skips gates 1-3)
//  2. event on a non-critical interface
//  3. MASTER while every pool is already imported
//  4. the same event is already being processed
//  5. MASTER while a sibling is still BACKUP (the peer still serves the group)
//     or BACKUP while a sibling is still MASTER (this node still serves it)
func Check(in EventInput, last Gate) (domain.Decision, bool) {
	d := domain.Decision{
		Event:     in.Event,
		Interface: in.Interface,
		Action:    domain.ActionIgnore,
		Masters:   in.Coverage.Masters,
		Backups:   in.Coverage.Backups,
	}
	forced := in.Event == domain.EventForceTakeover

	if !forced && in.Failover.Disabled {
		if !in.Failover.Master {
			d.Reason = "failover is disabled and this node is marked as the BACKUP node"
		} else {
			d.Reason = "failover is disabled"
		}
		return d, true
	}
	if last < GateNonCritical {
		return d, false
	}

	if !forced {
		for _, name := range in.NonCritical {
			if name == in.Interface {
				d.Reason = fmt.Sprintf("state change on non-critical interface %q", in.Interface)
				return d, true
			}
		}
	}
	if last < GatePools {
		return d, false
	}

	if in.Event == domain.EventMaster && in.HasPools && in.PoolsImported {
		d.Reason = "received a MASTER event but pools are already imported"
		return d, true
	}
	if last < GateDuplicate {
		return d, false
	}

	for _, running := range in.Running {
		if running == in.Event {
			d.Reason = fmt.Sprintf("a duplicate %s event is already running", in.Event)
			return d, true
		}
	}
	if last < GateCoverage {
		return d, false
	}

	switch in.Event {
	case domain.EventMaster:
		if len(in.Coverage.Backups) > 0 {
			d.Reason = fmt.Sprintf("interfaces %s in the same failover group are still working on the MASTER node",
				strings.Join(in.Coverage.Backups, ", "))
			return d, true
		}
	case domain.EventBackup:
		if len(in.Coverage.Masters) > 0 {
			d.Reason = fmt.Sprintf("interfaces %s in the same failover group are still working",
				strings.Join(in.Coverage.Masters, ", "))
			return d, true
		}
	}
	return d, false
}

// Decide runs every gate of Check and, when none matches, returns a proceed
// decision.
func Decide(in EventInput) domain.Decision {
	d, settled := Check(in, GateCoverage)
	if settled {
		return d
	}

	d.Action = domain.ActionProceed
	switch in.Event {
	case domain.EventForceTakeover:
		d.Reason = "forcefully taking over as the MASTER node"
	case domain.EventMaster:
		d.Reason = fmt.Sprintf("entering MASTER on %q", in.Interface)
	default:
		d.Reason = fmt.Sprintf("entering BACKUP on %q", in.Interface)
	}
	return d
}
