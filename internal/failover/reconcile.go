package failover

import (
	"github.com/eleven-am/failover/internal/domain"
)

// Reconcile compares this node's summary with the peer's and lists every
// consistency violation. INIT interfaces carry no ownership claim and are not
// compared. Different interfaces may be MASTER on different nodes at the same
// time; only the same name holding the same exclusive role on both nodes is a
// violation.
//
// Violations are returned in discovery order: local masters, local backups,
// remote masters, remote backups. The inputs are not modified.
func Reconcile(local, remote domain.NodeStateSummary) domain.ReconciliationResult {
	result := domain.ReconciliationResult{}

	interfaces := unionOrdered(local.Masters, local.Backups, remote.Masters, remote.Backups)
	if len(interfaces) == 0 {
		return append(result, domain.NewNoFailoverInterfacesViolation())
	}

	for _, name := range interfaces {
		if local.IsBackup(name) && remote.IsBackup(name) {
			result = append(result, domain.NewDoubleBackupViolation(name))
		}
		if local.IsMaster(name) && remote.IsMaster(name) {
			result = append(result, domain.NewDoubleMasterViolation(name))
		}
	}

	return result
}

func unionOrdered(sets ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, set := range sets {
		for _, name := range set {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}
