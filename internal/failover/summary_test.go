package failover

import (
	"testing"

	"github.com/eleven-am/failover/internal/domain"
	"github.com/stretchr/testify/assert"
)

func iface(name string, link domain.LinkState, vrrp domain.VrrpState) domain.NetworkInterface {
	return domain.NetworkInterface{Name: name, LinkState: link, VrrpState: vrrp}
}

func TestSummarize_Partitions(t *testing.T) {
	snapshot := []domain.NetworkInterface{
		iface("eth0", domain.LinkStateUp, domain.VrrpMaster),
		iface("eth1", domain.LinkStateUp, domain.VrrpBackup),
		iface("eth2", domain.LinkStateUp, domain.VrrpInit),
		iface("eth3", domain.LinkStateUp, domain.VrrpMaster),
	}

	s := Summarize(snapshot, nil)

	assert.Equal(t, []string{"eth0", "eth3"}, s.Masters)
	assert.Equal(t, []string{"eth1"}, s.Backups)
	assert.Equal(t, []string{"eth2"}, s.Inits)
	assert.NoError(t, s.Validate())
}

func TestSummarize_Filters(t *testing.T) {
	internalFlag := iface("ntb0", domain.LinkStateUp, domain.VrrpMaster)
	internalFlag.Internal = true

	snapshot := []domain.NetworkInterface{
		internalFlag,
		iface("eno1", domain.LinkStateUp, domain.VrrpBackup),
		iface("eth0", domain.LinkStateUp, domain.VrrpNone),
		iface("eth1", domain.LinkStateDown, domain.VrrpMaster),
		iface("eth2", domain.LinkStateUnknown, domain.VrrpBackup),
		iface("eth3", domain.LinkStateUp, domain.VrrpBackup),
	}

	s := Summarize(snapshot, []string{"eno1"})

	assert.Empty(t, s.Masters)
	assert.Equal(t, []string{"eth3"}, s.Backups)
	assert.Empty(t, s.Inits)
	assert.Equal(t, []string{"eth3"}, s.Relevant())
}

func TestSummarize_EmptyAndDuplicates(t *testing.T) {
	s := Summarize(nil, nil)
	assert.True(t, s.IsEmpty())
	assert.NotNil(t, s.Masters)
	assert.NotNil(t, s.Backups)
	assert.NotNil(t, s.Inits)

	s = Summarize([]domain.NetworkInterface{
		iface("eth0", domain.LinkStateUp, domain.VrrpMaster),
		iface("eth0", domain.LinkStateUp, domain.VrrpBackup),
	}, nil)
	assert.Equal(t, []string{"eth0"}, s.Masters)
	assert.Empty(t, s.Backups)
}

func TestSummarize_PartitionProperties(t *testing.T) {
	links := []domain.LinkState{domain.LinkStateUp, domain.LinkStateDown, domain.LinkStateUnknown}
	roles := []domain.VrrpState{domain.VrrpNone, domain.VrrpInit, domain.VrrpBackup, domain.VrrpMaster}

	var snapshot []domain.NetworkInterface
	n := 0
	for _, link := range links {
		for _, role := range roles {
			for _, internal := range []bool{false, true} {
				i := iface(string(rune('a'+n)), link, role)
				i.Internal = internal
				snapshot = append(snapshot, i)
				n++
			}
		}
	}

	s := Summarize(snapshot, nil)
	assert.NoError(t, s.Validate(), "sets must be pairwise disjoint")

	var want []string
	for _, i := range snapshot {
		if !i.Internal && i.HasVrrp() && i.IsUp() {
			want = append(want, i.Name)
		}
	}
	assert.ElementsMatch(t, want, s.Relevant())

	for _, i := range snapshot {
		if i.LinkState != domain.LinkStateUp || i.Internal {
			assert.NotContains(t, s.Relevant(), i.Name)
		}
	}
}
