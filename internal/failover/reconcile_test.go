package failover

import (
	"testing"

	"github.com/eleven-am/failover/internal/domain"
	"github.com/stretchr/testify/assert"
)

func summary(masters, backups []string) domain.NodeStateSummary {
	return domain.NodeStateSummary{Masters: masters, Backups: backups}
}

func TestReconcile_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		local  domain.NodeStateSummary
		remote domain.NodeStateSummary
		want   []string
	}{
		{
			name:   "healthy active standby pair",
			local:  summary([]string{"eth0"}, nil),
			remote: summary(nil, []string{"eth0"}),
			want:   []string{},
		},
		{
			name:   "split brain",
			local:  summary([]string{"eth0"}, nil),
			remote: summary([]string{"eth0"}, nil),
			want:   []string{`Interface "eth0" is MASTER on both nodes`},
		},
		{
			name:   "nobody owns the interface",
			local:  summary(nil, []string{"eth0"}),
			remote: summary(nil, []string{"eth0"}),
			want:   []string{`Interface "eth0" is BACKUP on both nodes`},
		},
		{
			name:   "nothing to reconcile",
			local:  domain.NodeStateSummary{},
			remote: domain.NodeStateSummary{},
			want:   []string{"There are no failover interfaces"},
		},
		{
			name:   "inits carry no claim",
			local:  domain.NodeStateSummary{Inits: []string{"eth0"}},
			remote: domain.NodeStateSummary{Inits: []string{"eth0"}},
			want:   []string{"There are no failover interfaces"},
		},
		{
			name:   "disjoint masters are normal",
			local:  summary([]string{"eth0"}, []string{"eth1"}),
			remote: summary([]string{"eth1"}, []string{"eth0"}),
			want:   []string{},
		},
		{
			name:   "interface known to one node only",
			local:  summary([]string{"eth0"}, nil),
			remote: domain.NodeStateSummary{},
			want:   []string{},
		},
		{
			name:   "mixed violations in discovery order",
			local:  summary([]string{"eth2", "eth0"}, []string{"eth1"}),
			remote: summary([]string{"eth0", "eth2"}, []string{"eth1"}),
			want: []string{
				`Interface "eth2" is MASTER on both nodes`,
				`Interface "eth0" is MASTER on both nodes`,
				`Interface "eth1" is BACKUP on both nodes`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Reconcile(tt.local, tt.remote)
			assert.Equal(t, tt.want, result.Messages())
			assert.Equal(t, len(tt.want) == 0, result.Consistent())
		})
	}
}

func TestReconcile_Kinds(t *testing.T) {
	result := Reconcile(summary([]string{"eth0"}, []string{"eth1"}), summary([]string{"eth0"}, []string{"eth1"}))

	assert.Equal(t, 1, result.Count(domain.ViolationDoubleMaster))
	assert.Equal(t, 1, result.Count(domain.ViolationDoubleBackup))
	assert.True(t, result.SplitBrain())

	for _, v := range result {
		assert.NotEmpty(t, v.Interface)
	}

	empty := Reconcile(domain.NodeStateSummary{}, domain.NodeStateSummary{})
	assert.Equal(t, domain.ViolationNoFailoverInterfaces, empty[0].Kind)
	assert.Empty(t, empty[0].Interface)
	assert.False(t, empty.SplitBrain())
}

func TestReconcile_Symmetric(t *testing.T) {
	pairs := [][2]domain.NodeStateSummary{
		{summary([]string{"eth0", "eth1"}, []string{"eth2"}), summary([]string{"eth1"}, []string{"eth2", "eth0"})},
		{summary(nil, []string{"eth3"}), summary([]string{"eth4"}, []string{"eth3"})},
		{domain.NodeStateSummary{}, domain.NodeStateSummary{}},
	}

	for _, p := range pairs {
		forward := Reconcile(p[0], p[1])
		backward := Reconcile(p[1], p[0])
		assert.ElementsMatch(t, forward, backward)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	local := summary([]string{"eth0", "eth3"}, []string{"eth1"})
	remote := summary([]string{"eth3", "eth0"}, []string{"eth1"})

	first := Reconcile(local, remote)
	second := Reconcile(local, remote)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"eth0", "eth3"}, local.Masters, "inputs must not be modified")
}
