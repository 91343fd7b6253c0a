package failover

import (
	"context"
	"errors"
	"testing"

	"github.com/eleven-am/failover/internal/domain"
	"github.com/eleven-am/failover/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCheckCoverage_SiblingMasterCoversOutage(t *testing.T) {
	idx, err := NewGroupIndex(domain.FailoverGroups{"1": {"eth1", "eth2"}})
	require.NoError(t, err)

	provider := mocks.NewMockInterfaceProvider(t)
	provider.On("Query", mock.Anything, domain.InterfaceFilter{Names: []string{"eth2"}}).Return([]domain.NetworkInterface{
		iface("eth2", domain.LinkStateUp, domain.VrrpMaster),
	}, nil).Once()

	cov, err := CheckCoverage(context.Background(), provider, idx, "eth1")
	require.NoError(t, err)

	assert.Equal(t, "1", cov.Group)
	assert.Equal(t, []string{"eth2"}, cov.Masters)
	assert.Empty(t, cov.Backups)
	assert.True(t, cov.Redundant())
}

func TestCheckCoverage_UngroupedSkipsProvider(t *testing.T) {
	idx, err := NewGroupIndex(domain.FailoverGroups{"1": {"eth1", "eth2"}})
	require.NoError(t, err)

	provider := mocks.NewMockInterfaceProvider(t)

	cov, err := CheckCoverage(context.Background(), provider, idx, "eth7")
	require.NoError(t, err)

	assert.False(t, cov.Grouped())
	assert.Empty(t, cov.Masters)
	assert.Empty(t, cov.Backups)
	assert.False(t, cov.Redundant())
	provider.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
}

func TestCheckCoverage_SingleMemberGroup(t *testing.T) {
	idx, err := NewGroupIndex(domain.FailoverGroups{"1": {"eth1"}})
	require.NoError(t, err)

	provider := mocks.NewMockInterfaceProvider(t)

	cov, err := CheckCoverage(context.Background(), provider, idx, "eth1")
	require.NoError(t, err)
	assert.True(t, cov.Grouped())
	assert.False(t, cov.Redundant())
}

func TestCheckCoverage_ProviderError(t *testing.T) {
	idx, err := NewGroupIndex(domain.FailoverGroups{"1": {"eth1", "eth2"}})
	require.NoError(t, err)

	boom := errors.New("boom")
	provider := mocks.NewMockInterfaceProvider(t)
	provider.On("Query", mock.Anything, mock.Anything).Return(nil, boom).Once()

	_, err = CheckCoverage(context.Background(), provider, idx, "eth1")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, domain.IsUpstreamError(err))
}

func TestCoverageFrom_Partition(t *testing.T) {
	snapshot := []domain.NetworkInterface{
		iface("eth1", domain.LinkStateUp, domain.VrrpMaster),
		iface("eth2", domain.LinkStateDown, domain.VrrpBackup),
		iface("eth3", domain.LinkStateUp, domain.VrrpInit),
		iface("eth4", domain.LinkStateUp, domain.VrrpNone),
		iface("eth5", domain.LinkStateUp, domain.VrrpMaster),
		iface("eth9", domain.LinkStateUp, domain.VrrpMaster),
	}

	cov := CoverageFrom("eth1", "1", []string{"eth1", "eth2", "eth3", "eth4", "eth5", "eth6"}, snapshot)

	assert.Equal(t, []string{"eth5"}, cov.Masters, "target, unknown and non-sibling names are excluded")
	assert.Equal(t, []string{"eth2"}, cov.Backups, "link state is not filtered here")
}
