package domain

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseLinkState(t *testing.T) {
	tests := []struct {
		in   string
		want LinkState
	}{
		{"UP", LinkStateUp},
		{"down", LinkStateDown},
		{"LINK_STATE_UP", LinkStateUp},
		{"LINK_STATE_DOWN", LinkStateDown},
		{" unknown ", LinkStateUnknown},
	}
	for _, tt := range tests {
		got, err := ParseLinkState(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLinkState("flapping")
	assert.ErrorIs(t, err, ErrUnknownLinkState)
}

func TestParseVrrpState(t *testing.T) {
	tests := []struct {
		in   string
		want VrrpState
	}{
		{"", VrrpNone},
		{"INIT", VrrpInit},
		{"backup", VrrpBackup},
		{"MASTER", VrrpMaster},
	}
	for _, tt := range tests {
		got, err := ParseVrrpState(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseVrrpState("FAULT")
	assert.ErrorIs(t, err, ErrUnknownVrrpState)
}

func TestNetworkInterface_Decode(t *testing.T) {
	var fromJSON NetworkInterface
	require.NoError(t, json.Unmarshal([]byte(`{"name":"eth0","link_state":"LINK_STATE_UP","vrrp_state":"MASTER"}`), &fromJSON))
	assert.Equal(t, "eth0", fromJSON.Name)
	assert.True(t, fromJSON.IsUp())
	assert.True(t, fromJSON.HasVrrp())
	assert.Equal(t, VrrpMaster, fromJSON.VrrpState)

	var fromYAML NetworkInterface
	require.NoError(t, yaml.Unmarshal([]byte("name: ntb0\ninternal: true\nlink_state: DOWN\n"), &fromYAML))
	assert.True(t, fromYAML.Internal)
	assert.False(t, fromYAML.IsUp())
	assert.False(t, fromYAML.HasVrrp())
}

func TestInterfaceFilter_Matches(t *testing.T) {
	assert.True(t, InterfaceFilter{}.Matches("eth0"))
	assert.True(t, InterfaceFilter{Names: []string{"eth0", "eth1"}}.Matches("eth1"))
	assert.False(t, InterfaceFilter{Names: []string{"eth0"}}.Matches("eth01"))
}
