package mocks

import (
	"context"
	"time"

	"github.com/eleven-am/failover/internal/domain"
	"github.com/eleven-am/failover/internal/ports"
	"github.com/stretchr/testify/mock"
)

type cleanupT interface {
	mock.TestingT
	Cleanup(func())
}

type MockInterfaceProvider struct {
	mock.Mock
}

func NewMockInterfaceProvider(t cleanupT) *MockInterfaceProvider {
	m := &MockInterfaceProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockInterfaceProvider) Query(ctx context.Context, filter domain.InterfaceFilter) ([]domain.NetworkInterface, error) {
	args := m.Called(ctx, filter)
	var out []domain.NetworkInterface
	if v := args.Get(0); v != nil {
		out = v.([]domain.NetworkInterface)
	}
	return out, args.Error(1)
}

type MockPeerTransport struct {
	mock.Mock
}

func NewMockPeerTransport(t cleanupT) *MockPeerTransport {
	m := &MockPeerTransport{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPeerTransport) RemoteSummary(ctx context.Context) (domain.NodeStateSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.NodeStateSummary), args.Error(1)
}

func (m *MockPeerTransport) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockInterfaceConfigStore struct {
	mock.Mock
}

func NewMockInterfaceConfigStore(t cleanupT) *MockInterfaceConfigStore {
	m := &MockInterfaceConfigStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockInterfaceConfigStore) Get(ctx context.Context, name string) (domain.InterfaceConfig, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(domain.InterfaceConfig), args.Error(1)
}

func (m *MockInterfaceConfigStore) Put(ctx context.Context, cfg domain.InterfaceConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockInterfaceConfigStore) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockInterfaceConfigStore) List(ctx context.Context) ([]domain.InterfaceConfig, error) {
	args := m.Called(ctx)
	var out []domain.InterfaceConfig
	if v := args.Get(0); v != nil {
		out = v.([]domain.InterfaceConfig)
	}
	return out, args.Error(1)
}

func (m *MockInterfaceConfigStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockPoolInspector struct {
	mock.Mock
}

func NewMockPoolInspector(t cleanupT) *MockPoolInspector {
	m := &MockPoolInspector{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPoolInspector) PoolState(ctx context.Context) (ports.PoolState, error) {
	args := m.Called(ctx)
	return args.Get(0).(ports.PoolState), args.Error(1)
}

type MockEventTracker struct {
	mock.Mock
}

func NewMockEventTracker(t cleanupT) *MockEventTracker {
	m := &MockEventTracker{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockEventTracker) Running(ctx context.Context) ([]domain.FailoverEvent, error) {
	args := m.Called(ctx)
	var out []domain.FailoverEvent
	if v := args.Get(0); v != nil {
		out = v.([]domain.FailoverEvent)
	}
	return out, args.Error(1)
}

type MockMetricsRecorder struct {
	mock.Mock
}

func NewMockMetricsRecorder(t cleanupT) *MockMetricsRecorder {
	m := &MockMetricsRecorder{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockMetricsRecorder) ObservePass(result domain.ReconciliationResult, duration time.Duration) {
	m.Called(result, duration)
}

func (m *MockMetricsRecorder) ObservePeerError() {
	m.Called()
}

func (m *MockMetricsRecorder) ObserveDecision(decision domain.Decision) {
	m.Called(decision)
}

type MockSummarySource struct {
	mock.Mock
}

func NewMockSummarySource(t cleanupT) *MockSummarySource {
	m := &MockSummarySource{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSummarySource) LocalSummary(ctx context.Context) (domain.NodeStateSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.NodeStateSummary), args.Error(1)
}

var (
	_ ports.InterfaceProvider    = (*MockInterfaceProvider)(nil)
	_ ports.PeerTransport        = (*MockPeerTransport)(nil)
	_ ports.InterfaceConfigStore = (*MockInterfaceConfigStore)(nil)
	_ ports.PoolInspector        = (*MockPoolInspector)(nil)
	_ ports.EventTracker         = (*MockEventTracker)(nil)
	_ ports.MetricsRecorder      = (*MockMetricsRecorder)(nil)
	_ ports.SummarySource        = (*MockSummarySource)(nil)
)
