package hid

import (
	"context"
	"sync"
)

// MockDevice is a scriptable Device for tests: reports and errors are
// delivered to Read in the order they were queued.
type MockDevice struct {
	ch chan mockRead
}

type mockRead struct {
	data []byte
	err  error
}

func NewMockDevice() *MockDevice {
	return &MockDevice{ch: make(chan mockRead, 64)}
}

// Emit queues one raw report for the next Read.
func (m *MockDevice) Emit(data []byte) {
	m.ch <- mockRead{data: append([]byte(nil), data...)}
}

// Fail queues a read error, e.g. ErrDisconnected.
func (m *MockDevice) Fail(err error) {
	m.ch <- mockRead{err: err}
}

func (m *MockDevice) Read(ctx context.Context, p []byte) (int, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case r := <-m.ch:
		if r.err != nil {
			return 0, r.err
		}
		return copy(p, r.data), nil
	}
}

func (m *MockDevice) Path() string { return "mock" }

func (m *MockDevice) Close() error { return nil }

// MockManager hands out a queue of devices, one per OpenVIDPID call;
// once drained it reports ErrNotFound. Lets tests script a
// disconnect/reconnect sequence.
type MockManager struct {
	mu      sync.Mutex
	devices []Device
	Opens   int
}

func NewMockManager(devices ...Device) *MockManager {
	return &MockManager{devices: devices}
}

func (m *MockManager) List() ([]Info, error) { return nil, nil }

func (m *MockManager) OpenVIDPID(vendorID, productID uint16) (Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Opens++
	if len(m.devices) == 0 {
		return nil, ErrNotFound
	}
	d := m.devices[0]
	m.devices = m.devices[1:]
	return d, nil
}
