package sched

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errKernel = errors.New("kernel said no")

type assignment struct{ queue, quantum int }

// fakeKernel records the last assignment per endpoint and fails on demand.
type fakeKernel struct {
	takeOverErr  map[Endpoint]error
	scheduleErr  map[Endpoint]error
	assigned     map[Endpoint]assignment
	scheduleCall int
}

func newFakeKernel() *fakeKernel {
	return &fakeKernel{
		takeOverErr: make(map[Endpoint]error),
		scheduleErr: make(map[Endpoint]error),
		assigned:    make(map[Endpoint]assignment),
	}
}

func (k *fakeKernel) TakeOver(ep Endpoint) error {
	return k.takeOverErr[ep]
}

func (k *fakeKernel) Schedule(ep Endpoint, queue, quantum int) error {
	k.scheduleCall++
	if err := k.scheduleErr[ep]; err != nil {
		return err
	}
	k.assigned[ep] = assignment{queue, quantum}
	return nil
}

// manualTimer keeps the last armed callback so tests can fire it.
type manualTimer struct {
	armed int
	ticks int64
	fn    func()
}

func (m *manualTimer) Arm(ticks int64, fn func()) {
	m.armed++
	m.ticks = ticks
	m.fn = fn
}

func (m *manualTimer) fire() {
	m.fn()
}

// drawSequence returns its draws in order, cycling at the end.
type drawSequence struct {
	draws []int64
	next  int
}

func (d *drawSequence) Int63n(n int64) int64 {
	v := d.draws[d.next%len(d.draws)]
	d.next++
	return v % n
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Capacity = 16
	return cfg
}

func newTestScheduler(t *testing.T, cfg Config, draws ...int64) (*Scheduler, *fakeKernel, *manualTimer) {
	t.Helper()
	if len(draws) == 0 {
		draws = []int64{0}
	}
	k := newFakeKernel()
	tm := &manualTimer{}
	s, err := NewScheduler(cfg, k, tm, &drawSequence{draws: draws})
	require.NoError(t, err)
	return s, k, tm
}

func startFresh(t *testing.T, s *Scheduler, ep Endpoint, ceiling int) {
	t.Helper()
	_, err := s.StartScheduling(StartRequest{Endpoint: ep, Ceiling: ceiling, Quantum: 200, Mode: StartFresh})
	require.NoError(t, err)
}

func record(t *testing.T, s *Scheduler, ep Endpoint) *Record {
	t.Helper()
	slot, err := s.resolver.Resolve(ep)
	require.NoError(t, err)
	return &s.table.records[slot]
}
