package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPolicy_Presets(t *testing.T) {
	tests := []struct {
		name string
		want Policy
	}{
		{"", Policy{Exhaustion: ExhaustBlockCounter, LoserBump: BumpIncrement, Inherit: InheritLoserQueue, Aging: true}},
		{"dynamic", Policy{Exhaustion: ExhaustBlockCounter, LoserBump: BumpIncrement, Inherit: InheritLoserQueue, Aging: true}},
		{"experimental", Policy{Exhaustion: ExhaustReset, LoserBump: BumpDouble, Inherit: InheritLoserQueue}},
		{"flat", Policy{Exhaustion: ExhaustFlat, LoserBump: BumpIncrement, Inherit: InheritParentQueue}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPolicy(tt.name)
			assert.Equal(t, tt.want, p)
			assert.NoError(t, p.Validate())
		})
	}
}

func TestNewPolicy_UnknownPanics(t *testing.T) {
	assert.Panics(t, func() { NewPolicy("round-robin") })
}

func TestPolicy_LoserDelta(t *testing.T) {
	rec := &Record{Tickets: 7}

	assert.Equal(t, 1, NewPolicy("dynamic").loserDelta(rec))
	assert.Equal(t, 7, NewPolicy("experimental").loserDelta(rec))
}
