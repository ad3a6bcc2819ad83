package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, int64(300), cfg.BalancePeriod)
	assert.Equal(t, 10, cfg.StartTickets)
	assert.Equal(t, 5, cfg.InheritTickets)
	assert.Equal(t, 20, cfg.TicketCap)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero capacity", func(c *Config) { c.Capacity = 0 }},
		{"start allotment above cap", func(c *Config) { c.StartTickets = c.TicketCap + 1 }},
		{"inherit allotment zero", func(c *Config) { c.InheritTickets = 0 }},
		{"zero balance period", func(c *Config) { c.BalancePeriod = 0 }},
		{"winner outside user range", func(c *Config) { c.Layout.WinnerQ = 1 }},
		{"unknown policy rule", func(c *Config) { c.Policy.LoserBump = "triple" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestQueueLayout_Validate(t *testing.T) {
	tests := []struct {
		name    string
		layout  QueueLayout
		wantErr bool
	}{
		{"default", DefaultQueueLayout(), false},
		{"whole table is user range", QueueLayout{NrQueues: 4, MinUserQ: 0, MaxUserQ: 3, WinnerQ: 0, LoserQ: 3}, false},
		{"too few queues", QueueLayout{NrQueues: 1}, true},
		{"user range past the last queue", QueueLayout{NrQueues: 8, MinUserQ: 2, MaxUserQ: 8, WinnerQ: 2, LoserQ: 3}, true},
		{"inverted user range", QueueLayout{NrQueues: 8, MinUserQ: 6, MaxUserQ: 2, WinnerQ: 6, LoserQ: 7}, true},
		{"loser above winner", QueueLayout{NrQueues: 8, MinUserQ: 2, MaxUserQ: 7, WinnerQ: 5, LoserQ: 4}, true},
		{"loser outside user range", QueueLayout{NrQueues: 8, MinUserQ: 2, MaxUserQ: 5, WinnerQ: 2, LoserQ: 6}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layout.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQueueLayout_Classification(t *testing.T) {
	l := DefaultQueueLayout()

	assert.False(t, l.IsUserQueue(3))
	assert.True(t, l.IsUserQueue(4))
	assert.True(t, l.IsUserQueue(15))
	assert.False(t, l.InRange(16))
	assert.False(t, l.InRange(-1))
}
