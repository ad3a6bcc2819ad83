package sched

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config fixes everything a Scheduler needs at construction time.
type Config struct {
	Capacity       int         `yaml:"capacity" validate:"min=1"`
	Layout         QueueLayout `yaml:"queues"`
	Policy         Policy      `yaml:"policy"`
	StartTickets   int         `yaml:"start_tickets" validate:"min=1,ltefield=TicketCap"`
	InheritTickets int         `yaml:"inherit_tickets" validate:"min=1,ltefield=TicketCap"`
	TicketCap      int         `yaml:"ticket_cap" validate:"min=1"`
	BalancePeriod  int64       `yaml:"balance_period" validate:"min=1"` // ticks
	SelfEndpoint   Endpoint    `yaml:"self_endpoint"`
}

// DefaultSchedulerEndpoint is the endpoint the scheduler reports as the one
// now responsible for a started process.
const DefaultSchedulerEndpoint Endpoint = 4

// DefaultConfig returns the dynamic-priority configuration: 10 tickets for
// fresh processes, 5 for inherited ones, capped at 20.
func DefaultConfig() Config {
	return Config{
		Capacity:       256,
		Layout:         DefaultQueueLayout(),
		Policy:         NewPolicy("dynamic"),
		StartTickets:   10,
		InheritTickets: 5,
		TicketCap:      20,
		BalancePeriod:  DefaultBalanceSeconds * DefaultHz,
		SelfEndpoint:   DefaultSchedulerEndpoint,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and the cross-field relations of the layout
// and policy.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid scheduler config: %w", err)
	}
	if err := c.Layout.Validate(); err != nil {
		return fmt.Errorf("invalid queue layout: %w", err)
	}
	if err := c.Policy.Validate(); err != nil {
		return fmt.Errorf("invalid policy: %w", err)
	}
	return nil
}
