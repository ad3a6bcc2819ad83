package sched

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PolicyBundle holds scheduler configuration loadable from a YAML file.
// Nil pointer fields mean "not set in YAML" and do not override Config.
// String fields use empty string for "not set".
type PolicyBundle struct {
	Preset        string         `yaml:"preset"`
	Exhaustion    ExhaustionRule `yaml:"exhaustion"`
	LoserBump     LoserBump      `yaml:"loser_bump"`
	Inherit       InheritRule    `yaml:"inherit"`
	Aging         *bool          `yaml:"aging"`
	Tickets       TicketConfig   `yaml:"tickets"`
	Queues        *QueueLayout   `yaml:"queues"`
	Capacity      *int           `yaml:"capacity"`
	BalancePeriod *int64         `yaml:"balance_period"`
}

// TicketConfig holds the ticket allotments.
type TicketConfig struct {
	Start   *int `yaml:"start"`
	Inherit *int `yaml:"inherit"`
	Cap     *int `yaml:"cap"`
}

// LoadPolicyBundle reads and strictly parses a YAML policy file.
// Unknown fields are errors so that typos do not silently fall back to defaults.
func LoadPolicyBundle(path string) (*PolicyBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy config: %w", err)
	}
	var bundle PolicyBundle
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("parsing policy config: %w", err)
	}
	return &bundle, nil
}

// Validate checks names and parameter signs. Cross-field relations are left
// to Config.Validate after Apply.
func (b *PolicyBundle) Validate() error {
	if !ValidPolicyPresets[b.Preset] {
		return fmt.Errorf("unknown policy preset %q", b.Preset)
	}
	if b.Exhaustion != "" && !ValidExhaustionRules[b.Exhaustion] {
		return fmt.Errorf("unknown exhaustion rule %q", b.Exhaustion)
	}
	if b.LoserBump != "" && !ValidLoserBumps[b.LoserBump] {
		return fmt.Errorf("unknown loser bump %q", b.LoserBump)
	}
	if b.Inherit != "" && !ValidInheritRules[b.Inherit] {
		return fmt.Errorf("unknown inherit rule %q", b.Inherit)
	}
	for name, v := range map[string]*int{
		"tickets.start":   b.Tickets.Start,
		"tickets.inherit": b.Tickets.Inherit,
		"tickets.cap":     b.Tickets.Cap,
		"capacity":        b.Capacity,
	} {
		if v != nil && *v < 1 {
			return fmt.Errorf("%s must be positive, got %d", name, *v)
		}
	}
	if b.BalancePeriod != nil && *b.BalancePeriod < 1 {
		return fmt.Errorf("balance_period must be positive, got %d", *b.BalancePeriod)
	}
	return nil
}

// Apply overlays the fields set in the bundle onto cfg. A preset replaces
// the whole policy before individual rules are applied.
func (b *PolicyBundle) Apply(cfg Config) Config {
	if b.Preset != "" {
		cfg.Policy = NewPolicy(b.Preset)
	}
	if b.Exhaustion != "" {
		cfg.Policy.Exhaustion = b.Exhaustion
	}
	if b.LoserBump != "" {
		cfg.Policy.LoserBump = b.LoserBump
	}
	if b.Inherit != "" {
		cfg.Policy.Inherit = b.Inherit
	}
	if b.Aging != nil {
		cfg.Policy.Aging = *b.Aging
	}
	if b.Tickets.Start != nil {
		cfg.StartTickets = *b.Tickets.Start
	}
	if b.Tickets.Inherit != nil {
		cfg.InheritTickets = *b.Tickets.Inherit
	}
	if b.Tickets.Cap != nil {
		cfg.TicketCap = *b.Tickets.Cap
	}
	if b.Queues != nil {
		cfg.Layout = *b.Queues
	}
	if b.Capacity != nil {
		cfg.Capacity = *b.Capacity
	}
	if b.BalancePeriod != nil {
		cfg.BalancePeriod = *b.BalancePeriod
	}
	return cfg
}
