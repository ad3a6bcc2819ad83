package sched

import "fmt"

// Resolver maps endpoints to table slots.
type Resolver interface {
	// Resolve returns the slot of an active process.
	Resolve(ep Endpoint) (int, error)
	// Vacant returns the free slot a new process with this endpoint would use.
	Vacant(ep Endpoint) (int, error)
}

// SlotResolver derives the slot from the endpoint number modulo the table
// capacity, the way the kernel encodes a process slot and its generation in
// one endpoint. A slot only resolves if its record carries the same endpoint,
// so a stale endpoint from an earlier generation is rejected.
type SlotResolver struct {
	table *Table
}

// NewSlotResolver creates a SlotResolver over table.
func NewSlotResolver(table *Table) *SlotResolver {
	return &SlotResolver{table: table}
}

func (r *SlotResolver) slot(ep Endpoint) int {
	n := r.table.Capacity()
	s := int(ep) % n
	if s < 0 {
		s += n
	}
	return s
}

// Resolve implements Resolver.
func (r *SlotResolver) Resolve(ep Endpoint) (int, error) {
	slot := r.slot(ep)
	rec := &r.table.records[slot]
	if !rec.Active || rec.Endpoint != ep {
		return -1, fmt.Errorf("endpoint %d: %w", ep, ErrUnknownProcess)
	}
	return slot, nil
}

// Vacant implements Resolver.
func (r *SlotResolver) Vacant(ep Endpoint) (int, error) {
	slot := r.slot(ep)
	rec := &r.table.records[slot]
	if rec.Active {
		return -1, fmt.Errorf("endpoint %d wants slot %d held by %d: %w", ep, slot, rec.Endpoint, ErrSlotInUse)
	}
	return slot, nil
}
