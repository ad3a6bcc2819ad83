package sched

import "fmt"

// Record is the scheduling state of one managed process. A record is owned
// by its table slot; Endpoint and Parent never change after creation.
type Record struct {
	Endpoint  Endpoint
	Parent    Endpoint
	Queue     int // current priority queue
	Ceiling   int // queue limit, changed only by renice
	Quantum   int // time slice in ticks
	Tickets   int
	TicketCap int
	Active    bool
}

// CreateArgs populates a fresh record.
type CreateArgs struct {
	Endpoint  Endpoint
	Parent    Endpoint
	Queue     int
	Ceiling   int
	Quantum   int
	Tickets   int
	TicketCap int
}

// Table is the fixed-capacity scheduling record table together with the
// ticket pool total. Slots never move and the table never resizes.
//
// Thread-safety: NOT thread-safe. Scheduler serializes access.
type Table struct {
	layout  QueueLayout
	records []Record
	pool    int64 // Σ tickets over eligible records, see ledger.go
}

// NewTable creates an empty table with the given number of slots.
func NewTable(capacity int, layout QueueLayout) *Table {
	return &Table{
		layout:  layout,
		records: make([]Record, capacity),
	}
}

// Capacity returns the number of slots.
func (t *Table) Capacity() int {
	return len(t.records)
}

// Layout returns the queue layout the table classifies records with.
func (t *Table) Layout() QueueLayout {
	return t.layout
}

// Get returns the record at slot, active or not.
func (t *Table) Get(slot int) (*Record, error) {
	if slot < 0 || slot >= len(t.records) {
		return nil, fmt.Errorf("slot %d: %w", slot, ErrSlotOutOfRange)
	}
	return &t.records[slot], nil
}

// Create populates a free slot. Whatever the slot held before is discarded.
func (t *Table) Create(slot int, args CreateArgs) (*Record, error) {
	rec, err := t.Get(slot)
	if err != nil {
		return nil, err
	}
	if rec.Active {
		return nil, fmt.Errorf("slot %d held by endpoint %d: %w", slot, rec.Endpoint, ErrSlotInUse)
	}
	if args.Tickets < 1 || args.Tickets > args.TicketCap {
		return nil, fmt.Errorf("initial allotment %d outside [1, %d]: %w", args.Tickets, args.TicketCap, ErrTicketBoundViolation)
	}
	*rec = Record{
		Endpoint:  args.Endpoint,
		Parent:    args.Parent,
		Queue:     args.Queue,
		Ceiling:   args.Ceiling,
		Quantum:   args.Quantum,
		Tickets:   args.Tickets,
		TicketCap: args.TicketCap,
		Active:    true,
	}
	if t.Eligible(rec) {
		t.deposit(rec)
	}
	return rec, nil
}

// Destroy returns the slot's tickets to the pool and frees it for reuse.
func (t *Table) Destroy(slot int) error {
	rec, err := t.Get(slot)
	if err != nil {
		return err
	}
	if !rec.Active {
		return fmt.Errorf("slot %d: %w", slot, ErrSlotNotActive)
	}
	if t.Eligible(rec) {
		if err := t.withdraw(rec); err != nil {
			return err
		}
	}
	*rec = Record{}
	return nil
}

// Eligible reports whether rec takes part in the lottery.
func (t *Table) Eligible(rec *Record) bool {
	return rec.Active && t.layout.IsUserQueue(rec.Queue)
}

// Records returns a copy of every active record in slot order.
func (t *Table) Records() []Record {
	out := make([]Record, 0, len(t.records))
	for i := range t.records {
		if t.records[i].Active {
			out = append(out, t.records[i])
		}
	}
	return out
}

// CheckInvariants recomputes the ticket sum and verifies the pool total and
// the per-record bounds.
func (t *Table) CheckInvariants() error {
	var sum int64
	for i := range t.records {
		rec := &t.records[i]
		if !t.Eligible(rec) {
			continue
		}
		if rec.Tickets < 1 || rec.Tickets > rec.TicketCap {
			return fmt.Errorf("endpoint %d holds %d tickets, cap %d: %w", rec.Endpoint, rec.Tickets, rec.TicketCap, ErrTicketBounds)
		}
		sum += int64(rec.Tickets)
	}
	if sum != t.pool {
		return fmt.Errorf("pool %d, tickets %d: %w", t.pool, sum, ErrPoolDiverged)
	}
	return nil
}
