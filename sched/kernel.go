package sched

// Endpoint is the stable identifier the kernel assigns to a process.
type Endpoint int

// Kernel is the narrow control interface through which decisions reach the
// kernel's dispatcher.
type Kernel interface {
	// TakeOver claims scheduling ownership of a process.
	TakeOver(ep Endpoint) error
	// Schedule installs a queue and quantum for a process.
	Schedule(ep Endpoint, queue, quantum int) error
}

// Timer arms a one-shot callback after the given number of ticks. The queue
// balancer re-arms itself on every invocation, which makes it periodic.
type Timer interface {
	Arm(ticks int64, fn func())
}

// Source supplies lottery draws. *rand.Rand satisfies it.
type Source interface {
	// Int63n returns a uniform value in [0, n).
	Int63n(n int64) int64
}
