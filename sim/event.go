package sim

// Event defines the interface for all simulation events.
// Each event has a Timestamp (in simulated seconds) and an Execute method
// that advances simulation state when invoked. Execute runs to the next
// suspension point and never blocks.
type Event interface {
	Timestamp() int64
	Execute(*Simulator) error
}

// ArrivalEvent is the arrival generator's recurring wake-up.
type ArrivalEvent struct {
	time      int64
	Generator *ArrivalGenerator
}

// Timestamp returns the scheduled time of the ArrivalEvent.
func (e *ArrivalEvent) Timestamp() int64 {
	return e.time
}

// Execute lets the generator decide whether another customer walks in.
func (e *ArrivalEvent) Execute(sim *Simulator) error {
	return e.Generator.wake(sim)
}

// CustomerStartEvent starts a freshly created customer's process: the
// customer joins the queue and asks for a counter.
type CustomerStartEvent struct {
	time     int64
	Customer *Customer
}

// Timestamp returns the scheduled time of the CustomerStartEvent.
func (e *CustomerStartEvent) Timestamp() int64 {
	return e.time
}

// Execute issues the customer's counter request.
func (e *CustomerStartEvent) Execute(sim *Simulator) error {
	return e.Customer.arrive(sim)
}

// GrantEvent resumes a queued customer once a released counter was handed
// to it.
type GrantEvent struct {
	time     int64
	Customer *Customer
	Lease    *Lease
}

// Timestamp returns the scheduled time of the GrantEvent.
func (e *GrantEvent) Timestamp() int64 {
	return e.time
}

// Execute moves the customer into service.
func (e *GrantEvent) Execute(sim *Simulator) error {
	return e.Customer.beginService(sim, e.Lease)
}

// DepartureEvent ends a customer's service.
type DepartureEvent struct {
	time     int64
	Customer *Customer
}

// Timestamp returns the scheduled time of the DepartureEvent.
func (e *DepartureEvent) Timestamp() int64 {
	return e.time
}

// Execute records the customer's wait and frees its counter.
func (e *DepartureEvent) Execute(sim *Simulator) error {
	return e.Customer.depart(sim)
}
