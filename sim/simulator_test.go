package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/checkout-sim/sim/stats"
	"github.com/inference-sim/checkout-sim/sim/trace"
)

// recordEvent appends its name to a shared log when executed.
type recordEvent struct {
	time int64
	name string
	log  *[]string
	err  error
}

func (e *recordEvent) Timestamp() int64 { return e.time }

func (e *recordEvent) Execute(*Simulator) error {
	*e.log = append(*e.log, e.name)
	return e.err
}

func newTestSimulator(t *testing.T) *Simulator {
	t.Helper()
	s, err := NewSimulatorWithSamplers(DefaultConfig().WithSeed(1), NewFixedSampler(1), NewFixedSampler(1))
	require.NoError(t, err)
	return s
}

func TestSimulator_SameTimeEvents_RunInSchedulingOrder(t *testing.T) {
	// GIVEN three events due at t=5 scheduled as B, A, C and one at t=3
	s := newTestSimulator(t)
	var log []string
	for _, name := range []string{"B", "A", "C"} {
		require.NoError(t, s.Schedule(&recordEvent{time: 5, name: name, log: &log}))
	}
	require.NoError(t, s.Schedule(&recordEvent{time: 3, name: "early", log: &log}))

	// WHEN the simulator runs
	require.NoError(t, s.RunUntil(10))

	// THEN the earlier event runs first and ties keep insertion order
	assert.Equal(t, []string{"early", "B", "A", "C"}, log)
	assert.Equal(t, int64(10), s.Clock)
}

func TestSimulator_RunUntil_StopsAtHorizonInclusive(t *testing.T) {
	s := newTestSimulator(t)
	var log []string
	require.NoError(t, s.Schedule(&recordEvent{time: 10, name: "at-horizon", log: &log}))
	require.NoError(t, s.Schedule(&recordEvent{time: 11, name: "past-horizon", log: &log}))

	require.NoError(t, s.RunUntil(10))

	assert.Equal(t, []string{"at-horizon"}, log)
	assert.Equal(t, 1, s.EventQueue.Len(), "event past the horizon must stay queued")
	assert.Equal(t, int64(10), s.Clock)
}

func TestSimulator_ScheduleAfter_NegativeDelay_Fails(t *testing.T) {
	s := newTestSimulator(t)
	var log []string

	err := s.ScheduleAfter(-1, func(at int64) Event { return &recordEvent{time: at, log: &log} })

	assert.ErrorIs(t, err, ErrInvalidDelay)
	assert.Equal(t, 0, s.EventQueue.Len())
}

func TestSimulator_Schedule_InThePast_Fails(t *testing.T) {
	s := newTestSimulator(t)
	var log []string
	require.NoError(t, s.RunUntil(50))

	err := s.Schedule(&recordEvent{time: 49, log: &log})

	assert.ErrorIs(t, err, ErrInvalidDelay)
}

func TestSimulator_EventError_AbortsRun(t *testing.T) {
	// GIVEN a failing event followed by a healthy one
	s := newTestSimulator(t)
	var log []string
	boom := errors.New("boom")
	require.NoError(t, s.Schedule(&recordEvent{time: 1, name: "fail", log: &log, err: boom}))
	require.NoError(t, s.Schedule(&recordEvent{time: 2, name: "never", log: &log}))

	// WHEN the run executes
	err := s.RunUntil(10)

	// THEN the error surfaces and later events are not executed
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"fail"}, log)
}

func TestNewSimulator_InvalidConfig_Fails(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Capacity = 0

	_, err := NewSimulator(cfg)

	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestNewSimulatorWithSamplers_NilSampler_Fails(t *testing.T) {
	_, err := NewSimulatorWithSamplers(DefaultConfig(), nil, NewFixedSampler(1))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestSimulator_Run_Twice_Fails(t *testing.T) {
	s, err := NewSimulator(DefaultConfig().WithSeed(3))
	require.NoError(t, err)
	_, err = s.Run()
	require.NoError(t, err)

	res, err := s.Run()

	assert.ErrorIs(t, err, ErrAlreadyRun)
	assert.Nil(t, res)
}

func TestRun_ZeroGapZeroService_InstantFIFOService(t *testing.T) {
	// GIVEN one counter, zero gaps and zero service time, capped at 5 customers
	cfg := Config{
		Capacity:           1,
		MaxServiceDuration: 0,
		MaxArrivalGap:      0,
		ArrivalCutoff:      5,
		SimulationHorizon:  5,
		MaxCustomers:       5,
	}.WithSeed(99)
	s, err := NewSimulator(cfg)
	require.NoError(t, err)

	// WHEN the run executes
	res, err := s.Run()
	require.NoError(t, err)

	// THEN all five arrive at t=0, are served in creation order and never wait
	require.Equal(t, 5, res.CustomersCreated)
	assert.Equal(t, 5, res.Departed)
	for i, c := range res.Customers {
		assert.Equal(t, int64(i+1), c.ID)
		assert.Equal(t, int64(0), c.ArrivalTime)
		assert.Equal(t, int64(0), c.WaitDuration())
		assert.Equal(t, StateDeparted, c.State)
	}
	require.Len(t, res.Waits, 5)
	for _, w := range res.Waits {
		assert.Equal(t, int64(0), w.Time)
		assert.Equal(t, int64(0), w.Value)
	}
	require.Len(t, res.QueueLengths, 5)
	for _, q := range res.QueueLengths {
		assert.Equal(t, int64(0), q.Value)
	}
}

func TestRun_SecondCustomerWaitsForFirstService(t *testing.T) {
	// GIVEN one counter, arrivals at t=0 and t=1, first service lasting 20s
	cfg := Config{
		Capacity:           1,
		MaxServiceDuration: 20,
		MaxArrivalGap:      10,
		ArrivalCutoff:      50,
		SimulationHorizon:  100,
	}.WithSeed(1)
	arrivals := NewFixedSampler(0, 1, 1_000_000)
	service := NewFixedSampler(20, 5)
	s, err := NewSimulatorWithSamplers(cfg, arrivals, service)
	require.NoError(t, err)

	// WHEN the run executes
	res, err := s.Run()
	require.NoError(t, err)

	// THEN the second customer is granted at t=20 after waiting 19s
	require.Equal(t, 2, res.CustomersCreated)
	second := res.Customers[1]
	assert.Equal(t, int64(1), second.EnqueueTime)
	assert.Equal(t, int64(20), second.GrantTime)
	assert.Equal(t, int64(19), second.WaitDuration())
	assert.Equal(t, int64(25), second.DepartureTime)

	// AND the wait series is stamped with departure times
	assert.Equal(t, int64(20), res.Waits[0].Time)
	assert.Equal(t, int64(0), res.Waits[0].Value)
	assert.Equal(t, int64(25), res.Waits[1].Time)
	assert.Equal(t, int64(19), res.Waits[1].Value)
	assert.Equal(t, int64(100), res.EndTime)
}

func TestRun_QueueLengthCountsCustomersStillWaiting(t *testing.T) {
	// GIVEN one counter and three customers arriving together at t=0
	cfg := Config{
		Capacity:           1,
		MaxServiceDuration: 10,
		MaxArrivalGap:      1,
		ArrivalCutoff:      10,
		SimulationHorizon:  100,
		MaxCustomers:       3,
	}.WithSeed(1)
	s, err := NewSimulatorWithSamplers(cfg, NewFixedSampler(0), NewFixedSampler(10))
	require.NoError(t, err)

	// WHEN the run executes
	res, err := s.Run()
	require.NoError(t, err)

	// THEN the first grant happens before the others join, then the queue drains
	require.Len(t, res.QueueLengths, 3)
	assert.Equal(t, int64(0), res.QueueLengths[0].Value)
	assert.Equal(t, int64(10), res.QueueLengths[1].Time)
	assert.Equal(t, int64(1), res.QueueLengths[1].Value)
	assert.Equal(t, int64(20), res.QueueLengths[2].Time)
	assert.Equal(t, int64(0), res.QueueLengths[2].Value)
	assert.Equal(t, []int64{0, 10, 20}, []int64{
		res.Customers[0].WaitDuration(), res.Customers[1].WaitDuration(), res.Customers[2].WaitDuration(),
	})
}

func TestRun_SameSeed_IdenticalStatistics(t *testing.T) {
	// GIVEN two simulators with the same seed and configuration
	s1, err := NewSimulator(DefaultConfig().WithSeed(123))
	require.NoError(t, err)
	s2, err := NewSimulator(DefaultConfig().WithSeed(123))
	require.NoError(t, err)

	// WHEN both run
	r1, err := s1.Run()
	require.NoError(t, err)
	r2, err := s2.Run()
	require.NoError(t, err)

	// THEN the statistics are identical
	assert.Equal(t, r1.CustomersCreated, r2.CustomersCreated)
	assert.Equal(t, r1.QueueLengths, r2.QueueLengths)
	assert.Equal(t, r1.Waits, r2.Waits)
}

func TestRun_DifferentSeeds_DifferentArrivals(t *testing.T) {
	s1, err := NewSimulator(DefaultConfig().WithSeed(100))
	require.NoError(t, err)
	s2, err := NewSimulator(DefaultConfig().WithSeed(200))
	require.NoError(t, err)

	r1, err := s1.Run()
	require.NoError(t, err)
	r2, err := s2.Run()
	require.NoError(t, err)

	assert.NotEqual(t, r1.QueueLengths, r2.QueueLengths)
}

func TestRun_CapacityAboveDemand_NobodyWaits(t *testing.T) {
	// GIVEN more counters than customers can ever be present
	cfg := DefaultConfig().WithSeed(7)
	cfg.Capacity = 10_000

	s, err := NewSimulator(cfg)
	require.NoError(t, err)
	res, err := s.Run()
	require.NoError(t, err)

	// THEN every wait is zero
	require.NotEmpty(t, res.Waits)
	for _, w := range res.Waits {
		assert.Equal(t, int64(0), w.Value)
	}
	for _, c := range res.Customers {
		assert.Equal(t, c.EnqueueTime, c.GrantTime)
	}
}

func TestRun_Invariants_HoldAcrossSeeds(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		cfg := DefaultConfig().WithSeed(seed)
		cfg.Capacity = 2 // saturated enough to build queues
		cfg.SimulationHorizon = cfg.ArrivalCutoff + 1_000_000

		s, err := NewSimulator(cfg)
		require.NoError(t, err)
		res, err := s.Run()
		require.NoError(t, err)

		// queue length never negative nor above customers arrived so far
		for _, q := range res.QueueLengths {
			arrived := 0
			for _, c := range res.Customers {
				if c.ArrivalTime <= q.Time {
					arrived++
				}
			}
			assert.GreaterOrEqual(t, q.Value, int64(0))
			assert.LessOrEqual(t, q.Value, int64(arrived), "seed %d t=%d", seed, q.Time)
		}
		// departures never outnumber arrivals; a long horizon drains the shop
		assert.LessOrEqual(t, res.Departed, res.CustomersCreated)
		assert.Equal(t, res.CustomersCreated, res.Departed, "seed %d", seed)

		for _, c := range res.Customers {
			assert.GreaterOrEqual(t, c.WaitDuration(), int64(0))
			assert.Equal(t, c.ArrivalTime, c.EnqueueTime)
			assert.Equal(t, c.GrantTime+c.ServiceDuration, c.DepartureTime)
			assert.LessOrEqual(t, c.ServiceDuration, cfg.MaxServiceDuration)
			assert.Less(t, c.ArrivalTime, cfg.ArrivalCutoff-cfg.MaxArrivalGap)
		}
		for i := 1; i < len(res.Waits); i++ {
			assert.LessOrEqual(t, res.Waits[i-1].Time, res.Waits[i].Time)
		}
	}
}

func TestRun_ArrivalMargin_NoArrivalNearCutoff(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		cfg := Config{
			Capacity:           3,
			MaxServiceDuration: 30,
			MaxArrivalGap:      10,
			ArrivalCutoff:      100,
			SimulationHorizon:  100,
		}.WithSeed(seed)
		s, err := NewSimulator(cfg)
		require.NoError(t, err)

		res, err := s.Run()
		require.NoError(t, err)

		for _, c := range res.Customers {
			assert.Less(t, c.EnqueueTime, int64(90), "seed %d customer %d", seed, c.ID)
		}
	}
}

func TestRun_HorizonEqualsCutoff_LeavesCustomersInside(t *testing.T) {
	// GIVEN service far longer than the horizon
	cfg := Config{
		Capacity:           1,
		MaxServiceDuration: 1000,
		MaxArrivalGap:      1,
		ArrivalCutoff:      10,
		SimulationHorizon:  10,
	}.WithSeed(1)
	s, err := NewSimulatorWithSamplers(cfg, NewFixedSampler(1), NewFixedSampler(1000))
	require.NoError(t, err)

	res, err := s.Run()
	require.NoError(t, err)

	// THEN nobody departs and no wait sample is recorded
	assert.Greater(t, res.CustomersCreated, 0)
	assert.Equal(t, 0, res.Departed)
	assert.Empty(t, res.Waits)
	assert.Equal(t, res.CustomersCreated-1, s.Waiting())
}

func TestRun_LifecycleTrace_MatchesCustomers(t *testing.T) {
	// GIVEN a traced run with two counters
	cfg := DefaultConfig().WithSeed(9)
	cfg.Capacity = 2
	cfg.TraceLevel = trace.TraceLevelLifecycle
	s, err := NewSimulator(cfg)
	require.NoError(t, err)

	// WHEN it runs
	res, err := s.Run()
	require.NoError(t, err)

	// THEN every customer has one arrival record, and every grant record
	// agrees with the customer it names
	require.NotNil(t, res.Trace)
	assert.Len(t, res.Trace.Arrivals, res.CustomersCreated)
	assert.Len(t, res.Trace.Grants, len(res.QueueLengths))
	for _, g := range res.Trace.Grants {
		c := res.Customers[g.CustomerID-1]
		assert.Equal(t, c.GrantTime, g.Clock)
		assert.Equal(t, c.WaitDuration(), g.Wait)
		assert.LessOrEqual(t, g.Busy, s.Pool.Capacity())
	}
	for _, a := range res.Trace.Arrivals {
		c := res.Customers[a.CustomerID-1]
		assert.Equal(t, c.ArrivalTime, a.Clock)
		if !a.Queued {
			assert.Zero(t, c.WaitDuration(), "customer %d found a free counter", c.ID)
		}
	}
}

func TestRun_TraceOffByDefault(t *testing.T) {
	s, err := NewSimulator(DefaultConfig().WithSeed(1))
	require.NoError(t, err)
	res, err := s.Run()
	require.NoError(t, err)
	assert.Nil(t, res.Trace)
}

func TestRun_TimeWeightedQueue_CountsJoinsBetweenGrants(t *testing.T) {
	// GIVEN one counter, 100s of service, c1 at t=0 and c2..c4 at t=1
	cfg := Config{
		Capacity:           1,
		MaxServiceDuration: 100,
		MaxArrivalGap:      1,
		ArrivalCutoff:      10,
		SimulationHorizon:  400,
		MaxCustomers:       4,
	}
	s, err := NewSimulatorWithSamplers(cfg, NewFixedSampler(0, 1, 0), NewFixedSampler(100))
	require.NoError(t, err)

	// WHEN it runs
	res, err := s.Run()
	require.NoError(t, err)

	// THEN the queue is 3 over [1,100), 2 over [100,200), 1 over [200,300)
	assert.Equal(t, []stats.Sample{{Time: 0, Value: 0}, {Time: 100, Value: 2}, {Time: 200, Value: 1}, {Time: 300, Value: 0}}, res.QueueLengths)
	assert.InDelta(t, (3*99.0+2*100+1*100)/400, res.Summary.TimeWeightedQueue, 1e-9)
}

func TestRun_TimeWeightedQueue_EqualsTotalWaitOverHorizon(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		// GIVEN a congested shop
		cfg := DefaultConfig().WithSeed(seed)
		cfg.Capacity = 2
		s, err := NewSimulator(cfg)
		require.NoError(t, err)

		res, err := s.Run()
		require.NoError(t, err)

		// THEN the queue average is the summed waiting intervals, clipped to
		// the horizon, divided by the horizon
		var waited int64
		for _, c := range res.Customers {
			switch c.State {
			case StateArrived:
			case StateWaiting:
				waited += cfg.SimulationHorizon - c.EnqueueTime
			default:
				waited += c.WaitDuration()
			}
		}
		want := float64(waited) / float64(cfg.SimulationHorizon)
		assert.InDelta(t, want, res.Summary.TimeWeightedQueue, 1e-9, "seed %d", seed)
	}
}
