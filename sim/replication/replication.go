// Package replication runs independent copies of a checkout simulation
// with consecutive seeds, for Monte Carlo studies.
package replication

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/inference-sim/checkout-sim/sim"
	"github.com/inference-sim/checkout-sim/sim/stats"
)

// Study holds the results of n replications, indexed by replication number.
// Replication i ran with seed BaseSeed+i.
type Study struct {
	BaseSeed int64
	Results  []*sim.Result
}

// Run executes n replications of cfg, at most parallelism at a time
// (parallelism <= 0 means GOMAXPROCS). cfg.Seed is the base seed and must be
// set so the study is reproducible. Each replication builds its own
// Simulator; nothing is shared between runs. The first failure cancels the
// replications that have not started yet and is returned.
func Run(ctx context.Context, cfg sim.Config, n, parallelism int) (*Study, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: replication count must be > 0, got %d", sim.ErrConfiguration, n)
	}
	if cfg.Seed == nil {
		return nil, fmt.Errorf("%w: replications need a base seed", sim.ErrConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	base := *cfg.Seed
	results := make([]*sim.Result, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := sim.NewSimulator(cfg.WithSeed(base + int64(i)))
			if err != nil {
				return err
			}
			res, err := s.Run()
			if err != nil {
				return fmt.Errorf("replication %d (seed %d): %w", i, base+int64(i), err)
			}
			logrus.Debugf("Replication %d done: %d customers", i, res.CustomersCreated)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Study{BaseSeed: base, Results: results}, nil
}

// Aggregate summarizes a study across replications.
type Aggregate struct {
	Replications          int
	Customers             stats.Distribution // customers created per run
	MeanWait              stats.Distribution // per-run mean wait
	MaxWait               stats.Distribution // per-run max wait
	MaxQueueLength        stats.Distribution // per-run peak sampled queue length
	TimeWeightedQueueMean stats.Distribution // per-run time-weighted queue length
}

// Summary computes the cross-replication Aggregate.
func (s *Study) Summary() Aggregate {
	n := len(s.Results)
	customers := make([]float64, n)
	meanWait := make([]float64, n)
	maxWait := make([]float64, n)
	maxQueue := make([]float64, n)
	twq := make([]float64, n)
	for i, r := range s.Results {
		customers[i] = float64(r.CustomersCreated)
		meanWait[i] = r.Summary.Wait.Mean
		maxWait[i] = r.Summary.Wait.Max
		maxQueue[i] = r.Summary.QueueLength.Max
		twq[i] = r.Summary.TimeWeightedQueue
	}
	return Aggregate{
		Replications:          n,
		Customers:             stats.NewDistribution(customers),
		MeanWait:              stats.NewDistribution(meanWait),
		MaxWait:               stats.NewDistribution(maxWait),
		MaxQueueLength:        stats.NewDistribution(maxQueue),
		TimeWeightedQueueMean: stats.NewDistribution(twq),
	}
}
