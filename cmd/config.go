package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/checkout-sim/sim"
	"github.com/inference-sim/checkout-sim/sim/trace"
)

// Environment variables read by resolveConfig.
const (
	envCapacity           = "CHECKOUT_CAPACITY"
	envMaxServiceDuration = "CHECKOUT_MAX_SERVICE_DURATION"
	envMaxArrivalGap      = "CHECKOUT_MAX_ARRIVAL_GAP"
	envArrivalCutoff      = "CHECKOUT_ARRIVAL_CUTOFF"
	envSimulationHorizon  = "CHECKOUT_SIMULATION_HORIZON"
	envSeed               = "CHECKOUT_SEED"
	envMaxCustomers       = "CHECKOUT_MAX_CUSTOMERS"
)

// simOptions holds the flags shared by run and replicate.
type simOptions struct {
	configPath         string
	envFile            string
	seed               int64
	capacity           int
	maxServiceDuration int64
	maxArrivalGap      int64
	arrivalCutoff      int64
	simulationHorizon  int64
	maxCustomers       int
	traceLevel         string
}

// bind registers the simulation flags on c.
func (o *simOptions) bind(c *cobra.Command) {
	d := sim.DefaultConfig()
	c.Flags().StringVar(&o.configPath, "config", "", "YAML file with simulation parameters")
	c.Flags().StringVar(&o.envFile, "env-file", "", "dotenv file with CHECKOUT_* overrides")
	c.Flags().Int64Var(&o.seed, "seed", 0, "Seed for arrival and service sampling (wall clock when unset)")
	c.Flags().IntVar(&o.capacity, "capacity", d.Capacity, "Number of checkout counters")
	c.Flags().Int64Var(&o.maxServiceDuration, "max-service-duration", d.MaxServiceDuration, "Upper bound of a service duration (in seconds)")
	c.Flags().Int64Var(&o.maxArrivalGap, "max-arrival-gap", d.MaxArrivalGap, "Upper bound of the gap between arrivals (in seconds)")
	c.Flags().Int64Var(&o.arrivalCutoff, "arrival-cutoff", d.ArrivalCutoff, "Time after which no customer enters (in seconds)")
	c.Flags().Int64Var(&o.simulationHorizon, "horizon", d.SimulationHorizon, "Total simulation horizon (in seconds)")
	c.Flags().IntVar(&o.maxCustomers, "max-customers", 0, "Stop admitting after this many customers (0 = unlimited)")
	c.Flags().StringVar(&o.traceLevel, "trace-level", "none", "Lifecycle tracing: none or lifecycle")
}

// resolveConfig layers defaults, the YAML file, the environment and the
// flags the user actually set, in that order.
func (o *simOptions) resolveConfig(c *cobra.Command) (sim.Config, error) {
	cfg := sim.DefaultConfig()

	if o.configPath != "" {
		var err error
		if cfg, err = loadYAMLConfig(o.configPath, cfg); err != nil {
			return cfg, err
		}
	}

	lookup, err := envLookup(o.envFile)
	if err != nil {
		return cfg, err
	}
	if cfg, err = applyEnv(cfg, lookup); err != nil {
		return cfg, err
	}

	flags := c.Flags()
	if flags.Changed("seed") {
		cfg = cfg.WithSeed(o.seed)
	}
	if flags.Changed("capacity") {
		cfg.Capacity = o.capacity
	}
	if flags.Changed("max-service-duration") {
		cfg.MaxServiceDuration = o.maxServiceDuration
	}
	if flags.Changed("max-arrival-gap") {
		cfg.MaxArrivalGap = o.maxArrivalGap
	}
	if flags.Changed("arrival-cutoff") {
		cfg.ArrivalCutoff = o.arrivalCutoff
	}
	if flags.Changed("horizon") {
		cfg.SimulationHorizon = o.simulationHorizon
	}
	if flags.Changed("max-customers") {
		cfg.MaxCustomers = o.maxCustomers
	}
	if flags.Changed("trace-level") {
		cfg.TraceLevel = trace.TraceLevel(o.traceLevel)
	}
	return cfg, cfg.Validate()
}

// loadYAMLConfig decodes path over base. Unknown keys are rejected so that
// typos surface as errors.
func loadYAMLConfig(path string, base sim.Config) (sim.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("%w: reading %s: %v", sim.ErrConfiguration, path, err)
	}
	cfg := base
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return base, nil
		}
		return base, fmt.Errorf("%w: parsing %s: %v", sim.ErrConfiguration, path, err)
	}
	logrus.Debugf("Loaded config from %s", path)
	return cfg, nil
}

// envLookup returns a lookup that prefers the process environment and falls
// back to the dotenv file, if one is given.
func envLookup(envFile string) (func(string) (string, bool), error) {
	fileVars := map[string]string{}
	if envFile != "" {
		var err error
		if fileVars, err = godotenv.Read(envFile); err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", sim.ErrConfiguration, envFile, err)
		}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}, nil
}

// applyEnv overlays the CHECKOUT_* variables found by lookup onto cfg.
func applyEnv(cfg sim.Config, lookup func(string) (string, bool)) (sim.Config, error) {
	int64Vars := []struct {
		key string
		dst *int64
	}{
		{envMaxServiceDuration, &cfg.MaxServiceDuration},
		{envMaxArrivalGap, &cfg.MaxArrivalGap},
		{envArrivalCutoff, &cfg.ArrivalCutoff},
		{envSimulationHorizon, &cfg.SimulationHorizon},
	}
	for _, v := range int64Vars {
		if err := parseEnvInt(lookup, v.key, v.dst); err != nil {
			return cfg, err
		}
	}

	intVars := []struct {
		key string
		dst *int
	}{
		{envCapacity, &cfg.Capacity},
		{envMaxCustomers, &cfg.MaxCustomers},
	}
	for _, v := range intVars {
		n := int64(*v.dst)
		if err := parseEnvInt(lookup, v.key, &n); err != nil {
			return cfg, err
		}
		*v.dst = int(n)
	}

	if raw, ok := lookup(envSeed); ok && raw != "" {
		var seed int64
		if err := parseEnvInt(lookup, envSeed, &seed); err != nil {
			return cfg, err
		}
		cfg = cfg.WithSeed(seed)
	}
	return cfg, nil
}

func parseEnvInt(lookup func(string) (string, bool), key string, dst *int64) error {
	raw, ok := lookup(key)
	if !ok || raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not an integer", sim.ErrConfiguration, key, raw)
	}
	*dst = n
	logrus.Debugf("%s=%d from environment", key, n)
	return nil
}
