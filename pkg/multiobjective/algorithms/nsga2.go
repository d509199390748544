/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package algorithms

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/exp/rand"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/klog/v2"

	"github.com/mihai-snyk/moea/pkg/multiobjective/framework"
)

const (
	Name = "NSGA-II"

	tracerName = "github.com/mihai-snyk/moea/pkg/multiobjective/algorithms"

	// maxSeedPercent caps the share of the initial population taken from
	// seed genomes.
	maxSeedPercent = 70
)

// NSGA2Config holds configuration parameters for NSGA-II
type NSGA2Config struct {
	PopulationSize int
	MaxGenerations int
	// NumObjectives defaults to the problem's ObjectiveCount.
	NumObjectives int
	// CrossoverProbability and MutationProbability are handed to the
	// variator constructors.
	CrossoverProbability float64
	MutationProbability  float64
	TournamentSize       int
	// Seed for the run's random stream. Zero picks a time-derived seed,
	// which is logged and returned in the Result.
	Seed uint64
	// ParallelExecution evaluates candidates on Workers goroutines, or
	// runtime.NumCPU() when Workers is zero.
	ParallelExecution bool
	Workers           int
	// Weights used to pick the best candidate in generation reports.
	Weights []float64
}

// Default fills unset optional fields.
func (c *NSGA2Config) Default() {
	if c.TournamentSize == 0 {
		c.TournamentSize = DefaultTournamentSize
	}
	if c.ParallelExecution && c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Validate returns a *ConfigurationError listing every invalid field.
func (c *NSGA2Config) Validate() error {
	var errs field.ErrorList
	if c.PopulationSize < 4 {
		errs = append(errs, field.Invalid(field.NewPath("populationSize"), c.PopulationSize, "must be at least 4"))
	} else if c.PopulationSize%2 != 0 {
		errs = append(errs, field.Invalid(field.NewPath("populationSize"), c.PopulationSize, "must be even"))
	}
	if c.MaxGenerations < 1 {
		errs = append(errs, field.Invalid(field.NewPath("maxGenerations"), c.MaxGenerations, "must be at least 1"))
	}
	if c.NumObjectives < 2 {
		errs = append(errs, field.Invalid(field.NewPath("numObjectives"), c.NumObjectives, "must be at least 2"))
	}
	if c.CrossoverProbability < 0 || c.CrossoverProbability > 1 {
		errs = append(errs, field.Invalid(field.NewPath("crossoverProbability"), c.CrossoverProbability, "must be in [0, 1]"))
	}
	if c.MutationProbability < 0 || c.MutationProbability > 1 {
		errs = append(errs, field.Invalid(field.NewPath("mutationProbability"), c.MutationProbability, "must be in [0, 1]"))
	}
	if c.TournamentSize < 2 {
		errs = append(errs, field.Invalid(field.NewPath("tournamentSize"), c.TournamentSize, "must be at least 2"))
	}
	if c.Workers < 0 {
		errs = append(errs, field.Invalid(field.NewPath("workers"), c.Workers, "must not be negative"))
	}
	if len(c.Weights) != 0 {
		weightsPath := field.NewPath("weights")
		if len(c.Weights) != c.NumObjectives {
			errs = append(errs, field.Invalid(weightsPath, c.Weights, fmt.Sprintf("must have %d entries", c.NumObjectives)))
		}
		for i, w := range c.Weights {
			if w < 0 {
				errs = append(errs, field.Invalid(weightsPath.Index(i), w, "must not be negative"))
			}
		}
	}
	if len(errs) > 0 {
		return &ConfigurationError{Errs: errs}
	}
	return nil
}

// Option customizes an NSGAII instance.
type Option func(*NSGAII)

// WithObservers registers observers notified after every generation.
func WithObservers(observers ...Observer) Option {
	return func(n *NSGAII) {
		n.observers = append(n.observers, observers...)
	}
}

// WithTerminator sets a predicate that can end the run early.
func WithTerminator(t Terminator) Option {
	return func(n *NSGAII) {
		n.terminator = t
	}
}

// WithSeeds provides genomes placed in the initial population before the
// random ones, up to 70% of the population.
func WithSeeds(seeds ...framework.Genome) Option {
	return func(n *NSGAII) {
		n.seeds = append(n.seeds, seeds...)
	}
}

// WithTracerProvider overrides the global OpenTelemetry tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(n *NSGAII) {
		n.tracer = tp.Tracer(tracerName)
	}
}

// NSGAII runs the elitist non-dominated sorting genetic algorithm.
// An instance must not be used by concurrent Run calls.
type NSGAII struct {
	config   NSGA2Config
	problem  framework.Problem
	variator framework.Variator

	observers  []Observer
	terminator Terminator
	seeds      []framework.Genome
	tracer     trace.Tracer

	sorter Sorter
}

var _ framework.Algorithm = &NSGAII{}

// NewNSGAII creates a new instance of NSGA-II with given parameters. The
// configuration is defaulted and validated; on failure the returned error
// wraps ErrInvalidConfiguration.
func NewNSGAII(config NSGA2Config, problem framework.Problem, variator framework.Variator, opts ...Option) (*NSGAII, error) {
	if config.NumObjectives == 0 {
		config.NumObjectives = problem.ObjectiveCount()
	}
	config.Default()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.NumObjectives != problem.ObjectiveCount() {
		return nil, &ConfigurationError{Errs: field.ErrorList{
			field.Invalid(field.NewPath("numObjectives"), config.NumObjectives,
				fmt.Sprintf("problem %s has %d objectives", problem.Name(), problem.ObjectiveCount())),
		}}
	}

	n := &NSGAII{
		config:   config,
		problem:  problem,
		variator: variator,
		tracer:   otel.GetTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

func (n *NSGAII) Name() string {
	return Name
}

// Config returns the defaulted configuration.
func (n *NSGAII) Config() NSGA2Config {
	return n.config
}

// Result is the outcome of a run.
type Result struct {
	// Population is the final parent population of size PopulationSize.
	Population Population
	// ParetoFront is front 0 of the last ranked pool.
	ParetoFront Front
	// Reports holds one entry per completed generation.
	Reports []GenerationReport
	// Generations is the number of completed generations.
	Generations int
	Seed        uint64
	Elapsed     time.Duration
}

// Run executes the NSGA-II algorithm. When ctx is cancelled between
// generations the partial result is returned together with ctx.Err().
func (n *NSGAII) Run(ctx context.Context) (*Result, error) {
	startTime := time.Now()
	logger := klog.FromContext(ctx).WithValues("algorithm", Name, "problem", n.problem.Name())
	ctx = klog.NewContext(ctx, logger)

	seed := n.config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(seed))

	ctx, span := n.tracer.Start(ctx, "nsga2.Run", trace.WithAttributes(
		attribute.String("problem", n.problem.Name()),
		attribute.Int("populationSize", n.config.PopulationSize),
		attribute.Int("maxGenerations", n.config.MaxGenerations),
		attribute.Int64("seed", int64(seed)),
	))
	defer span.End()

	logger.Info("Starting evolution",
		"populationSize", n.config.PopulationSize,
		"generations", n.config.MaxGenerations,
		"crossoverRate", n.config.CrossoverProbability,
		"mutationRate", n.config.MutationProbability,
		"tournamentSize", n.config.TournamentSize,
		"workers", n.workers(),
		"seed", seed,
	)

	result := &Result{Seed: seed}
	fail := func(err error) (*Result, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	population, err := n.initialize(ctx, rng)
	if err != nil {
		return fail(fmt.Errorf("initializing population: %w", err))
	}
	fronts := n.Rank(population)
	logger.V(2).Info("Initial population ranked", "fronts", len(fronts), "firstFrontSize", len(fronts[0]))

	interrupted := func(err error) (*Result, error) {
		logger.Info("Evolution interrupted", "completedGenerations", result.Generations, "err", err)
		n.finish(result, population, fronts, startTime)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	for gen := 1; gen <= n.config.MaxGenerations; gen++ {
		if err := ctx.Err(); err != nil {
			return interrupted(err)
		}

		next, nextFronts, report, err := n.step(ctx, gen, population, rng)
		if err != nil {
			// a cancel inside the generation leaves the last completed parents intact
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return interrupted(fmt.Errorf("generation %d: %w", gen, err))
			}
			return fail(fmt.Errorf("generation %d: %w", gen, err))
		}
		population, fronts = next, nextFronts
		result.Generations = gen
		result.Reports = append(result.Reports, report)
		for _, o := range n.observers {
			o.ObserveGeneration(ctx, report)
		}

		if n.terminator != nil && n.terminator(report) {
			logger.Info("Termination condition met", "generation", gen)
			break
		}
	}

	n.finish(result, population, fronts, startTime)
	logger.Info("Evolution complete",
		"generations", result.Generations,
		"paretoFrontSize", len(result.ParetoFront),
		"uniqueObjectiveVectors", countUnique(population),
		"elapsed", result.Elapsed,
	)
	span.SetAttributes(attribute.Int("generations", result.Generations))
	return result, nil
}

// step runs one generation: select, vary, evaluate, merge, rank, truncate.
func (n *NSGAII) step(ctx context.Context, gen int, parents Population, rng *rand.Rand) (Population, []Front, GenerationReport, error) {
	genStart := time.Now()
	ctx, span := n.tracer.Start(ctx, "nsga2.Generation", trace.WithAttributes(attribute.Int("generation", gen)))
	defer span.End()

	matingPool := SelectMatingPool(parents, n.config.PopulationSize, n.config.TournamentSize, rng)
	offspringGenomes := n.Vary(matingPool, rng)
	offspring, err := Evaluate(ctx, n.problem, offspringGenomes, n.config.NumObjectives, n.workers())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, GenerationReport{}, err
	}

	combined := Merge(parents, offspring)
	fronts := n.Rank(combined)
	next, err := Truncate(fronts, n.config.PopulationSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, GenerationReport{}, err
	}

	report := newGenerationReport(gen, fronts, next, n.config.Weights, time.Since(genStart))
	span.SetAttributes(
		attribute.Int("fronts", report.FrontCount),
		attribute.Int("firstFrontSize", report.FirstFrontSize),
		attribute.Int("populationSize", report.PopulationSize),
	)
	return next, fronts, report, nil
}

func (n *NSGAII) initialize(ctx context.Context, rng *rand.Rand) (Population, error) {
	size := n.config.PopulationSize
	genomes := make([]framework.Genome, 0, size)

	maxSeeds := size * maxSeedPercent / 100
	for _, s := range n.seeds {
		if len(genomes) >= maxSeeds {
			break
		}
		genomes = append(genomes, s.Clone())
	}
	seeded := len(genomes)
	for len(genomes) < size {
		genomes = append(genomes, n.problem.RandomGenome(rng))
	}
	klog.FromContext(ctx).V(2).Info("Initial population created", "seeded", seeded, "random", size-seeded)

	return Evaluate(ctx, n.problem, genomes, n.config.NumObjectives, n.workers())
}

// Rank sorts pool into fronts and assigns the crowding distance of every
// front.
func (n *NSGAII) Rank(pool Population) []Front {
	fronts := n.sorter.Sort(pool)
	for _, front := range fronts {
		CrowdingDistance(front)
	}
	return fronts
}

// Vary turns consecutive pairs of the mating pool into two children each.
// All variation draws from rng sequentially.
func (n *NSGAII) Vary(matingPool Population, rng *rand.Rand) []framework.Genome {
	offspring := make([]framework.Genome, 0, len(matingPool))
	for i := 0; i+1 < len(matingPool); i += 2 {
		a, b := matingPool[i].Genome, matingPool[i+1].Genome
		child1 := n.variator.Mutate(n.variator.Crossover(a, b, rng), rng)
		child2 := n.variator.Mutate(n.variator.Crossover(b, a, rng), rng)
		offspring = append(offspring, child1, child2)
	}
	return offspring
}

func (n *NSGAII) workers() int {
	if !n.config.ParallelExecution {
		return 1
	}
	return n.config.Workers
}

func (n *NSGAII) finish(result *Result, population Population, fronts []Front, startTime time.Time) {
	result.Population = population
	if len(fronts) > 0 {
		result.ParetoFront = append(Front(nil), fronts[0]...)
	}
	result.Elapsed = time.Since(startTime)
}

// Rank sorts pool into fronts with a fresh Sorter and assigns crowding
// distances.
func Rank(pool Population) []Front {
	fronts := NonDominatedSort(pool)
	for _, front := range fronts {
		CrowdingDistance(front)
	}
	return fronts
}

// Truncate keeps the best n candidates of a ranked pool: whole fronts while
// they fit, then the overflowing front ordered by the crowded comparison.
func Truncate(fronts []Front, n int) (Population, error) {
	next := make(Population, 0, n)
	for _, front := range fronts {
		if len(next)+len(front) <= n {
			next = append(next, front...)
			if len(next) == n {
				break
			}
			continue
		}

		sorted := append(Front(nil), front...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return CrowdedCompare(sorted[i], sorted[j]) < 0
		})
		next = append(next, sorted[:n-len(next)]...)
		break
	}

	if len(next) != n {
		return nil, fmt.Errorf("%w: ranked fronts filled %d of %d slots", ErrInvariantViolated, len(next), n)
	}
	return next, nil
}

func countUnique(population Population) int {
	unique := make(map[string]struct{}, len(population))
	for _, c := range population {
		unique[objectiveKey(c.Objectives)] = struct{}{}
	}
	return len(unique)
}
