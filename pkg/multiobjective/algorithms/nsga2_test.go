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

package algorithms_test

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/goleak"
	"golang.org/x/exp/rand"
	"k8s.io/klog/v2/ktesting"

	"github.com/mihai-snyk/moea/pkg/multiobjective/algorithms"
	"github.com/mihai-snyk/moea/pkg/multiobjective/benchmarks"
	"github.com/mihai-snyk/moea/pkg/multiobjective/framework"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func defaultConfig() algorithms.NSGA2Config {
	return algorithms.NSGA2Config{
		PopulationSize:       20,
		MaxGenerations:       10,
		CrossoverProbability: 0.9,
		MutationProbability:  0.2,
		Seed:                 7,
	}
}

func newNSGAII(t *testing.T, config algorithms.NSGA2Config, problem framework.Problem, opts ...algorithms.Option) *algorithms.NSGAII {
	t.Helper()
	variator := framework.NewRealVariator(config.CrossoverProbability, config.MutationProbability)
	nsga, err := algorithms.NewNSGAII(config, problem, variator, opts...)
	if err != nil {
		t.Fatalf("NewNSGAII() error = %v", err)
	}
	return nsga
}

// Test problem: ZDT1 benchmark function
func TestNSGAIIWithZDT1(t *testing.T) {
	numVars := 30
	zdt1 := benchmarks.NewZDT1(numVars)

	config := algorithms.NSGA2Config{
		PopulationSize:       100,
		MaxGenerations:       50,
		CrossoverProbability: 0.9,
		MutationProbability:  1.0 / float64(numVars),
		TournamentSize:       2,
		Seed:                 1,
	}
	_, ctx := ktesting.NewTestContext(t)
	nsga := newNSGAII(t, config, zdt1, algorithms.WithObservers(algorithms.LoggingObserver(config.MaxGenerations)))

	result, err := nsga.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Population) != config.PopulationSize {
		t.Errorf("Expected population size %d, got %d", config.PopulationSize, len(result.Population))
	}
	if len(result.Reports) != config.MaxGenerations {
		t.Errorf("Expected %d reports, got %d", config.MaxGenerations, len(result.Reports))
	}

	firstFront := result.ParetoFront
	if len(firstFront) == 0 {
		t.Fatal("No fronts found in final population")
	}
	// Check if first front is non-dominated
	for i := 0; i < len(firstFront); i++ {
		for j := 0; j < len(firstFront); j++ {
			if i != j && algorithms.Dominates(firstFront[i], firstFront[j]) {
				t.Error("First front contains dominated solutions")
			}
		}
	}
	for _, c := range result.Population {
		for _, v := range c.Decoded {
			if v < 0 || v > 1 {
				t.Fatalf("decoded value %v outside bounds", v)
			}
		}
	}
}

// seedWithOptimalStart returns a seed whose initial SCH population holds a
// point in [0, 2]. The initial population is the first thing drawn from the
// run's stream, one Float64 per single-variable genome.
func seedWithOptimalStart(t *testing.T, popSize int) uint64 {
	t.Helper()
	for seed := uint64(1); seed < 1000; seed++ {
		rng := rand.New(rand.NewSource(seed))
		for i := 0; i < popSize; i++ {
			if v := -10 + rng.Float64()*20; v >= 0 && v <= 2 {
				return seed
			}
		}
	}
	t.Fatal("no suitable seed")
	return 0
}

func TestSchafferSingleGeneration(t *testing.T) {
	config := defaultConfig()
	config.MaxGenerations = 1
	config.Seed = seedWithOptimalStart(t, config.PopulationSize)

	result, err := newNSGAII(t, config, benchmarks.NewSCH(1)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, c := range result.Population {
		if v := c.Decoded[0]; v < -10 || v > 10 {
			t.Errorf("decoded value %v escaped [-10, 10]", v)
		}
	}
	found := false
	for _, c := range result.ParetoFront {
		if v := c.Decoded[0]; v >= 0 && v <= 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("front 0 has no candidate in [0, 2]: %v", algorithms.ObjectivePoints(result.ParetoFront))
	}
}

func pool(points ...[]float64) algorithms.Population {
	converted := make([]framework.ObjectiveSpacePoint, len(points))
	for i, p := range points {
		converted[i] = p
	}
	return algorithms.FromPoints(converted)
}

func TestTruncate(t *testing.T) {
	t.Run("front 0 fills the population", func(t *testing.T) {
		merged := pool(
			[]float64{1, 4}, []float64{5, 5}, []float64{2, 3}, []float64{6, 6},
			[]float64{3, 2}, []float64{7, 7}, []float64{4, 1}, []float64{8, 8},
		)
		fronts := algorithms.Rank(merged)
		next, err := algorithms.Truncate(fronts, 4)
		if err != nil {
			t.Fatalf("Truncate() error = %v", err)
		}
		want := []framework.ObjectiveSpacePoint{{1, 4}, {2, 3}, {3, 2}, {4, 1}}
		if diff := cmp.Diff(want, algorithms.ObjectivePoints(next)); diff != "" {
			t.Errorf("unexpected survivors (-want +got):\n%s", diff)
		}
		for _, c := range next {
			if c.Rank != 0 {
				t.Errorf("worse-front member %v admitted", c.Objectives)
			}
		}
	})

	t.Run("overflowing front keeps the least crowded", func(t *testing.T) {
		merged := pool(
			[]float64{0, 0},
			[]float64{1, 10}, []float64{2, 9}, []float64{2.1, 8.9}, []float64{10, 1},
		)
		fronts := algorithms.Rank(merged)
		next, err := algorithms.Truncate(fronts, 3)
		if err != nil {
			t.Fatalf("Truncate() error = %v", err)
		}
		want := []framework.ObjectiveSpacePoint{{0, 0}, {1, 10}, {10, 1}}
		if diff := cmp.Diff(want, algorithms.ObjectivePoints(next)); diff != "" {
			t.Errorf("unexpected survivors (-want +got):\n%s", diff)
		}
	})

	t.Run("not enough candidates", func(t *testing.T) {
		fronts := algorithms.Rank(pool([]float64{1, 2}, []float64{2, 1}))
		_, err := algorithms.Truncate(fronts, 4)
		if !errors.Is(err, algorithms.ErrInvariantViolated) {
			t.Errorf("expected ErrInvariantViolated, got %v", err)
		}
	})
}

func TestNewNSGAIIRejectsConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*algorithms.NSGA2Config)
		fields int
	}{
		{name: "population too small", modify: func(c *algorithms.NSGA2Config) { c.PopulationSize = 2 }, fields: 1},
		{name: "odd population", modify: func(c *algorithms.NSGA2Config) { c.PopulationSize = 21 }, fields: 1},
		{name: "no generations", modify: func(c *algorithms.NSGA2Config) { c.MaxGenerations = 0 }, fields: 1},
		{name: "tournament of one", modify: func(c *algorithms.NSGA2Config) { c.TournamentSize = 1 }, fields: 1},
		{name: "probability above one", modify: func(c *algorithms.NSGA2Config) { c.CrossoverProbability = 1.5 }, fields: 1},
		{name: "negative workers", modify: func(c *algorithms.NSGA2Config) { c.Workers = -1 }, fields: 1},
		{name: "weights of wrong length", modify: func(c *algorithms.NSGA2Config) { c.Weights = []float64{1} }, fields: 1},
		{name: "single objective", modify: func(c *algorithms.NSGA2Config) { c.NumObjectives = 1 }, fields: 1},
		{name: "objective count mismatch", modify: func(c *algorithms.NSGA2Config) { c.NumObjectives = 3 }, fields: 1},
		{
			name: "several fields",
			modify: func(c *algorithms.NSGA2Config) {
				c.PopulationSize = 3
				c.MaxGenerations = -1
				c.MutationProbability = -0.1
			},
			fields: 3,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config := defaultConfig()
			tc.modify(&config)
			_, err := algorithms.NewNSGAII(config, benchmarks.NewSCH(1), framework.NewRealVariator(0.9, 0.1))
			if !errors.Is(err, algorithms.ErrInvalidConfiguration) {
				t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
			}
			var cfgErr *algorithms.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigurationError, got %T", err)
			}
			if len(cfgErr.Errs) != tc.fields {
				t.Errorf("expected %d invalid fields, got %v", tc.fields, cfgErr.Errs)
			}
		})
	}
}

func TestNewNSGAIIDefaults(t *testing.T) {
	config := defaultConfig()
	config.ParallelExecution = true
	nsga := newNSGAII(t, config, benchmarks.NewSCH(1))

	got := nsga.Config()
	if got.TournamentSize != algorithms.DefaultTournamentSize {
		t.Errorf("TournamentSize = %d, want %d", got.TournamentSize, algorithms.DefaultTournamentSize)
	}
	if got.NumObjectives != 2 {
		t.Errorf("NumObjectives = %d, want 2", got.NumObjectives)
	}
	if got.Workers < 1 {
		t.Errorf("Workers = %d, want a positive default", got.Workers)
	}
}

// faultyProblem corrupts the objectives of the n-th evaluation.
type faultyProblem struct {
	*benchmarks.SCH
	failAt int64
	calls  atomic.Int64
	result framework.ObjectiveSpacePoint
}

func (p *faultyProblem) Objectives(decoded []float64) framework.ObjectiveSpacePoint {
	if p.calls.Add(1) == p.failAt {
		return p.result
	}
	return p.SCH.Objectives(decoded)
}

func TestRunEvaluationErrors(t *testing.T) {
	tests := []struct {
		name   string
		failAt int64
		result framework.ObjectiveSpacePoint
		reason string
	}{
		{name: "NaN in initial population", failAt: 3, result: framework.ObjectiveSpacePoint{1, math.NaN()}},
		{name: "NaN in offspring", failAt: 30, result: framework.ObjectiveSpacePoint{math.NaN(), 1}},
		{name: "wrong dimension", failAt: 5, result: framework.ObjectiveSpacePoint{1, 2, 3}},
	}
	for _, tc := range tests {
		for _, parallel := range []bool{false, true} {
			t.Run(tc.name, func(t *testing.T) {
				config := defaultConfig()
				config.ParallelExecution = parallel
				config.Workers = 4
				problem := &faultyProblem{SCH: benchmarks.NewSCH(1), failAt: tc.failAt, result: tc.result}

				result, err := newNSGAII(t, config, problem).Run(context.Background())
				if !errors.Is(err, algorithms.ErrEvaluation) {
					t.Fatalf("expected ErrEvaluation, got %v", err)
				}
				var evalErr *algorithms.EvaluationError
				if !errors.As(err, &evalErr) {
					t.Fatalf("expected *EvaluationError, got %T", err)
				}
				if result != nil {
					t.Errorf("expected no result on evaluation failure")
				}
			})
		}
	}
}

func TestRunIsReproducible(t *testing.T) {
	run := func(parallel bool, workers int) []framework.ObjectiveSpacePoint {
		config := defaultConfig()
		config.ParallelExecution = parallel
		config.Workers = workers
		result, err := newNSGAII(t, config, benchmarks.NewZDT1(5)).Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		return algorithms.ObjectivePoints(result.Population)
	}

	sequential := run(false, 0)
	if diff := cmp.Diff(sequential, run(false, 0)); diff != "" {
		t.Errorf("same seed produced different populations (-first +second):\n%s", diff)
	}
	for _, workers := range []int{2, 8} {
		if diff := cmp.Diff(sequential, run(true, workers)); diff != "" {
			t.Errorf("%d workers changed the result (-sequential +parallel):\n%s", workers, diff)
		}
	}
}

func TestRunZeroSeedIsReported(t *testing.T) {
	config := defaultConfig()
	config.Seed = 0
	config.MaxGenerations = 1
	result, err := newNSGAII(t, config, benchmarks.NewSCH(1)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Seed == 0 {
		t.Errorf("expected the derived seed in the result")
	}
}

func TestRunStopsEarly(t *testing.T) {
	t.Run("context cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		observer := algorithms.ObserverFunc(func(_ context.Context, report algorithms.GenerationReport) {
			if report.Generation == 3 {
				cancel()
			}
		})

		config := defaultConfig()
		result, err := newNSGAII(t, config, benchmarks.NewSCH(1), algorithms.WithObservers(observer)).Run(ctx)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if result == nil || result.Generations != 3 {
			t.Fatalf("expected a partial result after 3 generations, got %+v", result)
		}
		if len(result.Population) != config.PopulationSize {
			t.Errorf("partial population has %d members", len(result.Population))
		}
	})

	for _, parallel := range []bool{false, true} {
		t.Run("context cancelled during evaluation", func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			config := defaultConfig()
			config.ParallelExecution = parallel
			config.Workers = 4
			// the initial population and two generations take 3N evaluations
			problem := &cancellingProblem{SCH: benchmarks.NewSCH(1), cancelAt: int64(3*config.PopulationSize + 5), cancel: cancel}

			result, err := newNSGAII(t, config, problem).Run(ctx)
			if !errors.Is(err, context.Canceled) {
				t.Fatalf("expected context.Canceled, got %v", err)
			}
			if result == nil {
				t.Fatal("expected the parents of the last completed generation")
			}
			if result.Generations != 2 || len(result.Reports) != 2 {
				t.Errorf("expected 2 completed generations, got %d", result.Generations)
			}
			if len(result.Population) != config.PopulationSize {
				t.Errorf("partial population has %d members", len(result.Population))
			}
			if len(result.ParetoFront) == 0 {
				t.Errorf("expected a non-empty front")
			}
			for _, c := range result.Population {
				if len(c.Objectives) != 2 {
					t.Fatalf("candidate %v was never evaluated", c.Decoded)
				}
			}
		})
	}

	t.Run("terminator", func(t *testing.T) {
		terminator := func(report algorithms.GenerationReport) bool {
			return report.Generation == 2
		}
		result, err := newNSGAII(t, defaultConfig(), benchmarks.NewSCH(1), algorithms.WithTerminator(terminator)).Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if result.Generations != 2 || len(result.Reports) != 2 {
			t.Errorf("expected 2 generations, got %d", result.Generations)
		}
	})

	t.Run("stagnation", func(t *testing.T) {
		config := defaultConfig()
		config.MaxGenerations = 200
		result, err := newNSGAII(t, config, benchmarks.NewSCH(1),
			algorithms.WithTerminator(algorithms.StagnationTerminator(3, 1e9))).Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		// the first generation sets the baseline, no later one can beat it by 1e9
		if result.Generations != 4 {
			t.Errorf("expected the run to stop after 3 stale generations, got %d", result.Generations)
		}
	})
}

// cancellingProblem cancels the run on the n-th evaluation.
type cancellingProblem struct {
	*benchmarks.SCH
	cancelAt int64
	calls    atomic.Int64
	cancel   context.CancelFunc
}

func (p *cancellingProblem) Objectives(decoded []float64) framework.ObjectiveSpacePoint {
	if p.calls.Add(1) == p.cancelAt {
		p.cancel()
	}
	return p.SCH.Objectives(decoded)
}

// countingProblem counts random genomes drawn for the initial population.
type countingProblem struct {
	*benchmarks.SCH
	random int
}

func (p *countingProblem) RandomGenome(rng *rand.Rand) framework.Genome {
	p.random++
	return p.SCH.RandomGenome(rng)
}

func TestRunWithSeeds(t *testing.T) {
	problem := &countingProblem{SCH: benchmarks.NewSCH(1)}
	seeds := make([]framework.Genome, 30)
	for i := range seeds {
		seeds[i] = framework.NewRealSolution([]float64{1}, problem.Bounds())
	}

	config := defaultConfig()
	config.MaxGenerations = 1
	result, err := newNSGAII(t, config, problem, algorithms.WithSeeds(seeds...)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// 70% of 20
	if problem.random != 6 {
		t.Errorf("expected 6 random genomes, got %d", problem.random)
	}
	if seeds[0].(*framework.RealSolution).Variables[0] != 1 {
		t.Errorf("seed genome was modified")
	}
	if len(result.Population) != config.PopulationSize {
		t.Errorf("population has %d members", len(result.Population))
	}
}

func TestRunReports(t *testing.T) {
	var reports []algorithms.GenerationReport
	observer := algorithms.ObserverFunc(func(_ context.Context, report algorithms.GenerationReport) {
		reports = append(reports, report)
	})

	config := defaultConfig()
	config.Weights = []float64{1, 0}
	result, err := newNSGAII(t, config, benchmarks.NewSCH(1), algorithms.WithObservers(observer)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if diff := cmp.Diff(result.Reports, reports, cmp.Comparer(func(a, b *algorithms.Candidate) bool { return a == b })); diff != "" {
		t.Errorf("observer and result disagree (-result +observer):\n%s", diff)
	}
	for i, r := range reports {
		if r.Generation != i+1 {
			t.Errorf("report %d has generation %d", i, r.Generation)
		}
		if r.PopulationSize != config.PopulationSize {
			t.Errorf("generation %d ended with %d parents, want %d", r.Generation, r.PopulationSize, config.PopulationSize)
		}
		if r.FrontCount < 1 || r.FirstFrontSize < 1 || r.FirstFrontSize > 2*config.PopulationSize {
			t.Errorf("report %d has implausible fronts: %+v", i, r)
		}
		if r.Best == nil || len(r.ObjectiveMeans) != 2 {
			t.Fatalf("report %d incomplete: %+v", i, r)
		}
	}
	// with all weight on f1 the best candidate has the smallest f1
	last := reports[len(reports)-1]
	for _, c := range result.Population {
		if c.Objectives[0] < last.Best.Objectives[0] {
			t.Errorf("candidate %v beats reported best %v on f1", c.Objectives, last.Best.Objectives)
		}
	}
}

func TestRunEmitsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))
	defer func() {
		_ = provider.Shutdown(context.Background())
	}()

	config := defaultConfig()
	config.MaxGenerations = 3
	_, err := newNSGAII(t, config, benchmarks.NewSCH(1), algorithms.WithTracerProvider(provider)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	names := map[string]int{}
	for _, span := range recorder.Ended() {
		names[span.Name()]++
	}
	if diff := cmp.Diff(map[string]int{"nsga2.Run": 1, "nsga2.Generation": 3}, names); diff != "" {
		t.Errorf("unexpected spans (-want +got):\n%s", diff)
	}
}

func TestPhases(t *testing.T) {
	config := defaultConfig()
	nsga := newNSGAII(t, config, benchmarks.NewSCH(2))
	rng := rand.New(rand.NewSource(1))

	genomes := make([]framework.Genome, config.PopulationSize)
	problem := benchmarks.NewSCH(2)
	for i := range genomes {
		genomes[i] = problem.RandomGenome(rng)
	}
	parents, err := algorithms.Evaluate(context.Background(), problem, genomes, 2, 1)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	fronts := nsga.Rank(parents)
	total := 0
	for _, f := range fronts {
		total += len(f)
	}
	if total != len(parents) {
		t.Fatalf("fronts hold %d of %d candidates", total, len(parents))
	}

	matingPool := algorithms.SelectMatingPool(parents, config.PopulationSize, 2, rng)
	offspring := nsga.Vary(matingPool, rng)
	if len(offspring) != config.PopulationSize {
		t.Fatalf("Vary() produced %d genomes, want %d", len(offspring), config.PopulationSize)
	}
	for i, c := range matingPool {
		if c.Genome == offspring[i] {
			t.Errorf("offspring %d aliases its parent", i)
		}
	}

	children, err := algorithms.Evaluate(context.Background(), problem, offspring, 2, 4)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	merged := algorithms.Merge(parents, children)
	if len(merged) != 2*config.PopulationSize || len(parents) != config.PopulationSize {
		t.Fatalf("Merge() changed sizes: merged %d parents %d", len(merged), len(parents))
	}
	next, err := algorithms.Truncate(nsga.Rank(merged), config.PopulationSize)
	if err != nil {
		t.Fatalf("Truncate() error = %v", err)
	}
	if len(next) != config.PopulationSize {
		t.Errorf("Truncate() kept %d, want %d", len(next), config.PopulationSize)
	}
}
