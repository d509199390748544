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
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
	"k8s.io/klog/v2"
)

// GenerationReport summarizes one completed generation.
type GenerationReport struct {
	// Generation is 1-based.
	Generation int
	// PopulationSize is the number of surviving parents.
	PopulationSize int
	// FrontCount and FirstFrontSize describe the ranked merged pool.
	FrontCount     int
	FirstFrontSize int
	// Best is the surviving parent with the lowest weighted sum of
	// normalized objectives, and BestScore that sum.
	Best      *Candidate
	BestScore float64
	// ObjectiveMeans holds the mean of every objective over the parents.
	ObjectiveMeans []float64
	Elapsed        time.Duration
}

// Observer receives a report after every generation. Observers run on the
// optimizer goroutine and must not retain the candidates beyond the call.
type Observer interface {
	ObserveGeneration(ctx context.Context, report GenerationReport)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(ctx context.Context, report GenerationReport)

func (f ObserverFunc) ObserveGeneration(ctx context.Context, report GenerationReport) {
	f(ctx, report)
}

// Terminator is consulted after every generation; returning true ends the
// run early with the current parents.
type Terminator func(report GenerationReport) bool

// StagnationTerminator stops the run once the best weighted score has not
// improved by more than tolerance for patience consecutive generations.
func StagnationTerminator(patience int, tolerance float64) Terminator {
	bestScore := math.Inf(1)
	stale := 0
	return func(report GenerationReport) bool {
		if report.BestScore < bestScore-tolerance {
			bestScore = report.BestScore
			stale = 0
			return false
		}
		stale++
		return stale >= patience
	}
}

type loggingObserver struct {
	totalGenerations int
}

// LoggingObserver logs generation progress through the klog logger found in
// the context: the first five generations and every tenth one at V(2),
// the rest at V(4).
func LoggingObserver(totalGenerations int) Observer {
	return &loggingObserver{totalGenerations: totalGenerations}
}

func (o *loggingObserver) ObserveGeneration(ctx context.Context, report GenerationReport) {
	logger := klog.FromContext(ctx)
	level := 4
	if report.Generation%10 == 0 || report.Generation <= 5 {
		level = 2
	}
	keysAndValues := []interface{}{
		"generation", report.Generation,
		"totalGenerations", o.totalGenerations,
		"populationSize", report.PopulationSize,
		"fronts", report.FrontCount,
		"firstFrontSize", report.FirstFrontSize,
		"objectiveMeans", report.ObjectiveMeans,
		"elapsed", report.Elapsed,
	}
	if report.Best != nil {
		keysAndValues = append(keysAndValues, "bestObjectives", report.Best.Objectives, "bestScore", report.BestScore)
	}
	logger.V(level).Info("Generation complete", keysAndValues...)
}

// BestByWeightedSum normalizes every objective to [0,1] over the given
// candidates and returns the one with the lowest weighted sum. Nil weights
// weigh all objectives equally. Ties keep the earliest candidate.
func BestByWeightedSum(candidates []*Candidate, weights []float64) (*Candidate, float64) {
	if len(candidates) == 0 {
		return nil, math.Inf(1)
	}
	m := len(candidates[0].Objectives)
	if len(weights) == 0 {
		weights = make([]float64, m)
		for i := range weights {
			weights[i] = 1.0 / float64(m)
		}
	}

	normalizer := NewNormalizerFor(candidates)
	var best *Candidate
	bestScore := math.Inf(1)
	for _, c := range candidates {
		score := 0.0
		for i, v := range normalizer.Normalize(c.Objectives) {
			score += weights[i] * v
		}
		if best == nil || score < bestScore {
			best = c
			bestScore = score
		}
	}
	return best, bestScore
}

// ObjectiveMeans returns the mean of every objective over the candidates.
func ObjectiveMeans(candidates []*Candidate) []float64 {
	if len(candidates) == 0 {
		return nil
	}
	m := len(candidates[0].Objectives)
	means := make([]float64, m)
	column := make([]float64, len(candidates))
	for i := 0; i < m; i++ {
		for j, c := range candidates {
			column[j] = c.Objectives[i]
		}
		means[i] = stat.Mean(column, nil)
	}
	return means
}

func newGenerationReport(generation int, fronts []Front, parents Population, weights []float64, elapsed time.Duration) GenerationReport {
	report := GenerationReport{
		Generation:     generation,
		PopulationSize: len(parents),
		FrontCount:     len(fronts),
		ObjectiveMeans: ObjectiveMeans(parents),
		Elapsed:        elapsed,
	}
	if len(fronts) > 0 {
		report.FirstFrontSize = len(fronts[0])
	}
	report.Best, report.BestScore = BestByWeightedSum(parents, weights)
	return report
}
