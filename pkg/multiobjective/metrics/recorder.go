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

// Package metrics exports optimizer progress as Prometheus metrics.
package metrics

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mihai-snyk/moea/pkg/multiobjective/algorithms"
)

const namespace = "moea"

// Recorder holds the optimizer collectors. Use ForProblem to obtain an
// observer that records into them.
type Recorder struct {
	generations        *prometheus.CounterVec
	frontCount         *prometheus.GaugeVec
	firstFrontSize     *prometheus.GaugeVec
	bestScore          *prometheus.GaugeVec
	objectiveMean      *prometheus.GaugeVec
	generationDuration *prometheus.HistogramVec
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Number of completed generations.",
		}, []string{"problem"}),
		frontCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fronts",
			Help:      "Number of non-dominated fronts in the last merged pool.",
		}, []string{"problem"}),
		firstFrontSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "first_front_size",
			Help:      "Size of the non-dominated front of the last merged pool.",
		}, []string{"problem"}),
		bestScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_weighted_score",
			Help:      "Lowest weighted sum of normalized objectives among the parents.",
		}, []string{"problem"}),
		objectiveMean: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "objective_mean",
			Help:      "Mean objective value over the parents.",
		}, []string{"problem", "objective"}),
		generationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Wall time of one generation.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"problem"}),
	}

	for _, c := range []prometheus.Collector{
		r.generations, r.frontCount, r.firstFrontSize, r.bestScore, r.objectiveMean, r.generationDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ForProblem returns an observer labelling every sample with problem.
func (r *Recorder) ForProblem(problem string) algorithms.Observer {
	return &problemObserver{recorder: r, problem: problem}
}

type problemObserver struct {
	recorder *Recorder
	problem  string
}

func (o *problemObserver) ObserveGeneration(_ context.Context, report algorithms.GenerationReport) {
	r := o.recorder
	r.generations.WithLabelValues(o.problem).Inc()
	r.frontCount.WithLabelValues(o.problem).Set(float64(report.FrontCount))
	r.firstFrontSize.WithLabelValues(o.problem).Set(float64(report.FirstFrontSize))
	r.bestScore.WithLabelValues(o.problem).Set(report.BestScore)
	for i, mean := range report.ObjectiveMeans {
		r.objectiveMean.WithLabelValues(o.problem, strconv.Itoa(i)).Set(mean)
	}
	r.generationDuration.WithLabelValues(o.problem).Observe(report.Elapsed.Seconds())
}
