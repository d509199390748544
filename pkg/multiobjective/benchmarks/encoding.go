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

package benchmarks

import (
	"golang.org/x/exp/rand"

	"github.com/mihai-snyk/moea/pkg/multiobjective/framework"
)

// BoundedBenchmark is a benchmark over real variables with fixed bounds.
type BoundedBenchmark interface {
	Benchmark
	Bounds() []framework.Bounds
}

// BinaryEncoded optimizes a real-valued benchmark over bit strings. Every
// variable is a fixed-width unsigned integer scaled into its bounds, and
// offspring come from one-point crossover and bit-flip mutation.
type BinaryEncoded struct {
	Benchmark
	codec *framework.BinaryCodec
}

var _ Benchmark = &BinaryEncoded{}

func NewBinaryEncoded(problem BoundedBenchmark, bitsPerVar int) *BinaryEncoded {
	return &BinaryEncoded{
		Benchmark: problem,
		codec:     framework.NewBinaryCodec(problem.Bounds(), bitsPerVar),
	}
}

func (p *BinaryEncoded) Decode(g framework.Genome) []float64 {
	return p.codec.Decode(g)
}

func (p *BinaryEncoded) RandomGenome(rng *rand.Rand) framework.Genome {
	return p.codec.RandomGenome(rng)
}

// NewVariator flips bits independently. A zero mutationRate flips one bit
// per genome on average.
func (p *BinaryEncoded) NewVariator(crossoverRate, mutationRate float64) framework.Variator {
	return framework.NewBinaryVariator(crossoverRate, perVariableRate(mutationRate, p.codec.Length()))
}
