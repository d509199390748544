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

package framework

import (
	"math"

	"golang.org/x/exp/rand"
)

// BinarySolution uses a binary encoding scheme, where each bit
// or group of bits can have a meaning in the context of the problem.
type BinarySolution struct {
	Bits []bool
}

func NewBinarySolution(bits []bool) *BinarySolution {
	return &BinarySolution{
		Bits: bits,
	}
}

func (sol *BinarySolution) Clone() Genome {
	newBits := make([]bool, len(sol.Bits))
	copy(newBits, sol.Bits)
	return &BinarySolution{
		Bits: newBits,
	}
}

// BinaryCodec maps fixed-width groups of bits onto real variables. Group i
// encodes variable i as an unsigned integer scaled linearly into Bounds[i],
// so every decoded value lies inside its bounds.
type BinaryCodec struct {
	Bounds     []Bounds
	BitsPerVar int
}

func NewBinaryCodec(b []Bounds, bitsPerVar int) *BinaryCodec {
	return &BinaryCodec{
		Bounds:     b,
		BitsPerVar: bitsPerVar,
	}
}

// Length is the number of bits in a genome for this codec.
func (c *BinaryCodec) Length() int {
	return len(c.Bounds) * c.BitsPerVar
}

// RandomGenome draws every bit with probability 0.5.
func (c *BinaryCodec) RandomGenome(rng *rand.Rand) Genome {
	bits := make([]bool, c.Length())
	for i := range bits {
		bits[i] = rng.Intn(2) == 1
	}
	return NewBinarySolution(bits)
}

func (c *BinaryCodec) Decode(g Genome) []float64 {
	bits := g.(*BinarySolution).Bits
	maxInt := math.Exp2(float64(c.BitsPerVar)) - 1

	out := make([]float64, len(c.Bounds))
	for i, b := range c.Bounds {
		v := 0.0
		for _, bit := range bits[i*c.BitsPerVar : (i+1)*c.BitsPerVar] {
			v *= 2
			if bit {
				v++
			}
		}
		out[i] = b.L + (b.H-b.L)*v/maxInt
	}
	return out
}

// BinaryVariator applies single-point crossover and bit-flip mutation.
type BinaryVariator struct {
	CrossoverRate float64
	MutationRate  float64
}

func NewBinaryVariator(crossoverRate, mutationRate float64) *BinaryVariator {
	return &BinaryVariator{
		CrossoverRate: crossoverRate,
		MutationRate:  mutationRate,
	}
}

// Crossover returns the head of a up to a random cut point followed by the
// tail of b.
func (v *BinaryVariator) Crossover(a, b Genome, rng *rand.Rand) Genome {
	child := a.Clone().(*BinarySolution)
	other := b.(*BinarySolution)

	if rng.Float64() < v.CrossoverRate {
		point := rng.Intn(len(child.Bits))
		copy(child.Bits[point:], other.Bits[point:])
	}
	return child
}

// Mutate flips every bit independently with MutationRate.
func (v *BinaryVariator) Mutate(g Genome, rng *rand.Rand) Genome {
	sol := g.Clone().(*BinarySolution)
	for i := range sol.Bits {
		if rng.Float64() < v.MutationRate {
			sol.Bits[i] = !sol.Bits[i]
		}
	}
	return sol
}
