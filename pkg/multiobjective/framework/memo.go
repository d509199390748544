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
	"fmt"
	"slices"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoizedEvaluator remembers the objective vector of every decoded vector it
// has scored. Discrete encodings revisit the same assignments often, so this
// saves repeated work for expensive objectives. It is safe for concurrent use.
//
// Without options the memory held grows with every distinct vector scored.
// WithMaxEntries bounds it and WithExpiration ages entries out.
type MemoizedEvaluator struct {
	Evaluator
	cache      *cache.Cache
	maxEntries int
}

// MemoOption configures a MemoizedEvaluator.
type MemoOption func(*memoOptions)

type memoOptions struct {
	expiration time.Duration
	maxEntries int
}

// WithExpiration forgets vectors ttl after they were scored.
func WithExpiration(ttl time.Duration) MemoOption {
	return func(o *memoOptions) {
		o.expiration = ttl
	}
}

// WithMaxEntries drops expired vectors once n are held, and every vector if
// none had expired. Concurrent callers may overshoot n by one entry each.
func WithMaxEntries(n int) MemoOption {
	return func(o *memoOptions) {
		o.maxEntries = n
	}
}

func NewMemoizedEvaluator(inner Evaluator, opts ...MemoOption) *MemoizedEvaluator {
	o := memoOptions{expiration: cache.NoExpiration}
	for _, opt := range opts {
		opt(&o)
	}
	return &MemoizedEvaluator{
		Evaluator: inner,
		// no janitor goroutine; expired entries are dropped on overflow
		cache:      cache.New(o.expiration, 0),
		maxEntries: o.maxEntries,
	}
}

// Objectives returns a copy of the remembered vector, or scores decoded with
// the inner evaluator.
func (m *MemoizedEvaluator) Objectives(decoded []float64) ObjectiveSpacePoint {
	key := fmt.Sprint(decoded)
	if v, ok := m.cache.Get(key); ok {
		return slices.Clone(v.(ObjectiveSpacePoint))
	}
	res := m.Evaluator.Objectives(decoded)
	if m.maxEntries > 0 && m.cache.ItemCount() >= m.maxEntries {
		m.cache.DeleteExpired()
		if m.cache.ItemCount() >= m.maxEntries {
			m.cache.Flush()
		}
	}
	m.cache.SetDefault(key, slices.Clone(res))
	return res
}

// Len is the number of vectors currently remembered, expired ones included
// until they are dropped.
func (m *MemoizedEvaluator) Len() int {
	return m.cache.ItemCount()
}
