// Copyright 2025 The Sigstore Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hashengines

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a fresh engine.
type Factory func() HashEngine

var (
	mu       sync.RWMutex
	registry = make(map[string]Factory)
)

// Register adds factory under algorithm. Names must be unique.
func Register(algorithm string, factory Factory) error {
	if algorithm == "" {
		return fmt.Errorf("algorithm name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[algorithm]; exists {
		return fmt.Errorf("hash algorithm %q already registered", algorithm)
	}
	registry[algorithm] = factory
	return nil
}

// MustRegister is Register for package init functions.
func MustRegister(algorithm string, factory Factory) {
	if err := Register(algorithm, factory); err != nil {
		panic(fmt.Sprintf("failed to register hash algorithm %q: %v", algorithm, err))
	}
}

// Create returns a new engine for algorithm.
func Create(algorithm string) (HashEngine, error) {
	mu.RLock()
	factory, ok := registry[algorithm]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unsupported hash algorithm: %q (supported: %v)", algorithm, SupportedAlgorithms())
	}
	return factory(), nil
}

// SupportedAlgorithms lists registered names in sorted order.
func SupportedAlgorithms() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
