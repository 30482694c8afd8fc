// Copyright 2016 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pyrt

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookupPublished(t *testing.T) {
	rep, raised := registry.Lookup(longHostClass)
	require.Nil(t, raised)
	assert.Equal(t, IntType, rep.PythonType(NewInt(1)))
}

// TestRegistryAutoDiscoveryCollapsesConcurrentMisses is seed scenario 4:
// many goroutines racing to resolve the same unseen HostClass all observe
// the same published Representation, and the discovery policy runs exactly
// once.
func TestRegistryAutoDiscoveryCollapsesConcurrentMisses(t *testing.T) {
	var calls int32
	hc := NewHostClass("concurrent-probe", nil)
	r := newRegistry()
	r.discover = func(hc *HostClass) (Representation, error) {
		atomic.AddInt32(&calls, 1)
		t := newLinkedType(hc.Name(), nil, hc, 0)
		r.Register(hc, t.rep)
		return t.rep, nil
	}

	const n = 64
	var wg sync.WaitGroup
	reps := make([]Representation, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rep, raised := r.Lookup(hc)
			require.Nil(t, raised)
			reps[i] = rep
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	for i := 1; i < n; i++ {
		assert.Same(t, reps[0], reps[i])
	}
}

func TestRegistryRegisterConflictIsFatal(t *testing.T) {
	var fatalMsg string
	orig := logFatal
	logFatal = func(msg string) { fatalMsg = msg }
	defer func() { logFatal = orig }()

	hc := NewHostClass("conflict-probe", nil)
	r := newRegistry()
	r.Register(hc, &simpleRepresentation{owner: ObjectType})
	r.Register(hc, &simpleRepresentation{owner: IntType})
	assert.NotEmpty(t, fatalMsg)
}
