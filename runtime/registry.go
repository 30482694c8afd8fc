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
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Registry is the process-wide, lock-free-on-hit mapping from a host class
// to a Representation. There is exactly one Registry per process; access it
// through the package-level registry variable (typefactory.go).
type Registry struct {
	mu sync.RWMutex
	m  map[*HostClass]Representation

	// discover, when set, is the auto-discovery policy invoked on a miss:
	// it must either find an existing type this host class belongs to
	// (primary or adopted) or mint a brand new "found type" PyType that
	// adopts it. It runs under the TypeFactory's lock.
	discover func(hc *HostClass) (Representation, error)

	// group collapses concurrent auto-discovery calls for the same
	// HostClass into one: if N goroutines race to resolve the same
	// unseen class, only one invokes discover and all N observe the same
	// published Representation. This is the precise concurrency problem
	// golang.org/x/sync/singleflight exists to solve.
	group singleflight.Group
}

func newRegistry() *Registry {
	return &Registry{m: make(map[*HostClass]Representation)}
}

// Lookup resolves hostClass to its Representation. Pure on published
// classes: once a class has been registered, Lookup never blocks and never
// mutates the Registry again. On a miss it triggers auto-discovery, which
// may create and publish a new PyType via the TypeFactory.
func (r *Registry) Lookup(hostClass *HostClass) (Representation, *PyError) {
	r.mu.RLock()
	rep, ok := r.m[hostClass]
	r.mu.RUnlock()
	if ok {
		return rep, nil
	}
	if r.discover == nil {
		logFatal(fmt.Sprintf("registry: no representation for host class %q and no discovery policy installed", hostClass.Name()))
	}
	v, err, _ := r.group.Do(hostClass.name+fmt.Sprintf("#%p", hostClass), func() (any, error) {
		factory.mu.Lock()
		defer factory.mu.Unlock()
		// Re-check under the group: another goroutine may have published
		// this class while we were waiting to enter discover.
		r.mu.RLock()
		rep, ok := r.m[hostClass]
		r.mu.RUnlock()
		if ok {
			return rep, nil
		}
		return r.discover(hostClass)
	})
	if err != nil {
		if pe, ok := err.(*PyError); ok {
			return nil, pe
		}
		return nil, newPyError(InterpreterErrorType, err.Error())
	}
	return v.(Representation), nil
}

// Register publishes rep for hostClass. It establishes the happens-before
// edge required by §4.1: any reader that later observes rep via Lookup
// observes rep.PythonType's fully initialised MRO and attribute table,
// because publication only ever happens after TypeFactory has marked the
// type READY (typefactory.go).
//
// Registering a second, different binding for a class that already has one
// is a programming error and is fatal, per §4.1 "Errors".
func (r *Registry) Register(hostClass *HostClass, rep Representation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.m[hostClass]; ok && existing != rep {
		logFatal(fmt.Sprintf("registry: conflicting representation registered for host class %q", hostClass.Name()))
	}
	r.m[hostClass] = rep
}

// has reports whether hostClass already has a published Representation,
// without triggering discovery. Used by the factory to decide whether a
// host class it is about to adopt is already spoken for.
func (r *Registry) has(hostClass *HostClass) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.m[hostClass]
	return ok
}
