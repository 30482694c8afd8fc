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

	"go.uber.org/zap"
)

// registry is the single process-wide Registry. There is exactly one per
// process, matching the teacher's single package-level typeRegistry-ish
// table in builtin_types.go; the Registry itself has no reason to be
// instantiated twice outside of tests, some of which construct their own
// via newRegistry() while others read this package variable.
var registry = newRegistry()

// TypeFactory is the single serialization point for PyType creation (§4.3):
// one mutex held across the NEW->LINKED->EXPOSED->READY walk for one type at
// a time, so two goroutines racing to create overlapping types can never
// observe one another's half-built state.
type TypeFactory struct {
	mu sync.Mutex
}

var factory = &TypeFactory{}

// FromSpec builds a crafted PyType from spec, taking the factory's lock for
// the whole NEW->READY walk (§4.3 "single mutex serialises all type
// construction; never more than one in-flight per process").
func (tf *TypeFactory) FromSpec(f *Frame, spec *TypeSpec) (*PyType, *PyError) {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return tf.buildLocked(f, spec)
}

func (tf *TypeFactory) buildLocked(f *Frame, spec *TypeSpec) (*PyType, *PyError) {
	t := &PyType{
		name:     spec.name,
		doc:      spec.doc,
		features: spec.features,
		state:    stateNew,
	}
	if spec.base != nil {
		t.base = spec.base
		t.bases = []*PyType{spec.base}
	}

	// LINKED: compute MRO (§4.2 step 2, §4.3).
	if len(t.bases) > 0 {
		mro := mroCalc(t.bases, t)
		if mro == nil {
			return nil, f.RaiseType(TypeErrorType, fmt.Sprintf(
				"cannot create a consistent method resolution order for bases of %s", spec.name))
		}
		t.mro = mro
	} else {
		t.mro = []*PyType{t}
	}
	t.state = stateLinked

	var hc *HostClass
	if spec.primary != nil {
		// Joining an existing clique (§4.7): reuse the caller's host class
		// and its already-published Representation (a *sharedRepresentation
		// in every known use) rather than minting a new Simple one.
		hc = spec.primary
		t.rep = sharedRepresentationFor(registry, hc)
	} else {
		hc = NewHostClass(spec.name, spec.primaryGoType)
		t.rep = &simpleRepresentation{owner: t}
	}
	t.hostClass = hc
	t.acceptedReps = append(t.acceptedReps, hc)

	for _, extra := range spec.adopted {
		t.acceptedReps = append(t.acceptedReps, extra)
	}

	// EXPOSED: scan the primary implementation and any auxiliary method
	// sources for annotated methods (§4.3, §5).
	exposer := newExposer()
	if spec.primarySource != nil {
		if raised := exposer.scan(f, t, hc, spec.primarySource); raised != nil {
			return nil, raised
		}
	}
	for _, src := range spec.methodSources {
		if raised := exposer.scan(f, t, hc, src); raised != nil {
			return nil, raised
		}
	}
	if len(spec.constructors) > 0 {
		t.constructorIndex = make(map[string]*Constructor, len(spec.constructors))
		for i, ctor := range spec.constructors {
			t.constructorIndex[fmt.Sprintf("arity%d", len(ctor.Signature))] = spec.constructors[i]
		}
		nm := newNewMethod("__new__")
		nm.setDefiningType(t)
		if raised := t.SetAttr("__new__", nm); raised != nil {
			return nil, raised
		}
	}
	t.state = stateExposed

	if Verbose {
		zap.L().Debug("type built", zap.String("name", t.name), zap.String("base", baseNameOf(t)))
	}

	// READY: publish. Once Register returns, any goroutine racing on
	// Registry.Lookup observes either nothing (before this line) or the
	// fully-populated type (after it) — never a partial attribute table
	// (§5 Open Question 3, resolved in SPEC_FULL.md).
	t.features |= FeatureReady
	t.state = stateReady
	if spec.primary != nil {
		addSharedMember(registry, t.rep.(*sharedRepresentation), t)
	}
	registry.Register(hc, t.rep)
	for i, extra := range spec.adopted {
		registry.Register(extra, &adoptedRepresentation{hostClass: extra, owner: t, index: i + 1})
	}
	return t, nil
}

func baseNameOf(t *PyType) string {
	if t.base == nil {
		return "<none>"
	}
	return t.base.name
}

// FromSubclassSpec synthesizes a PyType for a dynamically created subclass
// (§4.6): resolve the solid base, mint-or-reuse a HostClass for the layout,
// attach a shared Representation, and publish. Two SubclassSpecs that end up
// with the same (solid base, slots, has-dict) triple always end up sharing
// the identical HostClass pointer (seed test 3), because synthesizeHostClass
// itself is the cache.
func (tf *TypeFactory) FromSubclassSpec(f *Frame, spec *SubclassSpec) (*PyType, *PyError) {
	tf.mu.Lock()
	defer tf.mu.Unlock()

	solid, raised := solidBase(f, spec.Bases)
	if raised != nil {
		return nil, raised
	}

	t := &PyType{name: spec.Name, bases: append([]*PyType(nil), spec.Bases...), state: stateNew}
	if len(spec.Bases) > 0 {
		t.base = spec.Bases[0]
	} else {
		t.base = ObjectType
		t.bases = []*PyType{ObjectType}
	}
	mro := mroCalc(t.bases, t)
	if mro == nil {
		return nil, f.RaiseType(TypeErrorType, fmt.Sprintf(
			"cannot create a consistent method resolution order for %s", spec.Name))
	}
	t.mro = mro
	t.state = stateLinked

	hc := synthesizeHostClass(solid, spec.Slots, spec.HasDict)
	t.hostClass = hc
	t.acceptedReps = []*HostClass{hc}
	if spec.HasDict {
		t.features |= FeatureHasDict
	}
	if len(spec.Slots) > 0 {
		t.features |= FeatureHasSlots
	}

	sharedRep := sharedRepresentationFor(registry, hc)
	t.rep = sharedRep

	for i, slotName := range spec.Slots {
		md := newMemberDescriptor(slotName, i, false, true)
		md.setDefiningType(t)
		if raised := t.SetAttr(slotName, md); raised != nil {
			return nil, raised
		}
	}
	t.state = stateExposed

	t.features |= FeatureReady | FeatureReplaceable
	t.state = stateReady
	addSharedMember(registry, sharedRep, t)
	registry.Register(hc, sharedRep)

	if Verbose {
		zap.L().Debug("subclass synthesised", zap.String("name", t.name), zap.String("solid_base", solid.Name()))
	}
	return t, nil
}

// Verbose, when true, makes bootstrap and type-factory phase transitions
// log at debug level (the one process-wide tunable this core needs; see
// SPEC_FULL.md's Ambient Stack / Configuration note).
var Verbose bool
