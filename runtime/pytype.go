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
	"reflect"
	"sync"
)

// Feature is one bit of the feature set named in §3: REPLACEABLE,
// IMMUTABLE, READY, HAS_DICT, HAS_SLOTS, IS_TYPE, ...
type Feature uint32

const (
	FeatureReplaceable Feature = 1 << iota
	FeatureImmutable
	FeatureReady
	FeatureHasDict
	FeatureHasSlots
	FeatureIsType
	FeatureBaseType
	FeatureInstantiable
)

func (fs Feature) has(f Feature) bool { return fs&f != 0 }

// typeState is the subclass-capable PyType state machine from §4.6:
// NEW -> LINKED -> EXPOSED -> READY. All transitions happen inside the
// TypeFactory lock; no observer ever sees a non-READY type via Registry.
type typeState int

const (
	stateNew typeState = iota
	stateLinked
	stateExposed
	stateReady
)

// Constructor is an invokable handle on a host constructor, held in
// PyType.constructorIndex under a key made from the arity of Signature
// ("arity0", "arity1", ...); the host classes in Signature are not part of
// the key, so two constructors of equal arity share one entry and the later
// one replaces the earlier. New receives the call-site arguments unchanged;
// resolveConstructor selects the constructor by call-site arity.
type Constructor struct {
	Signature []*HostClass
	New       func(f *Frame, t *PyType, args Args, kwargs KWArgs) (Object, *PyError)
}

// PyType is a Python type object.
type PyType struct {
	name string

	// base is the single "solid base" (§4.6): the host-layout ancestor
	// this type's storage extends. bases is the full, ordered Python base
	// list used for MRO computation; for single inheritance bases[0]==base.
	base  *PyType
	bases []*PyType
	mro   []*PyType

	state    typeState
	features Feature

	// hostClass is the primary host class ("javaClass" in the data model).
	hostClass *HostClass
	// acceptedReps are host classes whose methods may serve as self for
	// this type's descriptors, in index order. hostClass is always
	// acceptedReps[0] for crafted/found types; for types with adopted or
	// shared representations it may contain more than one entry.
	acceptedReps []*HostClass

	attrMu     sync.RWMutex
	attributes map[string]Descriptor

	constructorIndex map[string]*Constructor

	doc string

	// rep is this PyType's own Representation (almost always Simple: the
	// PyType IS the representation, per §3).
	rep Representation
}

var typeHostClass = NewHostClass("PyType", reflect.TypeOf(PyType{}))

// ToObject boxes t as an instance of the Python type `type`.
func (t *PyType) ToObject() Object {
	return NewObject(typeHostClass, t)
}

// Name returns t's Python-visible name.
func (t *PyType) Name() string { return t.name }

// Base returns t's solid base.
func (t *PyType) Base() *PyType { return t.base }

// MRO returns t's method resolution order, starting with t and ending with
// object.
func (t *PyType) MRO() []*PyType { return t.mro }

// HostClass returns t's primary host class.
func (t *PyType) HostClass() *HostClass { return t.hostClass }

// AcceptedReps returns the ordered host classes this type's descriptors
// accept as self.
func (t *PyType) AcceptedReps() []*HostClass { return t.acceptedReps }

// IsReady reports whether t has completed TypeFactory publication.
func (t *PyType) IsReady() bool { return t.state == stateReady }

// HasFeature reports whether f is set on t.
func (t *PyType) HasFeature(f Feature) bool { return t.features.has(f) }

// acceptedIndex returns the index of hc within t.acceptedReps, or -1.
func (t *PyType) acceptedIndex(hc *HostClass) int {
	for i, c := range t.acceptedReps {
		if c == hc {
			return i
		}
	}
	return -1
}

// IsSubclass reports whether t is super or a descendant of super in t's MRO.
func (t *PyType) IsSubclass(super *PyType) bool {
	for _, b := range t.mro {
		if b == super {
			return true
		}
	}
	return false
}

// GetAttr looks up name directly in t's own attribute table (not the MRO).
// Mutable types are guarded by attrMu per §5; immutable (bootstrap and
// IMMUTABLE-featured) types are read lock-free once READY.
func (t *PyType) GetAttr(name string) (Descriptor, bool) {
	if t.features.has(FeatureImmutable) {
		d, ok := t.attributes[name]
		return d, ok
	}
	t.attrMu.RLock()
	defer t.attrMu.RUnlock()
	d, ok := t.attributes[name]
	return d, ok
}

// SetAttr installs d under name in t's own attribute table. IMMUTABLE types
// reject mutation outright (§8 boundary behaviour).
func (t *PyType) SetAttr(name string, d Descriptor) *PyError {
	if t.features.has(FeatureImmutable) {
		return newPyError(TypeErrorType, fmt.Sprintf("can't set attributes of built-in/extension type '%s'", t.name))
	}
	t.attrMu.Lock()
	defer t.attrMu.Unlock()
	if t.attributes == nil {
		t.attributes = make(map[string]Descriptor)
	}
	t.attributes[name] = d
	return nil
}

// DelAttr removes name from t's own attribute table, if present.
func (t *PyType) DelAttr(name string) *PyError {
	if t.features.has(FeatureImmutable) {
		return newPyError(TypeErrorType, fmt.Sprintf("can't set attributes of built-in/extension type '%s'", t.name))
	}
	t.attrMu.Lock()
	defer t.attrMu.Unlock()
	if _, ok := t.attributes[name]; !ok {
		return newPyError(AttributeErrorType, name)
	}
	delete(t.attributes, name)
	return nil
}

// mroLookup searches t's MRO, in order, for the first entry whose own
// attribute table contains name. It returns that descriptor and the type
// that defines it (§4.5 step 3).
func (t *PyType) mroLookup(name string) (Descriptor, *PyType) {
	for _, anc := range t.mro {
		if d, ok := anc.GetAttr(name); ok {
			return d, anc
		}
	}
	return nil, nil
}

// --- C3 linearisation, ported from the teacher's mroCalc/mroMerge, which
// implement exactly the CPython algorithm this spec requires (§4.2 step 2,
// §9 "Deep / multiple inheritance").

// Precondition: at least one of seqs is non-empty.
func mroMerge(seqs [][]*PyType) []*PyType {
	var res []*PyType
	numSeqs := len(seqs)
	hasNonEmptySeqs := true
	for hasNonEmptySeqs {
		var cand *PyType
		for i := 0; i < numSeqs && cand == nil; i++ {
			seq := seqs[i]
			if len(seq) == 0 {
				continue
			}
			cand = seq[0]
		RejectCandidate:
			for _, seq := range seqs {
				numElems := len(seq)
				for j := 1; j < numElems; j++ {
					if seq[j] == cand {
						cand = nil
						break RejectCandidate
					}
				}
			}
		}
		if cand == nil {
			// Inconsistent hierarchy: no candidate could be found.
			return nil
		}
		res = append(res, cand)
		hasNonEmptySeqs = false
		for i, seq := range seqs {
			if len(seq) > 0 {
				if seq[0] == cand {
					seqs[i] = seq[1:]
				}
				if len(seqs[i]) > 0 {
					hasNonEmptySeqs = true
				}
			}
		}
	}
	return res
}

func mroCalc(bases []*PyType, self *PyType) []*PyType {
	seqs := [][]*PyType{{self}}
	for _, b := range bases {
		seqs = append(seqs, b.mro)
	}
	seqs = append(seqs, append([]*PyType(nil), bases...))
	return mroMerge(seqs)
}
