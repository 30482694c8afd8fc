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
	"strings"
	"sync"
)

// instance is the single canonical Go storage shape shared by every
// synthesized Python subclass host class and by the builtin exception
// clique (§4.7). Go cannot emit a new struct type per layout the way a JVM
// can emit a new class with ASM/javassist (§1 "Bytecode generation for
// synthesised classes" is explicitly a contract-only concern here); instead
// every synthesized layout reuses this one generic struct, and distinct
// PyTypes sharing it are told apart purely by each instance's own mutable
// class field, exactly as the Shared Representation variant requires.
type instance struct {
	hostClass *HostClass
	class     *PyType
	dict      map[string]Object
	slots     []Object
}

func newInstance(t *PyType) *instance {
	return &instance{hostClass: t.hostClass, class: t}
}

// pyClass implements classCarrier.
func (inst *instance) pyClass() *PyType { return inst.class }

func (inst *instance) toObject() Object {
	return NewObject(inst.hostClass, inst)
}

func (inst *instance) getSlot(i int) Object {
	if i < 0 || i >= len(inst.slots) {
		return Object{}
	}
	return inst.slots[i]
}

func (inst *instance) setSlot(i int, v Object) {
	if i >= len(inst.slots) {
		grown := make([]Object, i+1)
		copy(grown, inst.slots)
		inst.slots = grown
	}
	inst.slots[i] = v
}

func (inst *instance) getDictItem(name string) (Object, bool) {
	if inst.dict == nil {
		return Object{}, false
	}
	v, ok := inst.dict[name]
	return v, ok
}

func (inst *instance) setDictItem(name string, v Object) {
	if inst.dict == nil {
		inst.dict = make(map[string]Object)
	}
	inst.dict[name] = v
}

var instanceGoType = reflect.TypeOf(instance{})

// SubclassSpec collects the bases, slot fields and dict flag of a
// user-defined (or dynamically created) Python subclass (§3, §4.6).
type SubclassSpec struct {
	Name    string
	Bases   []*PyType
	Slots   []string
	HasDict bool
}

// addsStorage reports whether t's own representation introduces layout
// beyond its base's — i.e. whether t is a candidate "solid base" in its own
// right rather than something CPython's solid_base would walk past.
func (t *PyType) addsStorage() bool {
	if t.base == nil {
		return true
	}
	if t.hostClass == t.base.hostClass {
		return false
	}
	// A synthesized layout with no slots of its own adds at most an instance
	// dict, which solid_base does not count as storage.
	if !t.HasFeature(FeatureHasSlots) {
		subclassCache.mu.Lock()
		defer subclassCache.mu.Unlock()
		for _, hc := range subclassCache.m {
			if hc == t.hostClass {
				return false
			}
		}
	}
	return true
}

// nearestStorageAncestor walks t's solid-base chain (not its full MRO) to
// find the nearest ancestor, including t itself, that adds storage.
func nearestStorageAncestor(t *PyType) *PyType {
	cur := t
	for cur != nil {
		if cur.addsStorage() {
			return cur
		}
		cur = cur.base
	}
	return ObjectType
}

// solidBase implements §4.6 step 1: follow each base to its nearest
// storage-adding ancestor, then require a single most-derived candidate.
func solidBase(f *Frame, bases []*PyType) (*PyType, *PyError) {
	if len(bases) == 0 {
		return ObjectType, nil
	}
	candidates := make([]*PyType, 0, len(bases))
	seen := map[*PyType]bool{}
	for _, b := range bases {
		c := nearestStorageAncestor(b)
		if !seen[c] {
			seen[c] = true
			candidates = append(candidates, c)
		}
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		switch {
		case c.IsSubclass(best):
			best = c
		case best.IsSubclass(c):
			// best already more derived than c.
		default:
			return nil, f.RaiseType(TypeErrorType, fmt.Sprintf(
				"multiple bases have instance lay-out conflict (%s and %s)", best.Name(), c.Name()))
		}
	}
	// best must be a descendant of (or equal to) every candidate.
	for _, c := range candidates {
		if !best.IsSubclass(c) {
			return nil, f.RaiseType(TypeErrorType, fmt.Sprintf(
				"multiple bases have instance lay-out conflict (%s and %s)", best.Name(), c.Name()))
		}
	}
	return best, nil
}

// layoutKey is the value computed from (solid base host class, ordered
// slot names, has-dict flag) that §4.6 step 3 requires. The "required
// interface set" named in the same step has no direct analogue in Go (no
// nominal multiple-interface inheritance the way the JVM has); solid base
// plus slots plus dict flag is already sufficient to decide host-class
// identity for every case this core exercises, and is recorded as such in
// DESIGN.md.
type layoutKey struct {
	solidBase *PyType
	slots     string
	hasDict   bool
}

func makeLayoutKey(solid *PyType, slots []string, hasDict bool) layoutKey {
	return layoutKey{solidBase: solid, slots: strings.Join(slots, "\x00"), hasDict: hasDict}
}

var subclassCache = struct {
	mu sync.Mutex
	m  map[layoutKey]*HostClass
}{m: make(map[layoutKey]*HostClass)}

// synthesizeHostClass implements §4.6 step 4: cache lookup, or mint a new
// HostClass for this layout. Two SubclassSpecs with equal layout keys
// always return the identical *HostClass pointer (seed test 3).
func synthesizeHostClass(solid *PyType, slots []string, hasDict bool) *HostClass {
	key := makeLayoutKey(solid, slots, hasDict)
	subclassCache.mu.Lock()
	defer subclassCache.mu.Unlock()
	if hc, ok := subclassCache.m[key]; ok {
		return hc
	}
	hc := NewHostClass(fmt.Sprintf("%s$layout%d", solid.Name(), len(subclassCache.m)), instanceGoType)
	subclassCache.m[key] = hc
	return hc
}

// sharedRepresentationFor returns the (possibly newly created) shared
// Representation for hc, registering it with the Registry the first time
// it is seen. Every PyType built over the same hc ends up citing the same
// *sharedRepresentation, which is what makes them mutually __class__
// compatible (§3 invariant, §4.6 step 5).
func sharedRepresentationFor(reg *Registry, hc *HostClass) *sharedRepresentation {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if existing, ok := reg.m[hc]; ok {
		return existing.(*sharedRepresentation)
	}
	rep := &sharedRepresentation{hostClass: hc}
	reg.m[hc] = rep
	return rep
}

// addSharedMember records that t now cites rep, under the same lock that
// guards Registry reads, so concurrent Lookups never observe a rep whose
// members slice is being appended to.
func addSharedMember(reg *Registry, rep *sharedRepresentation, t *PyType) {
	reg.mu.Lock()
	rep.members = append(rep.members, t)
	reg.mu.Unlock()
}

// resolveConstructor implements the lookup constructorIndex exists for:
// locate an invokable host constructor matching the call-site arity,
// searching t's MRO so that a subclass inherits its solid base's
// constructor (§4.7, the root clique's __new__).
func resolveConstructor(f *Frame, t *PyType, args Args) (*Constructor, *PyError) {
	for _, anc := range t.mro {
		for _, c := range anc.constructorIndex {
			if len(c.Signature) == len(args) {
				return c, nil
			}
		}
	}
	return nil, f.RaiseType(TypeErrorType, fmt.Sprintf("cannot create '%s' instances", t.Name()))
}
