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

// RepresentationKind distinguishes the three Representation variants named
// in the data model. Grumpy chose a single Type.basis reflect.Type per
// type; this core generalises that into a tagged union so a Representation
// can be asked what kind it is without a vtable hop (§9 Design Notes).
type RepresentationKind int

const (
	// RepSimple: the Representation is the PyType. One host class, one type.
	RepSimple RepresentationKind = iota
	// RepAdopted: an index >= 0 within a parent type's accepted-representations
	// vector; points at the PyType that "owns" it.
	RepAdopted
	// RepShared: cited by many PyTypes (subclasses with compatible layout);
	// resolves to type by asking the object itself via classCarrier.
	RepShared
)

// Representation is the runtime object that, given an instance, yields its
// Python type and its index within that type's accepted set.
type Representation interface {
	Kind() RepresentationKind
	HostClass() *HostClass
	// PythonType returns a PyType such that o is an instance of it.
	PythonType(o Object) *PyType
	// Index returns o's position within PythonType(o).acceptedReps. For
	// RepShared it returns -1: the dispatch engine resolves the call
	// target by scanning wrapped[] for a declaring host class that
	// accepts o's host class (§4.5 step 4) rather than by direct index,
	// because one Shared representation serves many PyTypes each with
	// their own accepted-representation numbering.
	Index(o Object) int
}

// simpleRepresentation stands for the PyType itself as its Representation;
// a PyType holds one in its rep field (pytype.go). It is defined here as a
// thin adapter so PyType doesn't need to implement Representation's
// exported surface directly.
type simpleRepresentation struct {
	owner *PyType
}

func (r *simpleRepresentation) Kind() RepresentationKind { return RepSimple }
func (r *simpleRepresentation) HostClass() *HostClass    { return r.owner.hostClass }
func (r *simpleRepresentation) PythonType(Object) *PyType {
	return r.owner
}
func (r *simpleRepresentation) Index(Object) int { return 0 }

// adoptedRepresentation describes a host class that represents a Python
// type but was not crafted for that purpose (e.g. Go's native float64
// adopted as float). index is fixed at adoption time: it is the position
// this host class occupies in owner.acceptedReps.
type adoptedRepresentation struct {
	hostClass *HostClass
	owner     *PyType
	index     int
}

func (r *adoptedRepresentation) Kind() RepresentationKind { return RepAdopted }
func (r *adoptedRepresentation) HostClass() *HostClass    { return r.hostClass }
func (r *adoptedRepresentation) PythonType(Object) *PyType {
	return r.owner
}
func (r *adoptedRepresentation) Index(Object) int { return r.index }

// sharedRepresentation is cited by many PyTypes (every subclass with
// compatible layout). Resolving the type requires asking the object
// itself, because the same Go storage (instance) backs instances of any
// number of distinct Python subclasses.
type sharedRepresentation struct {
	hostClass *HostClass
	// members holds every PyType that currently cites this representation,
	// in publication order. All of them accept each other as __class__
	// assignment targets (§3 invariant).
	members []*PyType
}

func (r *sharedRepresentation) Kind() RepresentationKind { return RepShared }
func (r *sharedRepresentation) HostClass() *HostClass    { return r.hostClass }

func (r *sharedRepresentation) PythonType(o Object) *PyType {
	cc, ok := o.value.(classCarrier)
	if !ok {
		logFatal("shared representation used on an object without a class carrier")
	}
	return cc.pyClass()
}

func (r *sharedRepresentation) Index(Object) int { return -1 }

// accepts reports whether t is among r's citing members, i.e. whether an
// instance whose current __class__ is t may be assigned a __class__ of any
// other member (layout compatibility, §4.6 step 5 / §8 boundary behaviour).
func (r *sharedRepresentation) accepts(t *PyType) bool {
	for _, m := range r.members {
		if m == t {
			return true
		}
	}
	return false
}
