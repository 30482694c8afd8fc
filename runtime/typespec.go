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

import "reflect"

// TypeSpec is the builder TypeFactory.FromSpec consumes to create a
// crafted PyType (§6 "TypeSpec configuration options").
type TypeSpec struct {
	name string
	base *PyType

	primaryGoType reflect.Type
	primaryName   string

	adopted []*HostClass

	// primary, when set, overrides the host class TypeFactory.buildLocked
	// would otherwise mint for this type: the type attaches to primary's
	// existing Representation (almost always a *sharedRepresentation)
	// instead of getting a fresh host class and a Simple representation of
	// its own. This is how a new type joins an existing clique (§4.7,
	// §6 "primary(hostClass)") — e.g. TypeSpec("TE", ...).Primary(
	// BaseExceptionType.HostClass()) makes "TE" a member of the exception
	// clique sharing its one host representation, the way TypeError and
	// ValueError already do.
	primary *HostClass

	// methodSources lists extra Go structs whose `py:"..."`-tagged fields
	// the Exposer scans in addition to the primary implementation
	// (TypeSpec.methods(hostClass) in §6).
	methodSources []any
	primarySource any

	features Feature
	doc      string

	constructors []*Constructor
}

// NewTypeSpec starts a builder for a crafted type named name. impl is a
// pointer to the implementation struct whose populated `py:"..."`-tagged
// fields the Exposer scans (a nil pointer exposes nothing); the struct type
// it points to becomes the Go type of the fresh primary host class minted
// for the type, unless Primary supplies an existing one.
func NewTypeSpec(name string, impl any) *TypeSpec {
	return &TypeSpec{
		name:          name,
		base:          ObjectType,
		primaryGoType: reflect.TypeOf(impl).Elem(),
		primaryName:   name,
		primarySource: impl,
		features:      FeatureInstantiable | FeatureBaseType,
	}
}

// Base sets the Python base (default object).
func (s *TypeSpec) Base(base *PyType) *TypeSpec {
	s.base = base
	return s
}

// Primary overrides the primary host class this type is built over,
// attaching it to hc's existing Representation instead of minting a fresh
// host class and Simple representation. Used to grow a clique: a new type
// built with Primary(existingClique.HostClass()) joins that clique's shared
// Representation and becomes a legal __class__ reassignment target for
// every other member (§4.7, §6).
func (s *TypeSpec) Primary(hc *HostClass) *TypeSpec {
	s.primary = hc
	return s
}

// Adopt declares additional host classes accepted as self for this type's
// descriptors, beyond the primary host class.
func (s *TypeSpec) Adopt(hc ...*HostClass) *TypeSpec {
	s.adopted = append(s.adopted, hc...)
	return s
}

// Methods registers an auxiliary Go struct pointer whose tagged fields
// populate this type in addition to the primary implementation.
func (s *TypeSpec) Methods(impl any) *TypeSpec {
	s.methodSources = append(s.methodSources, impl)
	return s
}

// Add ORs extra features into the type being built (REPLACEABLE,
// IMMUTABLE, ...).
func (s *TypeSpec) Add(f Feature) *TypeSpec {
	s.features |= f
	return s
}

// Doc sets the type's docstring.
func (s *TypeSpec) Doc(doc string) *TypeSpec {
	s.doc = doc
	return s
}

// Constructor registers a host constructor callable through this type's
// __new__ (§3 constructorIndex / NewMethod), selected by the dispatch
// engine according to call-site arity.
func (s *TypeSpec) Constructor(signature []*HostClass, newFn func(f *Frame, t *PyType, args Args, kwargs KWArgs) (Object, *PyError)) *TypeSpec {
	s.constructors = append(s.constructors, &Constructor{Signature: signature, New: newFn})
	return s
}
