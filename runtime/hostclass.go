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

// HostClass is the opaque identity of the host runtime's concrete type of
// an object: equality is by pointer identity, never by structural shape.
// Most HostClasses correspond 1:1 with a Go reflect.Type (the teacher's own
// "basis" field on Type is exactly this idea, restricted to struct types it
// defines). Subclass synthesis (subclass.go) mints HostClasses that do NOT
// correspond to a distinct Go type, because Go cannot emit new struct types
// at runtime the way a JVM can emit new classes with ASM/javassist: many
// synthesized HostClasses alias the same underlying Go storage type
// (instance, see subclass.go) and are kept distinct purely by the
// *HostClass pointer minted for their layout key.
type HostClass struct {
	// name is diagnostic only; it never participates in equality.
	name string
	// goType is the concrete Go type backing live values of this host
	// class, when one exists. Adopted native classes (float64, bool,
	// int64) set this to the primitive's reflect.Type; synthesized
	// classes set it to reflect.TypeOf(instance{}).
	goType reflect.Type
}

// NewHostClass mints a fresh HostClass identity. Two calls with identical
// arguments are still distinct identities; callers that need idempotence
// (e.g. subclass synthesis) must cache the result themselves.
func NewHostClass(name string, goType reflect.Type) *HostClass {
	return &HostClass{name: name, goType: goType}
}

// Name returns hc's diagnostic name.
func (hc *HostClass) Name() string {
	return hc.name
}

// GoType returns the Go type backing hc's instances, if any.
func (hc *HostClass) GoType() reflect.Type {
	return hc.goType
}

// hostClassOf returns the HostClass every live Object carries. This is a
// field read, not a reflect.TypeOf call, by design: the Representation that
// constructed the Object already knows the HostClass, and storing it
// directly keeps the dispatch path in §4.5 allocation- and
// reflection-free after construction.
func hostClassOf(o Object) *HostClass {
	return o.hostClass
}
