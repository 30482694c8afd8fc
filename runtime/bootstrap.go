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

	"go.uber.org/zap"
)

// bootstrap constructs the builtin type graph in the order required to
// avoid the cyclic "type(type) == type, type(object) == type, but type IS-A
// object" deadlock (§4.3, §9): object is linked with no base at all, then
// type is linked against the now-existing object, and only once both exist
// does every remaining builtin get its normal single-pass LINKED -> EXPOSED
// -> READY walk. This mirrors the teacher's own two-phase
// initBuiltinType/builtinTypes bootstrap in builtin_types.go, generalised
// from "one Type struct per basis" to this spec's Representation-indexed
// model.
//
// bootstrap runs once, from init(), strictly single-threaded and before any
// Registry.Lookup can race with it, so it does not need the TypeFactory
// lock that guards every later FromSpec/FromSubclassSpec call.
func bootstrap() {
	if Verbose {
		zap.L().Debug("bootstrap starting")
	}

	buildObjectAndType()
	buildNumericTower()
	buildStr()
	buildExceptionClique()
	buildNone()

	if Verbose {
		zap.L().Debug("bootstrap complete")
	}
}

var objectHostClass = NewHostClass("object", nil)

// buildObjectAndType breaks the cycle by constructing object with no base
// (LINKED trivially, its own MRO is just itself) before type exists, then
// constructing type against the now-linked object. Neither goes through
// TypeFactory.FromSpec, which always assumes a pre-existing base graph to
// run mroCalc against.
func buildObjectAndType() {
	ObjectType = &PyType{
		name:         "object",
		hostClass:    objectHostClass,
		acceptedReps: []*HostClass{objectHostClass},
		features:     FeatureBaseType,
		state:        stateLinked,
	}
	ObjectType.mro = []*PyType{ObjectType}
	ObjectType.rep = &simpleRepresentation{owner: ObjectType}
	installWrapper(ObjectType, "__repr__", objectRepr, objectHostClass)
	publishImmutable(ObjectType)

	TypeType = &PyType{
		name:         "type",
		base:         ObjectType,
		bases:        []*PyType{ObjectType},
		hostClass:    typeHostClass,
		acceptedReps: []*HostClass{typeHostClass},
		features:     FeatureBaseType | FeatureIsType,
		state:        stateLinked,
	}
	TypeType.mro = mroCalc(TypeType.bases, TypeType)
	TypeType.rep = &simpleRepresentation{owner: TypeType}
	publishImmutable(TypeType)

	registry.discover = discoverFoundType
}

// discoverFoundType is the Registry's auto-discovery policy (§4.1): a host
// class nobody ever crafted a type for (a "found type") is adopted as the
// sole representation of a brand new type named after the host class,
// parented directly under object. It runs inside the Registry's
// singleflight group, so concurrent first-sightings of the same host class
// collapse into a single call.
func discoverFoundType(hc *HostClass) (Representation, error) {
	t := newLinkedType(hc.Name(), ObjectType, hc, FeatureReplaceable)
	publish(t)
	return t.rep, nil
}

func objectRepr(f *Frame, self Object, args Args) (Object, *PyError) {
	t, raised := typeOf(self)
	if raised != nil {
		return Object{}, raised
	}
	return NewStr(fmt.Sprintf("<%s object>", t.Name())), nil
}

// installWrapper is the bootstrap-time equivalent of what the Exposer does
// for crafted types: attach one WrapperDescriptor implementation, creating
// the descriptor the first time a name is installed on t.
func installWrapper(t *PyType, name string, fn WrapperFunc, accepts ...*HostClass) {
	d, _ := t.GetAttr(name)
	wd, ok := d.(*WrapperDescriptor)
	if !ok {
		wd = newWrapperDescriptor(name)
		wd.setDefiningType(t)
	}
	wd.addImpl(fn, accepts...)
	if raised := t.SetAttr(name, wd); raised != nil {
		logFatal(fmt.Sprintf("bootstrap: failed installing %s on %s: %v", name, t.name, raised))
	}
}

func installMethod(t *PyType, name string, hc *HostClass, parser *ArgParser, fn MethodFunc) {
	d, _ := t.GetAttr(name)
	md, ok := d.(*MethodDescriptor)
	if !ok {
		md = newMethodDescriptor(name)
		md.setDefiningType(t)
	}
	md.addImpl(hc, parser, fn)
	if raised := t.SetAttr(name, md); raised != nil {
		logFatal(fmt.Sprintf("bootstrap: failed installing %s on %s: %v", name, t.name, raised))
	}
}

func installMember(t *PyType, name string, slotIndex int, readonly, optional bool) {
	md := newMemberDescriptor(name, slotIndex, readonly, optional)
	md.setDefiningType(t)
	if raised := t.SetAttr(name, md); raised != nil {
		logFatal(fmt.Sprintf("bootstrap: failed installing %s on %s: %v", name, t.name, raised))
	}
}

// newLinkedType performs the LINKED step (base + MRO) shared by every
// builtin type built directly in Go rather than through a TypeSpec.
func newLinkedType(name string, base *PyType, hc *HostClass, features Feature) *PyType {
	t := &PyType{name: name, base: base, hostClass: hc, features: features, state: stateLinked}
	if base != nil {
		t.bases = []*PyType{base}
		t.mro = mroCalc(t.bases, t)
	} else {
		t.mro = []*PyType{t}
	}
	t.acceptedReps = []*HostClass{hc}
	t.rep = &simpleRepresentation{owner: t}
	return t
}

func publish(t *PyType) {
	t.state = stateReady
	t.features |= FeatureReady
	registry.Register(t.hostClass, t.rep)
}

// publishImmutable marks t IMMUTABLE only at the moment of publication, not
// before: SetAttr refuses to mutate an IMMUTABLE type's attribute table
// (§8 boundary behaviour), so every bootstrap-time call that still needs to
// populate descriptors via t.SetAttr must do so while t is still mutable.
func publishImmutable(t *PyType) {
	t.features |= FeatureImmutable
	publish(t)
}
