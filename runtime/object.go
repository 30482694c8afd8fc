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

var (
	float64Type = reflect.TypeOf(float64(0))
	boolType    = reflect.TypeOf(false)
	int64Type   = reflect.TypeOf(int64(0))
	stringType  = reflect.TypeOf("")
)

// Object is the universal handle every abstract operation in this core
// passes around. The teacher embeds an Object{typ *Type} struct inside
// every Go struct it controls (Float, Method, BaseException, ...); this
// core also has to carry values it does not control the layout of —
// adopted native float64/bool — so Object is a small value box rather than
// an embeddable base. hostClass is populated once at construction and is
// never recomputed via reflection on the hot dispatch path.
type Object struct {
	hostClass *HostClass
	value     any
}

// classCarrier is the "well-known self-typed interface" the data model
// requires for Shared representations: an object whose __class__ may be
// reassigned at runtime carries its own current PyType, rather than relying
// on a single type-per-host-class mapping.
type classCarrier interface {
	pyClass() *PyType
}

// NewObject boxes value under hostClass. Most callers use one of the typed
// constructors below (NewFloat, NewBool, NewInt, NewStr) or
// newInstance(t).toObject() instead of calling this directly.
func NewObject(hostClass *HostClass, value any) Object {
	if hostClass == nil {
		logFatal("NewObject: nil host class")
	}
	return Object{hostClass: hostClass, value: value}
}

// HostClass returns o's host class, the key every Registry lookup (§4.1) is
// keyed on.
func (o Object) HostClass() *HostClass {
	return o.hostClass
}

// Value returns the boxed native value (float64, bool, int64, *instance,
// *PyType, ...). Callers that know the concrete shape type-assert it
// directly, the same way the teacher's toFloatUnsafe/toIntUnsafe helpers do.
func (o Object) Value() any {
	return o.value
}

// IsNil reports whether o is the zero Object (no host class set), used as
// the box's "no value" sentinel in place of a *Object nil pointer.
func (o Object) IsNil() bool {
	return o.hostClass == nil
}

// doubleHostClass, booleanHostClass and longHostClass are the adopted
// representations for native Go float64, bool and int64, standing in for
// the teacher's adoption of math/big.Int and string in native.go. They are
// adopted, not crafted: nothing about float64 or bool was designed to be a
// Python representation, yet both must resolve to a PyType via the
// Registry just like any crafted host class.
var (
	doubleHostClass  = NewHostClass("Double", float64Type)
	booleanHostClass = NewHostClass("Boolean", boolType)
	longHostClass    = NewHostClass("Long", int64Type)
	stringHostClass  = NewHostClass("String", stringType)
)

// NewFloat boxes a float64 under the adopted Double host class.
func NewFloat(v float64) Object {
	return NewObject(doubleHostClass, v)
}

// NewBool boxes a bool under the adopted Boolean host class.
func NewBool(v bool) Object {
	return NewObject(booleanHostClass, v)
}

// NewInt boxes an int64 under the adopted Long host class, the primary
// representation of PyType int.
func NewInt(v int64) Object {
	return NewObject(longHostClass, v)
}

// NewStr boxes a Go string under the adopted String host class, the
// primary representation of PyType str.
func NewStr(v string) Object {
	return NewObject(stringHostClass, v)
}

func asFloat(o Object) float64 { return o.value.(float64) }
func asBool(o Object) bool     { return o.value.(bool) }
func asInt(o Object) int64     { return o.value.(int64) }
func asStr(o Object) string    { return o.value.(string) }
