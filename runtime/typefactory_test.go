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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pointImpl is a crafted host implementation exercising the Exposer's
// "special", "method" and "get" tag kinds end to end through
// TypeFactory.FromSpec, the way a real builtin type's implementation
// struct would.
type pointImpl struct {
	Neg WrapperFunc `py:"__neg__,special"`
	Mag MethodFunc  `py:"magnitude,method"`
	X   GetterFunc  `py:"x,get"`
}

func newPointImpl() *pointImpl {
	p := &pointImpl{}
	p.Neg = func(f *Frame, self Object, args Args) (Object, *PyError) {
		v := self.value.(int64)
		return NewInt(-v), nil
	}
	p.Mag = func(f *Frame, self Object, args Args, kwargs KWArgs) (Object, *PyError) {
		v := self.value.(int64)
		if v < 0 {
			v = -v
		}
		return NewInt(v), nil
	}
	p.X = func(f *Frame, self Object) (Object, *PyError) {
		return self, nil
	}
	return p
}

// TestTypeFactoryFromSpecExposesTaggedFields builds a crafted type whose
// entire exposed surface comes from Exposer.scan rather than from
// bootstrap's direct-construction style, and exercises each installed
// descriptor kind through the ordinary GetAttr/Call/dispatch paths.
func TestTypeFactoryFromSpecExposesTaggedFields(t *testing.T) {
	f := NewRootFrame()
	impl := newPointImpl()
	spec := NewTypeSpec("Point", impl)

	pointType, raised := factory.FromSpec(f, spec)
	require.Nil(t, raised)
	assert.Equal(t, "Point", pointType.Name())
	assert.True(t, pointType.IsSubclass(ObjectType))
	assert.True(t, pointType.HasFeature(FeatureReady))

	self := NewObject(pointType.HostClass(), int64(-7))

	negGot, raised := Neg(f, self)
	require.Nil(t, raised)
	assert.EqualValues(t, 7, negGot.Value())

	magAttr, raised := GetAttr(f, self, "magnitude")
	require.Nil(t, raised)
	magGot, raised := Call(f, magAttr, nil, nil)
	require.Nil(t, raised)
	assert.EqualValues(t, 7, magGot.Value())

	xGot, raised := GetAttr(f, self, "x")
	require.Nil(t, raised)
	assert.Equal(t, self, xGot)
}

// TestTypeFactoryFromSpecWiresConstructor exercises the Constructor/__new__
// wiring added to TypeSpec: a crafted type with a registered host
// constructor gets an "arity0" constructorIndex entry and a NewMethod
// installed as "__new__" in its attribute table.
func TestTypeFactoryFromSpecWiresConstructor(t *testing.T) {
	f := NewRootFrame()
	impl := newPointImpl()
	spec := NewTypeSpec("Counter", impl).Constructor(nil, func(f *Frame, t *PyType, args Args, kwargs KWArgs) (Object, *PyError) {
		return NewObject(t.HostClass(), int64(0)), nil
	})

	counterType, raised := factory.FromSpec(f, spec)
	require.Nil(t, raised)
	require.NotNil(t, counterType.constructorIndex)
	require.Contains(t, counterType.constructorIndex, "arity0")

	newAttr, found := counterType.GetAttr("__new__")
	require.True(t, found)
	require.NotNil(t, newAttr)
	_, ok := newAttr.(*NewMethod)
	assert.True(t, ok)
}

// TestTypeFactoryFromSpecLinksOntoSynthesizedBase confirms a crafted type
// built via FromSpec can sit on top of a base synthesized via
// FromSubclassSpec, inheriting its MRO (§4.3 LINKED step applies uniformly
// regardless of which factory entry point produced the base).
func TestTypeFactoryFromSpecLinksOntoSynthesizedBase(t *testing.T) {
	f := NewRootFrame()
	base, raised := factory.FromSubclassSpec(f, &SubclassSpec{Name: "SpecBase", Bases: []*PyType{ObjectType}})
	require.Nil(t, raised)

	spec := NewTypeSpec("SpecDerived", newPointImpl()).Base(base)
	derived, raised := factory.FromSpec(f, spec)
	require.Nil(t, raised)

	names := make([]string, len(derived.MRO()))
	for i, anc := range derived.MRO() {
		names[i] = anc.Name()
	}
	assert.Equal(t, []string{"SpecDerived", "SpecBase", "object"}, names)
}
