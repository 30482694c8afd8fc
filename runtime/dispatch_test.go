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

// TestSimpleDispatch is seed scenario 1: a plain int's __neg__ resolves
// through its own type with no inheritance involved.
func TestSimpleDispatch(t *testing.T) {
	f := NewRootFrame()
	got, raised := Neg(f, NewInt(5))
	require.Nil(t, raised)
	assert.EqualValues(t, -5, got.Value())
}

// TestBoolInheritsIntDispatch is seed scenario 2: bool has no
// representation slot of its own on int, yet a bool value still reaches
// int's __neg__/__add__ through inherited MRO dispatch, via the wrapped[]
// accepted-host-class scan rather than the representation index fast path.
func TestBoolInheritsIntDispatch(t *testing.T) {
	f := NewRootFrame()

	negGot, raised := Neg(f, NewBool(true))
	require.Nil(t, raised)
	assert.EqualValues(t, -1, negGot.Value())

	addGot, raised := Add(f, NewBool(true), NewInt(41))
	require.Nil(t, raised)
	assert.EqualValues(t, 42, addGot.Value())

	boolType, raised := typeOf(NewBool(false))
	require.Nil(t, raised)
	assert.Equal(t, BoolType, boolType)
	assert.True(t, boolType.IsSubclass(IntType))
	assert.NotContains(t, IntType.AcceptedReps(), booleanHostClass,
		"bool must reach int's methods by inheritance, not by occupying an accepted-representation slot on int")
}

func TestAddTypeMismatchRaisesTypeError(t *testing.T) {
	f := NewRootFrame()
	_, raised := Add(f, NewInt(1), NewStr("x"))
	require.NotNil(t, raised)
	assert.True(t, raised.Matches(TypeErrorType))
}

func TestGetAttrInstanceDictFallback(t *testing.T) {
	f := NewRootFrame()
	spec := &SubclassSpec{Name: "Point", Bases: []*PyType{ObjectType}, HasDict: true}
	pointType, raised := factory.FromSubclassSpec(f, spec)
	require.Nil(t, raised)

	obj := newInstance(pointType).toObject()
	require.Nil(t, SetAttr(f, obj, "x", NewInt(3)))

	got, raised := GetAttr(f, obj, "x")
	require.Nil(t, raised)
	assert.EqualValues(t, 3, got.Value())

	_, raised = GetAttr(f, obj, "y")
	require.NotNil(t, raised)
	assert.True(t, raised.Matches(AttributeErrorType))
}

func TestCallBoundMethod(t *testing.T) {
	f := NewRootFrame()
	reprObj, raised := GetAttr(f, NewInt(7), "__repr__")
	require.Nil(t, raised)
	got, raised := Call(f, reprObj, nil, nil)
	require.Nil(t, raised)
	assert.Equal(t, "7", got.Value())
}

func TestCallNonCallableRaisesTypeError(t *testing.T) {
	f := NewRootFrame()
	_, raised := Call(f, NewInt(1), nil, nil)
	require.NotNil(t, raised)
	assert.True(t, raised.Matches(TypeErrorType))
}
