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

// TestNewMethodReprNamesOwningType guards against NewMethod.Repr hardcoding
// the literal word "type" instead of the descriptor's actual defining type.
func TestNewMethodReprNamesOwningType(t *testing.T) {
	f := NewRootFrame()
	impl := newPointImpl()
	spec := NewTypeSpec("ReprCounter", impl).Constructor(nil, func(f *Frame, t *PyType, args Args, kwargs KWArgs) (Object, *PyError) {
		return NewObject(t.HostClass(), int64(0)), nil
	})
	counterType, raised := factory.FromSpec(f, spec)
	require.Nil(t, raised)

	d, ok := counterType.GetAttr("__new__")
	require.True(t, ok)
	nm, ok := d.(*NewMethod)
	require.True(t, ok)
	assert.Equal(t, "<built-in method __new__ of ReprCounter object at 0x0>", nm.Repr())
}

// TestMemberDescriptorDeleteRequiredVsOptional checks the "optional" flag
// documented on MemberDescriptor actually changes Delete's behavior: an
// optional member may be deleted once and then raises AttributeError on
// redelete, while a non-optional (required) member rejects deletion
// outright, even on its first attempt.
func TestMemberDescriptorDeleteRequiredVsOptional(t *testing.T) {
	f := NewRootFrame()
	typ := &PyType{name: "Slotted", hostClass: NewHostClass("Slotted", instanceGoType)}
	typ.mro = []*PyType{typ}
	self := newInstance(typ).toObject()

	optional := newMemberDescriptor("opt", 0, false, true)
	require.Nil(t, optional.Set(f, self, NewInt(1)))
	require.Nil(t, optional.Delete(f, self))
	raised := optional.Delete(f, self)
	require.NotNil(t, raised)
	assert.True(t, raised.Matches(AttributeErrorType))

	required := newMemberDescriptor("req", 1, false, false)
	require.Nil(t, required.Set(f, self, NewInt(2)))
	raised = required.Delete(f, self)
	require.NotNil(t, raised, "a required (non-optional) member must reject deletion outright")
	assert.True(t, raised.Matches(AttributeErrorType))
	got, raised := required.Get(f, self)
	require.Nil(t, raised)
	assert.EqualValues(t, 2, got.Value(), "rejected delete on a required member must not clear the slot")
}
