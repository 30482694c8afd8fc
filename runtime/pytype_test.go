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

// TestMROClassicDiamond checks C3 linearisation on the textbook
// O / A,B / C inheriting A,B diamond (§4.2 step 2, §9 "deep / multiple
// inheritance").
func TestMROClassicDiamond(t *testing.T) {
	f := NewRootFrame()
	a, raised := factory.FromSubclassSpec(f, &SubclassSpec{Name: "A", Bases: []*PyType{ObjectType}})
	require.Nil(t, raised)
	b, raised := factory.FromSubclassSpec(f, &SubclassSpec{Name: "B", Bases: []*PyType{ObjectType}})
	require.Nil(t, raised)
	c, raised := factory.FromSubclassSpec(f, &SubclassSpec{Name: "C", Bases: []*PyType{a, b}})
	require.Nil(t, raised)

	names := make([]string, len(c.MRO()))
	for i, anc := range c.MRO() {
		names[i] = anc.Name()
	}
	assert.Equal(t, []string{"C", "A", "B", "object"}, names)
}

func TestMROInconsistentHierarchyRejected(t *testing.T) {
	f := NewRootFrame()
	x, raised := factory.FromSubclassSpec(f, &SubclassSpec{Name: "X", Bases: []*PyType{ObjectType}})
	require.Nil(t, raised)
	y, raised := factory.FromSubclassSpec(f, &SubclassSpec{Name: "Y", Bases: []*PyType{x}})
	require.Nil(t, raised)

	// Z(Y, X) is fine: Y's own MRO already puts X after Y, and these bases
	// agree. Z2(X, Y) is not: X would have to precede Y from the explicit
	// bases list, yet Y's own MRO demands X come after Y.
	z, raised := factory.FromSubclassSpec(f, &SubclassSpec{Name: "Z", Bases: []*PyType{y, x}})
	require.Nil(t, raised)
	names := make([]string, len(z.MRO()))
	for i, anc := range z.MRO() {
		names[i] = anc.Name()
	}
	assert.Equal(t, []string{"Z", "Y", "X", "object"}, names)

	_, raised = factory.FromSubclassSpec(f, &SubclassSpec{Name: "Z2", Bases: []*PyType{x, y}})
	require.NotNil(t, raised)
	assert.True(t, raised.Matches(TypeErrorType))
}

func TestImmutableTypeRejectsSetAttr(t *testing.T) {
	raised := IntType.SetAttr("bogus", newMemberDescriptor("bogus", 0, false, true))
	require.NotNil(t, raised)
	assert.True(t, raised.Matches(TypeErrorType))
}

func TestGetAttrSearchesMRO(t *testing.T) {
	f := NewRootFrame()
	base, raised := factory.FromSubclassSpec(f, &SubclassSpec{Name: "Base", Bases: []*PyType{ObjectType}, Slots: []string{"tag"}})
	require.Nil(t, raised)
	derived, raised := factory.FromSubclassSpec(f, &SubclassSpec{Name: "Derived", Bases: []*PyType{base}})
	require.Nil(t, raised)

	d, defining := derived.mroLookup("tag")
	require.NotNil(t, d)
	assert.Equal(t, base, defining)
}
