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

// f(a, b=None): a positional-or-keyword, b positional-or-keyword with a
// None default.
func fABParser(t *testing.T) *ArgParser {
	none, raised := ParseDefaultLiteral(NewRootFrame(), "None")
	require.Nil(t, raised)
	return NewArgParser("f", []Param{
		{Name: "a", Mode: PositionalOrKeyword},
		{Name: "b", Mode: PositionalOrKeyword, HasDefault: true, Default: none},
	})
}

func TestArgParserBindingModes(t *testing.T) {
	f := NewRootFrame()
	p := fABParser(t)

	cases := []struct {
		name       string
		args       Args
		kwargs     KWArgs
		wantA      Object
		wantB      Object
		wantErr    bool
		wantErrSub *PyType
	}{
		{
			name:  "f(1) uses default for b",
			args:  Args{NewInt(1)},
			wantA: NewInt(1),
			wantB: None,
		},
		{
			name:   "f(1, b=2) binds b by keyword",
			args:   Args{NewInt(1)},
			kwargs: KWArgs{{Name: "b", Value: NewInt(2)}},
			wantA:  NewInt(1),
			wantB:  NewInt(2),
		},
		{
			name:       "f(1, 2, 3) rejects extra positional",
			args:       Args{NewInt(1), NewInt(2), NewInt(3)},
			wantErr:    true,
			wantErrSub: TypeErrorType,
		},
	}
	for _, cas := range cases {
		t.Run(cas.name, func(t *testing.T) {
			bound, raised := p.Parse(f, "f", cas.args, cas.kwargs)
			if cas.wantErr {
				require.NotNil(t, raised)
				assert.True(t, raised.Matches(cas.wantErrSub))
				return
			}
			require.Nil(t, raised)
			assert.Equal(t, cas.wantA.Value(), bound[0].Value())
			assert.Equal(t, cas.wantB.Value(), bound[1].Value())
		})
	}
}

func TestArgParserPositionalOnlyRejectsKeyword(t *testing.T) {
	f := NewRootFrame()
	p := NewArgParser("g", []Param{{Name: "a", Mode: PositionalOnly}})
	_, raised := p.Parse(f, "g", nil, KWArgs{{Name: "a", Value: NewInt(1)}})
	require.NotNil(t, raised)
	assert.True(t, raised.Matches(TypeErrorType))
}

func TestArgParserVarPositionalAndVarKeyword(t *testing.T) {
	f := NewRootFrame()
	p := NewArgParser("h", []Param{
		{Name: "a", Mode: PositionalOrKeyword},
		{Name: "rest", Mode: VarPositional},
		{Name: "kw", Mode: VarKeyword},
	})
	bound, raised := p.Parse(f, "h", Args{NewInt(1), NewInt(2), NewInt(3)}, KWArgs{{Name: "x", Value: NewInt(9)}})
	require.Nil(t, raised)
	rest := bound[1].Value().(Args)
	assert.Len(t, rest, 2)
	extra := bound[2].Value().(KWArgs)
	assert.Len(t, extra, 1)
	assert.Equal(t, "x", extra[0].Name)
}

func TestParseDefaultLiteralInvalid(t *testing.T) {
	f := NewRootFrame()
	_, raised := ParseDefaultLiteral(f, "{not a literal")
	require.NotNil(t, raised)
	assert.True(t, raised.Matches(ValueErrorType))
}

func TestParseDefaultLiteralNoneIsDistinctFromAbsent(t *testing.T) {
	f := NewRootFrame()
	none, raised := ParseDefaultLiteral(f, "None")
	require.Nil(t, raised)
	assert.False(t, none.IsNil(), "None must be a real value, not the absent-attribute sentinel")
	gotType, raised := typeOf(none)
	require.Nil(t, raised)
	assert.Equal(t, NoneType, gotType)
}
