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
	"strconv"
)

// BindingMode is the parameter binding mode vocabulary from §4.4.
type BindingMode int

const (
	PositionalOnly BindingMode = iota
	PositionalOrKeyword
	KeywordOnly
	VarPositional
	VarKeyword
)

// Param describes one parameter of a declared signature.
type Param struct {
	Name string
	Mode BindingMode
	// HasDefault/Default describe an already-parsed default value, normally
	// produced by ParseDefaultLiteral, which reports a literal parsing
	// failure as a ValueError (§7) before the ArgParser is built.
	HasDefault bool
	Default    Object
}

// ArgParser parses positional/keyword argument vectors against a declared
// signature, including positional-only, keyword-only, *args and **kwargs
// collection, and defaults (§4.4).
type ArgParser struct {
	funcName       string
	params         []Param
	varPositionalI int // index into params of the VAR_POSITIONAL collector, or -1
	varKeywordI    int // index into params of the VAR_KEYWORD collector, or -1
	numPositional  int // count of params reachable positionally (before any VAR_POSITIONAL)
}

// NewArgParser builds an ArgParser for funcName from params, validating the
// structural rule that a VAR_POSITIONAL collector closes off positional
// binding for every subsequent non-VAR_KEYWORD parameter (§4.4).
func NewArgParser(funcName string, params []Param) *ArgParser {
	p := &ArgParser{funcName: funcName, params: params, varPositionalI: -1, varKeywordI: -1}
	seenVarPositional := false
	for i, param := range params {
		switch param.Mode {
		case VarPositional:
			p.varPositionalI = i
			seenVarPositional = true
		case VarKeyword:
			p.varKeywordI = i
		case PositionalOnly, PositionalOrKeyword:
			if seenVarPositional {
				logFatal(fmt.Sprintf("%s: positional parameter %q declared after *args collector", funcName, param.Name))
			}
			p.numPositional++
		case KeywordOnly:
			// always reachable only by keyword; does not affect numPositional
		}
	}
	return p
}

// ParseDefaultLiteral parses a literal string (as would follow @Default(...))
// into an Object, returning a ValueError on failure (§7).
func ParseDefaultLiteral(f *Frame, literal string) (Object, *PyError) {
	if literal == "None" {
		return None, nil
	}
	if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
		return NewInt(i), nil
	}
	if b, err := strconv.ParseBool(literal); err == nil {
		return NewBool(b), nil
	}
	if d, err := strconv.ParseFloat(literal, 64); err == nil {
		return NewFloat(d), nil
	}
	if len(literal) >= 2 && literal[0] == '\'' && literal[len(literal)-1] == '\'' {
		return NewStr(literal[1 : len(literal)-1]), nil
	}
	return Object{}, f.RaiseType(ValueErrorType, fmt.Sprintf("invalid default literal: %q", literal))
}

// Parse binds a call-site (args, kwargs) vector against p's declared
// signature and returns the bound parameter values in declaration order
// (callers index the result the same way they index params).
func (p *ArgParser) Parse(f *Frame, name string, args Args, kwargs KWArgs) (Args, *PyError) {
	bound := make(Args, len(p.params))
	consumedKw := make(map[string]bool, len(kwargs))

	positionalLimit := p.numPositional
	if positionalLimit > len(args) {
		positionalLimit = len(args)
	}
	if p.varPositionalI < 0 && len(args) > p.numPositional {
		return nil, f.RaiseType(TypeErrorType, fmt.Sprintf(
			"%s() takes at most %d positional argument(s) (%d given)", name, p.numPositional, len(args)))
	}
	posCursor := 0
	for i, param := range p.params {
		switch param.Mode {
		case PositionalOnly, PositionalOrKeyword:
			if posCursor < positionalLimit {
				bound[i] = args[posCursor]
				posCursor++
				continue
			}
			if param.Mode == PositionalOrKeyword {
				if v, ok := kwargs.get(param.Name); ok {
					bound[i] = v
					consumedKw[param.Name] = true
					continue
				}
			}
			if param.HasDefault {
				bound[i] = param.Default
				continue
			}
			if param.Mode == PositionalOnly {
				return nil, f.RaiseType(TypeErrorType, fmt.Sprintf(
					"%s() takes at least %d positional argument(s)", name, p.numPositional))
			}
			return nil, f.RaiseType(TypeErrorType, fmt.Sprintf(
				"%s() missing required argument: '%s'", name, param.Name))
		case KeywordOnly:
			if v, ok := kwargs.get(param.Name); ok {
				bound[i] = v
				consumedKw[param.Name] = true
			} else if param.HasDefault {
				bound[i] = param.Default
			} else {
				return nil, f.RaiseType(TypeErrorType, fmt.Sprintf(
					"%s() missing required keyword-only argument: '%s'", name, param.Name))
			}
		case VarPositional:
			rest := args[posCursor:]
			tuple := make(Args, len(rest))
			copy(tuple, rest)
			bound[i] = NewObject(tupleHostClass, tuple)
			posCursor = len(args)
		case VarKeyword:
			extra := make(KWArgs, 0)
			for _, kw := range kwargs {
				if !consumedKw[kw.Name] {
					extra = append(extra, kw)
				}
			}
			bound[i] = NewObject(kwDictHostClass, extra)
		}
	}
	if posCursor < len(args) {
		return nil, f.RaiseType(TypeErrorType, fmt.Sprintf(
			"%s() takes at most %d positional argument(s) (%d given)", name, p.numPositional, len(args)))
	}
	if p.varKeywordI < 0 {
		for _, kw := range kwargs {
			if !consumedKw[kw.Name] {
				return nil, f.RaiseType(TypeErrorType, fmt.Sprintf(
					"%s() got an unexpected keyword argument '%s'", name, kw.Name))
			}
		}
	}
	return bound, nil
}

var (
	tupleHostClass  = NewHostClass("tuple", nil)
	kwDictHostClass = NewHostClass("dict", nil)
)
