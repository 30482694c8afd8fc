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

// ObjectType and TypeType are the two types whose construction must break
// the type(type)==type / type(object)==type cycle; see bootstrap.go.
var (
	ObjectType *PyType
	TypeType   *PyType
)

var (
	IntType   *PyType
	FloatType *PyType
	BoolType  *PyType
	StrType   *PyType
	NoneType  *PyType
)

// None is the sole NoneType instance, boxed once at bootstrap. ArgParser's
// literal default parsing (argparser.go) returns this value for a "None"
// default literal.
var None Object

var noneHostClass = NewHostClass("NoneType", nil)

func init() {
	bootstrap()
}

func nameOrUnknown(o Object) string {
	if t, raised := typeOf(o); raised == nil {
		return t.Name()
	}
	return "?"
}

// --- int / bool / float -----------------------------------------------

// intValue unboxes o as an integral value, accepting both int's own Long
// representation and bool's Boolean representation: this is the numeric
// half of the bool-accepted-non-representationally illustration (§3), the
// Go-level counterpart of CPython's int(x) on a bool.
func intValue(o Object) (int64, bool) {
	switch v := o.value.(type) {
	case int64:
		return v, true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func buildNumericTower() {
	IntType = newLinkedType("int", ObjectType, longHostClass, FeatureBaseType)
	installWrapper(IntType, "__neg__", intNeg, longHostClass, booleanHostClass)
	installWrapper(IntType, "__add__", intAdd, longHostClass, booleanHostClass)
	installWrapper(IntType, "__repr__", intRepr, longHostClass, booleanHostClass)
	publishImmutable(IntType)

	// bool IS-A int (CPython's own layout), but Boolean is never added to
	// IntType.acceptedReps: a bool dispatches into int's methods purely by
	// inheriting them through its MRO and by those methods' wrapped[]
	// vectors listing booleanHostClass as an additional accepted host
	// class, not by bool occupying a representation slot on int itself
	// (§3, §8 seed test 2).
	BoolType = newLinkedType("bool", IntType, booleanHostClass, 0)
	publishImmutable(BoolType)

	FloatType = newLinkedType("float", ObjectType, doubleHostClass, FeatureBaseType)
	installWrapper(FloatType, "__neg__", floatNeg, doubleHostClass)
	installWrapper(FloatType, "__add__", floatAdd, doubleHostClass)
	installWrapper(FloatType, "__repr__", floatRepr, doubleHostClass)
	publishImmutable(FloatType)
}

func intNeg(f *Frame, self Object, args Args) (Object, *PyError) {
	v, _ := intValue(self)
	return NewInt(-v), nil
}

func intAdd(f *Frame, self Object, args Args) (Object, *PyError) {
	a, _ := intValue(self)
	if len(args) != 1 {
		return Object{}, f.RaiseType(TypeErrorType, "__add__() takes exactly one argument")
	}
	b, ok := intValue(args[0])
	if !ok {
		return Object{}, f.RaiseType(TypeErrorType, fmt.Sprintf(
			"unsupported operand type(s) for +: 'int' and '%s'", nameOrUnknown(args[0])))
	}
	return NewInt(a + b), nil
}

func intRepr(f *Frame, self Object, args Args) (Object, *PyError) {
	v, _ := intValue(self)
	return NewStr(strconv.FormatInt(v, 10)), nil
}

func floatNeg(f *Frame, self Object, args Args) (Object, *PyError) {
	return NewFloat(-asFloat(self)), nil
}

func floatAdd(f *Frame, self Object, args Args) (Object, *PyError) {
	if len(args) != 1 {
		return Object{}, f.RaiseType(TypeErrorType, "__add__() takes exactly one argument")
	}
	b, ok := args[0].value.(float64)
	if !ok {
		return Object{}, f.RaiseType(TypeErrorType, fmt.Sprintf(
			"unsupported operand type(s) for +: 'float' and '%s'", nameOrUnknown(args[0])))
	}
	return NewFloat(asFloat(self) + b), nil
}

func floatRepr(f *Frame, self Object, args Args) (Object, *PyError) {
	return NewStr(strconv.FormatFloat(asFloat(self), 'g', -1, 64)), nil
}

// --- str -----------------------------------------------------------------

func buildStr() {
	StrType = newLinkedType("str", ObjectType, stringHostClass, FeatureBaseType)
	installWrapper(StrType, "__repr__", strRepr, stringHostClass)
	installWrapper(StrType, "__add__", strAdd, stringHostClass)
	publishImmutable(StrType)
}

func strRepr(f *Frame, self Object, args Args) (Object, *PyError) {
	return NewStr(strconv.Quote(asStr(self))), nil
}

func strAdd(f *Frame, self Object, args Args) (Object, *PyError) {
	if len(args) != 1 {
		return Object{}, f.RaiseType(TypeErrorType, "__add__() takes exactly one argument")
	}
	b, ok := args[0].value.(string)
	if !ok {
		return Object{}, f.RaiseType(TypeErrorType, fmt.Sprintf(
			"unsupported operand type(s) for +: 'str' and '%s'", nameOrUnknown(args[0])))
	}
	return NewStr(asStr(self) + b), nil
}

// --- NoneType --------------------------------------------------------------

func buildNone() {
	NoneType = newLinkedType("NoneType", ObjectType, noneHostClass, 0)
	installWrapper(NoneType, "__repr__", func(f *Frame, self Object, args Args) (Object, *PyError) {
		return NewStr("None"), nil
	}, noneHostClass)
	publishImmutable(NoneType)
	None = NewObject(noneHostClass, nil)
}

// --- exception clique (§4.7) ------------------------------------------

var exceptionHostClass = NewHostClass("BaseException", instanceGoType)

func buildExceptionClique() {
	rep := &sharedRepresentation{hostClass: exceptionHostClass}

	newExcType := func(name string, base *PyType) *PyType {
		t := &PyType{
			name:         name,
			hostClass:    exceptionHostClass,
			acceptedReps: []*HostClass{exceptionHostClass},
			features:     FeatureReplaceable,
			state:        stateLinked,
		}
		if base != nil {
			t.base = base
			t.bases = []*PyType{base}
			t.mro = mroCalc(t.bases, t)
		} else {
			t.mro = []*PyType{t}
		}
		t.rep = rep
		installMember(t, "args", exceptionMessageSlot, false, true)
		t.state = stateReady
		t.features |= FeatureReady
		rep.members = append(rep.members, t)
		exceptionClique = append(exceptionClique, t)
		return t
	}

	BaseExceptionType = newExcType("BaseException", ObjectType)
	ExceptionType = newExcType("Exception", BaseExceptionType)
	TypeErrorType = newExcType("TypeError", ExceptionType)
	ValueErrorType = newExcType("ValueError", ExceptionType)
	AttributeErrorType = newExcType("AttributeError", ExceptionType)
	NameErrorType = newExcType("NameError", ExceptionType)
	LookupErrorType = newExcType("LookupError", ExceptionType)
	KeyErrorType = newExcType("KeyError", LookupErrorType)
	StopIterationType = newExcType("StopIteration", ExceptionType)
	InterpreterErrorType = newExcType("InterpreterError", ExceptionType)

	registry.Register(exceptionHostClass, rep)
}
