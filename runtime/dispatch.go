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
	"reflect"
)

// typeOf resolves o to its Python type through the Registry (§4.1, §4.5 step
// 1). Every attribute lookup and special-method dispatch starts here.
func typeOf(o Object) (*PyType, *PyError) {
	rep, raised := registry.Lookup(hostClassOf(o))
	if raised != nil {
		return nil, raised
	}
	return rep.PythonType(o), nil
}

// typeOfHostClass is the diagnostic-only counterpart used by descriptor
// error messages (§4.5 step 4), where only the offending HostClass, not the
// live Object, is at hand. It cannot resolve a Shared representation to one
// type, since a Shared representation deliberately serves many types.
func typeOfHostClass(hc *HostClass) (*PyType, error) {
	rep, raised := registry.Lookup(hc)
	if raised != nil {
		return nil, raised
	}
	if rep.Kind() == RepShared {
		return nil, fmt.Errorf("host class %q has a shared representation with no single owning type", hc.Name())
	}
	return rep.PythonType(Object{hostClass: hc}), nil
}

// boundMethod is what GetAttr hands back for any callable descriptor
// (MethodDescriptor, WrapperDescriptor, StaticMethodDescriptor, NewMethod):
// a self-contained closure plus enough identity to format a repr, mirroring
// the teacher's own Method/Function wrapper objects (method.go, function.go)
// without needing a distinct Go type per descriptor kind.
type boundMethod struct {
	name string
	self Object
	call func(f *Frame, args Args, kwargs KWArgs) (Object, *PyError)
}

var boundMethodHostClass = NewHostClass("builtin_function_or_method", reflect.TypeOf(boundMethod{}))

func newBoundMethod(name string, self Object, call func(f *Frame, args Args, kwargs KWArgs) (Object, *PyError)) Object {
	return NewObject(boundMethodHostClass, &boundMethod{name: name, self: self, call: call})
}

// bind turns d, found on defining while searching from t, into a callable
// Object bound to self (§4.5 step 3: "what MRO search returns is handed to
// the appropriate descriptor protocol method").
func bind(f *Frame, self Object, t, defining *PyType, d Descriptor) (Object, *PyError) {
	switch desc := d.(type) {
	case *MethodDescriptor:
		return newBoundMethod(desc.Name(), self, func(f *Frame, args Args, kwargs KWArgs) (Object, *PyError) {
			return desc.Call(f, self, args, kwargs)
		}), nil
	case *WrapperDescriptor:
		rep, raised := registry.Lookup(hostClassOf(self))
		if raised != nil {
			return Object{}, raised
		}
		fn, raised := desc.resolve(f, t, rep, self)
		if raised != nil {
			return Object{}, raised
		}
		return newBoundMethod(desc.Name(), self, func(f *Frame, args Args, kwargs KWArgs) (Object, *PyError) {
			return fn(f, self, args)
		}), nil
	case *StaticMethodDescriptor:
		return newBoundMethod(desc.Name(), self, func(f *Frame, args Args, kwargs KWArgs) (Object, *PyError) {
			return desc.Call(f, args, kwargs)
		}), nil
	case *NewMethod:
		pt, ok := self.value.(*PyType)
		if !ok {
			pt = t
		}
		return newBoundMethod(desc.Name(), self, func(f *Frame, args Args, kwargs KWArgs) (Object, *PyError) {
			return desc.Call(f, pt, args, kwargs)
		}), nil
	default:
		return Object{}, nil
	}
}

func isCallableDescriptor(d Descriptor) bool {
	switch d.(type) {
	case *MethodDescriptor, *WrapperDescriptor, *StaticMethodDescriptor, *NewMethod:
		return true
	}
	return false
}

// GetAttr implements the full attribute-lookup abstract operation (§4.5
// steps 1-3): resolve o's type, search its MRO for name, and dispatch into
// whichever descriptor protocol method applies. Instance-dict fallback
// (§3 HAS_DICT) is checked only once the MRO search comes up empty, matching
// normal-vs-data-descriptor precedence in spirit (this core does not
// distinguish data vs non-data descriptors beyond member/getset vs dict).
func GetAttr(f *Frame, o Object, name string) (Object, *PyError) {
	t, raised := typeOf(o)
	if raised != nil {
		return Object{}, raised
	}
	if d, defining := t.mroLookup(name); d != nil {
		switch desc := d.(type) {
		case *GetSetDescriptor:
			return desc.Get(f, o)
		case *MemberDescriptor:
			return desc.Get(f, o)
		}
		if isCallableDescriptor(d) {
			return bind(f, o, t, defining, d)
		}
	}
	if inst, ok := o.value.(*instance); ok {
		if v, ok := inst.getDictItem(name); ok {
			return v, nil
		}
	}
	return Object{}, f.RaiseType(AttributeErrorType, fmt.Sprintf("'%s' object has no attribute '%s'", t.Name(), name))
}

// SetAttr implements §4.5's write counterpart.
func SetAttr(f *Frame, o Object, name string, value Object) *PyError {
	t, raised := typeOf(o)
	if raised != nil {
		return raised
	}
	if d, _ := t.mroLookup(name); d != nil {
		switch desc := d.(type) {
		case *GetSetDescriptor:
			return desc.Set(f, o, value)
		case *MemberDescriptor:
			return desc.Set(f, o, value)
		}
		return f.RaiseType(AttributeErrorType, fmt.Sprintf("'%s' object attribute '%s' is not writable", t.Name(), name))
	}
	if inst, ok := o.value.(*instance); ok {
		inst.setDictItem(name, value)
		return nil
	}
	return f.RaiseType(AttributeErrorType, fmt.Sprintf("'%s' object has no attribute '%s'", t.Name(), name))
}

// DelAttr implements §4.5's delete counterpart.
func DelAttr(f *Frame, o Object, name string) *PyError {
	t, raised := typeOf(o)
	if raised != nil {
		return raised
	}
	if d, _ := t.mroLookup(name); d != nil {
		switch desc := d.(type) {
		case *GetSetDescriptor:
			return desc.Delete(f, o)
		case *MemberDescriptor:
			return desc.Delete(f, o)
		}
		return f.RaiseType(AttributeErrorType, fmt.Sprintf("'%s' object attribute '%s' cannot be deleted", t.Name(), name))
	}
	if inst, ok := o.value.(*instance); ok {
		if _, ok := inst.getDictItem(name); !ok {
			return f.RaiseType(AttributeErrorType, name)
		}
		delete(inst.dict, name)
		return nil
	}
	return f.RaiseType(AttributeErrorType, fmt.Sprintf("'%s' object has no attribute '%s'", t.Name(), name))
}

func findSpecialMethod(t *PyType, name string) (*WrapperDescriptor, *PyType) {
	d, defining := t.mroLookup(name)
	if d == nil {
		return nil, nil
	}
	wd, ok := d.(*WrapperDescriptor)
	if !ok {
		return nil, nil
	}
	return wd, defining
}

// unarySpecial implements a unary special method invocation (§4.5 step 4,
// collapsed to the single-receiver case).
func unarySpecial(f *Frame, o Object, name string) (Object, *PyError) {
	t, raised := typeOf(o)
	if raised != nil {
		return Object{}, raised
	}
	wd, _ := findSpecialMethod(t, name)
	if wd == nil {
		return Object{}, f.RaiseType(TypeErrorType, fmt.Sprintf("bad operand type for %s: '%s'", name, t.Name()))
	}
	rep, raised := registry.Lookup(hostClassOf(o))
	if raised != nil {
		return Object{}, raised
	}
	fn, raised := wd.resolve(f, t, rep, o)
	if raised != nil {
		return Object{}, raised
	}
	return fn(f, o, nil)
}

// binarySpecial implements a binary special method invocation dispatched on
// the left operand's type, per §4.5 step 4.
func binarySpecial(f *Frame, a, b Object, name string) (Object, *PyError) {
	t, raised := typeOf(a)
	if raised != nil {
		return Object{}, raised
	}
	wd, _ := findSpecialMethod(t, name)
	if wd == nil {
		return Object{}, f.RaiseType(TypeErrorType, fmt.Sprintf(
			"unsupported operand type(s) for %s: '%s'", name, t.Name()))
	}
	rep, raised := registry.Lookup(hostClassOf(a))
	if raised != nil {
		return Object{}, raised
	}
	fn, raised := wd.resolve(f, t, rep, a)
	if raised != nil {
		return Object{}, raised
	}
	return fn(f, a, Args{b})
}

// Neg implements __neg__ dispatch, a seed-scenario illustration of §4.5.
func Neg(f *Frame, o Object) (Object, *PyError) { return unarySpecial(f, o, "__neg__") }

// Add implements __add__ dispatch.
func Add(f *Frame, a, b Object) (Object, *PyError) { return binarySpecial(f, a, b, "__add__") }

// ReprOf implements __repr__ dispatch.
func ReprOf(f *Frame, o Object) (Object, *PyError) { return unarySpecial(f, o, "__repr__") }

// SetClass implements `__class__` reassignment (§3 invariant, §4.6 step 5,
// §8 seed test 6): legal only when o's representation is Shared and the
// target type cites that same Shared representation — i.e. when both
// classes were synthesized (or bootstrapped, for the exception clique)
// over the identical layout. Reassigning to a type backed by a different
// representation is a layout TypeError, not a panic: Go's `instance` struct
// can physically hold the new class pointer regardless, so without this
// check a cross-clique/cross-layout reassignment would silently succeed
// and corrupt later dispatch.
func SetClass(f *Frame, o Object, newType *PyType) *PyError {
	inst, ok := o.value.(*instance)
	if !ok {
		return f.RaiseType(TypeErrorType, "__class__ assignment only supported for heap types")
	}
	rep, raised := registry.Lookup(inst.hostClass)
	if raised != nil {
		return raised
	}
	shared, ok := rep.(*sharedRepresentation)
	if !ok || !shared.accepts(newType) {
		return f.RaiseType(TypeErrorType, fmt.Sprintf(
			"__class__ assignment: only compatible layouts are allowed (%s and %s)",
			inst.class.Name(), newType.Name()))
	}
	inst.class = newType
	return nil
}

func findNewMethod(t *PyType) (*NewMethod, *PyError) {
	d, _ := t.mroLookup("__new__")
	nm, ok := d.(*NewMethod)
	if !ok {
		return nil, newPyError(TypeErrorType, fmt.Sprintf("cannot create '%s' instances", t.Name()))
	}
	return nm, nil
}

// Call implements Callables.call (§6): invoke callee, which must be a
// boundMethod (produced by GetAttr) or a PyType (whose __new__ constructs an
// instance).
func Call(f *Frame, callee Object, args Args, kwargs KWArgs) (Object, *PyError) {
	switch v := callee.value.(type) {
	case *boundMethod:
		return v.call(f, args, kwargs)
	case *PyType:
		nm, raised := findNewMethod(v)
		if raised != nil {
			return Object{}, raised
		}
		return nm.Call(f, v, args, kwargs)
	}
	name := "?"
	if t, raised := typeOf(callee); raised == nil {
		name = t.Name()
	}
	return Object{}, f.RaiseType(TypeErrorType, fmt.Sprintf("'%s' object is not callable", name))
}
