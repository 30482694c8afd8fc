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
	"strconv"
	"strings"
)

// Exposer scans a host implementation struct for fields tagged `py:"..."`
// and installs the corresponding descriptor on a PyType under construction
// (§5 "Exposer: scanning annotated host methods into descriptors"). The
// original system uses annotations on compiled methods; Go has no
// annotation facility, so struct tags on function-valued fields are the
// idiomatic stand-in (the same mechanism encoding/json and most Go
// validation libraries use to carry metadata the language itself can't
// express). A host implementation struct therefore declares its exposed
// surface as a set of tagged fields rather than as annotated methods:
//
//	type floatImpl struct {
//	    Neg  WrapperFunc `py:"__neg__,special"`
//	    Add  WrapperFunc `py:"__add__,special"`
//	    Abs  MethodFunc  `py:"__abs__,method"`
//	}
//
// Tag kinds: "special" (WrapperDescriptor, special-method slot), "method"
// (MethodDescriptor), "static" (StaticMethodDescriptor), "get"/"set"/"del"
// (same-named GetSetDescriptor, one tag per accessor), "member" (direct slot
// access via MemberDescriptor; unlike the other kinds the field's own value
// is irrelevant, and the slot index rides as a third tag argument, e.g.
// `py:"args,member,0"`).
type Exposer struct{}

func newExposer() *Exposer { return &Exposer{} }

// scan populates t's attribute table from impl's tagged fields, treating
// host class hc as the sole accepted representation for every descriptor it
// installs. impl must be a non-nil pointer to a struct whose tagged fields
// are already populated with the Go functions to expose.
func (e *Exposer) scan(f *Frame, t *PyType, hc *HostClass, impl any) *PyError {
	if impl == nil {
		return nil
	}
	rv := reflect.ValueOf(impl)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		logFatal(fmt.Sprintf("exposer: %s implementation must be a struct, got %s", t.Name(), rv.Kind()))
		return nil
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag, ok := field.Tag.Lookup("py")
		if !ok {
			continue
		}
		parts := strings.SplitN(tag, ",", 3)
		name := parts[0]
		kind := "method"
		if len(parts) > 1 {
			kind = parts[1]
		}
		// "member" declares direct slot access; unlike the function-valued
		// kinds below, the tagged field carries no implementation to be
		// zero or not, so it is installed unconditionally from the tag's
		// slot-index argument rather than from the field's value.
		if kind == "member" {
			if raised := e.installMember(f, t, name, parts); raised != nil {
				return raised
			}
			continue
		}
		fv := rv.Field(i)
		if fv.IsZero() {
			continue
		}
		if raised := e.installField(f, t, hc, name, kind, fv); raised != nil {
			return raised
		}
	}
	return nil
}

// installMember installs a MemberDescriptor from a "member" tag, mirroring
// bootstrap.go's installMember helper: parts[2] is the slot index the tag
// carries (`py:"name,member,slotIndex"`).
func (e *Exposer) installMember(f *Frame, t *PyType, name string, parts []string) *PyError {
	if len(parts) < 3 {
		logFatal(fmt.Sprintf("exposer: member tag for %q on %s is missing a slot index", name, t.Name()))
		return nil
	}
	slotIndex, err := strconv.Atoi(parts[2])
	if err != nil {
		logFatal(fmt.Sprintf("exposer: member tag for %q on %s has a non-numeric slot index %q", name, t.Name(), parts[2]))
		return nil
	}
	md := newMemberDescriptor(name, slotIndex, false, true)
	md.setDefiningType(t)
	return t.SetAttr(name, md)
}

func (e *Exposer) installField(f *Frame, t *PyType, hc *HostClass, name, kind string, fv reflect.Value) *PyError {
	switch kind {
	case "special":
		fn, ok := fv.Interface().(WrapperFunc)
		if !ok {
			logFatal(fmt.Sprintf("exposer: field for %q on %s is not a WrapperFunc", name, t.Name()))
			return nil
		}
		d, _ := t.GetAttr(name)
		wd, ok := d.(*WrapperDescriptor)
		if !ok {
			wd = newWrapperDescriptor(name)
			wd.setDefiningType(t)
		}
		wd.addImpl(fn, hc)
		return t.SetAttr(name, wd)
	case "method":
		fn, ok := fv.Interface().(MethodFunc)
		if !ok {
			logFatal(fmt.Sprintf("exposer: field for %q on %s is not a MethodFunc", name, t.Name()))
			return nil
		}
		d, _ := t.GetAttr(name)
		md, ok := d.(*MethodDescriptor)
		if !ok {
			md = newMethodDescriptor(name)
			md.setDefiningType(t)
		}
		md.addImpl(hc, NewArgParser(name, nil), fn)
		return t.SetAttr(name, md)
	case "static":
		fn, ok := fv.Interface().(StaticMethodFunc)
		if !ok {
			logFatal(fmt.Sprintf("exposer: field for %q on %s is not a StaticMethodFunc", name, t.Name()))
			return nil
		}
		return t.SetAttr(name, newStaticMethodDescriptor(name, NewArgParser(name, nil), fn))
	case "get", "set", "del":
		d, _ := t.GetAttr(name)
		gs, ok := d.(*GetSetDescriptor)
		if !ok {
			gs = newGetSetDescriptor(name)
			gs.setDefiningType(t)
		}
		var get GetterFunc
		var set SetterFunc
		var del DeleterFunc
		switch kind {
		case "get":
			get, _ = fv.Interface().(GetterFunc)
		case "set":
			set, _ = fv.Interface().(SetterFunc)
		case "del":
			del, _ = fv.Interface().(DeleterFunc)
		}
		gs.addImpl(hc, get, set, del)
		return t.SetAttr(name, gs)
	default:
		logFatal(fmt.Sprintf("exposer: unrecognised tag kind %q for %q on %s", kind, name, t.Name()))
		return nil
	}
}
