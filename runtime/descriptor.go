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

import "fmt"

// Descriptor is the common interface of every value held in a PyType's
// attribute table (§3 "Descriptor variants").
type Descriptor interface {
	Name() string
	DefiningType() *PyType
	setDefiningType(t *PyType)
	// Repr returns the descriptor text format from §6, e.g.
	// "<slot wrapper '__neg__' of 'int' objects>".
	Repr() string
}

type descriptorBase struct {
	name     string
	defining *PyType
}

func (d *descriptorBase) Name() string            { return d.name }
func (d *descriptorBase) DefiningType() *PyType   { return d.defining }
func (d *descriptorBase) setDefiningType(t *PyType) { d.defining = t }

// WrapperFunc is the Go function underlying one accepted-representation
// entry of a WrapperDescriptor (a special method implementation).
type WrapperFunc func(f *Frame, self Object, args Args) (Object, *PyError)

// wrapperImpl is one entry in a WrapperDescriptor's implementation vector.
// accepts lists every host class this particular Go implementation is
// prepared to receive as self — almost always a single host class, but for
// e.g. int.__neg__ it lists both Long (int's own primary representation)
// and Boolean (bool's representation, accepted non-representationally per
// §3/§4.5 step 4), because both native.go-style adoptions ultimately just
// need an integral value to negate. An entry that lists object's own host
// class accepts every receiver, since every object is an instance of object.
type wrapperImpl struct {
	accepts []*HostClass
	fn      WrapperFunc
}

func (w *wrapperImpl) acceptsHostClass(hc *HostClass) bool {
	for _, a := range w.accepts {
		if a == hc || a == objectHostClass {
			return true
		}
	}
	return false
}

// WrapperDescriptor holds one vector entry per accepted representation for
// a single special method name (§3, §4.5).
type WrapperDescriptor struct {
	descriptorBase
	wrapped []wrapperImpl
}

func newWrapperDescriptor(name string) *WrapperDescriptor {
	return &WrapperDescriptor{descriptorBase: descriptorBase{name: name}}
}

func (w *WrapperDescriptor) addImpl(fn WrapperFunc, accepts ...*HostClass) {
	w.wrapped = append(w.wrapped, wrapperImpl{accepts: accepts, fn: fn})
}

// Repr renders the "<slot wrapper ...>" text format from §6.
func (w *WrapperDescriptor) Repr() string {
	owner := "?"
	if w.defining != nil {
		owner = w.defining.Name()
	}
	return fmt.Sprintf("<slot wrapper '%s' of '%s' objects>", w.name, owner)
}

// resolve implements §4.5 step 4: T is x's own runtime type (not
// necessarily where this descriptor was found by MRO search). When T is
// exactly the type that defines this descriptor, x's own Representation
// already carries the right index into wrapped[] (the fast path). When T is
// some other type that merely inherited the descriptor through its MRO —
// the bool-under-int case (§3, §8 seed test 2) is the canonical example,
// where bool's own simpleRepresentation always reports index 0 and would
// silently pick the wrong implementation if trusted here — fall back to
// scanning wrapped[] for an entry whose accepted host classes include x's.
func (w *WrapperDescriptor) resolve(f *Frame, T *PyType, rep Representation, x Object) (WrapperFunc, *PyError) {
	if T == w.defining {
		i := rep.Index(x)
		if i >= 0 && i < len(w.wrapped) {
			return w.wrapped[i].fn, nil
		}
	}
	hc := hostClassOf(x)
	for _, impl := range w.wrapped {
		if impl.acceptsHostClass(hc) {
			return impl.fn, nil
		}
	}
	owner := "?"
	if w.defining != nil {
		owner = w.defining.Name()
	}
	actual := "?"
	if t, err := typeOfHostClass(hc); err == nil {
		actual = t.Name()
	}
	return nil, f.RaiseType(TypeErrorType, fmt.Sprintf(
		"descriptor '%s' requires a '%s' object but received a '%s'", w.name, owner, actual))
}

// MethodFunc is the Go function underlying one accepted-representation
// entry of a MethodDescriptor, already bound to self and parsed by an
// ArgParser.
type MethodFunc func(f *Frame, self Object, args Args, kwargs KWArgs) (Object, *PyError)

type methodImpl struct {
	hostClass *HostClass
	fn        MethodFunc
	parser    *ArgParser
}

// MethodDescriptor holds one bound-style implementation per accepted
// representation, parsed via an ArgParser (§3).
type MethodDescriptor struct {
	descriptorBase
	impls []methodImpl
	doc   string
}

func newMethodDescriptor(name string) *MethodDescriptor {
	return &MethodDescriptor{descriptorBase: descriptorBase{name: name}}
}

func (m *MethodDescriptor) addImpl(hc *HostClass, parser *ArgParser, fn MethodFunc) {
	m.impls = append(m.impls, methodImpl{hostClass: hc, fn: fn, parser: parser})
}

func (m *MethodDescriptor) Repr() string {
	owner := "?"
	if m.defining != nil {
		owner = m.defining.Name()
	}
	return fmt.Sprintf("<method '%s' of '%s' objects>", m.name, owner)
}

func (m *MethodDescriptor) resolve(f *Frame, self Object) (*methodImpl, *PyError) {
	hc := hostClassOf(self)
	for i := range m.impls {
		if m.impls[i].hostClass == hc {
			return &m.impls[i], nil
		}
	}
	owner := "?"
	if m.defining != nil {
		owner = m.defining.Name()
	}
	actual := "?"
	if t, err := typeOfHostClass(hc); err == nil {
		actual = t.Name()
	}
	return nil, f.RaiseType(TypeErrorType, fmt.Sprintf(
		"descriptor '%s' requires a '%s' object but received a '%s'", m.name, owner, actual))
}

// Call invokes m on self with the given call-site arguments.
func (m *MethodDescriptor) Call(f *Frame, self Object, args Args, kwargs KWArgs) (Object, *PyError) {
	impl, raised := m.resolve(f, self)
	if raised != nil {
		return Object{}, raised
	}
	bound, raised := impl.parser.Parse(f, m.name, args, kwargs)
	if raised != nil {
		return Object{}, raised
	}
	return impl.fn(f, self, bound, nil)
}

// GetterFunc/SetterFunc/DeleterFunc back one accepted representation of a
// GetSetDescriptor.
type (
	GetterFunc  func(f *Frame, self Object) (Object, *PyError)
	SetterFunc  func(f *Frame, self Object, value Object) *PyError
	DeleterFunc func(f *Frame, self Object) *PyError
)

type getsetImpl struct {
	hostClass *HostClass
	get       GetterFunc
	set       SetterFunc
	del       DeleterFunc
}

// GetSetDescriptor holds parallel getter/setter/deleter vectors, indexed by
// accepted representation (§3).
type GetSetDescriptor struct {
	descriptorBase
	impls []getsetImpl
}

func newGetSetDescriptor(name string) *GetSetDescriptor {
	return &GetSetDescriptor{descriptorBase: descriptorBase{name: name}}
}

func (g *GetSetDescriptor) addImpl(hc *HostClass, get GetterFunc, set SetterFunc, del DeleterFunc) {
	for i := range g.impls {
		if impl := &g.impls[i]; impl.hostClass == hc {
			if get != nil {
				impl.get = get
			}
			if set != nil {
				impl.set = set
			}
			if del != nil {
				impl.del = del
			}
			return
		}
	}
	g.impls = append(g.impls, getsetImpl{hostClass: hc, get: get, set: set, del: del})
}

func (g *GetSetDescriptor) Repr() string {
	owner := "?"
	if g.defining != nil {
		owner = g.defining.Name()
	}
	return fmt.Sprintf("<attribute '%s' of '%s' objects>", g.name, owner)
}

func (g *GetSetDescriptor) resolve(f *Frame, self Object) (*getsetImpl, *PyError) {
	hc := hostClassOf(self)
	for i := range g.impls {
		if g.impls[i].hostClass == hc {
			return &g.impls[i], nil
		}
	}
	owner := "?"
	if g.defining != nil {
		owner = g.defining.Name()
	}
	return nil, f.RaiseType(TypeErrorType, fmt.Sprintf(
		"descriptor '%s' for '%s' objects doesn't apply to this object", g.name, owner))
}

func (g *GetSetDescriptor) Get(f *Frame, self Object) (Object, *PyError) {
	impl, raised := g.resolve(f, self)
	if raised != nil {
		return Object{}, raised
	}
	if impl.get == nil {
		return Object{}, f.RaiseType(AttributeErrorType, fmt.Sprintf("unreadable attribute '%s'", g.name))
	}
	return impl.get(f, self)
}

func (g *GetSetDescriptor) Set(f *Frame, self Object, value Object) *PyError {
	impl, raised := g.resolve(f, self)
	if raised != nil {
		return raised
	}
	if impl.set == nil {
		return f.RaiseType(AttributeErrorType, fmt.Sprintf("can't set attribute '%s'", g.name))
	}
	return impl.set(f, self, value)
}

func (g *GetSetDescriptor) Delete(f *Frame, self Object) *PyError {
	impl, raised := g.resolve(f, self)
	if raised != nil {
		return raised
	}
	if impl.del == nil {
		return f.RaiseType(AttributeErrorType, fmt.Sprintf("can't delete attribute '%s'", g.name))
	}
	return impl.del(f, self)
}

// MemberDescriptor is direct field access with optional readonly/optional
// semantics (§3), used for __slots__-backed attributes and exception
// storage fields.
type MemberDescriptor struct {
	descriptorBase
	slotIndex int
	readonly  bool
	// optional fields may be deleted; a second delete raises
	// AttributeError (idempotence boundary in §8).
	optional bool
}

func newMemberDescriptor(name string, slotIndex int, readonly, optional bool) *MemberDescriptor {
	return &MemberDescriptor{
		descriptorBase: descriptorBase{name: name},
		slotIndex:      slotIndex,
		readonly:       readonly,
		optional:       optional,
	}
}

func (m *MemberDescriptor) Repr() string {
	owner := "?"
	if m.defining != nil {
		owner = m.defining.Name()
	}
	return fmt.Sprintf("<attribute '%s' of '%s' objects>", m.name, owner)
}

func (m *MemberDescriptor) Get(f *Frame, self Object) (Object, *PyError) {
	inst, raised := asInstance(f, self, m.name)
	if raised != nil {
		return Object{}, raised
	}
	v := inst.getSlot(m.slotIndex)
	if v.IsNil() {
		return Object{}, f.RaiseType(AttributeErrorType, m.name)
	}
	return v, nil
}

func (m *MemberDescriptor) Set(f *Frame, self Object, value Object) *PyError {
	if m.readonly {
		return f.RaiseType(AttributeErrorType, fmt.Sprintf("readonly attribute '%s'", m.name))
	}
	inst, raised := asInstance(f, self, m.name)
	if raised != nil {
		return raised
	}
	inst.setSlot(m.slotIndex, value)
	return nil
}

func (m *MemberDescriptor) Delete(f *Frame, self Object) *PyError {
	if m.readonly {
		return f.RaiseType(AttributeErrorType, fmt.Sprintf("readonly attribute '%s'", m.name))
	}
	if !m.optional {
		return f.RaiseType(AttributeErrorType, fmt.Sprintf("cannot delete required attribute '%s'", m.name))
	}
	inst, raised := asInstance(f, self, m.name)
	if raised != nil {
		return raised
	}
	if inst.getSlot(m.slotIndex).IsNil() {
		return f.RaiseType(AttributeErrorType, m.name)
	}
	inst.setSlot(m.slotIndex, Object{})
	return nil
}

func asInstance(f *Frame, self Object, attr string) (*instance, *PyError) {
	inst, ok := self.value.(*instance)
	if !ok {
		return nil, f.RaiseType(AttributeErrorType, attr)
	}
	return inst, nil
}

// StaticMethodFunc backs a StaticMethodDescriptor: not bound to self.
type StaticMethodFunc func(f *Frame, args Args, kwargs KWArgs) (Object, *PyError)

// StaticMethodDescriptor wraps a function that does not receive self.
type StaticMethodDescriptor struct {
	descriptorBase
	parser *ArgParser
	fn     StaticMethodFunc
}

func newStaticMethodDescriptor(name string, parser *ArgParser, fn StaticMethodFunc) *StaticMethodDescriptor {
	return &StaticMethodDescriptor{descriptorBase: descriptorBase{name: name}, parser: parser, fn: fn}
}

func (s *StaticMethodDescriptor) Repr() string {
	return fmt.Sprintf("<staticmethod '%s'>", s.name)
}

func (s *StaticMethodDescriptor) Call(f *Frame, args Args, kwargs KWArgs) (Object, *PyError) {
	bound, raised := s.parser.Parse(f, s.name, args, kwargs)
	if raised != nil {
		return Object{}, raised
	}
	return s.fn(f, bound, nil)
}

// NewMethod is the __new__ descriptor: consumes the type as first argument
// and constructs an instance through constructorIndex (§3).
type NewMethod struct {
	descriptorBase
}

func newNewMethod(name string) *NewMethod {
	return &NewMethod{descriptorBase: descriptorBase{name: name}}
}

func (n *NewMethod) Repr() string {
	owner := "?"
	if n.defining != nil {
		owner = n.defining.Name()
	}
	return fmt.Sprintf("<built-in method %s of %s object at 0x0>", n.name, owner)
}

// Call resolves t's (or, for a subclass, the most-derived requested type's)
// constructor and invokes it.
func (n *NewMethod) Call(f *Frame, t *PyType, args Args, kwargs KWArgs) (Object, *PyError) {
	ctor, raised := resolveConstructor(f, t, args)
	if raised != nil {
		return Object{}, raised
	}
	return ctor.New(f, t, args, kwargs)
}
