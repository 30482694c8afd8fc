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

// PyError is the propagating form of a Python-level exception instance
// (§7). It is returned, never panicked, except for the InterpreterError
// class of fatal bootstrap/registry failures which go through logFatal.
type PyError struct {
	typ  *PyType
	inst *instance
	msg  string
}

func newPyError(t *PyType, msg string) *PyError {
	return &PyError{typ: t, msg: msg}
}

// Error implements the error interface so PyError composes with ordinary
// Go error handling at the package boundary (e.g. inside singleflight.Do).
func (e *PyError) Error() string {
	if e.typ == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.typ.Name(), e.msg)
}

// Type returns the PyType of the raised exception (e.g. TypeErrorType).
func (e *PyError) Type() *PyType { return e.typ }

// Message returns the human-readable argument the exception was raised
// with.
func (e *PyError) Message() string { return e.msg }

// Matches reports whether e's type is t or a subclass of t, mirroring a
// Python `except t:` clause.
func (e *PyError) Matches(t *PyType) bool {
	return e.typ != nil && e.typ.IsSubclass(t)
}

// ToObject realises e as a live exception instance of its type, the way an
// `except Exception as e:` binding would observe it. Built lazily because
// most PyErrors never need to become a first-class Object (callers mostly
// just inspect Type()/Message()).
func (e *PyError) ToObject() Object {
	if e.inst == nil {
		e.inst = newInstance(e.typ)
		e.inst.setSlot(exceptionMessageSlot, NewStr(e.msg))
	}
	return e.inst.toObject()
}

// --- Exception clique (§4.7): BaseException, Exception and every concrete
// exception type below share ONE host representation (the generic
// `instance` struct also used for user subclass synthesis, see subclass.go)
// because none of them add storage beyond a single "args"-ish message slot.
// Grouping them into a clique is what makes `__class__` reassignment among
// them legal while reassignment to an unrelated type (e.g. list) is not
// (§8 boundary behaviour, seed test 6).

const exceptionMessageSlot = 0

var (
	BaseExceptionType     *PyType
	ExceptionType         *PyType
	TypeErrorType         *PyType
	ValueErrorType        *PyType
	AttributeErrorType    *PyType
	NameErrorType         *PyType
	StopIterationType     *PyType
	LookupErrorType       *PyType
	KeyErrorType          *PyType
	InterpreterErrorType  *PyType
)

// exceptionClique is populated by buildExceptionClique (builtins.go) with
// every PyType that cites the shared exception representation, in creation
// order.
var exceptionClique []*PyType
