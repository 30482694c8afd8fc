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

import "go.uber.org/zap"

// logFatal reports an InterpreterError-class condition: a broken factory or
// registry invariant, not a recoverable Python-level error. Tests replace
// this hook to observe the failure instead of crashing the process, the
// same indirection the teacher runtime uses around log.Fatal.
var logFatal = func(msg string) {
	zap.L().Fatal(msg, zap.String("component", "pytype"))
}

// Frame is the minimal call-site context the core needs in order to raise
// Python-visible errors. The bytecode interpreter that would normally own a
// chain of Frames (locals, line numbers, a back-pointer stack) is out of
// scope for this core; Frame exists purely so every fallible API has an
// explicit place to attach the resulting exception, the same way the
// teacher runtime threads *Frame through every call that can fail.
type Frame struct {
	back *Frame
}

// NewRootFrame returns a Frame with no caller, suitable as the top of a
// synthetic call stack for tests and facade entry points.
func NewRootFrame() *Frame {
	return &Frame{}
}

// Child returns a new Frame whose caller is f.
func (f *Frame) Child() *Frame {
	return &Frame{back: f}
}

// Back returns f's caller, or nil if f is a root frame.
func (f *Frame) Back() *Frame {
	return f.back
}

// RaiseType constructs a *PyError of kind t carrying msg and returns it.
// Callers write `return Object{}, f.RaiseType(...)`.
func (f *Frame) RaiseType(t *PyType, msg string) *PyError {
	return newPyError(t, msg)
}
