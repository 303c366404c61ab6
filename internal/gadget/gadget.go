// Package gadget is the unsafe core: the arity-dispatched foreign-call
// invoker, the dynamic-loader bindings, and the raw address-space
// read/write primitives. Nothing outside this package may touch a raw
// function pointer or an arbitrary memory address — every exported
// function here is a direct, unchecked effect on the host process.
//
// The call gadget dispatches to one of twelve arity-specialized C function
// pointer types (0..11 register-sized integer arguments), written as a
// tiny cgo shim rather than twelve hand-written Go assembly stubs — the
// same "macro/template" shape the design calls for, expressed in the host
// platform's own C ABI instead of reimplementing it.
package gadget

import "errors"

// MaxArity is the highest argc the call gadget accepts. Above this, no
// call happens — but the caller has already consumed the argv bytes off
// the wire so the stream stays aligned.
const MaxArity = 11

var ErrArityOutOfRange = errors.New("call argc out of range")
