// File: internal/trampoline/invocation.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Invocation binds a callable and its arguments into one erased value that a
// thread entry point runs exactly once.

package trampoline

import (
	"context"
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/momentics/osthread/api"
)

var contextType = reflect.TypeOf((*context.Context)(nil)).Elem()

// Invocation is a callable with its arguments captured by value.
//
// The zero value is not usable; construct with Bind.
type Invocation struct {
	plain    func()
	plainCtx func(context.Context)

	fn      reflect.Value
	args    []reflect.Value
	wantCtx bool

	name    string
	invoked atomic.Bool
}

// Bind validates fn against args and captures them.
//
// Arguments are copied at bind time; pass a pointer for reference semantics.
// If fn's first parameter is a context.Context and the caller did not supply
// one, the context passed to Invoke is inserted in its place.
func Bind(fn any, args ...any) (*Invocation, error) {
	if fn == nil {
		return nil, invalid("callable is nil")
	}
	switch f := fn.(type) {
	case func():
		if f != nil && len(args) == 0 {
			return &Invocation{plain: f, name: "func()"}, nil
		}
	case func(context.Context):
		if f != nil && len(args) == 0 {
			return &Invocation{plainCtx: f, name: "func(context.Context)"}, nil
		}
	}

	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, invalid(fmt.Sprintf("%s is not a function", t))
	}
	if v.IsNil() {
		return nil, invalid("callable is nil")
	}

	inv := &Invocation{fn: v, name: t.String()}
	params := paramTypes(t)
	if wantsContext(t, args) {
		inv.wantCtx = true
		params = params[1:]
	}

	values, err := bindArgs(t, params, args)
	if err != nil {
		return nil, err
	}
	inv.args = values
	return inv, nil
}

// Name describes the bound callable's type, for logs.
func (inv *Invocation) Name() string {
	return inv.name
}

// Invoke runs the callable once and drops every captured reference,
// whether the callable returns or unwinds. Return values are discarded.
// Later calls are no-ops.
//
// Panics are not recovered: an unrecovered panic terminates the process.
func (inv *Invocation) Invoke(ctx context.Context) {
	if !inv.invoked.CompareAndSwap(false, true) {
		return
	}
	defer inv.release()

	switch {
	case inv.plain != nil:
		inv.plain()
	case inv.plainCtx != nil:
		inv.plainCtx(ctx)
	default:
		in := inv.args
		if inv.wantCtx {
			in = append([]reflect.Value{reflect.ValueOf(&ctx).Elem()}, inv.args...)
		}
		inv.fn.Call(in)
	}
}

func (inv *Invocation) release() {
	inv.plain = nil
	inv.plainCtx = nil
	inv.fn = reflect.Value{}
	inv.args = nil
}

func paramTypes(t reflect.Type) []reflect.Type {
	out := make([]reflect.Type, t.NumIn())
	for i := range out {
		out[i] = t.In(i)
	}
	return out
}

// wantsContext reports whether the caller left fn's leading context.Context
// parameter for Invoke to fill.
func wantsContext(t reflect.Type, args []any) bool {
	if t.NumIn() == 0 || t.In(0) != contextType {
		return false
	}
	if !t.IsVariadic() {
		return len(args) == t.NumIn()-1
	}
	if len(args) == 0 {
		return true
	}
	if args[0] == nil {
		return false
	}
	return !reflect.TypeOf(args[0]).Implements(contextType)
}

func bindArgs(t reflect.Type, params []reflect.Type, args []any) ([]reflect.Value, error) {
	variadic := t.IsVariadic()
	fixed := len(params)
	if variadic {
		fixed--
	}
	if len(args) < fixed || (!variadic && len(args) != fixed) {
		return nil, invalid(fmt.Sprintf("%s: got %d arguments, want %d", t, len(args), len(params)))
	}

	values := make([]reflect.Value, len(args))
	for i, arg := range args {
		var want reflect.Type
		if i < fixed {
			want = params[i]
		} else {
			want = params[fixed].Elem()
		}
		v, err := convertArg(arg, want)
		if err != nil {
			return nil, invalid(fmt.Sprintf("%s: argument %d: %v", t, i, err))
		}
		values[i] = v
	}
	return values, nil
}

func convertArg(arg any, want reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch want.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(want), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not assignable to %s", want)
	}
	v := reflect.ValueOf(arg)
	if !v.Type().AssignableTo(want) {
		return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", v.Type(), want)
	}
	if want.Kind() == reflect.Interface {
		// Keep the dynamic value but present it with the parameter's type.
		out := reflect.New(want).Elem()
		out.Set(v)
		return out, nil
	}
	return v, nil
}

func invalid(msg string) error {
	return api.WrapError(api.ErrCodeInvalidArgument, "trampoline.Bind",
		fmt.Errorf("%w: %s", api.ErrInvalidCallable, msg))
}
