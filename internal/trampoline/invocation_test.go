package trampoline_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/osthread/api"
	"github.com/momentics/osthread/internal/trampoline"
)

type ctxKey struct{}

func TestBindPlainFunc(t *testing.T) {
	calls := 0
	inv, err := trampoline.Bind(func() { calls++ })
	require.NoError(t, err)

	inv.Invoke(context.Background())
	inv.Invoke(context.Background())
	assert.Equal(t, 1, calls, "callable must run exactly once")
}

func TestBindCopiesArguments(t *testing.T) {
	setValue := func(out float64, in float64) { out = in; _ = out }
	setPtr := func(out *float64, in float64) { *out = in }

	value := 0.0
	inv, err := trampoline.Bind(setValue, value, 5.0)
	require.NoError(t, err)
	inv.Invoke(context.Background())
	assert.Equal(t, 0.0, value)

	inv, err = trampoline.Bind(setPtr, &value, 5.0)
	require.NoError(t, err)
	inv.Invoke(context.Background())
	assert.Equal(t, 5.0, value)
}

func TestBindCapturesAtBindTime(t *testing.T) {
	type point struct{ X, Y int }
	p := point{1, 2}
	var got point
	inv, err := trampoline.Bind(func(v point) { got = v }, p)
	require.NoError(t, err)

	p.X = 100
	inv.Invoke(context.Background())
	assert.Equal(t, point{1, 2}, got)
}

func TestBindInjectsContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), ctxKey{}, "stop-token")

	var seen any
	inv, err := trampoline.Bind(func(ctx context.Context, n int) { seen = ctx.Value(ctxKey{}) }, 3)
	require.NoError(t, err)
	inv.Invoke(ctx)
	assert.Equal(t, "stop-token", seen)

	seen = nil
	inv, err = trampoline.Bind(func(ctx context.Context) { seen = ctx.Value(ctxKey{}) })
	require.NoError(t, err)
	inv.Invoke(ctx)
	assert.Equal(t, "stop-token", seen)
}

func TestBindExplicitContextWins(t *testing.T) {
	explicit := context.WithValue(context.Background(), ctxKey{}, "explicit")

	var seen any
	inv, err := trampoline.Bind(func(ctx context.Context, n int) { seen = ctx.Value(ctxKey{}) }, explicit, 1)
	require.NoError(t, err)
	inv.Invoke(context.Background())
	assert.Equal(t, "explicit", seen)
}

func TestBindVariadic(t *testing.T) {
	var got []string
	join := func(prefix string, parts ...string) { got = append([]string{prefix}, parts...) }

	inv, err := trampoline.Bind(join, "a", "b", "c")
	require.NoError(t, err)
	inv.Invoke(context.Background())
	assert.Equal(t, []string{"a", "b", "c"}, got)

	inv, err = trampoline.Bind(join, "only")
	require.NoError(t, err)
	inv.Invoke(context.Background())
	assert.Equal(t, []string{"only"}, got)
}

func TestBindInterfaceAndNilArguments(t *testing.T) {
	var gotErr error
	var gotPtr *int = new(int)
	inv, err := trampoline.Bind(func(e error, p *int) { gotErr, gotPtr = e, p }, errors.New("boom"), nil)
	require.NoError(t, err)
	inv.Invoke(context.Background())
	assert.EqualError(t, gotErr, "boom")
	assert.Nil(t, gotPtr)
}

func TestBindDiscardsResults(t *testing.T) {
	inv, err := trampoline.Bind(func(n int) (int, error) { return n * 2, fmt.Errorf("ignored") }, 21)
	require.NoError(t, err)
	assert.NotPanics(t, func() { inv.Invoke(context.Background()) })
}

func TestBindRejectsMismatch(t *testing.T) {
	cases := []struct {
		name string
		fn   any
		args []any
	}{
		{"nil callable", nil, nil},
		{"not a function", 42, nil},
		{"nil func value", (func())(nil), nil},
		{"nil typed func with args", (func(int))(nil), []any{1}},
		{"too few", func(a, b int) {}, []any{1}},
		{"too many", func(a int) {}, []any{1, 2}},
		{"wrong type", func(s string) {}, []any{1}},
		{"nil for value", func(n int) {}, []any{nil}},
		{"variadic wrong type", func(xs ...int) {}, []any{1, "x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := trampoline.Bind(tc.fn, tc.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, api.ErrInvalidCallable)
			assert.Equal(t, api.ErrCodeInvalidArgument, api.CodeOf(err))
		})
	}
}

func TestInvokeReleasesOnPanic(t *testing.T) {
	inv, err := trampoline.Bind(func(s string) { panic(s) }, "boom")
	require.NoError(t, err)

	assert.PanicsWithValue(t, "boom", func() { inv.Invoke(context.Background()) })
	// Released and consumed: a second invoke does nothing.
	assert.NotPanics(t, func() { inv.Invoke(context.Background()) })
}
