// SPDX-License-Identifier: MIT
package sketch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvsketch/matrix"
)

func TestRouter_Dispatch(t *testing.T) {
	t.Parallel()
	r := newRouter()
	var calls int
	r.handle(LocalDense, LocalDense, Rowwise, func(a, sa matrix.Shape) error {
		calls++
		return nil
	})
	a, err := matrix.NewDense(2, 2)
	require.NoError(t, err)

	require.NoError(t, r.dispatch("op", LocalDense, LocalDense, Rowwise, a, a))
	require.Equal(t, 1, calls)
	require.True(t, r.supports(LocalDense, LocalDense, Rowwise))
	require.False(t, r.supports(LocalDense, LocalDense, Columnwise))

	err = r.dispatch("op", LocalDense, LocalDense, Columnwise, a, a)
	require.ErrorIs(t, err, ErrUnsupportedLayout)
	require.ErrorContains(t, err, "LocalDense -> LocalDense columnwise")
}

func TestGuard_RecoversPanics(t *testing.T) {
	t.Parallel()
	err := guard("kernel", func() error { panic("blas: bad leading dimension") })
	require.ErrorIs(t, err, ErrNumerical)
	require.ErrorContains(t, err, "bad leading dimension")
	require.Equal(t, KindNumerical, KindOf(err))

	plain := errors.New("plain")
	require.ErrorIs(t, guard("kernel", func() error { return plain }), plain)
}

func TestCommError_TagsTransportFailures(t *testing.T) {
	t.Parallel()
	err := commError("reduce", errors.New("connection reset"))
	require.ErrorIs(t, err, ErrCommunication)
	require.ErrorContains(t, err, "connection reset")

	again := commError("outer", err)
	require.ErrorIs(t, again, ErrCommunication)
	require.Equal(t, "outer: "+err.Error(), again.Error())
}

func TestPartialMap_SumsByPosition(t *testing.T) {
	t.Parallel()
	p := newPartialMap(3)
	p.add(1, 2, 1.5)
	p.add(0, 1, 2)
	p.add(1, 2, -0.5)
	p.merge([]matrix.Triplet{{Row: 0, Col: 0, Val: 4}})
	p.add(2, 0, 3)
	p.add(2, 0, -3) // cancels exactly
	require.Equal(t, []matrix.Triplet{
		{Row: 0, Col: 0, Val: 4},
		{Row: 0, Col: 1, Val: 2},
		{Row: 1, Col: 2, Val: 1},
	}, p.triplets())
}
