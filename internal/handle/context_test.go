package handle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContext_References(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	ctx := NewContext()
	req.Equal(uint64(0), ctx.Epoch())
	req.Equal(0, ctx.Live())

	ref := ctx.AddReference(RefRow, struct{}{})
	req.NotNil(ref)
	req.Equal(RefRow, ref.Kind())
	req.Equal(1, ctx.Live())

	// unreleased, current-epoch references survive a sweep
	req.Equal(0, ctx.Sweep())
	req.Equal(1, ctx.Live())

	// released references are dropped on the next sweep, not before
	ctx.Release(ref)
	req.Equal(1, ctx.Live())
	req.Equal(1, ctx.Sweep())
	req.Equal(0, ctx.Live())
}

func TestContext_Release_Nil(t *testing.T) {
	t.Parallel()
	ctx := NewContext()
	ctx.Release(nil) // must not panic
	require.Equal(t, 0, ctx.Live())
}

func TestContext_Invalidate(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	ctx := NewContext()
	stale := ctx.AddReference(RefRow, struct{}{})
	_ = stale

	ctx.Invalidate()
	req.Equal(uint64(1), ctx.Epoch())

	fresh := ctx.AddReference(RefLinkView, struct{}{})
	req.Equal(2, ctx.Live())

	// only the pre-invalidation reference is swept
	req.Equal(1, ctx.Sweep())
	req.Equal(1, ctx.Live())

	ctx.Release(fresh)
	req.Equal(1, ctx.Sweep())
	req.Equal(0, ctx.Live())
}
