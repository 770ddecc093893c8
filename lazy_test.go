package depot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazy_DefersResolution(t *testing.T) {
	c := New()
	calls := 0

	require.NoError(t, RegisterSingleton(c, "cache", func(Container) (*testService, error) {
		calls++

		return &testService{value: "cache"}, nil
	}))

	lazy := NewLazy[*testService](c, "cache")
	assert.Equal(t, "cache", lazy.Name())
	assert.False(t, lazy.IsResolved())
	assert.Equal(t, 0, calls)

	first, err := lazy.Get()
	require.NoError(t, err)
	assert.True(t, lazy.IsResolved())

	second := lazy.MustGet()
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestLazy_CachesError(t *testing.T) {
	lazy := NewLazy[*testService](New(), "missing")

	_, err := lazy.Get()
	assert.True(t, IsServiceNotFound(err))

	assert.Panics(t, func() { lazy.MustGet() })
}

func TestLazyBound(t *testing.T) {
	c := New()
	rec := &recordingTracker{}
	require.NoError(t, BindValue[tracker](c, rec))

	lazy := LazyBound[tracker](c)
	assert.Equal(t, TypeName[tracker](), lazy.Name())

	got, err := lazy.Get()
	require.NoError(t, err)
	assert.Same(t, rec, got)
}

func TestOptionalLazy(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		lazy := NewOptionalLazy[*testService](New(), "tracer")

		got, err := lazy.Get()
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.False(t, lazy.IsFound())
		assert.True(t, lazy.IsResolved())
		assert.NotPanics(t, func() { lazy.MustGet() })
	})

	t.Run("present", func(t *testing.T) {
		c := New()
		require.NoError(t, RegisterValue(c, "tracer", &testService{value: "t"}))

		lazy := NewOptionalLazy[*testService](c, "tracer")

		got, err := lazy.Get()
		require.NoError(t, err)
		assert.Equal(t, "t", got.value)
		assert.True(t, lazy.IsFound())
	})

	t.Run("factory error", func(t *testing.T) {
		c := New()
		require.NoError(t, c.Register("tracer", func(Container) (any, error) {
			return nil, errors.New("unreachable collector")
		}))

		lazy := NewOptionalLazy[*testService](c, "tracer")

		_, err := lazy.Get()
		require.Error(t, err)
		assert.False(t, lazy.IsFound())
		assert.Panics(t, func() { lazy.MustGet() })
	})
}

func TestProvider(t *testing.T) {
	c := New()
	require.NoError(t, RegisterTransient(c, "req", func(Container) (*testService, error) {
		return &testService{value: "req"}, nil
	}))

	p := NewProvider[*testService](c, "req")
	assert.Equal(t, "req", p.Name())

	a, err := p.Provide()
	require.NoError(t, err)

	b := p.MustProvide()
	assert.NotSame(t, a, b)

	missing := NewProvider[*testService](c, "missing")
	assert.Panics(t, func() { missing.MustProvide() })
}
