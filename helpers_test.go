package depot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Typed(t *testing.T) {
	c := New()
	require.NoError(t, RegisterValue(c, "answer", 42))

	v, err := Resolve[int](c, "answer")
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = Resolve[string](c, "answer")
	assert.True(t, IsTypeMismatch(err))

	assert.Panics(t, func() { Must[string](c, "answer") })
}

func TestRegisterInterface(t *testing.T) {
	c := New()

	require.NoError(t, RegisterSingletonInterface[tracker, *recordingTracker](c, "tracker",
		func(Container) (*recordingTracker, error) { return &recordingTracker{}, nil }))

	tr, err := Resolve[tracker](c, "tracker")
	require.NoError(t, err)
	tr.Track("x")

	err = RegisterInterface[tracker, *loginModel](c, "bad",
		func(Container) (*loginModel, error) { return &loginModel{}, nil })
	assert.True(t, IsTypeMismatch(err))
	assert.False(t, c.Has("bad"))
}

func TestRegisterInterface_Lifecycles(t *testing.T) {
	c := New()
	factory := func(Container) (*recordingTracker, error) { return &recordingTracker{}, nil }

	require.NoError(t, RegisterTransientInterface[tracker, *recordingTracker](c, "transient", factory))
	require.NoError(t, RegisterScopedInterface[tracker, *recordingTracker](c, "scoped", factory))

	assert.Equal(t, LifecycleTransient, c.Inspect("transient").Lifecycle)
	assert.Equal(t, LifecycleScoped, c.Inspect("scoped").Lifecycle)
}

func TestMustResolveReady(t *testing.T) {
	c := New()
	svc := &mockService{name: "svc"}

	require.NoError(t, c.Register("svc", func(Container) (any, error) { return svc, nil }))

	got := MustResolveReady[*mockService](context.Background(), c, "svc")
	assert.Same(t, svc, got)
	assert.True(t, svc.started)

	assert.Panics(t, func() {
		MustResolveReady[*mockService](context.Background(), c, "missing")
	})
}

func TestDetach(t *testing.T) {
	c := newContainerImpl()

	assert.Same(t, c, detach(&resolution{containerImpl: c, chain: []string{"a"}}))

	s := newScope(c)
	detached, ok := detach(&scopeResolution{scope: s, chain: []string{"a"}}).(*scopeResolution)
	require.True(t, ok)
	assert.Same(t, s, detached.scope)
	assert.Empty(t, detached.chain)

	assert.Same(t, c, detach(c))
}
