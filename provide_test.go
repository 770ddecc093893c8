package depot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repo struct {
	db     *testService
	cache  *Lazy[*testService]
	tracer *testService
}

func TestProvide_EagerDependencies(t *testing.T) {
	c := New()
	require.NoError(t, RegisterValue(c, "db", &testService{value: "db"}))

	err := Provide[*repo](c, "repo",
		Inject[*testService]("db"),
		func(db *testService) (*repo, error) {
			return &repo{db: db}, nil
		},
	)
	require.NoError(t, err)

	r, err := Resolve[*repo](c, "repo")
	require.NoError(t, err)
	assert.Equal(t, "db", r.db.value)

	info := c.Inspect("repo")
	assert.Equal(t, []string{"db"}, info.Dependencies)
	require.Len(t, info.Deps, 1)
	assert.Equal(t, DepEager, info.Deps[0].Mode)
}

func TestProvide_MissingEagerDependency(t *testing.T) {
	c := New()

	require.NoError(t, Provide[*repo](c, "repo",
		Inject[*testService]("db"),
		func(db *testService) *repo { return &repo{db: db} },
	))

	_, err := c.Resolve("repo")
	require.Error(t, err)
	assert.True(t, IsServiceNotFound(err))
	assert.Contains(t, err.Error(), "failed to resolve dependency db")
}

func TestProvide_LazyAndOptional(t *testing.T) {
	c := New()
	cacheCalls := 0

	require.NoError(t, RegisterValue(c, "db", &testService{value: "db"}))
	require.NoError(t, RegisterSingleton(c, "cache", func(Container) (*testService, error) {
		cacheCalls++

		return &testService{value: "cache"}, nil
	}))

	require.NoError(t, Provide[*repo](c, "repo",
		Inject[*testService]("db"),
		LazyInject[*testService]("cache"),
		OptionalInject[*testService]("tracer"),
		func(db *testService, cache *Lazy[*testService], tracer *testService) (*repo, error) {
			return &repo{db: db, cache: cache, tracer: tracer}, nil
		},
		WithGroup("data"),
	))

	r := Must[*repo](c, "repo")
	assert.Nil(t, r.tracer)
	assert.Equal(t, 0, cacheCalls)

	cache := r.cache.MustGet()
	assert.Equal(t, "cache", cache.value)
	assert.Equal(t, 1, cacheCalls)

	info := c.Inspect("repo")
	assert.Equal(t, []string{"data"}, info.Groups)
	assert.Equal(t, []string{"db", "cache", "tracer"}, info.Dependencies)
}

func TestProvide_LazyBreaksCycle(t *testing.T) {
	type peerNode struct {
		peer *Lazy[*testService]
	}

	c := New()

	require.NoError(t, Provide[*peerNode](c, "node",
		LazyInject[*testService]("peer"),
		func(peer *Lazy[*testService]) *peerNode { return &peerNode{peer: peer} },
	))
	require.NoError(t, RegisterSingleton(c, "peer", func(c Container) (*testService, error) {
		if _, err := Resolve[*peerNode](c, "node"); err != nil {
			return nil, err
		}

		return &testService{value: "peer"}, nil
	}))

	n := Must[*peerNode](c, "node")
	peer, err := n.peer.Get()
	require.NoError(t, err)
	assert.Equal(t, "peer", peer.value)
}

func TestProvide_LazyOptionalAndProvider(t *testing.T) {
	type handler struct {
		metrics  *OptionalLazy[*testService]
		requests *Provider[*testService]
	}

	c := New()
	require.NoError(t, RegisterTransient(c, "request", func(Container) (*testService, error) {
		return &testService{value: "request"}, nil
	}))

	require.NoError(t, Provide[*handler](c, "handler",
		LazyOptionalInject[*testService]("metrics"),
		ProviderInject[*testService]("request"),
		func(m *OptionalLazy[*testService], p *Provider[*testService]) *handler {
			return &handler{metrics: m, requests: p}
		},
	))

	h := Must[*handler](c, "handler")

	m, err := h.metrics.Get()
	require.NoError(t, err)
	assert.Nil(t, m)

	assert.NotSame(t, h.requests.MustProvide(), h.requests.MustProvide())

	deps := c.Inspect("handler").Deps
	require.Len(t, deps, 2)
	assert.Equal(t, DepLazyOptional, deps[0].Mode)
	assert.Equal(t, DepLazy, deps[1].Mode)
}

func TestProvide_FactoryError(t *testing.T) {
	c := New()
	boom := errors.New("boom")

	require.NoError(t, Provide[*repo](c, "repo", func() (*repo, error) { return nil, boom }))

	_, err := c.Resolve("repo")
	assert.ErrorIs(t, err, boom)
}

func TestProvide_InvalidFactories(t *testing.T) {
	tests := []struct {
		name string
		args []any
		want string
	}{
		{
			name: "not a function",
			args: []any{"factory"},
			want: "factory must be a function",
		},
		{
			name: "parameter count",
			args: []any{Inject[*testService]("db"), func() *repo { return nil }},
			want: "factory expects 0 parameters, got 1 dependencies",
		},
		{
			name: "parameter type",
			args: []any{Inject[*testService]("db"), func(string) *repo { return nil }},
			want: "cannot receive",
		},
		{
			name: "second result",
			args: []any{func() (*repo, string) { return nil, "" }},
			want: "second result must be error",
		},
		{
			name: "no results",
			args: []any{func() {}},
			want: "got 0 return values",
		},
		{
			name: "wrong result type",
			args: []any{func() *testService { return nil }},
			want: "not assignable",
		},
		{
			name: "two factories",
			args: []any{func() *repo { return nil }, func() *repo { return nil }},
			want: "multiple factory functions provided",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Provide[*repo](New(), "repo", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestProvide_NoFactory(t *testing.T) {
	err := Provide[*repo](New(), "repo", Inject[*testService]("db"))
	assert.ErrorIs(t, err, ErrInvalidFactory)
}

func TestProvide_InterfaceResult(t *testing.T) {
	c := New()

	require.NoError(t, Provide[tracker](c, TypeName[tracker](),
		func() *recordingTracker { return &recordingTracker{} },
	))

	tr, err := Get[tracker](c)
	require.NoError(t, err)
	assert.IsType(t, &recordingTracker{}, tr)
}

func TestInjectBound(t *testing.T) {
	opt := InjectBound[tracker]()
	assert.Equal(t, TypeName[tracker](), opt.Dep.Name)
	assert.Equal(t, DepEager, opt.Dep.Mode)
	assert.Equal(t, typeOf[tracker](), opt.Dep.Type)
}

func TestExtractDeps(t *testing.T) {
	deps := ExtractDeps([]InjectOption{
		Inject[*testService]("a"),
		LazyInject[*testService]("b"),
		OptionalInject[*testService]("c"),
	})

	assert.Equal(t, []string{"a", "b", "c"}, DepNames(deps))
	assert.Equal(t, DepOptional, deps[2].Mode)
}

func TestResolveWithDeps(t *testing.T) {
	c := New()
	db := &mockService{name: "db"}

	require.NoError(t, c.Register("db", func(Container) (any, error) { return db, nil }))

	err := ResolveWithDeps(context.Background(), c, []Dep{
		EagerDep("db"),
		OptionalDep("tracer"),
		LazyDep("cache"),
	})
	require.NoError(t, err)
	assert.True(t, db.started)

	err = ResolveWithDeps(context.Background(), c, []Dep{EagerDep("missing")})
	assert.True(t, IsServiceNotFound(err))
}
