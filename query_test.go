package depot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryFixture(t *testing.T) Container {
	t.Helper()

	c := New()

	require.NoError(t, RegisterServices(c,
		Named("db", valueFactory("db"), WithGroup("storage"), WithDIMetadata("driver", "sqlite")),
		Named("cache", valueFactory("cache"), WithGroup("storage"), WithDIMetadata("driver", "memory")),
		Named("session", valueFactory("session"), Scoped(), WithGroup("web")),
		Named("request", valueFactory("request"), Transient(), WithGroup("web")),
	))

	_, err := c.Resolve("db")
	require.NoError(t, err)

	return c
}

func TestQuery(t *testing.T) {
	c := queryFixture(t)

	started := true

	tests := []struct {
		name  string
		query ServiceQuery
		want  []string
	}{
		{"all", ServiceQuery{}, []string{"db", "cache", "session", "request"}},
		{"group", ServiceQuery{Group: "storage"}, []string{"db", "cache"}},
		{"lifecycle", ServiceQuery{Lifecycle: LifecycleScoped}, []string{"session"}},
		{"metadata", ServiceQuery{Metadata: map[string]string{"driver": "memory"}}, []string{"cache"}},
		{"started", ServiceQuery{Started: &started}, []string{"db"}},
		{"combined", ServiceQuery{Group: "web", Lifecycle: LifecycleTransient}, []string{"request"}},
		{"no match", ServiceQuery{Group: "missing"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QueryNames(c, tt.query))
		})
	}
}

func TestQueryShortcuts(t *testing.T) {
	c := queryFixture(t)

	assert.Len(t, FindByGroup(c, "web"), 2)
	assert.Len(t, FindByLifecycle(c, LifecycleSingleton), 2)

	started := FindStarted(c)
	require.Len(t, started, 1)
	assert.Equal(t, "db", started[0].Name)

	assert.Len(t, FindNotStarted(c), 3)
}
