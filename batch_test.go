package depot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterServices(t *testing.T) {
	c := New()

	err := RegisterServices(c,
		Named("config", valueFactory("cfg")),
		Typed("clock", func(Container) (*testService, error) {
			return &testService{value: "clock"}, nil
		}, Transient()),
		Binding[tracker](func(Container) (tracker, error) {
			return &recordingTracker{}, nil
		}, WithGroup("telemetry")),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"config", "clock", TypeName[tracker]()}, c.Services())
	assert.Equal(t, LifecycleTransient, c.Inspect("clock").Lifecycle)
	assert.True(t, Bound[tracker](c))
	assert.Equal(t, []string{"telemetry"}, c.Inspect(TypeName[tracker]()).Groups)
}

func TestRegisterServices_StopsAtFirstFailure(t *testing.T) {
	c := New()

	err := RegisterServices(c,
		Named("a", valueFactory("a")),
		Named("a", valueFactory("again")),
		Named("b", valueFactory("b")),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceAlreadyExistsSentinel)
	assert.Contains(t, err.Error(), `register services[1] "a"`)
	assert.False(t, c.Has("b"))
}
