package depot

import "sync"

var (
	sharedMu        sync.Mutex
	sharedContainer Container
)

// Shared returns the process-wide container, creating it on first use.
// Libraries should accept a Container instead; Shared is meant for
// composition roots that want a single well-known registry.
func Shared() Container {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedContainer == nil {
		sharedContainer = New()
	}

	return sharedContainer
}

// ResetShared replaces the process-wide container with a fresh one built
// from opts and returns it. The previous container is not stopped.
func ResetShared(opts ...Option) Container {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	sharedContainer = New(opts...)

	return sharedContainer
}
