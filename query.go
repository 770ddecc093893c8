package depot

import "slices"

// ServiceQuery defines criteria for querying services. Zero fields match
// everything.
type ServiceQuery struct {
	Lifecycle Lifecycle
	Group     string

	// Metadata entries must all be present with equal values.
	Metadata map[string]string

	// Started filters by start state when non-nil.
	Started *bool
}

// Matches reports whether info satisfies q.
func (q ServiceQuery) Matches(info ServiceInfo) bool {
	if q.Lifecycle != "" && info.Lifecycle != q.Lifecycle {
		return false
	}

	if q.Group != "" && !slices.Contains(info.Groups, q.Group) {
		return false
	}

	for key, value := range q.Metadata {
		if got, ok := info.Metadata[key]; !ok || got != value {
			return false
		}
	}

	return q.Started == nil || info.Started == *q.Started
}

// Query returns information about matching services in registration order.
//
// Example:
//
//	started := true
//	infos := depot.Query(c, depot.ServiceQuery{Group: "auth", Started: &started})
func Query(c Container, query ServiceQuery) []ServiceInfo {
	var results []ServiceInfo

	for _, name := range c.Services() {
		if info := c.Inspect(name); query.Matches(info) {
			results = append(results, info)
		}
	}

	return results
}

// QueryNames returns the names of matching services.
func QueryNames(c Container, query ServiceQuery) []string {
	results := Query(c, query)

	names := make([]string, len(results))
	for i, info := range results {
		names[i] = info.Name
	}

	return names
}

// FindByGroup returns all services in a specific group.
func FindByGroup(c Container, group string) []ServiceInfo {
	return Query(c, ServiceQuery{Group: group})
}

// FindByLifecycle returns all services with a specific lifecycle.
func FindByLifecycle(c Container, lifecycle Lifecycle) []ServiceInfo {
	return Query(c, ServiceQuery{Lifecycle: lifecycle})
}

// FindStarted returns all services that have been started.
func FindStarted(c Container) []ServiceInfo {
	started := true

	return Query(c, ServiceQuery{Started: &started})
}

// FindNotStarted returns all services that have not been started.
func FindNotStarted(c Container) []ServiceInfo {
	started := false

	return Query(c, ServiceQuery{Started: &started})
}
