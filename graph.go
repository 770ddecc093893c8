package depot

// DependencyGraph manages service dependencies.
type DependencyGraph struct {
	nodes map[string]*node
	order []string // Preserve registration order
}

type node struct {
	name string
	deps []Dep
}

// NewDependencyGraph creates a new dependency graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[string]*node),
		order: make([]string, 0),
	}
}

// AddNode adds a node with eager dependencies on the given names.
// Nodes are processed in the order they are added (FIFO) when no dependencies exist.
func (g *DependencyGraph) AddNode(name string, dependencies []string) {
	g.AddNodeWithDeps(name, DepsFromNames(dependencies))
}

// AddNodeWithDeps adds a node with full Dep specs.
func (g *DependencyGraph) AddNodeWithDeps(name string, deps []Dep) {
	if _, exists := g.nodes[name]; !exists {
		g.order = append(g.order, name)
	}

	g.nodes[name] = &node{name: name, deps: deps}
}

// GetDependencies returns the dependency names for a node.
func (g *DependencyGraph) GetDependencies(name string) []string {
	if node, ok := g.nodes[name]; ok {
		return DepNames(node.deps)
	}

	return nil
}

// GetDeps returns the full Dep specs for a node.
func (g *DependencyGraph) GetDeps(name string) []Dep {
	if node, ok := g.nodes[name]; ok {
		return node.deps
	}

	return nil
}

// GetEagerDependencies returns only the eager (non-lazy) dependencies.
// These are the ones that must be resolved before the service can be created.
func (g *DependencyGraph) GetEagerDependencies(name string) []string {
	node, ok := g.nodes[name]
	if !ok {
		return nil
	}

	var eager []string

	for _, dep := range node.deps {
		if !dep.Mode.IsLazy() {
			eager = append(eager, dep.Name)
		}
	}

	return eager
}

// HasNode checks if a node exists in the graph.
func (g *DependencyGraph) HasNode(name string) bool {
	_, ok := g.nodes[name]

	return ok
}

// TopologicalSort returns nodes in dependency order.
// Nodes without dependencies maintain their registration order (FIFO).
// Returns error if circular dependency detected.
func (g *DependencyGraph) TopologicalSort() ([]string, error) {
	return g.sort(func(Dep) bool { return true })
}

// TopologicalSortEagerOnly returns nodes sorted considering only eager dependencies.
// Lazy dependencies are excluded from the ordering since they're resolved on-demand.
func (g *DependencyGraph) TopologicalSortEagerOnly() ([]string, error) {
	return g.sort(func(d Dep) bool { return !d.Mode.IsLazy() })
}

func (g *DependencyGraph) sort(follow func(Dep) bool) ([]string, error) {
	visited := make(map[string]bool)
	result := make([]string, 0, len(g.nodes))

	for _, name := range g.order {
		if err := g.visit(name, follow, visited, nil, &result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// visit performs DFS traversal. path holds the nodes on the current DFS stack.
func (g *DependencyGraph) visit(name string, follow func(Dep) bool, visited map[string]bool, path []string, result *[]string) error {
	if visited[name] {
		return nil
	}

	if cycle := cycleFrom(path, name); cycle != nil {
		return ErrCircularDependency(cycle)
	}

	node := g.nodes[name]
	if node == nil {
		// Not registered; may be an optional dependency
		return nil
	}

	path = append(path, name)

	for _, dep := range node.deps {
		if !follow(dep) {
			continue
		}

		if err := g.visit(dep.Name, follow, visited, path, result); err != nil {
			return err
		}
	}

	visited[name] = true
	*result = append(*result, name)

	return nil
}
