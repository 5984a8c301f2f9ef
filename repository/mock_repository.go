package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/ammiranda/nestedset_service/nestedset"
)

// MockRepository implements Repository in memory for testing
type MockRepository struct {
	mu     sync.RWMutex
	nodes  map[int64]*Node
	nextID int64
}

// NewMockRepository creates a new mock repository
func NewMockRepository() *MockRepository {
	return &MockRepository{
		nodes:  make(map[int64]*Node),
		nextID: 1,
	}
}

// Initialize performs any necessary setup
func (m *MockRepository) Initialize(ctx context.Context) error {
	return nil
}

// Cleanup resets the repository
func (m *MockRepository) Cleanup(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes = make(map[int64]*Node)
	m.nextID = 1
	return nil
}

// MaxBoundary returns the forest's current high-water mark
func (m *MockRepository) MaxBoundary(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var max int64
	for _, node := range m.nodes {
		if node.Rgt > max {
			max = node.Rgt
		}
	}
	return max, nil
}

// ReadBoundaries returns the stored placement of a node
func (m *MockRepository) ReadBoundaries(ctx context.Context, id int64) (nestedset.Boundaries, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, ok := m.nodes[id]
	if !ok {
		return nestedset.Boundaries{}, ErrNodeNotFound
	}
	return nestedset.Boundaries{Lft: node.Lft, Rgt: node.Rgt, ParentID: node.ParentID}, nil
}

// ApplyRangePatch shifts every stored boundary in one pass, so all rows
// observe the patch simultaneously just like a single SQL statement.
func (m *MockRepository) ApplyRangePatch(ctx context.Context, patch nestedset.RangePatch) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var affected int64
	for _, node := range m.nodes {
		if !patch.Touches(node.Lft, node.Rgt) {
			continue
		}
		node.Lft += patch.DeltaFor(node.Lft)
		node.Rgt += patch.DeltaFor(node.Rgt)
		affected++
	}
	return affected, nil
}

// DeleteRange removes all rows whose left boundary falls within [lft, rgt]
func (m *MockRepository) DeleteRange(ctx context.Context, lft, rgt int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	for id, node := range m.nodes {
		if node.Lft >= lft && node.Lft <= rgt {
			delete(m.nodes, id)
			removed++
		}
	}
	return removed, nil
}

// InsertRow stores a new node row with the given boundaries
func (m *MockRepository) InsertRow(ctx context.Context, label string, parentID *int64, lft, rgt int64) (int64, error) {
	if label == "" {
		return 0, ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.nodes[id] = &Node{
		ID:       id,
		Label:    label,
		ParentID: parentID,
		Lft:      lft,
		Rgt:      rgt,
	}
	return id, nil
}

// WriteParent updates the parent link of an existing row
func (m *MockRepository) WriteParent(ctx context.Context, id int64, parentID *int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.nodes[id]
	if !ok {
		return ErrNodeNotFound
	}
	node.ParentID = parentID
	return nil
}

// CascadesDelete reports false; the engine deletes ranges explicitly
func (m *MockRepository) CascadesDelete() bool {
	return false
}

// GetNode retrieves a node by ID
func (m *MockRepository) GetNode(ctx context.Context, id int64) (*Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, ok := m.nodes[id]
	if !ok {
		return nil, ErrNodeNotFound
	}
	clone := *node
	return &clone, nil
}

// GetAllNodes retrieves all nodes in tree order
func (m *MockRepository) GetAllNodes(ctx context.Context) ([]*Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(*Node) bool { return true }), nil
}

// UpdateLabel renames a node
func (m *MockRepository) UpdateLabel(ctx context.Context, id int64, label string) error {
	if label == "" {
		return ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.nodes[id]
	if !ok {
		return ErrNodeNotFound
	}
	node.Label = label
	return nil
}

// DescendantsOf returns the rows strictly inside the node's interval
func (m *MockRepository) DescendantsOf(ctx context.Context, id int64) ([]*Node, error) {
	b, err := m.ReadBoundaries(ctx, id)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(n *Node) bool { return n.Lft > b.Lft && n.Lft < b.Rgt }), nil
}

// AncestorsOf returns the rows whose intervals strictly contain the node's
func (m *MockRepository) AncestorsOf(ctx context.Context, id int64) ([]*Node, error) {
	b, err := m.ReadBoundaries(ctx, id)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(n *Node) bool { return n.Lft < b.Lft && n.Rgt > b.Rgt }), nil
}

// ChildrenOf returns the rows parented directly under the node
func (m *MockRepository) ChildrenOf(ctx context.Context, id int64) ([]*Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(n *Node) bool { return n.ParentID != nil && *n.ParentID == id }), nil
}

// collect copies matching rows sorted by left boundary. Callers hold the lock.
func (m *MockRepository) collect(match func(*Node) bool) []*Node {
	var nodes []*Node
	for _, node := range m.nodes {
		if match(node) {
			clone := *node
			nodes = append(nodes, &clone)
		}
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Lft < nodes[j].Lft
	})
	return nodes
}
