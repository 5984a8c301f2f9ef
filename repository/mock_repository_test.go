package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammiranda/nestedset_service/nestedset"
)

// seedTree builds root -> (branch -> leaf, sibling) through a fresh engine
// and returns it along with the node handles. Follow-up mutations must go
// through the returned engine so its session knows the handles may be stale.
func seedTree(t *testing.T, repo *MockRepository) (engine *nestedset.Engine, root, branch, leaf, sibling *nestedset.Node) {
	t.Helper()
	ctx := context.Background()
	engine = nestedset.NewEngine(repo, nil)

	root = &nestedset.Node{Label: "root"}
	require.NoError(t, engine.MakeRoot(ctx, root))

	branch = &nestedset.Node{Label: "branch"}
	require.NoError(t, engine.AppendTo(ctx, branch, root))

	leaf = &nestedset.Node{Label: "leaf"}
	require.NoError(t, engine.AppendTo(ctx, leaf, branch))

	sibling = &nestedset.Node{Label: "sibling"}
	require.NoError(t, engine.AppendTo(ctx, sibling, root))
	return engine, root, branch, leaf, sibling
}

func TestMockRepositorySeededBoundaries(t *testing.T) {
	repo := NewMockRepository()
	_, root, branch, leaf, sibling := seedTree(t, repo)

	nodes, err := repo.GetAllNodes(context.Background())
	require.NoError(t, err)
	require.Len(t, nodes, 4)

	assert.Equal(t, root.ID, nodes[0].ID)
	assert.Equal(t, int64(1), nodes[0].Lft)
	assert.Equal(t, int64(8), nodes[0].Rgt)

	assert.Equal(t, branch.ID, nodes[1].ID)
	assert.Equal(t, int64(2), nodes[1].Lft)
	assert.Equal(t, int64(5), nodes[1].Rgt)

	assert.Equal(t, leaf.ID, nodes[2].ID)
	assert.Equal(t, int64(3), nodes[2].Lft)
	assert.Equal(t, int64(4), nodes[2].Rgt)

	assert.Equal(t, sibling.ID, nodes[3].ID)
	assert.Equal(t, int64(6), nodes[3].Lft)
	assert.Equal(t, int64(7), nodes[3].Rgt)
}

func TestMockRepositoryGetNodeReturnsCopy(t *testing.T) {
	repo := NewMockRepository()
	_, root, _, _, _ := seedTree(t, repo)
	ctx := context.Background()

	got, err := repo.GetNode(ctx, root.ID)
	require.NoError(t, err)
	got.Label = "scribbled"

	again, err := repo.GetNode(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, "root", again.Label)
}

func TestMockRepositoryGetNodeMissing(t *testing.T) {
	repo := NewMockRepository()

	_, err := repo.GetNode(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestMockRepositoryUpdateLabel(t *testing.T) {
	repo := NewMockRepository()
	_, root, _, _, _ := seedTree(t, repo)
	ctx := context.Background()

	require.NoError(t, repo.UpdateLabel(ctx, root.ID, "renamed"))
	got, err := repo.GetNode(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Label)

	assert.ErrorIs(t, repo.UpdateLabel(ctx, root.ID, ""), ErrInvalidInput)
	assert.ErrorIs(t, repo.UpdateLabel(ctx, 42, "x"), ErrNodeNotFound)
}

func TestMockRepositoryInsertRowRejectsEmptyLabel(t *testing.T) {
	repo := NewMockRepository()

	_, err := repo.InsertRow(context.Background(), "", nil, 1, 2)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMockRepositoryDescendantsOf(t *testing.T) {
	repo := NewMockRepository()
	_, root, branch, leaf, sibling := seedTree(t, repo)
	ctx := context.Background()

	descendants, err := repo.DescendantsOf(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, descendants, 3)
	assert.Equal(t, branch.ID, descendants[0].ID)
	assert.Equal(t, leaf.ID, descendants[1].ID)
	assert.Equal(t, sibling.ID, descendants[2].ID)

	descendants, err = repo.DescendantsOf(ctx, leaf.ID)
	require.NoError(t, err)
	assert.Empty(t, descendants)
}

func TestMockRepositoryAncestorsOf(t *testing.T) {
	repo := NewMockRepository()
	_, root, branch, leaf, _ := seedTree(t, repo)
	ctx := context.Background()

	ancestors, err := repo.AncestorsOf(ctx, leaf.ID)
	require.NoError(t, err)
	require.Len(t, ancestors, 2)
	assert.Equal(t, root.ID, ancestors[0].ID)
	assert.Equal(t, branch.ID, ancestors[1].ID)

	ancestors, err = repo.AncestorsOf(ctx, root.ID)
	require.NoError(t, err)
	assert.Empty(t, ancestors)

	_, err = repo.AncestorsOf(ctx, 42)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestMockRepositoryChildrenOf(t *testing.T) {
	repo := NewMockRepository()
	_, root, branch, _, sibling := seedTree(t, repo)

	children, err := repo.ChildrenOf(context.Background(), root.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, branch.ID, children[0].ID)
	assert.Equal(t, sibling.ID, children[1].ID)
}

func TestMockRepositoryCleanup(t *testing.T) {
	repo := NewMockRepository()
	seedTree(t, repo)
	ctx := context.Background()

	require.NoError(t, repo.Cleanup(ctx))

	nodes, err := repo.GetAllNodes(ctx)
	require.NoError(t, err)
	assert.Empty(t, nodes)

	max, err := repo.MaxBoundary(ctx)
	require.NoError(t, err)
	assert.Zero(t, max)
}

func TestMockRepositoryDeleteKeepsForestDense(t *testing.T) {
	repo := NewMockRepository()
	engine, root, branch, leaf, sibling := seedTree(t, repo)
	ctx := context.Background()

	require.NoError(t, engine.Delete(ctx, branch))

	_, err := repo.GetNode(ctx, leaf.ID)
	assert.ErrorIs(t, err, ErrNodeNotFound)

	got, err := repo.GetNode(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Lft)
	assert.Equal(t, int64(4), got.Rgt)

	got, err = repo.GetNode(ctx, sibling.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Lft)
	assert.Equal(t, int64(3), got.Rgt)
}
