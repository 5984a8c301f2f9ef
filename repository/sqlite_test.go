package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammiranda/nestedset_service/nestedset"
)

func setupSQLite(t *testing.T) Repository {
	t.Helper()
	repo := NewSQLiteRepositoryAt(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, repo.Initialize(context.Background()))
	t.Cleanup(func() { _ = repo.Cleanup(context.Background()) })
	return repo
}

func TestSQLiteRepositoryLifecycle(t *testing.T) {
	repo := setupSQLite(t)
	ctx := context.Background()

	max, err := repo.MaxBoundary(ctx)
	require.NoError(t, err)
	assert.Zero(t, max)

	_, err = repo.GetNode(ctx, 1)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestSQLiteRepositoryTreeMutations(t *testing.T) {
	repo := setupSQLite(t)
	ctx := context.Background()
	engine := nestedset.NewEngine(repo, nil)

	root := &nestedset.Node{Label: "root"}
	require.NoError(t, engine.MakeRoot(ctx, root))
	c1 := &nestedset.Node{Label: "c1"}
	require.NoError(t, engine.AppendTo(ctx, c1, root))
	c2 := &nestedset.Node{Label: "c2"}
	require.NoError(t, engine.AppendTo(ctx, c2, root))

	nodes, err := repo.GetAllNodes(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, []int64{1, 2, 4}, []int64{nodes[0].Lft, nodes[1].Lft, nodes[2].Lft})
	assert.Equal(t, []int64{6, 3, 5}, []int64{nodes[0].Rgt, nodes[1].Rgt, nodes[2].Rgt})

	require.NoError(t, engine.InsertAfter(ctx, c1, c2))

	row, err := repo.GetNode(ctx, c1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), row.Lft)
	assert.Equal(t, int64(5), row.Rgt)

	require.NoError(t, engine.Delete(ctx, c2))

	row, err = repo.GetNode(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), row.Lft)
	assert.Equal(t, int64(4), row.Rgt)
}

func TestSQLiteRepositoryQueries(t *testing.T) {
	repo := setupSQLite(t)
	ctx := context.Background()
	engine := nestedset.NewEngine(repo, nil)

	root := &nestedset.Node{Label: "root"}
	require.NoError(t, engine.MakeRoot(ctx, root))
	branch := &nestedset.Node{Label: "branch"}
	require.NoError(t, engine.AppendTo(ctx, branch, root))
	leaf := &nestedset.Node{Label: "leaf"}
	require.NoError(t, engine.AppendTo(ctx, leaf, branch))

	descendants, err := repo.DescendantsOf(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, descendants, 2)
	assert.Equal(t, "branch", descendants[0].Label)
	assert.Equal(t, "leaf", descendants[1].Label)

	ancestors, err := repo.AncestorsOf(ctx, leaf.ID)
	require.NoError(t, err)
	require.Len(t, ancestors, 2)
	assert.Equal(t, "root", ancestors[0].Label)

	children, err := repo.ChildrenOf(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "branch", children[0].Label)

	require.NoError(t, repo.UpdateLabel(ctx, leaf.ID, "renamed"))
	row, err := repo.GetNode(ctx, leaf.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", row.Label)
}
