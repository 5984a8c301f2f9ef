package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/ammiranda/nestedset_service/cache"
	"github.com/ammiranda/nestedset_service/models"
	"github.com/ammiranda/nestedset_service/nestedset"
	"github.com/ammiranda/nestedset_service/repository"

	"github.com/gin-gonic/gin"
)

var (
	ErrTreeNotFound = errors.New("tree not found")
)

// TreeHandler handles tree-related HTTP requests. Structural changes go
// through the mutation engine; reads go straight to the repository.
type TreeHandler struct {
	repo   repository.Repository
	engine *nestedset.Engine
}

// NewTreeHandler creates a new TreeHandler instance
func NewTreeHandler(repo repository.Repository) *TreeHandler {
	return &TreeHandler{
		repo:   repo,
		engine: nestedset.NewEngine(repo, nil),
	}
}

// Engine exposes the handler's mutation engine, mainly for tests that need
// to seed a tree.
func (h *TreeHandler) Engine() *nestedset.Engine {
	return h.engine
}

// BuildTreeFromNodes nests a lft-ordered flat row list into trees. A row is a
// child of the nearest preceding row whose interval still contains it.
func BuildTreeFromNodes(rows []*repository.Node) ([]*models.Node, error) {
	if len(rows) == 0 {
		return nil, ErrTreeNotFound
	}

	type frame struct {
		node *models.Node
		rgt  int64
	}

	var roots []*models.Node
	var stack []frame
	for _, row := range rows {
		node := models.NewNode(row.Label)
		node.ID = row.ID
		node.Lft = row.Lft
		node.Rgt = row.Rgt

		for len(stack) > 0 && stack[len(stack)-1].rgt < row.Lft {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			stack[len(stack)-1].node.AddChild(node)
		}
		stack = append(stack, frame{node: node, rgt: row.Rgt})
	}
	return roots, nil
}

// GetTree returns every tree in the forest as nested JSON
func (h *TreeHandler) GetTree(c *gin.Context) {
	if cachedTree, found := cache.GetTree(); found {
		if len(cachedTree) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "tree not found"})
			return
		}
		c.JSON(http.StatusOK, cachedTree)
		return
	}

	ctx := c.Request.Context()
	rows, err := h.repo.GetAllNodes(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	roots, err := BuildTreeFromNodes(rows)
	if err != nil {
		if errors.Is(err, ErrTreeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tree not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	cache.SetTree(roots)

	c.JSON(http.StatusOK, roots)
}

// CreateNode creates a new node at the requested placement
func (h *TreeHandler) CreateNode(c *gin.Context) {
	var req models.CreateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	node := &nestedset.Node{Label: req.Label}
	if err := h.stage(c, node, req.Placement, req.TargetID); err != nil {
		return
	}

	if err := h.engine.Commit(ctx, node); err != nil {
		h.mutationError(c, err)
		return
	}

	cache.InvalidateCache()

	c.JSON(http.StatusCreated, gin.H{
		"id":       node.ID,
		"label":    node.Label,
		"lft":      node.Lft,
		"rgt":      node.Rgt,
		"parentId": node.ParentID,
	})
}

// MoveNode relocates an existing subtree to the requested placement
func (h *TreeHandler) MoveNode(c *gin.Context) {
	id, ok := h.nodeID(c)
	if !ok {
		return
	}

	var req models.MoveNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	row, err := h.repo.GetNode(ctx, id)
	if err != nil {
		h.mutationError(c, err)
		return
	}

	node := row.Entity()
	if err := h.stage(c, node, req.Placement, req.TargetID); err != nil {
		return
	}

	if err := h.engine.Commit(ctx, node); err != nil {
		h.mutationError(c, err)
		return
	}

	cache.InvalidateCache()

	c.JSON(http.StatusOK, gin.H{
		"id":       node.ID,
		"label":    node.Label,
		"lft":      node.Lft,
		"rgt":      node.Rgt,
		"parentId": node.ParentID,
	})
}

// UpdateNode renames a node without touching its placement
func (h *TreeHandler) UpdateNode(c *gin.Context) {
	id, ok := h.nodeID(c)
	if !ok {
		return
	}

	var req models.UpdateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := h.repo.UpdateLabel(ctx, id, req.Label); err != nil {
		h.mutationError(c, err)
		return
	}

	cache.InvalidateCache()

	c.JSON(http.StatusOK, gin.H{"id": id, "label": req.Label})
}

// DeleteNode removes a node's subtree and closes the gap it leaves
func (h *TreeHandler) DeleteNode(c *gin.Context) {
	id, ok := h.nodeID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	row, err := h.repo.GetNode(ctx, id)
	if err != nil {
		h.mutationError(c, err)
		return
	}

	if err := h.engine.Delete(ctx, row.Entity()); err != nil {
		h.mutationError(c, err)
		return
	}

	cache.InvalidateCache()

	c.Status(http.StatusNoContent)
}

// GetDescendants returns a node's subtree as a flat, tree-ordered list
func (h *TreeHandler) GetDescendants(c *gin.Context) {
	h.listNodes(c, h.repo.DescendantsOf)
}

// GetAncestors returns a node's ancestor chain, outermost first
func (h *TreeHandler) GetAncestors(c *gin.Context) {
	h.listNodes(c, h.repo.AncestorsOf)
}

// GetChildren returns a node's direct children in tree order
func (h *TreeHandler) GetChildren(c *gin.Context) {
	h.listNodes(c, h.repo.ChildrenOf)
}

func (h *TreeHandler) listNodes(c *gin.Context, query func(ctx context.Context, id int64) ([]*repository.Node, error)) {
	id, ok := h.nodeID(c)
	if !ok {
		return
	}

	rows, err := query(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNodeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "node not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"id":       row.ID,
			"label":    row.Label,
			"lft":      row.Lft,
			"rgt":      row.Rgt,
			"parentId": row.ParentID,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *TreeHandler) nodeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid node id"})
		return 0, false
	}
	return id, true
}

// stage attaches the requested placement intent to the node. Writes the HTTP
// error response itself when the target cannot be resolved.
func (h *TreeHandler) stage(c *gin.Context, node *nestedset.Node, placement models.Placement, targetID int64) error {
	if placement == models.PlacementRoot {
		node.StageMakeRoot()
		return nil
	}

	row, err := h.repo.GetNode(c.Request.Context(), targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNodeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "target node not found"})
			return err
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return err
	}

	target := row.Entity()
	switch placement {
	case models.PlacementAppend:
		node.StageAppendTo(target)
	case models.PlacementPrepend:
		node.StagePrependTo(target)
	case models.PlacementBefore:
		node.StageInsertBefore(target)
	case models.PlacementAfter:
		node.StageInsertAfter(target)
	}
	return nil
}

// mutationError maps engine and repository failures onto HTTP statuses
func (h *TreeHandler) mutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, nestedset.ErrInvalidMove):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrNodeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "node not found"})
	case errors.Is(err, nestedset.ErrNotPersisted), errors.Is(err, repository.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
