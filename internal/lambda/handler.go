// Package lambda adapts the tree service to API Gateway proxy events for
// deployments without a resident HTTP server.
package lambda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ammiranda/nestedset_service/cache"
	"github.com/ammiranda/nestedset_service/handlers"
	"github.com/ammiranda/nestedset_service/models"
	"github.com/ammiranda/nestedset_service/nestedset"
	"github.com/ammiranda/nestedset_service/repository"

	"github.com/aws/aws-lambda-go/events"
)

// Handler represents the Lambda handler with its dependencies
type Handler struct {
	repo   repository.Repository
	engine *nestedset.Engine
}

// NewHandler creates a new Handler with the given repository
func NewHandler(repo repository.Repository) *Handler {
	return &Handler{
		repo:   repo,
		engine: nestedset.NewEngine(repo, nil),
	}
}

// Handle processes API Gateway events
func (h *Handler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch {
	case request.HTTPMethod == "GET" && request.Path == "/api/tree":
		return h.handleGetTree(ctx)
	case request.HTTPMethod == "POST" && request.Path == "/api/tree":
		return h.handleCreateNode(ctx, request)
	default:
		return errorResponse(404, "Not found"), nil
	}
}

func (h *Handler) handleGetTree(ctx context.Context) (events.APIGatewayProxyResponse, error) {
	if cachedTree, found := cache.GetTree(); found {
		if len(cachedTree) == 0 {
			return errorResponse(404, "tree not found"), nil
		}
		return jsonResponse(200, cachedTree), nil
	}

	rows, err := h.repo.GetAllNodes(ctx)
	if err != nil {
		return errorResponse(500, err.Error()), nil
	}

	roots, err := handlers.BuildTreeFromNodes(rows)
	if err != nil {
		if errors.Is(err, handlers.ErrTreeNotFound) {
			return errorResponse(404, "tree not found"), nil
		}
		return errorResponse(500, err.Error()), nil
	}

	cache.SetTree(roots)

	return jsonResponse(200, roots), nil
}

func (h *Handler) handleCreateNode(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req models.CreateNodeRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(400, fmt.Sprintf("Invalid request: %v", err)), nil
	}
	if err := req.Validate(); err != nil {
		return errorResponse(400, err.Error()), nil
	}

	node := &nestedset.Node{Label: req.Label}
	if req.Placement == models.PlacementRoot {
		node.StageMakeRoot()
	} else {
		row, err := h.repo.GetNode(ctx, req.TargetID)
		if err != nil {
			if errors.Is(err, repository.ErrNodeNotFound) {
				return errorResponse(404, "target node not found"), nil
			}
			return errorResponse(500, err.Error()), nil
		}
		target := row.Entity()
		switch req.Placement {
		case models.PlacementAppend:
			node.StageAppendTo(target)
		case models.PlacementPrepend:
			node.StagePrependTo(target)
		case models.PlacementBefore:
			node.StageInsertBefore(target)
		case models.PlacementAfter:
			node.StageInsertAfter(target)
		}
	}

	if err := h.engine.Commit(ctx, node); err != nil {
		if errors.Is(err, nestedset.ErrInvalidMove) {
			return errorResponse(409, err.Error()), nil
		}
		return errorResponse(500, err.Error()), nil
	}

	cache.InvalidateCache()

	return jsonResponse(201, map[string]interface{}{
		"id":       node.ID,
		"label":    node.Label,
		"lft":      node.Lft,
		"rgt":      node.Rgt,
		"parentId": node.ParentID,
	}), nil
}

func jsonResponse(status int, payload interface{}) events.APIGatewayProxyResponse {
	body, err := json.Marshal(payload)
	if err != nil {
		return errorResponse(500, fmt.Sprintf("Failed to marshal response: %v", err))
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Body:       string(body),
	}
}

func errorResponse(status int, message string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(map[string]string{"error": message})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Body:       string(body),
	}
}
