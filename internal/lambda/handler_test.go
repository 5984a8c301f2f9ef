package lambda

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammiranda/nestedset_service/cache"
	"github.com/ammiranda/nestedset_service/models"
	"github.com/ammiranda/nestedset_service/repository"
)

func setupHandler(t *testing.T) *Handler {
	t.Helper()
	cache.ResetProvider()
	t.Cleanup(cache.ResetProvider)
	return NewHandler(repository.NewMockRepository())
}

func invoke(t *testing.T, h *Handler, method, path string, body interface{}) events.APIGatewayProxyResponse {
	t.Helper()
	req := events.APIGatewayProxyRequest{HTTPMethod: method, Path: path}
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req.Body = string(raw)
	}
	resp, err := h.Handle(context.Background(), req)
	require.NoError(t, err)
	return resp
}

func TestHandleUnknownRoute(t *testing.T) {
	h := setupHandler(t)

	resp := invoke(t, h, "DELETE", "/api/unknown", nil)

	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleGetTreeEmpty(t *testing.T) {
	h := setupHandler(t)

	resp := invoke(t, h, "GET", "/api/tree", nil)

	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleCreateAndGetTree(t *testing.T) {
	h := setupHandler(t)

	resp := invoke(t, h, "POST", "/api/tree", map[string]string{"label": "root"})
	require.Equal(t, 201, resp.StatusCode)

	var created struct {
		ID  int64 `json:"id"`
		Lft int64 `json:"lft"`
		Rgt int64 `json:"rgt"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &created))
	assert.Equal(t, int64(1), created.Lft)
	assert.Equal(t, int64(2), created.Rgt)

	resp = invoke(t, h, "POST", "/api/tree", map[string]interface{}{
		"label":     "child",
		"placement": "append",
		"targetId":  created.ID,
	})
	require.Equal(t, 201, resp.StatusCode)

	resp = invoke(t, h, "GET", "/api/tree", nil)
	require.Equal(t, 200, resp.StatusCode)

	var roots []*models.Node
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &roots))
	require.Len(t, roots, 1)
	assert.Equal(t, "root", roots[0].Label)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "child", roots[0].Children[0].Label)
}

func TestHandleCreateNodeValidation(t *testing.T) {
	h := setupHandler(t)

	resp := invoke(t, h, "POST", "/api/tree", map[string]string{"placement": "root"})
	assert.Equal(t, 400, resp.StatusCode)

	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: "POST",
		Path:       "/api/tree",
		Body:       "{not json",
	})
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleCreateNodeTargetMissing(t *testing.T) {
	h := setupHandler(t)

	resp := invoke(t, h, "POST", "/api/tree", map[string]interface{}{
		"label":     "orphan",
		"placement": "before",
		"targetId":  42,
	})

	assert.Equal(t, 404, resp.StatusCode)
}
