package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mise/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngredientHandler_CreateAndGet(t *testing.T) {
	env := newTestEnv()

	w := doJSON(t, env, http.MethodPost, "/api/v1/ingredients", "alice", body{
		"name":               "Flour",
		"base_unit":          "g",
		"cost_per_base_unit": "0.001",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decodeData(t, w)
	id := int64(data["id"].(float64))
	assert.Equal(t, "Flour", data["name"])

	w = doJSON(t, env, http.MethodGet, "/api/v1/ingredients/"+itoa(id), "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	assert.Equal(t, "g", data["base_unit"])
}

func TestIngredientHandler_CreateValidation(t *testing.T) {
	env := newTestEnv()

	w := doJSON(t, env, http.MethodPost, "/api/v1/ingredients", "alice", body{
		"base_unit": "g",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngredientHandler_List(t *testing.T) {
	env := newTestEnv()
	seedIngredient(t, env, "Flour", "g", "0.001")
	seedIngredient(t, env, "Salt", "g", "0.002")

	w := doJSON(t, env, http.MethodGet, "/api/v1/ingredients?page=1&page_size=10", "alice", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, items, 2)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.Total)
}

func TestIngredientHandler_SupplierFlow(t *testing.T) {
	env := newTestEnv()
	ing := seedIngredient(t, env, "Butter", "g", "")
	base := "/api/v1/ingredients/" + itoa(ing.ID)

	// Attach a supplier; unit cost is derived from pack size and price
	w := doJSON(t, env, http.MethodPost, base+"/suppliers", "alice", body{
		"supplier_id":    "sup-1",
		"supplier_name":  "Dairy Co",
		"pack_size":      250,
		"price_per_pack": "2.50",
		"pack_unit":      "pack",
		"is_preferred":   true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Preferred supplier is resolvable
	w = doJSON(t, env, http.MethodGet, base+"/suppliers/preferred", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "sup-1", data["supplier_id"])
	assert.Equal(t, "0.01", data["cost_per_unit"])

	// Remove it
	w = doJSON(t, env, http.MethodDelete, base+"/suppliers/sup-1", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Unknown supplier removal is a 404
	w = doJSON(t, env, http.MethodDelete, base+"/suppliers/sup-1", "alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIngredientHandler_Deactivate(t *testing.T) {
	env := newTestEnv()
	ing := seedIngredient(t, env, "Butter", "g", "0.01")

	w := doJSON(t, env, http.MethodDelete, "/api/v1/ingredients/"+itoa(ing.ID), "alice", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, env, http.MethodGet, "/api/v1/ingredients/"+itoa(ing.ID), "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, false, data["is_active"])
}
