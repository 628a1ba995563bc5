package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/types"
)

func TestRecipeCRUD(t *testing.T) {
	router, db := setupTestRouter(t)
	token := registerAndLogin(t, router, "alice")
	salt, milk, dinner := seedCatalog(t, db)

	id := createRecipeViaAPI(t, router, token, "Porridge",
		[]gin.H{
			{"id": salt.ID, "amount": 2},
			{"id": milk.ID, "amount": 200},
		},
		[]uint{dinner.ID},
	)

	// Anonymous read works and carries no viewer flags.
	w := doJSON(t, router, http.MethodGet, recipePath(id), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view types.RecipeView
	decodeBody(t, w, &view)
	assert.Equal(t, "Porridge", view.Name)
	assert.Equal(t, "alice", view.Author.Username)
	assert.Len(t, view.Ingredients, 2)
	require.Len(t, view.Tags, 1)
	assert.Equal(t, "dinner", view.Tags[0].Slug)
	assert.False(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)

	// Full-replace update drops the milk line.
	w = doJSON(t, router, http.MethodPatch, recipePath(id), token, gin.H{
		"name":         "Plain Porridge",
		"text":         "Less milk.",
		"cooking_time": 15,
		"ingredients":  []gin.H{{"id": salt.ID, "amount": 1}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeBody(t, w, &view)
	assert.Equal(t, "Plain Porridge", view.Name)
	assert.Len(t, view.Ingredients, 1)
	assert.Empty(t, view.Tags)

	w = doJSON(t, router, http.MethodDelete, recipePath(id), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, recipePath(id), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeCreateRejectsBadPayloads(t *testing.T) {
	router, db := setupTestRouter(t)
	token := registerAndLogin(t, router, "alice")
	salt, _, _ := seedCatalog(t, db)

	// Unauthenticated create is rejected.
	w := doJSON(t, router, http.MethodPost, "/api/v1/recipes", "", gin.H{
		"name":         "X",
		"text":         "Y",
		"cooking_time": 1,
		"ingredients":  []gin.H{{"id": salt.ID, "amount": 1}},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Zero cooking time.
	w = doJSON(t, router, http.MethodPost, "/api/v1/recipes", token, gin.H{
		"name":         "X",
		"text":         "Y",
		"cooking_time": 0,
		"ingredients":  []gin.H{{"id": salt.ID, "amount": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Duplicate ingredient lines.
	w = doJSON(t, router, http.MethodPost, "/api/v1/recipes", token, gin.H{
		"name":         "X",
		"text":         "Y",
		"cooking_time": 5,
		"ingredients": []gin.H{
			{"id": salt.ID, "amount": 1},
			{"id": salt.ID, "amount": 2},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown ingredient id.
	w = doJSON(t, router, http.MethodPost, "/api/v1/recipes", token, gin.H{
		"name":         "X",
		"text":         "Y",
		"cooking_time": 5,
		"ingredients":  []gin.H{{"id": 9999, "amount": 1}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeUpdateForbiddenForNonAuthor(t *testing.T) {
	router, db := setupTestRouter(t)
	aliceToken := registerAndLogin(t, router, "alice")
	bobToken := registerAndLogin(t, router, "bob")
	salt, _, _ := seedCatalog(t, db)

	id := createRecipeViaAPI(t, router, aliceToken, "Stew",
		[]gin.H{{"id": salt.ID, "amount": 3}}, nil)

	w := doJSON(t, router, http.MethodPatch, recipePath(id), bobToken, gin.H{
		"name":         "Hijacked",
		"text":         "Z",
		"cooking_time": 5,
		"ingredients":  []gin.H{{"id": salt.ID, "amount": 1}},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodDelete, recipePath(id), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFavoriteEndpoints(t *testing.T) {
	router, db := setupTestRouter(t)
	aliceToken := registerAndLogin(t, router, "alice")
	bobToken := registerAndLogin(t, router, "bob")
	salt, _, _ := seedCatalog(t, db)

	id := createRecipeViaAPI(t, router, bobToken, "Stew",
		[]gin.H{{"id": salt.ID, "amount": 3}}, nil)

	w := doJSON(t, router, http.MethodPost, recipePath(id, "favorite"), aliceToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var short types.ShortRecipeView
	decodeBody(t, w, &short)
	assert.Equal(t, "Stew", short.Name)

	// Double favorite conflicts.
	w = doJSON(t, router, http.MethodPost, recipePath(id, "favorite"), aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The flag shows up for the favoriting viewer only.
	w = doJSON(t, router, http.MethodGet, recipePath(id), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view types.RecipeView
	decodeBody(t, w, &view)
	assert.True(t, view.IsFavorited)

	w = doJSON(t, router, http.MethodGet, recipePath(id), bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &view)
	assert.False(t, view.IsFavorited)

	w = doJSON(t, router, http.MethodDelete, recipePath(id, "favorite"), aliceToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Removing an absent favorite is a 400.
	w = doJSON(t, router, http.MethodDelete, recipePath(id, "favorite"), aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecipeListFilters(t *testing.T) {
	router, db := setupTestRouter(t)
	aliceToken := registerAndLogin(t, router, "alice")
	bobToken := registerAndLogin(t, router, "bob")
	salt, _, dinner := seedCatalog(t, db)

	stewID := createRecipeViaAPI(t, router, bobToken, "Stew",
		[]gin.H{{"id": salt.ID, "amount": 3}}, []uint{dinner.ID})
	createRecipeViaAPI(t, router, bobToken, "Plain",
		[]gin.H{{"id": salt.ID, "amount": 1}}, nil)

	var listing struct {
		Count   int64              `json:"count"`
		Results []types.RecipeView `json:"results"`
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/recipes?tags=dinner", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &listing)
	assert.EqualValues(t, 1, listing.Count)
	require.Len(t, listing.Results, 1)
	assert.Equal(t, stewID, listing.Results[0].ID.String())

	// is_favorited asks for the viewer's favorites.
	w = doJSON(t, router, http.MethodPost, recipePath(stewID, "favorite"), aliceToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/recipes?is_favorited=1", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &listing)
	assert.EqualValues(t, 1, listing.Count)

	// Anonymous requests ignore the viewer-relative filter.
	w = doJSON(t, router, http.MethodGet, "/api/v1/recipes?is_favorited=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &listing)
	assert.EqualValues(t, 2, listing.Count)
}

func TestShoppingCartAndDownload(t *testing.T) {
	router, db := setupTestRouter(t)
	aliceToken := registerAndLogin(t, router, "alice")
	bobToken := registerAndLogin(t, router, "bob")
	salt, milk, _ := seedCatalog(t, db)

	soupID := createRecipeViaAPI(t, router, bobToken, "Soup",
		[]gin.H{{"id": salt.ID, "amount": 5}}, nil)
	porridgeID := createRecipeViaAPI(t, router, bobToken, "Porridge",
		[]gin.H{
			{"id": salt.ID, "amount": 10},
			{"id": milk.ID, "amount": 200},
		}, nil)

	for _, id := range []string{soupID, porridgeID} {
		w := doJSON(t, router, http.MethodPost, recipePath(id, "shopping_cart"), aliceToken, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/recipes/download_shopping_cart", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "alice_shopping_list.txt")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	body := w.Body.String()
	assert.Contains(t, body, "Shopping list for alice")
	assert.Contains(t, body, "- salt (g) - 15")
	assert.Contains(t, body, "- milk (ml) - 200")

	// The download is viewer-scoped: bob's cart is empty.
	w = doJSON(t, router, http.MethodGet, "/api/v1/recipes/download_shopping_cart", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "- salt")

	// Anonymous download is rejected.
	w = doJSON(t, router, http.MethodGet, "/api/v1/recipes/download_shopping_cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
