package recipe

import (
	"context"
	"testing"

	"github.com/mise/backend/internal/domain/recipe"
	"github.com/mise/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func savedRecipe(id int64, name, ownerID string) *recipe.Recipe {
	r, _ := recipe.NewRecipe(name, ownerID)
	r.ID = id
	return r
}

func TestRecipeService_Create(t *testing.T) {
	recipeRepo := new(MockRecipeRepository)
	service := NewRecipeService(recipeRepo, new(MockCompositionRepository))
	ctx := context.Background()

	recipeRepo.On("Save", ctx, mock.AnythingOfType("*recipe.Recipe")).Return(nil)

	yield := 4.0
	got, err := service.Create(ctx, "user-1", CreateRecipeRequest{
		Name:          "Bread",
		Description:   "Basic loaf",
		YieldQuantity: &yield,
		YieldUnit:     "loaf",
	})

	require.NoError(t, err)
	assert.Equal(t, "Bread", got.Name)
	assert.Equal(t, "user-1", got.OwnerID)
	assert.Equal(t, 1, got.Version)
	assert.Nil(t, got.RootID)
	assert.Equal(t, 4.0, got.YieldQuantity)
	assert.Equal(t, "draft", got.Status)
	recipeRepo.AssertExpectations(t)
}

func TestRecipeService_Create_WithLineage(t *testing.T) {
	recipeRepo := new(MockRecipeRepository)
	service := NewRecipeService(recipeRepo, new(MockCompositionRepository))
	ctx := context.Background()

	parent := savedRecipe(8, "Stock", "user-1")
	parent.Version = 2
	recipeRepo.On("FindByID", ctx, int64(8)).Return(parent, nil)
	recipeRepo.On("Save", ctx, mock.AnythingOfType("*recipe.Recipe")).Return(nil)

	version := 3
	rootID := int64(8)
	got, err := service.Create(ctx, "user-1", CreateRecipeRequest{
		Name:    "Stock (Fork)",
		Version: &version,
		RootID:  &rootID,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, got.Version)
	require.NotNil(t, got.RootID)
	assert.Equal(t, int64(8), *got.RootID)
}

func TestRecipeService_Create_LineageDefaultsVersion(t *testing.T) {
	recipeRepo := new(MockRecipeRepository)
	service := NewRecipeService(recipeRepo, new(MockCompositionRepository))
	ctx := context.Background()

	parent := savedRecipe(8, "Stock", "user-1")
	parent.Version = 2
	recipeRepo.On("FindByID", ctx, int64(8)).Return(parent, nil)
	recipeRepo.On("Save", ctx, mock.AnythingOfType("*recipe.Recipe")).Return(nil)

	rootID := int64(8)
	got, err := service.Create(ctx, "user-1", CreateRecipeRequest{Name: "Stock (Fork)", RootID: &rootID})

	require.NoError(t, err)
	assert.Equal(t, 3, got.Version)
}

func TestRecipeService_Create_HiddenRootRejected(t *testing.T) {
	recipeRepo := new(MockRecipeRepository)
	service := NewRecipeService(recipeRepo, new(MockCompositionRepository))
	ctx := context.Background()

	private := savedRecipe(8, "Secret Stock", "someone-else")
	recipeRepo.On("FindByID", ctx, int64(8)).Return(private, nil)

	rootID := int64(8)
	_, err := service.Create(ctx, "user-1", CreateRecipeRequest{Name: "Fork", RootID: &rootID})

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRecipeService_Create_EmptyNameRejected(t *testing.T) {
	service := NewRecipeService(new(MockRecipeRepository), new(MockCompositionRepository))

	_, err := service.Create(context.Background(), "user-1", CreateRecipeRequest{Name: ""})

	assert.Error(t, err)
}

func TestRecipeService_GetByID_HiddenRecipeReportsNotFound(t *testing.T) {
	recipeRepo := new(MockRecipeRepository)
	service := NewRecipeService(recipeRepo, new(MockCompositionRepository))
	ctx := context.Background()

	private := savedRecipe(1, "Secret Sauce", "someone-else")
	recipeRepo.On("FindByID", ctx, int64(1)).Return(private, nil)

	_, err := service.GetByID(ctx, "user-1", 1)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRecipeService_GetByID_PublicRecipeVisible(t *testing.T) {
	recipeRepo := new(MockRecipeRepository)
	service := NewRecipeService(recipeRepo, new(MockCompositionRepository))
	ctx := context.Background()

	public := savedRecipe(1, "House Bread", "someone-else")
	public.IsPublic = true
	recipeRepo.On("FindByID", ctx, int64(1)).Return(public, nil)

	got, err := service.GetByID(ctx, "user-1", 1)

	require.NoError(t, err)
	assert.Equal(t, "House Bread", got.Name)
}

func TestRecipeService_Update_OnlyOwner(t *testing.T) {
	recipeRepo := new(MockRecipeRepository)
	service := NewRecipeService(recipeRepo, new(MockCompositionRepository))
	ctx := context.Background()

	r := savedRecipe(1, "Bread", "owner")
	recipeRepo.On("FindByID", ctx, int64(1)).Return(r, nil)

	name := "Sourdough"
	_, err := service.Update(ctx, "intruder", 1, UpdateRecipeRequest{Name: &name})

	assert.ErrorIs(t, err, shared.ErrForbidden)
	recipeRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRecipeService_Update_StatusTransition(t *testing.T) {
	recipeRepo := new(MockRecipeRepository)
	service := NewRecipeService(recipeRepo, new(MockCompositionRepository))
	ctx := context.Background()

	r := savedRecipe(1, "Bread", "owner")
	recipeRepo.On("FindByID", ctx, int64(1)).Return(r, nil)
	recipeRepo.On("Save", ctx, r).Return(nil)

	status := "active"
	got, err := service.Update(ctx, "owner", 1, UpdateRecipeRequest{Status: &status})

	require.NoError(t, err)
	assert.Equal(t, "active", got.Status)
}

func TestRecipeService_Delete_Archives(t *testing.T) {
	recipeRepo := new(MockRecipeRepository)
	service := NewRecipeService(recipeRepo, new(MockCompositionRepository))
	ctx := context.Background()

	r := savedRecipe(1, "Bread", "owner")
	r.Status = recipe.StatusActive
	recipeRepo.On("FindByID", ctx, int64(1)).Return(r, nil)
	recipeRepo.On("Save", ctx, mock.MatchedBy(func(saved *recipe.Recipe) bool {
		return saved.Status == recipe.StatusArchived
	})).Return(nil)

	require.NoError(t, service.Delete(ctx, "owner", 1))
	recipeRepo.AssertExpectations(t)
}

func TestRecipeService_Fork_CopiesComposition(t *testing.T) {
	recipeRepo := new(MockRecipeRepository)
	compositionRepo := new(MockCompositionRepository)
	service := NewRecipeService(recipeRepo, compositionRepo)
	ctx := context.Background()

	parent := savedRecipe(42, "Bread", "owner")
	parent.Version = 3
	parent.IsPublic = true

	recipeRepo.On("FindByID", ctx, int64(42)).Return(parent, nil)
	recipeRepo.On("Save", ctx, mock.MatchedBy(func(forked *recipe.Recipe) bool {
		forked.ID = 43
		return forked.Version == 4 && forked.RootID != nil && *forked.RootID == 42
	})).Return(nil)

	link := recipe.RecipeIngredient{RecipeID: 42, IngredientID: 10, Quantity: 3, Unit: "g"}
	link.ID = 100
	subLink := recipe.SubRecipeLink{ParentRecipeID: 42, ChildRecipeID: 6, Quantity: 1, Unit: "portion"}
	subLink.ID = 200

	compositionRepo.On("ListIngredientLinks", ctx, int64(42)).Return([]recipe.RecipeIngredient{link}, nil)
	compositionRepo.On("SaveIngredientLink", ctx, mock.MatchedBy(func(copied *recipe.RecipeIngredient) bool {
		return copied.ID == 0 && copied.RecipeID == 43 && copied.IngredientID == 10
	})).Return(nil)
	compositionRepo.On("ListSubRecipeLinks", ctx, int64(42)).Return([]recipe.SubRecipeLink{subLink}, nil)
	compositionRepo.On("SaveSubRecipeLink", ctx, mock.MatchedBy(func(copied *recipe.SubRecipeLink) bool {
		return copied.ID == 0 && copied.ParentRecipeID == 43 && copied.ChildRecipeID == 6
	})).Return(nil)

	got, err := service.Fork(ctx, "forker", 42)

	require.NoError(t, err)
	assert.Equal(t, 4, got.Version)
	require.NotNil(t, got.RootID)
	assert.Equal(t, int64(42), *got.RootID)
	assert.Equal(t, "Bread (Fork)", got.Name)
	assert.Equal(t, "forker", got.OwnerID)
	compositionRepo.AssertExpectations(t)
}

func TestRecipeService_VersionTree_MasksInvisibleRecipes(t *testing.T) {
	recipeRepo := new(MockRecipeRepository)
	service := NewRecipeService(recipeRepo, new(MockCompositionRepository))
	ctx := context.Background()

	root := savedRecipe(1, "Bread", "owner")
	root.IsPublic = true
	hidden := savedRecipe(2, "Private Variant", "owner")
	hidden.Version = 2
	rootID := int64(1)
	hidden.RootID = &rootID
	leaf := savedRecipe(3, "Shared Variant", "viewer")
	leaf.Version = 3
	hiddenID := int64(2)
	leaf.RootID = &hiddenID

	recipeRepo.On("FindByID", ctx, int64(3)).Return(leaf, nil)
	recipeRepo.On("FindByID", ctx, int64(2)).Return(hidden, nil)
	recipeRepo.On("FindByID", ctx, int64(1)).Return(root, nil)
	recipeRepo.On("FindForks", ctx, int64(1)).Return([]recipe.Recipe{*hidden}, nil)
	recipeRepo.On("FindForks", ctx, int64(2)).Return([]recipe.Recipe{*leaf}, nil)
	recipeRepo.On("FindForks", ctx, int64(3)).Return([]recipe.Recipe{}, nil)

	tree, err := service.VersionTree(ctx, "viewer", 3)

	require.NoError(t, err)
	require.Len(t, tree, 3)

	// The hidden middle node is masked and the leaf is relinked to the
	// nearest visible ancestor.
	assert.Equal(t, "", tree[1].Name)
	require.NotNil(t, tree[2].RootID)
	assert.Equal(t, int64(1), *tree[2].RootID)
}

func TestRecipeService_VersionGraph_FiltersMaskedNodes(t *testing.T) {
	recipeRepo := new(MockRecipeRepository)
	service := NewRecipeService(recipeRepo, new(MockCompositionRepository))
	ctx := context.Background()

	root := savedRecipe(1, "Bread", "owner")
	root.IsPublic = true
	forkA := savedRecipe(2, "Bread (Fork)", "owner")
	forkA.Version = 2
	forkA.IsPublic = true
	rootID := int64(1)
	forkA.RootID = &rootID
	hidden := savedRecipe(3, "Secret Fork", "owner")
	hidden.Version = 2
	hidden.RootID = &rootID

	recipeRepo.On("FindByID", ctx, int64(1)).Return(root, nil)
	recipeRepo.On("FindForks", ctx, int64(1)).Return([]recipe.Recipe{*forkA, *hidden}, nil)
	recipeRepo.On("FindForks", ctx, int64(2)).Return([]recipe.Recipe{}, nil)
	recipeRepo.On("FindForks", ctx, int64(3)).Return([]recipe.Recipe{}, nil)

	graph, err := service.VersionGraph(ctx, "viewer", 1)

	require.NoError(t, err)
	require.Len(t, graph.Nodes, 2)
	require.Len(t, graph.Edges, 1)
	assert.Equal(t, int64(1), graph.Edges[0].FromID)
	assert.Equal(t, int64(2), graph.Edges[0].ToID)
	assert.True(t, graph.Nodes[0].IsCurrent)
}
