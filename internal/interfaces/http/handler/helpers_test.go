package handler

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	recipeapp "github.com/mise/backend/internal/application/recipe"
	"github.com/mise/backend/internal/domain/recipe"
	"github.com/mise/backend/internal/domain/shared"
	"github.com/mise/backend/internal/interfaces/http/middleware"
	"github.com/mise/backend/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// body is shorthand for JSON request bodies
type body = map[string]any

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Map-backed fakes standing in for the GORM repositories.

type fakeRecipeRepo struct {
	mu      sync.Mutex
	recipes map[int64]*recipe.Recipe
	nextID  int64
}

func newFakeRecipeRepo() *fakeRecipeRepo {
	return &fakeRecipeRepo{recipes: make(map[int64]*recipe.Recipe)}
}

func (f *fakeRecipeRepo) FindByID(_ context.Context, id int64) (*recipe.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.recipes[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeRecipeRepo) FindByIDs(_ context.Context, ids []int64) ([]recipe.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []recipe.Recipe
	for _, id := range ids {
		if r, ok := f.recipes[id]; ok {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (f *fakeRecipeRepo) FindAll(_ context.Context, _ shared.Filter) ([]recipe.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int64, 0, len(f.recipes))
	for id := range f.recipes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	result := make([]recipe.Recipe, 0, len(ids))
	for _, id := range ids {
		result = append(result, *f.recipes[id])
	}
	return result, nil
}

func (f *fakeRecipeRepo) FindForks(_ context.Context, id int64) ([]recipe.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []recipe.Recipe
	for _, r := range f.recipes {
		if r.RootID != nil && *r.RootID == id {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (f *fakeRecipeRepo) Save(_ context.Context, r *recipe.Recipe) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == 0 {
		f.nextID++
		r.ID = f.nextID
	}
	cp := *r
	f.recipes[r.ID] = &cp
	return nil
}

func (f *fakeRecipeRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.recipes[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.recipes, id)
	return nil
}

func (f *fakeRecipeRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.recipes)), nil
}

type fakeIngredientRepo struct {
	mu          sync.Mutex
	ingredients map[int64]*recipe.Ingredient
	nextID      int64
}

func newFakeIngredientRepo() *fakeIngredientRepo {
	return &fakeIngredientRepo{ingredients: make(map[int64]*recipe.Ingredient)}
}

func (f *fakeIngredientRepo) FindByID(_ context.Context, id int64) (*recipe.Ingredient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i, ok := f.ingredients[id]; ok {
		cp := *i
		return &cp, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeIngredientRepo) FindByIDs(_ context.Context, ids []int64) ([]recipe.Ingredient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []recipe.Ingredient
	for _, id := range ids {
		if i, ok := f.ingredients[id]; ok {
			result = append(result, *i)
		}
	}
	return result, nil
}

func (f *fakeIngredientRepo) FindAll(_ context.Context, _ shared.Filter) ([]recipe.Ingredient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int64, 0, len(f.ingredients))
	for id := range f.ingredients {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	result := make([]recipe.Ingredient, 0, len(ids))
	for _, id := range ids {
		result = append(result, *f.ingredients[id])
	}
	return result, nil
}

func (f *fakeIngredientRepo) Save(_ context.Context, i *recipe.Ingredient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i.ID == 0 {
		f.nextID++
		i.ID = f.nextID
	}
	cp := *i
	f.ingredients[i.ID] = &cp
	return nil
}

func (f *fakeIngredientRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.ingredients[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.ingredients, id)
	return nil
}

func (f *fakeIngredientRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.ingredients)), nil
}

type fakeCompositionRepo struct {
	mu              sync.Mutex
	ingredientLinks map[int64]*recipe.RecipeIngredient
	subRecipeLinks  map[int64]*recipe.SubRecipeLink
	nextID          int64
}

func newFakeCompositionRepo() *fakeCompositionRepo {
	return &fakeCompositionRepo{
		ingredientLinks: make(map[int64]*recipe.RecipeIngredient),
		subRecipeLinks:  make(map[int64]*recipe.SubRecipeLink),
	}
}

func (f *fakeCompositionRepo) ListIngredientLinks(_ context.Context, recipeID int64) ([]recipe.RecipeIngredient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []recipe.RecipeIngredient
	for _, l := range f.ingredientLinks {
		if l.RecipeID == recipeID {
			result = append(result, *l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeCompositionRepo) FindIngredientLink(_ context.Context, id int64) (*recipe.RecipeIngredient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.ingredientLinks[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeCompositionRepo) SaveIngredientLink(_ context.Context, l *recipe.RecipeIngredient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l.ID == 0 {
		f.nextID++
		l.ID = f.nextID
	}
	cp := *l
	f.ingredientLinks[l.ID] = &cp
	return nil
}

func (f *fakeCompositionRepo) DeleteIngredientLink(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.ingredientLinks[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.ingredientLinks, id)
	return nil
}

func (f *fakeCompositionRepo) ListSubRecipeLinks(_ context.Context, parentRecipeID int64) ([]recipe.SubRecipeLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []recipe.SubRecipeLink
	for _, l := range f.subRecipeLinks {
		if l.ParentRecipeID == parentRecipeID {
			result = append(result, *l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeCompositionRepo) FindSubRecipeLink(_ context.Context, id int64) (*recipe.SubRecipeLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.subRecipeLinks[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeCompositionRepo) SaveSubRecipeLink(_ context.Context, l *recipe.SubRecipeLink) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l.ID == 0 {
		f.nextID++
		l.ID = f.nextID
	}
	cp := *l
	f.subRecipeLinks[l.ID] = &cp
	return nil
}

func (f *fakeCompositionRepo) DeleteSubRecipeLink(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subRecipeLinks[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.subRecipeLinks, id)
	return nil
}

func (f *fakeCompositionRepo) ChildRecipeIDs(_ context.Context, recipeID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int64
	for _, l := range f.subRecipeLinks {
		if l.ParentRecipeID == recipeID {
			ids = append(ids, l.ChildRecipeID)
		}
	}
	return ids, nil
}

// fakeImageStore records presign and delete calls without any backend
type fakeImageStore struct {
	mu      sync.Mutex
	objects map[string]bool
	deleted []string
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{objects: make(map[string]bool)}
}

func (f *fakeImageStore) GenerateUploadURL(_ context.Context, storageKey, _ string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://uploads.test/" + storageKey, time.Now().Add(expiresIn), nil
}

func (f *fakeImageStore) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[storageKey], nil
}

func (f *fakeImageStore) DeleteObject(_ context.Context, storageKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, storageKey)
	f.deleted = append(f.deleted, storageKey)
	return nil
}

func (f *fakeImageStore) PublicURL(storageKey string) string {
	return "https://img.test/" + storageKey
}

func (f *fakeImageStore) putObject(storageKey string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[storageKey] = true
}

// testEnv wires handlers against fake repositories behind a real router.
// Authentication is shimmed: the X-User-ID header is copied into the JWT
// context key the handlers read.
type testEnv struct {
	engine      *gin.Engine
	recipes     *fakeRecipeRepo
	ingredients *fakeIngredientRepo
	links       *fakeCompositionRepo
	store       *fakeImageStore
}

func newTestEnv() *testEnv {
	recipes := newFakeRecipeRepo()
	ingredients := newFakeIngredientRepo()
	links := newFakeCompositionRepo()
	store := newFakeImageStore()

	recipeSvc := recipeapp.NewRecipeService(recipes, links)
	costingSvc := recipeapp.NewCostingService(recipes, ingredients, links, nil)
	compositionSvc := recipeapp.NewCompositionService(recipes, ingredients, links, nil)
	imageSvc := recipeapp.NewImageService(recipes, store)
	ingredientSvc := recipeapp.NewIngredientService(ingredients)

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-User-ID"); id != "" {
			c.Set(middleware.JWTUserIDKey, id)
		}
		c.Next()
	})

	r := router.NewRouter(engine)
	r.Register(NewRecipeHandler(recipeSvc, costingSvc, imageSvc))
	r.Register(NewCompositionHandler(compositionSvc))
	r.Register(NewIngredientHandler(ingredientSvc))
	r.Setup()

	return &testEnv{
		engine:      engine,
		recipes:     recipes,
		ingredients: ingredients,
		links:       links,
		store:       store,
	}
}
