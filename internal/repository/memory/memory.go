package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mamadbah2/dyecalc/internal/domain/models"
)

// RecipeStore keeps the recipe slot in process memory.
type RecipeStore struct {
	mu      sync.RWMutex
	recipes []models.Recipe
}

// NewRecipeStore returns an empty store.
func NewRecipeStore() *RecipeStore {
	return &RecipeStore{}
}

// Load returns a copy of the stored collection.
func (s *RecipeStore) Load(_ context.Context) ([]models.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecipes(s.recipes), nil
}

// Save replaces the stored collection.
func (s *RecipeStore) Save(_ context.Context, recipes []models.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes = cloneRecipes(recipes)
	return nil
}

// ProductionRepository keeps production records in process memory.
type ProductionRepository struct {
	mu      sync.RWMutex
	records map[string]models.ProductionRecord
}

// NewProductionRepository returns an empty repository.
func NewProductionRepository() *ProductionRepository {
	return &ProductionRepository{records: make(map[string]models.ProductionRecord)}
}

// SaveRecord inserts or replaces a record by id.
func (r *ProductionRepository) SaveRecord(_ context.Context, record models.ProductionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ID] = record
	return nil
}

// ListRecords returns all records, most recently created first.
func (r *ProductionRepository) ListRecords(_ context.Context) ([]models.ProductionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.ProductionRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func cloneRecipes(in []models.Recipe) []models.Recipe {
	if in == nil {
		return nil
	}
	out := make([]models.Recipe, len(in))
	for i, r := range in {
		snapshot := models.Requisition{Form: r.FormData, Items: r.ChemicalItems}.Clone()
		out[i] = models.Recipe{ID: r.ID, Timestamp: r.Timestamp, FormData: snapshot.Form, ChemicalItems: snapshot.Items}
	}
	return out
}
