package recipes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/dyecalc/internal/domain/models"
	"github.com/mamadbah2/dyecalc/internal/metrics"
	"github.com/mamadbah2/dyecalc/internal/service/dyeing"
)

var (
	// ErrRecipeNotFound indicates no saved recipe carries the requested id.
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrMissingID indicates a requisition without a reqId cannot be saved.
	ErrMissingID = errors.New("requisition id must be provided")
	// ErrPersistence wraps storage failures. The recipe itself is still valid.
	ErrPersistence = errors.New("recipe persistence failed")
)

// Store persists the whole newest-first recipe collection in one slot.
type Store interface {
	Load(ctx context.Context) ([]models.Recipe, error)
	Save(ctx context.Context, recipes []models.Recipe) error
}

// Exporter mirrors saved recipes to an external sheet.
type Exporter interface {
	ExportRecipe(ctx context.Context, recipe models.Recipe) error
}

// Service manages saved recipe snapshots.
type Service struct {
	// mu serialises read-modify-write cycles on the store slot.
	mu       sync.Mutex
	store    Store
	exporter Exporter
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a recipe service. exporter may be nil.
func NewService(store Store, exporter Exporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		exporter: exporter,
		logger:   logger,
		now:      time.Now,
	}
}

// Create snapshots a requisition into a recipe. Derived values are refreshed
// first and nothing is shared with the caller's requisition.
func (s *Service) Create(req models.Requisition) models.Recipe {
	snapshot, _ := dyeing.Refresh(req)
	return models.Recipe{
		ID:            snapshot.Form.ReqID,
		Timestamp:     s.now().UTC(),
		FormData:      snapshot.Form,
		ChemicalItems: snapshot.Items,
	}
}

// Save stores the requisition as the newest recipe, replacing any older
// recipe with the same id. On ErrPersistence the returned recipe is still usable.
func (s *Service) Save(ctx context.Context, req models.Requisition) (models.Recipe, error) {
	if strings.TrimSpace(req.Form.ReqID) == "" {
		return models.Recipe{}, ErrMissingID
	}
	recipe := s.Create(req)
	if err := s.prepend(ctx, recipe); err != nil {
		metrics.RecipeSaveFailures.Inc()
		return recipe, err
	}

	metrics.RecipesSaved.Inc()
	s.logger.Info("recipe saved",
		zap.String("recipe_id", recipe.ID),
		zap.Int("items", len(recipe.ChemicalItems)),
		zap.Float64("total_cost", dyeing.TotalCost(recipe.ChemicalItems)))

	if s.exporter != nil {
		if err := s.exporter.ExportRecipe(ctx, recipe); err != nil {
			s.logger.Warn("recipe export failed", zap.String("recipe_id", recipe.ID), zap.Error(err))
		}
	}

	return recipe, nil
}

func (s *Service) prepend(ctx context.Context, recipe models.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: load recipes: %v", ErrPersistence, err)
	}

	updated := make([]models.Recipe, 0, len(existing)+1)
	updated = append(updated, recipe)
	for _, r := range existing {
		if r.ID != recipe.ID {
			updated = append(updated, r)
		}
	}

	if err := s.store.Save(ctx, updated); err != nil {
		return fmt.Errorf("%w: save recipes: %v", ErrPersistence, err)
	}
	return nil
}

// List returns saved recipes newest-first. A non-empty query keeps recipes
// whose req id, batch, buyer or order number contains it, ignoring case.
func (s *Service) List(ctx context.Context, query string) ([]models.Recipe, error) {
	all, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return all, nil
	}

	matches := make([]models.Recipe, 0, len(all))
	for _, r := range all {
		if matchesQuery(r.FormData, needle) {
			matches = append(matches, r)
		}
	}
	return matches, nil
}

// Get returns the recipe with the given id.
func (s *Service) Get(ctx context.Context, id string) (models.Recipe, error) {
	all, err := s.store.Load(ctx)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("load recipes: %w", err)
	}
	for _, r := range all {
		if r.ID == id {
			return r, nil
		}
	}
	return models.Recipe{}, fmt.Errorf("%w: %s", ErrRecipeNotFound, id)
}

// Delete removes the recipe with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: load recipes: %v", ErrPersistence, err)
	}

	kept := make([]models.Recipe, 0, len(all))
	for _, r := range all {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(all) {
		return fmt.Errorf("%w: %s", ErrRecipeNotFound, id)
	}

	if err := s.store.Save(ctx, kept); err != nil {
		return fmt.Errorf("%w: save recipes: %v", ErrPersistence, err)
	}
	s.logger.Info("recipe deleted", zap.String("recipe_id", id))
	return nil
}

func matchesQuery(form models.DyeingFormData, needle string) bool {
	for _, field := range []string{form.ReqID, form.BatchNo, form.Buyer, form.OrderNo} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
