package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/dyecalc/internal/domain/models"
)

// slotDocument is the single document holding the whole recipe collection.
type slotDocument struct {
	Key       string          `bson:"_id"`
	Recipes   []models.Recipe `bson:"recipes"`
	UpdatedAt time.Time       `bson:"updated_at"`
}

// RecipeStore keeps the newest-first recipe array in one named slot.
// Reads and writes always move the whole array.
type RecipeStore struct {
	coll   *mongo.Collection
	slot   string
	logger *zap.Logger
}

// Load reads the recipe array. A missing slot is an empty collection.
func (s *RecipeStore) Load(ctx context.Context) ([]models.Recipe, error) {
	var doc slotDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": s.slot}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []models.Recipe{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", s.slot, err)
	}
	return doc.Recipes, nil
}

// Save overwrites the slot with the given array.
func (s *RecipeStore) Save(ctx context.Context, recipes []models.Recipe) error {
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	doc := slotDocument{Key: s.slot, Recipes: recipes, UpdatedAt: time.Now().UTC()}

	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": s.slot}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to write slot %s: %w", s.slot, err)
	}

	s.logger.Debug("recipe slot written", zap.String("slot", s.slot), zap.Int("recipes", len(recipes)))
	return nil
}
