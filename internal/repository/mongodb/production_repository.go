package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/dyecalc/internal/domain/models"
)

// ProductionRepository stores daily production records, one document each.
type ProductionRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// SaveRecord inserts a record or replaces the one with the same id.
func (r *ProductionRepository) SaveRecord(ctx context.Context, record models.ProductionRecord) error {
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": record.ID}, record, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save production record: %w", err)
	}
	r.logger.Debug("production record saved", zap.String("record_id", record.ID), zap.String("date", record.Date))
	return nil
}

// ListRecords returns every record, most recently created first.
func (r *ProductionRepository) ListRecords(ctx context.Context) ([]models.ProductionRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query production records: %w", err)
	}
	defer cursor.Close(ctx)

	records := []models.ProductionRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode production records: %w", err)
	}
	return records, nil
}
