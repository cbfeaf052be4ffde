package mongodb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/busops/transit-backend-go/internal/domain/maillog"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const slipDeliveriesCollection = "slipDeliveries"

type slipDeliveryRepository struct {
	collection *mongo.Collection
}

func NewSlipDeliveryRepository(db *mongo.Database) maillog.DeliveryRepository {
	collection := db.Collection(slipDeliveriesCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "salaryId", Value: 1},
				{Key: "attemptedAt", Value: -1},
			},
		},
		{Keys: bson.M{"staffId": 1}},
	}
	if _, err := collection.Indexes().CreateMany(context.Background(), indexes); err != nil {
		slog.Warn("Failed to create slip delivery indexes", "error", err)
	}

	return &slipDeliveryRepository{collection: collection}
}

func (r *slipDeliveryRepository) Record(ctx context.Context, d maillog.Delivery) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if _, err := r.collection.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("failed to record slip delivery: %w", err)
	}
	return nil
}

func (r *slipDeliveryRepository) ListBySalary(ctx context.Context, salaryID string) ([]maillog.Delivery, error) {
	opts := options.Find().SetSort(bson.D{{Key: "attemptedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"salaryId": salaryID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list slip deliveries: %w", err)
	}
	defer cursor.Close(ctx)

	deliveries := []maillog.Delivery{}
	if err := cursor.All(ctx, &deliveries); err != nil {
		return nil, fmt.Errorf("failed to decode slip deliveries: %w", err)
	}
	return deliveries, nil
}
