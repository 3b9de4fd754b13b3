package implementation

import (
	"context"
	"time"

	iotmodels "gitlab.com/homesense1/iot.home_server/src/production/IOT.Models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoEventRepository struct {
	coll *mongo.Collection
}

func NewMongoEventRepository(db *mongo.Database) *MongoEventRepository {
	return &MongoEventRepository{coll: db.Collection("events")}
}

// Insert event (append-only)
func (r *MongoEventRepository) Insert(ctx context.Context, event iotmodels.Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	_, err := r.coll.InsertOne(ctx, event)
	return err
}
