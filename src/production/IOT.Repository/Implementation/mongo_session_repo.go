package implementation

import (
	"context"

	iotmodels "gitlab.com/homesense1/iot.home_server/src/production/IOT.Models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoSessionRepository struct {
	coll *mongo.Collection
}

func NewMongoSessionRepository(db *mongo.Database) *MongoSessionRepository {
	return &MongoSessionRepository{coll: db.Collection("sessions")}
}

// Create session
func (r *MongoSessionRepository) Create(ctx context.Context, session *iotmodels.Session) error {
	_, err := r.coll.InsertOne(ctx, session)
	return err
}

func (r *MongoSessionRepository) GetByToken(ctx context.Context, token string) (*iotmodels.Session, error) {
	var session iotmodels.Session

	err := r.coll.FindOne(ctx, bson.M{"token": token}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &session, nil
}

// Delete session (idempotent)
func (r *MongoSessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"token": token})
	return err
}
