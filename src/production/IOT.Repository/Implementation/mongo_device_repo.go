package implementation

import (
	"context"
	"time"

	iotmodels "gitlab.com/homesense1/iot.home_server/src/production/IOT.Models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDeviceRepository struct {
	coll *mongo.Collection
}

func NewMongoDeviceRepository(db *mongo.Database) *MongoDeviceRepository {
	return &MongoDeviceRepository{coll: db.Collection("devices")}
}

// Create devices (duplicate (user_id, slug) inserts are skipped)
func (r *MongoDeviceRepository) CreateMany(ctx context.Context, devices []iotmodels.Device) error {
	if len(devices) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(devices))
	for i := range devices {
		if devices[i].ID.IsZero() {
			devices[i].ID = primitive.NewObjectID()
		}
		if devices[i].CreatedAt.IsZero() {
			devices[i].CreatedAt = time.Now().UTC()
		}
		docs = append(docs, devices[i])
	}

	// Unordered so one duplicate does not abort the rest. A duplicate hit
	// means another request already seeded the same slug.
	_, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

// Read devices
func (r *MongoDeviceRepository) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"user_id": userID})
}

func (r *MongoDeviceRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]iotmodels.Device, error) {
	// ObjectIDs are monotonic, so sorting by _id preserves insertion order.
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var devices []iotmodels.Device
	if err := cursor.All(ctx, &devices); err != nil {
		return nil, err
	}

	return devices, nil
}

func (r *MongoDeviceRepository) GetBySlug(ctx context.Context, userID primitive.ObjectID, slug string) (*iotmodels.Device, error) {
	var device iotmodels.Device

	err := r.coll.FindOne(ctx, bson.M{"user_id": userID, "slug": slug}).Decode(&device)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &device, nil
}

// ToggleSwitch flips ON<->OFF in a single conditional update, so two
// concurrent toggles of the same device each observe a distinct flip.
func (r *MongoDeviceRepository) ToggleSwitch(ctx context.Context, userID primitive.ObjectID, slug string) (string, error) {
	filter := bson.M{"user_id": userID, "slug": slug, "type": iotmodels.DeviceTypeSwitch}
	flip := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{{Key: "state", Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$eq", Value: bson.A{"$state", iotmodels.StateOn}}},
			iotmodels.StateOff,
			iotmodels.StateOn,
		}}}}}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var device iotmodels.Device
	err := r.coll.FindOneAndUpdate(ctx, filter, flip, opts).Decode(&device)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", iotmodels.ErrDeviceNotFound
		}
		return "", err
	}

	if device.State == nil {
		return "", iotmodels.ErrDeviceNotFound
	}
	return *device.State, nil
}
