package rooms

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository defines persistence operations for study rooms
type Repository interface {
	Insert(ctx context.Context, r *Room) (*Room, error)
	GetByID(ctx context.Context, id string) (*Room, error)
	List(ctx context.Context, limit int64) ([]Room, error)
	AddMember(ctx context.Context, id, sub string) error
}

// MongoRepository implements Repository using a Mongo collection
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Insert(ctx context.Context, room *Room) (*Room, error) {
	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now().UTC()
	}
	if room.Members == nil {
		room.Members = []string{}
	}
	res, err := r.col.InsertOne(ctx, room)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		room.ID = oid.Hex()
	}
	return room, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*Room, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var room Room
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&room); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func (r *MongoRepository) List(ctx context.Context, limit int64) ([]Room, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().SetLimit(limit).SetSort(bson.M{"createdAt": -1})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var out []Room
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddMember appends the subject once ($addToSet keeps joins idempotent).
func (r *MongoRepository) AddMember(ctx context.Context, id, sub string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$addToSet": bson.M{"members": sub}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
