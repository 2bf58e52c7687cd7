package identity

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository defines persistence operations for user records, keyed by
// the verified subject identifier.
type UserRepository interface {
	GetBySub(ctx context.Context, sub string) (*User, error)
	Create(ctx context.Context, u *User) (*User, error)
	TouchLastActive(ctx context.Context, sub string, at time.Time) error
	UpdateRole(ctx context.Context, sub string, role Role) error
	List(ctx context.Context, limit int64) ([]User, error)
}

// MongoUserRepository implements UserRepository using MongoDB
type MongoUserRepository struct {
	col *mongo.Collection
}

func NewMongoUserRepository(col *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{col: col}
}

func (r *MongoUserRepository) GetBySub(ctx context.Context, sub string) (*User, error) {
	var u User
	if err := r.col.FindOne(ctx, bson.M{"sub": sub}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts the record via upsert so two concurrent first sightings of
// the same subject collapse to one document (last writer wins).
func (r *MongoUserRepository) Create(ctx context.Context, u *User) (*User, error) {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.LastActiveAt.IsZero() {
		u.LastActiveAt = now
	}

	filter := bson.M{"sub": u.Sub}
	update := bson.M{"$set": bson.M{
		"role":         u.Role,
		"email":        u.Email,
		"lastActiveAt": u.LastActiveAt,
		"createdAt":    u.CreatedAt,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var created User
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&created); err != nil {
		if err == mongo.ErrNoDocuments {
			return u, nil
		}
		return nil, err
	}
	return &created, nil
}

func (r *MongoUserRepository) TouchLastActive(ctx context.Context, sub string, at time.Time) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"sub": sub}, bson.M{"$set": bson.M{"lastActiveAt": at}})
	return err
}

func (r *MongoUserRepository) UpdateRole(ctx context.Context, sub string, role Role) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"sub": sub}, bson.M{"$set": bson.M{"role": string(role)}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoUserRepository) List(ctx context.Context, limit int64) ([]User, error) {
	if limit <= 0 {
		limit = 100
	}
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
