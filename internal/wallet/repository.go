package wallet

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrInsufficientFunds is returned when a debit would overdraw the balance.
var ErrInsufficientFunds = errors.New("insufficient balance")

// Repository defines persistence operations for wallets
type Repository interface {
	Get(ctx context.Context, sub string) (*Wallet, error)
	Credit(ctx context.Context, sub string, amount int64) (*Wallet, error)
	Debit(ctx context.Context, sub string, amount int64) (*Wallet, error)
}

// MongoRepository implements Repository using a Mongo collection
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Get(ctx context.Context, sub string) (*Wallet, error) {
	var w Wallet
	if err := r.col.FindOne(ctx, bson.M{"sub": sub}).Decode(&w); err != nil {
		if err == mongo.ErrNoDocuments {
			return &Wallet{Sub: sub, Balance: 0}, nil
		}
		return nil, err
	}
	return &w, nil
}

// Credit adds tokens, creating the wallet on first use.
func (r *MongoRepository) Credit(ctx context.Context, sub string, amount int64) (*Wallet, error) {
	update := bson.M{
		"$inc": bson.M{"balance": amount},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var w Wallet
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"sub": sub}, update, opts).Decode(&w); err != nil {
		return nil, err
	}
	return &w, nil
}

// Debit subtracts tokens atomically: the filter guards the balance so two
// concurrent spends cannot overdraw.
func (r *MongoRepository) Debit(ctx context.Context, sub string, amount int64) (*Wallet, error) {
	filter := bson.M{"sub": sub, "balance": bson.M{"$gte": amount}}
	update := bson.M{
		"$inc": bson.M{"balance": -amount},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var w Wallet
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&w); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}
	return &w, nil
}
