package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"polling-backend/internal/domain/auth"
)

type PasswordRepo struct {
	passwords *mongo.Collection
}

func NewPasswordRepo(db *mongo.Database) *PasswordRepo {
	return &PasswordRepo{passwords: db.Collection(passwordsCollection)}
}

func (r *PasswordRepo) SharedPassword(ctx context.Context) (string, error) {
	var doc passwordDoc
	err := r.passwords.FindOne(ctx, bson.D{}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", auth.ErrNotConfigured
	}
	if err != nil {
		return "", fmt.Errorf("find password: %w", err)
	}
	return doc.Password, nil
}

// SetSharedPassword overwrites the first password record or creates one.
func (r *PasswordRepo) SetSharedPassword(ctx context.Context, value string) error {
	opts := options.UpdateOne().SetUpsert(true)
	_, err := r.passwords.UpdateOne(ctx, bson.D{}, bson.M{"$set": bson.M{"password": value}}, opts)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	return nil
}
