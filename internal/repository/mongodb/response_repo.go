package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"polling-backend/internal/domain/response"
)

type ResponseRepo struct {
	responses *mongo.Collection
	choices   *mongo.Collection
}

func NewResponseRepo(db *mongo.Database) *ResponseRepo {
	return &ResponseRepo{
		responses: db.Collection(responsesCollection),
		choices:   db.Collection(choicesCollection),
	}
}

// Create inserts the response and pushes its id onto the choice with a single
// atomic $push.
func (r *ResponseRepo) Create(ctx context.Context, resp *response.Response, choiceID string) (bool, error) {
	doc := responseDoc{
		ID:     bson.NewObjectID(),
		Gender: resp.Gender,
		Age:    resp.Age,
		Race:   resp.Race,
	}
	if _, err := r.responses.InsertOne(ctx, doc); err != nil {
		return false, fmt.Errorf("insert response: %w", err)
	}
	resp.ID = doc.ID.Hex()

	cid, err := bson.ObjectIDFromHex(choiceID)
	if err != nil {
		return false, nil
	}

	res, err := r.choices.UpdateOne(ctx,
		bson.M{"_id": cid},
		bson.M{"$push": bson.M{"responses": doc.ID}},
	)
	if err != nil {
		return false, fmt.Errorf("link response: %w", err)
	}
	return res.MatchedCount == 1, nil
}

func (r *ResponseRepo) List(ctx context.Context) ([]response.Response, error) {
	cur, err := r.responses.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}

	var docs []responseDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode responses: %w", err)
	}

	res := make([]response.Response, 0, len(docs))
	for _, d := range docs {
		res = append(res, d.toDomain())
	}
	return res, nil
}
