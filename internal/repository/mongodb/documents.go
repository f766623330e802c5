package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"polling-backend/internal/domain/question"
	"polling-backend/internal/domain/response"
)

const (
	questionsCollection = "questions"
	choicesCollection   = "choices"
	responsesCollection = "responses"
	passwordsCollection = "passwords"
)

type questionDoc struct {
	ID        bson.ObjectID   `bson:"_id"`
	Body      string          `bson:"body"`
	DateAsked time.Time       `bson:"date_asked"`
	Choices   []bson.ObjectID `bson:"choices"`
}

type choiceDoc struct {
	ID        bson.ObjectID   `bson:"_id"`
	Body      string          `bson:"body"`
	Responses []bson.ObjectID `bson:"responses"`
}

type responseDoc struct {
	ID     bson.ObjectID `bson:"_id"`
	Gender string        `bson:"gender,omitempty"`
	Age    string        `bson:"age,omitempty"`
	Race   string        `bson:"race,omitempty"`
}

type passwordDoc struct {
	ID       bson.ObjectID `bson:"_id,omitempty"`
	Password string        `bson:"password"`
}

func (d questionDoc) toDomain() question.Question {
	q := question.Question{
		ID:        d.ID.Hex(),
		Body:      d.Body,
		DateAsked: d.DateAsked.UTC(),
		Choices:   make([]string, 0, len(d.Choices)),
	}
	for _, id := range d.Choices {
		q.Choices = append(q.Choices, id.Hex())
	}
	return q
}

func (d responseDoc) toDomain() response.Response {
	return response.Response{ID: d.ID.Hex(), Gender: d.Gender, Age: d.Age, Race: d.Race}
}

// parseIDs drops identifiers that are not ObjectIDs; they cannot match.
func parseIDs(ids []string) []bson.ObjectID {
	out := make([]bson.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := bson.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		out = append(out, oid)
	}
	return out
}

// EnsureIndexes creates the index used to find the question owning a choice.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(questionsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "choices", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create questions.choices index: %w", err)
	}
	return nil
}
