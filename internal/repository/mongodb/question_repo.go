package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"polling-backend/internal/domain/question"
)

type QuestionRepo struct {
	questions *mongo.Collection
	choices   *mongo.Collection
}

func NewQuestionRepo(db *mongo.Database) *QuestionRepo {
	return &QuestionRepo{
		questions: db.Collection(questionsCollection),
		choices:   db.Collection(choicesCollection),
	}
}

// Create inserts the choices first, then the question referencing them. If
// the question insert fails the inserted choices are removed again.
func (r *QuestionRepo) Create(ctx context.Context, q *question.Question, choices []question.Choice) error {
	ids := make([]bson.ObjectID, len(choices))
	docs := make([]any, len(choices))
	for i, c := range choices {
		ids[i] = bson.NewObjectID()
		docs[i] = choiceDoc{ID: ids[i], Body: c.Body, Responses: []bson.ObjectID{}}
	}

	if len(docs) > 0 {
		if _, err := r.choices.InsertMany(ctx, docs); err != nil {
			r.removeChoices(ctx, ids)
			return fmt.Errorf("insert choices: %w", err)
		}
	}

	doc := questionDoc{
		ID:        bson.NewObjectID(),
		Body:      q.Body,
		DateAsked: q.DateAsked,
		Choices:   ids,
	}
	if _, err := r.questions.InsertOne(ctx, doc); err != nil {
		r.removeChoices(ctx, ids)
		return fmt.Errorf("insert question: %w", err)
	}

	*q = doc.toDomain()
	return nil
}

func (r *QuestionRepo) removeChoices(ctx context.Context, ids []bson.ObjectID) {
	if len(ids) == 0 {
		return
	}
	// Best effort.
	_, _ = r.choices.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *QuestionRepo) GetByID(ctx context.Context, id string) (*question.Question, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, question.ErrNotFound
	}

	var doc questionDoc
	err = r.questions.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, question.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find question: %w", err)
	}

	q := doc.toDomain()
	return &q, nil
}

func (r *QuestionRepo) List(ctx context.Context) ([]question.Question, error) {
	cur, err := r.questions.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	var docs []questionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	res := make([]question.Question, 0, len(docs))
	for _, d := range docs {
		res = append(res, d.toDomain())
	}
	return res, nil
}
