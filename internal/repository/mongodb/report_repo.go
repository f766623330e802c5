package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"polling-backend/internal/domain/question"
	"polling-backend/internal/domain/report"
	"polling-backend/internal/domain/response"
)

type ReportRepo struct {
	questions *mongo.Collection
	choices   *mongo.Collection
	responses *mongo.Collection
}

func NewReportRepo(db *mongo.Database) *ReportRepo {
	return &ReportRepo{
		questions: db.Collection(questionsCollection),
		choices:   db.Collection(choicesCollection),
		responses: db.Collection(responsesCollection),
	}
}

type countDoc struct {
	ID    bson.ObjectID `bson:"_id"`
	Body  string        `bson:"body"`
	Count int64         `bson:"count"`
}

type bucketDoc struct {
	Value string `bson:"_id"`
	Count int64  `bson:"count"`
}

type facetDoc struct {
	Gender []bucketDoc `bson:"gender"`
	Age    []bucketDoc `bson:"age"`
	Race   []bucketDoc `bson:"race"`
}

func (r *ReportRepo) ChoiceCounts(ctx context.Context, choiceIDs []string) ([]report.ChoiceCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": bson.M{"$in": parseIDs(choiceIDs)}}}},
		{{Key: "$project", Value: bson.M{
			"body":  1,
			"count": bson.M{"$size": bson.M{"$ifNull": bson.A{"$responses", bson.A{}}}},
		}}},
	}

	cur, err := r.choices.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate choice counts: %w", err)
	}

	var docs []countDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode choice counts: %w", err)
	}

	res := make([]report.ChoiceCount, 0, len(docs))
	for _, d := range docs {
		res = append(res, report.ChoiceCount{ChoiceID: d.ID.Hex(), Body: d.Body, Count: d.Count})
	}
	return res, nil
}

// ChoiceBreakdowns groups each choice's responses by gender, age and race in
// one $facet stage per choice.
func (r *ReportRepo) ChoiceBreakdowns(ctx context.Context, choiceIDs []string) ([]report.ChoiceBreakdown, error) {
	cur, err := r.choices.Find(ctx, bson.M{"_id": bson.M{"$in": parseIDs(choiceIDs)}})
	if err != nil {
		return nil, fmt.Errorf("find choices: %w", err)
	}

	var choices []choiceDoc
	if err := cur.All(ctx, &choices); err != nil {
		return nil, fmt.Errorf("decode choices: %w", err)
	}

	res := make([]report.ChoiceBreakdown, 0, len(choices))
	for _, c := range choices {
		facets, err := r.facets(ctx, c.Responses)
		if err != nil {
			return nil, err
		}
		res = append(res, report.ChoiceBreakdown{
			ChoiceID:      c.ID.Hex(),
			Body:          c.Body,
			Gender:        toBuckets(facets.Gender),
			Age:           toBuckets(facets.Age),
			Race:          toBuckets(facets.Race),
			TotalResponse: int64(len(c.Responses)),
		})
	}
	return res, nil
}

func (r *ReportRepo) facets(ctx context.Context, responseIDs []bson.ObjectID) (facetDoc, error) {
	group := func(field string) bson.A {
		return bson.A{bson.M{"$group": bson.M{
			"_id":   bson.M{"$ifNull": bson.A{"$" + field, response.Unknown}},
			"count": bson.M{"$sum": 1},
		}}}
	}
	if responseIDs == nil {
		responseIDs = []bson.ObjectID{}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": bson.M{"$in": responseIDs}}}},
		{{Key: "$facet", Value: bson.M{
			"gender": group("gender"),
			"age":    group("age"),
			"race":   group("race"),
		}}},
	}

	cur, err := r.responses.Aggregate(ctx, pipeline)
	if err != nil {
		return facetDoc{}, fmt.Errorf("aggregate breakdown: %w", err)
	}

	var docs []facetDoc
	if err := cur.All(ctx, &docs); err != nil {
		return facetDoc{}, fmt.Errorf("decode breakdown: %w", err)
	}
	if len(docs) == 0 {
		return facetDoc{}, nil
	}
	return docs[0], nil
}

func toBuckets(docs []bucketDoc) []report.Bucket {
	out := make([]report.Bucket, 0, len(docs))
	for _, d := range docs {
		out = append(out, report.Bucket{Value: d.Value, Count: d.Count})
	}
	return out
}

func (r *ReportRepo) QuestionIDForChoice(ctx context.Context, choiceID string) (string, error) {
	cid, err := bson.ObjectIDFromHex(choiceID)
	if err != nil {
		return "", question.ErrNotFound
	}

	var doc struct {
		ID bson.ObjectID `bson:"_id"`
	}
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err = r.questions.FindOne(ctx, bson.M{"choices": cid}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", question.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find question for choice: %w", err)
	}
	return doc.ID.Hex(), nil
}
