package mongodb

import (
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"polling-backend/internal/domain/report"
)

func bucketValues(bs []report.Bucket) []string {
	out := make([]string, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.Value)
	}
	return out
}

func TestParseIDsDropsMalformed(t *testing.T) {
	valid := bson.NewObjectID()
	got := parseIDs([]string{"nope", valid.Hex(), ""})
	if len(got) != 1 || got[0] != valid {
		t.Fatalf("expected only %s, got %v", valid.Hex(), got)
	}
}

func TestQuestionDocKeepsChoiceOrder(t *testing.T) {
	c1, c2 := bson.NewObjectID(), bson.NewObjectID()
	q := questionDoc{ID: bson.NewObjectID(), Body: "x", Choices: []bson.ObjectID{c2, c1}}.toDomain()
	if len(q.Choices) != 2 || q.Choices[0] != c2.Hex() || q.Choices[1] != c1.Hex() {
		t.Fatalf("unexpected choices %v", q.Choices)
	}
}
