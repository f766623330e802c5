package response

import "context"

// Unknown is the bucket for a demographic that was not reported.
const Unknown = "unknown"

var (
	Genders   = []string{"male", "female", "nonbinary", "other", Unknown}
	AgeRanges = []string{"<10", "10-20", "20-30", "30-40", "40-50", "50-60", "60+", Unknown}
	Races     = []string{"white", "african american", "asian", "hispanic", "american indian", "other", Unknown}
)

// Response is one anonymous vote. Empty fields were not reported.
type Response struct {
	ID     string `json:"_id"`
	Gender string `json:"gender,omitempty"`
	Age    string `json:"age,omitempty"`
	Race   string `json:"race,omitempty"`
}

type Repository interface {
	// Create stores r, assigns its ID and appends it to the response list of
	// choiceID. linked is false when no choice matched; r is stored anyway.
	Create(ctx context.Context, r *Response, choiceID string) (linked bool, err error)
	List(ctx context.Context) ([]Response, error)
}

// Invalidator drops derived data that depends on a choice's responses.
type Invalidator interface {
	InvalidateChoice(ctx context.Context, choiceID string) error
}
