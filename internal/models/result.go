package models

// CategoryStats is the correct/answered split for one canonical
// category within a result.
type CategoryStats struct {
	Answered int `bson:"answered" json:"answered"`
	Correct  int `bson:"correct" json:"correct"`
}

// ResultSummary is the aggregate outcome of a completed exam session.
type ResultSummary struct {
	SessionID             string                   `bson:"session_id" json:"session_id"`
	Category              string                   `bson:"category" json:"category"`
	QuestionType          QuestionType             `bson:"question_type" json:"question_type"`
	Year                  int                      `bson:"year,omitempty" json:"year,omitempty"`
	TotalAnswered         int                      `bson:"total_answered" json:"total_answered"`
	TotalCorrect          int                      `bson:"total_correct" json:"total_correct"`
	AccuracyPercent       float64                  `bson:"accuracy_percent" json:"accuracy_percent"`
	PerCategory           map[string]CategoryStats `bson:"per_category" json:"per_category"`
	AverageElapsedSeconds float64                  `bson:"average_elapsed_seconds" json:"average_elapsed_seconds"`
}
