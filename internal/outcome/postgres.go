package outcome

import (
	"context"

	"finassist/internal/common/database"
	"finassist/internal/common/errors"
)

const insertOutcomeQuery = `
	INSERT INTO recognition_outcomes
		(session_id, utterance, intent, confidence, matched_pattern, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

// PostgresSink appends events to the recognition_outcomes table.
type PostgresSink struct {
	db *database.PostgresClient
}

func NewPostgresSink(db *database.PostgresClient) *PostgresSink {
	return &PostgresSink{db: db}
}

func (s *PostgresSink) Log(ctx context.Context, event Event) error {
	_, err := s.db.Exec(ctx, insertOutcomeQuery,
		event.SessionID,
		event.Utterance,
		event.Intent,
		event.Confidence,
		event.MatchedPattern,
		event.Timestamp,
	)
	if err != nil {
		return errors.NewOutcomeLogError(err.Error())
	}
	return nil
}
