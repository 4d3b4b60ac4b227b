package outcome

import (
	"context"
	"errors"
	"testing"
	"time"

	"finassist/internal/common/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPostgresSink_InsertsOutcome(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ts := time.Now().UTC()
	mock.ExpectExec("INSERT INTO recognition_outcomes").
		WithArgs("s1", "send 50 to Alice", "send_money", 0.9, "send", ts).
		WillReturnResult(sqlmock.NewResult(0, 1))

	sink := NewPostgresSink(&database.PostgresClient{DB: db})
	err = sink.Log(context.Background(), Event{
		SessionID:      "s1",
		Utterance:      "send 50 to Alice",
		Intent:         "send_money",
		Confidence:     0.9,
		MatchedPattern: "send",
		Timestamp:      ts,
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSink_InsertFailureReported(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO recognition_outcomes").
		WillReturnError(errors.New("connection reset"))

	sink := NewPostgresSink(&database.PostgresClient{DB: db})
	err = sink.Log(context.Background(), Event{SessionID: "s1", Timestamp: time.Now()})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
