// Package engine orchestrates one conversation turn: slot consumption when
// a question is outstanding, otherwise classification, then state
// transition, persistence and response formatting.
package engine

import (
	"context"
	"sync"
	"time"

	"finassist/internal/common/logger"
	"finassist/internal/common/metrics"
	"finassist/internal/common/observability"
	"finassist/internal/dialog"
	"finassist/internal/nlu/classifier"
	"finassist/internal/outcome"
	"finassist/internal/respond"
)

// Finalizer receives a completed transaction. Downstream navigation and
// persistence are its problem; the engine's obligation ends at producing a
// well-formed record.
type Finalizer interface {
	Finalize(ctx context.Context, tx dialog.PendingTransaction) error
}

// NopFinalizer discards transactions. Used when no downstream is wired.
type NopFinalizer struct{}

func (NopFinalizer) Finalize(context.Context, dialog.PendingTransaction) error { return nil }

// Turn kinds reported to observability.
const (
	turnKindSlot       = "slot"
	turnKindClassified = "classified"
	turnKindCancelled  = "cancelled"
)

// Reply is the rendered result of one turn.
type Reply struct {
	Text   string
	Intent string
	Kind   string
}

// Deps are the engine's collaborators. Observability may be nil.
type Deps struct {
	Classifier *classifier.Classifier
	Machine    *dialog.Machine
	Store      dialog.Store
	Formatter  *respond.Formatter
	Finalizer  Finalizer
	Sink       outcome.Sink
	Obs        *observability.Observability
	Logger     logger.Logger
}

// Engine processes utterances for all sessions. Each utterance is handled
// to completion before its reply is returned; outcome reporting is the one
// asynchronous step and is strictly best-effort.
type Engine struct {
	classifier *classifier.Classifier
	machine    *dialog.Machine
	store      dialog.Store
	formatter  *respond.Formatter
	finalizer  Finalizer
	sink       outcome.Sink
	obs        *observability.Observability
	logger     logger.Logger

	wg sync.WaitGroup
}

func New(deps Deps) *Engine {
	finalizer := deps.Finalizer
	if finalizer == nil {
		finalizer = NopFinalizer{}
	}
	sink := deps.Sink
	if sink == nil {
		sink = outcome.NopSink{}
	}
	return &Engine{
		classifier: deps.Classifier,
		machine:    deps.Machine,
		store:      deps.Store,
		formatter:  deps.Formatter,
		finalizer:  finalizer,
		sink:       sink,
		obs:        deps.Obs,
		logger:     deps.Logger.With(map[string]interface{}{"component": "engine"}),
	}
}

// HandleUtterance runs one turn. Nothing in a turn is fatal: store and
// downstream failures are logged and the user still gets a reply, at worst
// a clarifying re-ask.
func (e *Engine) HandleUtterance(ctx context.Context, sessionID, utterance string) Reply {
	start := time.Now()

	state, err := e.store.Get(ctx, sessionID)
	if err != nil {
		e.logger.WithError(err).Warn("session load failed, treating session as idle", map[string]interface{}{
			"sessionId": sessionID,
		})
		state = dialog.State{}
	}

	var reply Reply
	if !state.Idle() {
		reply = e.consumeSlot(ctx, sessionID, state, utterance)
	} else {
		reply = e.classify(ctx, sessionID, utterance)
	}

	if e.obs != nil {
		e.obs.RecordTurn(ctx, reply.Kind)
		e.obs.RecordTurnDuration(ctx, time.Since(start), reply.Kind)
	}
	return reply
}

func (e *Engine) consumeSlot(ctx context.Context, sessionID string, state dialog.State, utterance string) Reply {
	turn := e.machine.ConsumeSlot(state, utterance)
	e.persist(ctx, sessionID, turn.State)

	if turn.Kind == dialog.TurnFinalized {
		e.handoff(ctx, sessionID, turn.Transaction)
	}

	return Reply{
		Text: e.formatter.Format(respond.Outcome{Turn: &turn}),
		Kind: turnKindSlot,
	}
}

func (e *Engine) classify(ctx context.Context, sessionID, utterance string) Reply {
	classifyStart := time.Now()
	rec := e.classifier.Classify(utterance)
	metrics.ClassificationDuration.Observe(time.Since(classifyStart).Seconds())

	e.reportOutcome(sessionID, utterance, rec)

	turn, transactional := e.machine.Apply(rec)
	if !transactional {
		return Reply{
			Text:   e.formatter.Format(respond.Outcome{Recognized: &rec}),
			Intent: rec.Intent,
			Kind:   turnKindClassified,
		}
	}

	e.persist(ctx, sessionID, turn.State)
	if turn.Kind == dialog.TurnFinalized {
		e.handoff(ctx, sessionID, turn.Transaction)
	}

	return Reply{
		Text:   e.formatter.Format(respond.Outcome{Turn: &turn}),
		Intent: rec.Intent,
		Kind:   turnKindClassified,
	}
}

// Cancel clears the session unconditionally without finalizing anything.
func (e *Engine) Cancel(ctx context.Context, sessionID string) Reply {
	if err := e.store.Delete(ctx, sessionID); err != nil {
		e.logger.WithError(err).Warn("session clear failed", map[string]interface{}{
			"sessionId": sessionID,
		})
	}
	if e.obs != nil {
		e.obs.RecordTurn(ctx, turnKindCancelled)
	}
	return Reply{
		Text: e.formatter.Format(respond.Outcome{Cancelled: true}),
		Kind: turnKindCancelled,
	}
}

// Close waits for in-flight outcome reports to finish.
func (e *Engine) Close() {
	e.wg.Wait()
}

// persist writes the post-turn state, deleting the session entirely when it
// returned to idle so stores don't accumulate finished conversations.
func (e *Engine) persist(ctx context.Context, sessionID string, state dialog.State) {
	var err error
	if state.Idle() {
		err = e.store.Delete(ctx, sessionID)
	} else {
		err = e.store.Put(ctx, sessionID, state)
	}
	if err != nil {
		e.logger.WithError(err).Error("session persist failed", map[string]interface{}{
			"sessionId": sessionID,
		})
	}
}

func (e *Engine) handoff(ctx context.Context, sessionID string, tx *dialog.PendingTransaction) {
	if err := e.finalizer.Finalize(ctx, *tx); err != nil {
		e.logger.WithError(err).Error("transaction handoff failed", map[string]interface{}{
			"sessionId": sessionID,
		})
	}
}

// reportOutcome ships the classification result to the sink on a separate
// goroutine with its own deadline. Failures are counted and logged, never
// surfaced.
func (e *Engine) reportOutcome(sessionID, utterance string, rec classifier.RecognizedIntent) {
	event := outcome.Event{
		SessionID:      sessionID,
		Utterance:      utterance,
		Intent:         rec.Intent,
		Confidence:     rec.Confidence,
		MatchedPattern: rec.MatchedPattern,
		Timestamp:      time.Now().UTC(),
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := e.sink.Log(ctx, event); err != nil {
			metrics.OutcomeLogFailures.Inc()
			e.logger.WithError(err).Warn("outcome report failed", map[string]interface{}{
				"sessionId": sessionID,
			})
		}
	}()
}
