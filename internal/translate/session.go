package translate

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session serializes translation state for one user. The user may fire a new
// query while a previous one is in flight; only the most recent response may
// be applied, so each request is stamped with a token and responses whose
// token is no longer the latest are discarded. There is no cancellation
// beyond this discard discipline.
type Session struct {
	svc Service

	mu     sync.Mutex
	latest string
}

// NewSession wraps a translation service with stale-response discard.
func NewSession(svc Service) *Session {
	return &Session{svc: svc}
}

// Translate runs a query, returning stale=true (and no result or error) if a
// newer query was issued while this one was in flight.
func (s *Session) Translate(ctx context.Context, query string, tc Context) (result *Result, stale bool, err error) {
	token := uuid.NewString()
	s.mu.Lock()
	s.latest = token
	s.mu.Unlock()

	result, err = s.svc.Translate(ctx, query, tc)

	s.mu.Lock()
	superseded := s.latest != token
	s.mu.Unlock()

	if superseded {
		zap.L().Debug("translate: discarding superseded response",
			zap.String("query", query),
		)
		return nil, true, nil
	}
	return result, false, err
}
