package generator

import (
	"context"
	"time"
)

// slot holds the admission primitives for one model.
type slot struct {
	modelID  string
	genCh    chan struct{} // size 1: single in-flight generation
	queueCh  chan struct{} // buffered: queue slots
	lastUsed time.Time
}

func (s *Service) slotFor(modelID string) *slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl := s.slots[modelID]
	if sl == nil {
		sl = &slot{
			modelID: modelID,
			genCh:   make(chan struct{}, 1),
			queueCh: make(chan struct{}, s.maxQueueDepth),
		}
		s.slots[modelID] = sl
	}
	return sl
}

// beginGeneration reserves a queue slot and then the single in-flight slot.
// Returns a release func to be deferred.
func (s *Service) beginGeneration(ctx context.Context, modelID string) (func(), error) {
	sl := s.slotFor(modelID)

	if err := ctx.Err(); err != nil {
		return func() {}, err
	}

	timer := time.NewTimer(s.maxWait)
	defer timer.Stop()
	select {
	case sl.queueCh <- struct{}{}:
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, tooBusyError{modelID: modelID}
	}

	acquired := false
	defer func() {
		if !acquired {
			<-sl.queueCh
		}
	}()
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}
	timer2 := time.NewTimer(s.maxWait)
	defer timer2.Stop()
	select {
	case sl.genCh <- struct{}{}:
		acquired = true
		s.mu.Lock()
		sl.lastUsed = time.Now()
		s.mu.Unlock()
		return func() { <-sl.genCh; <-sl.queueCh }, nil
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer2.C:
		return func() {}, tooBusyError{modelID: modelID}
	}
}
