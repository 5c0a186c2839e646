// Package scheduler runs the digest pipeline on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ozcano/wordpost/internal/config"
	"github.com/ozcano/wordpost/internal/digest"
)

// DigestScheduler manages the two periodic digest jobs: daily word-set
// generation and email-queue dispatch.
type DigestScheduler struct {
	selector   *digest.Selector
	dispatcher *digest.Dispatcher
	cfg        config.Digest

	cron          *cron.Cron
	generateID    cron.EntryID
	dispatchID    cron.EntryID
	mu            sync.RWMutex
	isRunning     bool
	isGenerating  bool
	isDispatching bool
	cancelFunc    context.CancelFunc
}

func NewDigestScheduler(selector *digest.Selector, dispatcher *digest.Dispatcher, cfg config.Digest) *DigestScheduler {
	return &DigestScheduler{
		selector:   selector,
		dispatcher: dispatcher,
		cfg:        cfg,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start schedules both jobs if the digest pipeline is enabled.
func (s *DigestScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		log.Printf("Digest scheduler: disabled")
		return nil
	}

	generateID, err := s.cron.AddFunc(s.cfg.GenerationSchedule, func() {
		s.runGeneration()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule generation job '%s': %w", s.cfg.GenerationSchedule, err)
	}
	s.generateID = generateID

	dispatchID, err := s.cron.AddFunc(s.cfg.DispatchSchedule, func() {
		s.runDispatch()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule dispatch job '%s': %w", s.cfg.DispatchSchedule, err)
	}
	s.dispatchID = dispatchID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Digest scheduler: started (generation '%s', dispatch '%s')",
		s.cfg.GenerationSchedule, s.cfg.DispatchSchedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for in-flight jobs.
func (s *DigestScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Digest scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *DigestScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// RunGenerationNow triggers an immediate generation sweep.
func (s *DigestScheduler) RunGenerationNow() {
	go s.runGeneration()
}

// RunDispatchNow triggers an immediate dispatch cycle.
func (s *DigestScheduler) RunDispatchNow() {
	go s.runDispatch()
}

// NextGenerationTime returns when the next generation sweep will occur.
func (s *DigestScheduler) NextGenerationTime() *time.Time {
	return s.nextRun(s.generateID)
}

// NextDispatchTime returns when the next dispatch cycle will occur.
func (s *DigestScheduler) NextDispatchTime() *time.Time {
	return s.nextRun(s.dispatchID)
}

func (s *DigestScheduler) nextRun(id cron.EntryID) *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == id {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *DigestScheduler) runGeneration() {
	s.mu.Lock()
	if s.isGenerating {
		s.mu.Unlock()
		log.Printf("Daily generation: skipped (already running)")
		return
	}
	s.isGenerating = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isGenerating = false
		s.mu.Unlock()
	}()

	s.selector.RunDailyGeneration(time.Now())
}

func (s *DigestScheduler) runDispatch() {
	s.mu.Lock()
	if s.isDispatching {
		s.mu.Unlock()
		log.Printf("Queue dispatch: skipped (already running)")
		return
	}
	s.isDispatching = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isDispatching = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if _, err := s.dispatcher.RunDispatchCycle(ctx); err != nil {
		log.Printf("Queue dispatch failed: %v", err)
	}
}
