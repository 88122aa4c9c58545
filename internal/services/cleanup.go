package services

import (
	"log/slog"
	"sync"
	"time"
)

// Compactor reclaims space in a message archive
type Compactor interface {
	Compact() error
}

// CleanupService periodically compacts the message archive.
// It runs as a background goroutine until Stop is called.
type CleanupService struct {
	compactor Compactor
	interval  time.Duration
	log       *slog.Logger
	stopChan  chan struct{}
	stopOnce  sync.Once
}

// NewCleanupService creates a new cleanup service.
// - interval: how often to compact (e.g., 10 minutes)
func NewCleanupService(compactor Compactor, interval time.Duration, log *slog.Logger) *CleanupService {
	return &CleanupService{
		compactor: compactor,
		interval:  interval,
		log:       log,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the background cleanup worker.
// This method blocks and should be called with 'go'.
func (s *CleanupService) Start() {
	s.log.Info("Cleanup service started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopChan:
			s.log.Info("Cleanup service stopped")
			return
		}
	}
}

// Stop shuts down the cleanup service. It is safe to call more than once.
func (s *CleanupService) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

func (s *CleanupService) cleanup() {
	start := time.Now()
	if err := s.compactor.Compact(); err != nil {
		s.log.Warn("Archive compaction failed", "error", err)
		return
	}
	s.log.Debug("Archive compacted", "took", time.Since(start))
}
