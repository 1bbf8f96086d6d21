package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/service"
)

// sessionCleanupInterval is how often expired sessions are pruned.
const sessionCleanupInterval = time.Hour

// SessionCleanupJob prunes expired sessions in the background.
type SessionCleanupJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionCleanupJob starts the periodic session cleanup.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	sessions := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	sessions.StartCleanup(ctx, sessionCleanupInterval)

	log.Info("Session cleanup started", "interval", sessionCleanupInterval)

	return &SessionCleanupJob{cancel: cancel}, nil
}
