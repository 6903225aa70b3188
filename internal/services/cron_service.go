package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/rentgrid/car-rental-backend/internal/database"
)

// revokedTokenRetention is how long revoked refresh tokens are kept before
// the cleanup job removes them.
const revokedTokenRetention = 30 * 24 * time.Hour

// CronService manages scheduled background jobs
type CronService struct {
	cron          *cron.Cron
	refreshTokens *database.RefreshTokenRepository
	logger        *logrus.Logger
}

// NewCronService creates a new CronService
func NewCronService(refreshTokens *database.RefreshTokenRepository, logger *logrus.Logger) *CronService {
	return &CronService{
		cron:          cron.New(),
		refreshTokens: refreshTokens,
		logger:        logger,
	}
}

// Start schedules all background jobs
func (s *CronService) Start() error {
	// Purge expired and stale revoked refresh tokens daily at 3 AM
	_, err := s.cron.AddFunc("0 3 * * *", s.cleanupRefreshTokensJob)
	if err != nil {
		return fmt.Errorf("failed to schedule refresh token cleanup job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Cron service started - refresh token cleanup scheduled daily at 3:00 AM")
	return nil
}

// Stop stops all cron jobs, waiting for running jobs to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

func (s *CronService) cleanupRefreshTokensJob() {
	deleted, err := s.refreshTokens.DeleteExpired(revokedTokenRetention)
	if err != nil {
		s.logger.WithError(err).Error("Refresh token cleanup failed")
		return
	}
	s.logger.WithField("deleted", deleted).Info("Refresh token cleanup completed")
}
