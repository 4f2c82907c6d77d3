// Package maintenance runs the periodic cleanup jobs the token and audit
// stores need to stay bounded.
package maintenance

import (
	"context"
	"fmt"
	"log"
	"time"
	"authguard/internal/repository"

	"github.com/robfig/cron/v3"
)

// Job is a unit of scheduled housekeeping work.
type Job interface {
	// Name returns the unique name of the job
	Name() string
	// Schedule returns the job's cron expression
	Schedule() string
	// Run executes the job once
	Run(ctx context.Context) error
}

// Manager handles the scheduling and execution of maintenance jobs
type Manager struct {
	jobs []Job
	cron *cron.Cron
}

// NewManager creates a new maintenance manager
func NewManager() *Manager {
	c := cron.New(cron.WithParser(cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
	)))

	return &Manager{
		jobs: make([]Job, 0),
		cron: c,
	}
}

// RegisterJob adds a job to the manager
func (m *Manager) RegisterJob(j Job) {
	m.jobs = append(m.jobs, j)
}

// StartScheduler starts all registered jobs on their schedules and blocks
// until the context is cancelled.
func (m *Manager) StartScheduler(ctx context.Context) error {
	for _, j := range m.jobs {
		if j.Schedule() == "" {
			return fmt.Errorf("job %s has no schedule configured", j.Name())
		}

		job := j
		_, err := m.cron.AddFunc(job.Schedule(), func() {
			log.Printf("Running scheduled execution of job %s", job.Name())
			if err := job.Run(ctx); err != nil {
				log.Printf("Error running job %s: %v", job.Name(), err)
			}
		})
		if err != nil {
			return fmt.Errorf("failed to schedule job %s: %w", j.Name(), err)
		}

		log.Printf("Scheduled job %s with schedule %s", j.Name(), j.Schedule())
	}

	m.cron.Start()
	log.Println("Maintenance scheduler started")

	<-ctx.Done()
	log.Println("Stopping maintenance scheduler...")
	m.cron.Stop()

	return nil
}

// ExpiredTokenJob purges refresh token rows whose expiry has passed.
// Revocation state for live tokens is never touched.
type ExpiredTokenJob struct {
	tokens repository.RefreshTokenRepository
}

// NewExpiredTokenJob creates the expired token purge job
func NewExpiredTokenJob(tokens repository.RefreshTokenRepository) *ExpiredTokenJob {
	return &ExpiredTokenJob{tokens: tokens}
}

func (j *ExpiredTokenJob) Name() string     { return "expired-token-purge" }
func (j *ExpiredTokenJob) Schedule() string { return "17 * * * *" }

func (j *ExpiredTokenJob) Run(ctx context.Context) error {
	return j.tokens.DeleteExpired(ctx, time.Now())
}

// AuditRetentionJob trims audit log rows past the retention horizon.
type AuditRetentionJob struct {
	audits    repository.AuditLogRepository
	retention time.Duration
}

// NewAuditRetentionJob creates the audit log retention job
func NewAuditRetentionJob(audits repository.AuditLogRepository, retention time.Duration) *AuditRetentionJob {
	return &AuditRetentionJob{audits: audits, retention: retention}
}

func (j *AuditRetentionJob) Name() string     { return "audit-retention" }
func (j *AuditRetentionJob) Schedule() string { return "43 2 * * *" }

func (j *AuditRetentionJob) Run(ctx context.Context) error {
	return j.audits.CleanupOld(ctx, j.retention)
}
