package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"pennyverse/internal/domain/subscription"
	"pennyverse/internal/shared/logger"
)

type RenewalChecker interface {
	CheckRenewals(ctx context.Context, userID uuid.UUID, reminderDays int) (*subscription.RenewalResult, error)
	UsersWithSubscriptions(ctx context.Context) ([]uuid.UUID, error)
}

// RenewalJob rolls lapsed renewal dates forward for one user and sends
// reminders for renewals inside the reminder window.
type RenewalJob struct {
	userID       uuid.UUID
	checker      RenewalChecker
	reminderDays int
}

func NewRenewalJob(userID uuid.UUID, checker RenewalChecker, reminderDays int) *RenewalJob {
	return &RenewalJob{userID: userID, checker: checker, reminderDays: reminderDays}
}

func (j *RenewalJob) Execute(ctx context.Context) error {
	res, err := j.checker.CheckRenewals(ctx, j.userID, j.reminderDays)
	if err != nil {
		return fmt.Errorf("renewal check failed: %w", err)
	}
	if res.Advanced > 0 || res.Reminded > 0 {
		logger.WithField("user_id", j.userID).Infof("Renewals: %d advanced, %d reminded", res.Advanced, res.Reminded)
	}
	return nil
}

func (j *RenewalJob) UserID() string {
	return j.userID.String()
}

func (j *RenewalJob) Description() string {
	return "subscription renewal check"
}

// RenewalJobs returns a provider yielding one RenewalJob per user with
// subscriptions.
func RenewalJobs(checker RenewalChecker, reminderDays int) JobProvider {
	return func(ctx context.Context) ([]Job, error) {
		users, err := checker.UsersWithSubscriptions(ctx)
		if err != nil {
			return nil, err
		}

		jobs := make([]Job, 0, len(users))
		for _, id := range users {
			jobs = append(jobs, NewRenewalJob(id, checker, reminderDays))
		}
		return jobs, nil
	}
}
