// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/planzo/planzo-api/internal/config"
	"github.com/planzo/planzo-api/internal/mail"
	taskModel "github.com/planzo/planzo-api/internal/task/model"
)

// ReminderWindow is how far ahead due reminders look.
const ReminderWindow = 24 * time.Hour

const jobTimeout = 2 * time.Minute

// DueTaskLister finds open tasks due in a time range.
type DueTaskLister interface {
	ListDueBetween(ctx context.Context, from, to time.Time) ([]taskModel.DueTask, error)
}

// Scheduler runs the due date reminder job on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	tasks  DueTaskLister
	mailer mail.Sender
	logger *zap.SugaredLogger
	now    func() time.Time
}

// New creates a scheduler. Call Start to begin running jobs.
func New(cfg config.SchedulerConfig, tasks DueTaskLister, mailer mail.Sender, logger *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		spec:   cfg.DueReminderSpec,
		tasks:  tasks,
		mailer: mailer,
		logger: logger,
		now:    time.Now,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		s.logger.Info("Running due date reminder check")
		sent, err := s.SendDueReminders(ctx)
		if err != nil {
			s.logger.Errorw("Due date reminder check failed", "error", err)
			return
		}
		s.logger.Infow("Due date reminder check finished", "reminders_sent", sent)
	})
	if err != nil {
		return fmt.Errorf("schedule due reminders %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Infow("Scheduler started", "due_reminder_cron", s.spec)
	return nil
}

// Stop stops the cron loop and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out, a job is still running")
	}
}

// SendDueReminders mails every assignee one message listing their open tasks
// due within ReminderWindow. It returns how many messages were sent.
// Delivery failures for one assignee do not stop the others.
func (s *Scheduler) SendDueReminders(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.tasks.ListDueBetween(ctx, now, now.Add(ReminderWindow))
	if err != nil {
		return 0, fmt.Errorf("list due tasks: %w", err)
	}

	order := []string{}
	byAssignee := map[string]*mail.ReminderData{}
	emails := map[string]string{}

	for _, task := range due {
		if task.AssigneeEmail == "" {
			continue
		}
		data, ok := byAssignee[task.AssigneeID]
		if !ok {
			data = &mail.ReminderData{UserName: task.AssigneeName}
			byAssignee[task.AssigneeID] = data
			emails[task.AssigneeID] = task.AssigneeEmail
			order = append(order, task.AssigneeID)
		}
		data.Tasks = append(data.Tasks, mail.ReminderTask{
			Title:       task.Title,
			ProjectName: task.ProjectName,
			DueDate:     task.DueDate,
		})
	}

	sent := 0
	for _, assigneeID := range order {
		data := byAssignee[assigneeID]
		err := s.mailer.Send(ctx, mail.Message{
			To:       []string{emails[assigneeID]},
			Subject:  fmt.Sprintf("%d task(s) due within 24 hours", len(data.Tasks)),
			Template: mail.TemplateDueReminder,
			Data:     *data,
		})
		if err != nil {
			s.logger.Errorw("Failed to send due reminder", "assignee_id", assigneeID, "error", err)
			continue
		}
		sent++
	}

	return sent, nil
}
