package service

import (
	"time"

	"github.com/shopspring/decimal"

	activityModel "github.com/planzo/planzo-api/internal/activity/model"
	reportModel "github.com/planzo/planzo-api/internal/report/model"
	taskModel "github.com/planzo/planzo-api/internal/task/model"
)

// percentage returns part/total*100 with two decimals, or "0" for an empty total.
func percentage(part, total int) string {
	if total == 0 {
		return "0"
	}
	return decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		StringFixed(2)
}

type tally struct {
	total, completed, inProgress, todo int
}

func (t *tally) add(status string) {
	t.total++
	switch taskModel.Status(status) {
	case taskModel.StatusCompleted:
		t.completed++
	case taskModel.StatusOngoing:
		t.inProgress++
	default:
		t.todo++
	}
}

func burnDown(projectID string, tasks []reportModel.TaskRow, now time.Time) reportModel.BurnDown {
	var t tally
	for _, task := range tasks {
		t.add(task.Status)
	}

	return reportModel.BurnDown{
		Title:                "Burn Down Report",
		ProjectID:            projectID,
		TotalTasks:           t.total,
		CompletedTasks:       t.completed,
		InProgressTasks:      t.inProgress,
		TodoTasks:            t.todo,
		CompletionPercentage: percentage(t.completed, t.total),
		Timestamp:            now,
	}
}

func taskProgress(projectID string, tasks []reportModel.TaskRow, now time.Time) reportModel.TaskProgress {
	records := make([]reportModel.TaskProgressRow, 0, len(tasks))
	for _, task := range tasks {
		records = append(records, reportModel.TaskProgressRow{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			Assignee:    nameOr(task.AssigneeName, "Unassigned"),
			Status:      taskModel.Status(task.Status).Label(),
			Priority:    task.Priority,
			DueDate:     task.DueDate,
			CompletedAt: task.CompletedAt,
		})
	}

	return reportModel.TaskProgress{
		Title:     "Task Progress Report",
		ProjectID: projectID,
		Records:   records,
		Timestamp: now,
	}
}

// teamPerformance groups tasks by assignee in order of first appearance.
func teamPerformance(projectID string, tasks []reportModel.TaskRow, now time.Time) reportModel.TeamPerformance {
	order := []string{}
	names := map[string]string{}
	tallies := map[string]*tally{}

	for _, task := range tasks {
		id := task.AssigneeID
		if task.AssigneeName == "" {
			id = "unassigned"
		}
		if _, ok := tallies[id]; !ok {
			order = append(order, id)
			names[id] = nameOr(task.AssigneeName, "Unassigned")
			tallies[id] = &tally{}
		}
		tallies[id].add(task.Status)
	}

	perf := make([]reportModel.AssigneePerformance, 0, len(order))
	for _, id := range order {
		t := tallies[id]
		perf = append(perf, reportModel.AssigneePerformance{
			AssigneeID:           id,
			Name:                 names[id],
			TotalTasks:           t.total,
			CompletedTasks:       t.completed,
			InProgressTasks:      t.inProgress,
			TodoTasks:            t.todo,
			CompletionPercentage: percentage(t.completed, t.total),
		})
	}

	return reportModel.TeamPerformance{
		Title:               "Team Performance Report",
		ProjectID:           projectID,
		AssigneePerformance: perf,
		Timestamp:           now,
	}
}

var trackedActions = map[activityModel.Action]bool{
	activityModel.ActionCreated:   true,
	activityModel.ActionUpdated:   true,
	activityModel.ActionCompleted: true,
	activityModel.ActionDeleted:   true,
}

func timeTracking(
	projectID string,
	tasks []reportModel.TaskRow,
	logs []activityModel.LogView,
	now time.Time,
) reportModel.TimeTracking {
	titles := make(map[string]string, len(tasks))
	for _, task := range tasks {
		titles[task.ID] = task.Title
	}

	records := make([]reportModel.TimeTrackingRow, 0, len(logs))
	for _, log := range logs {
		if !trackedActions[log.Action] {
			continue
		}
		row := reportModel.TimeTrackingRow{
			At:        log.CreatedAt,
			User:      nameOr(log.UserName, "Unknown"),
			Action:    string(log.Action),
			TaskID:    log.EntityID,
			TaskTitle: nameOr(titles[log.EntityID], "Unknown Task"),
		}
		if len(log.Details) > 0 {
			row.Details = string(log.Details)
		}
		records = append(records, row)
	}

	return reportModel.TimeTracking{
		Title:     "Time Tracking Report",
		ProjectID: projectID,
		Records:   records,
		Timestamp: now,
	}
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
