// Package service provides business logic layer for task module.
package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/planzo/planzo-api/internal/access"
	activityModel "github.com/planzo/planzo-api/internal/activity/model"
	projectRepository "github.com/planzo/planzo-api/internal/project/repository"
	taskModel "github.com/planzo/planzo-api/internal/task/model"
	"github.com/planzo/planzo-api/internal/task/repository"
	teamRepository "github.com/planzo/planzo-api/internal/team/repository"
)

// ActivityRecorder appends entries to the activity log.
type ActivityRecorder interface {
	Record(ctx context.Context, entry activityModel.Entry)
}

// Service defines the interface for task business logic operations.
type Service interface {
	// Create creates a task in a project. The actor must be a project member.
	Create(
		ctx context.Context,
		actorID, projectID string,
		req *taskModel.CreateTaskRequest,
	) (*taskModel.TaskResponse, error)

	// List returns the project's tasks. Project members only.
	List(
		ctx context.Context,
		actorID, projectID string,
		filter taskModel.ListFilter,
	) ([]taskModel.TaskResponse, error)

	// Get returns one task of a project. Project members only.
	Get(ctx context.Context, actorID, projectID, taskID string) (*taskModel.TaskResponse, error)

	// Update changes task fields. Creator, assignee, Owner or Manager only.
	Update(
		ctx context.Context,
		actorID, projectID, taskID string,
		req *taskModel.UpdateTaskRequest,
	) (*taskModel.TaskResponse, error)

	// Delete removes a task. Owner or Manager only.
	Delete(ctx context.Context, actorID, projectID, taskID string) error

	// Move puts a task into another kanban column.
	Move(ctx context.Context, actorID, taskID, column string) (*taskModel.TaskResponse, error)

	// Board returns the project's tasks grouped by kanban column.
	Board(ctx context.Context, actorID, projectID string) (*taskModel.BoardResponse, error)

	// Calendar returns the project's tasks due within [from, to].
	Calendar(ctx context.Context, actorID, projectID string, from, to time.Time) ([]taskModel.TaskResponse, error)
}

type service struct {
	repo     repository.Repository
	projects projectRepository.Repository
	teams    teamRepository.Repository
	activity ActivityRecorder
	db       *gorm.DB
	logger   *zap.SugaredLogger
	now      func() time.Time
}

// New creates a new task service instance.
func New(
	repo repository.Repository,
	projects projectRepository.Repository,
	teams teamRepository.Repository,
	activity ActivityRecorder,
	db *gorm.DB,
	logger *zap.SugaredLogger,
) Service {
	return &service{
		repo:     repo,
		projects: projects,
		teams:    teams,
		activity: activity,
		db:       db,
		logger:   logger,
		now:      time.Now,
	}
}

// scope groups the repositories bound to one database handle.
type scope struct {
	tasks    repository.Repository
	projects projectRepository.Repository
	teams    teamRepository.Repository
}

func (s *service) txScope(tx *gorm.DB) scope {
	return scope{
		tasks:    repository.New(tx, s.logger),
		projects: projectRepository.New(tx, s.logger),
		teams:    teamRepository.New(tx, s.logger),
	}
}

func (s *service) rootScope() scope {
	return scope{tasks: s.repo, projects: s.projects, teams: s.teams}
}

// Create creates a task in a project.
func (s *service) Create(
	ctx context.Context,
	actorID, projectID string,
	req *taskModel.CreateTaskRequest,
) (*taskModel.TaskResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, taskModel.ErrTitleRequired
	}
	if req.DueDate == nil || req.DueDate.IsZero() {
		return nil, taskModel.ErrDueDateRequired
	}
	if req.StartDate != nil && req.StartDate.After(req.DueDate.Time) {
		return nil, taskModel.ErrInvalidDateRange
	}
	priority, err := taskModel.ParsePriority(req.Priority)
	if err != nil {
		return nil, err
	}
	status := taskModel.StatusAssigned
	if req.Status != "" {
		if status, err = taskModel.ParseStatus(req.Status); err != nil {
			return nil, err
		}
	}

	var task *taskModel.Task
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sc := s.txScope(tx)

		members, err := s.projectMembers(ctx, sc, projectID)
		if err != nil {
			return err
		}
		if err := access.RequireMember(members, actorID); err != nil {
			return err
		}
		if err := s.checkAssignee(ctx, sc, projectID, members, req.AssigneeID); err != nil {
			return err
		}

		task = &taskModel.Task{
			Title:       title,
			Description: strings.TrimSpace(req.Description),
			ProjectID:   projectID,
			AssigneeID:  req.AssigneeID,
			CreatorID:   actorID,
			DueDate:     req.DueDate.Time,
			StartDate:   req.StartDate.Ptr(),
			Priority:    priority,
		}
		task.Transition(status, s.now())

		return sc.tasks.Create(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, actorID, task, activityModel.ActionCreated, map[string]interface{}{
		"title":       task.Title,
		"assignee_id": task.AssigneeID,
	})

	resp := taskModel.NewTaskResponse(task)
	return &resp, nil
}

// List returns the project's tasks.
func (s *service) List(
	ctx context.Context,
	actorID, projectID string,
	filter taskModel.ListFilter,
) ([]taskModel.TaskResponse, error) {
	if err := s.requireMember(ctx, actorID, projectID); err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListByProject(ctx, projectID, filter)
	if err != nil {
		return nil, err
	}

	return toResponses(tasks), nil
}

// Get returns one task of a project.
func (s *service) Get(ctx context.Context, actorID, projectID, taskID string) (*taskModel.TaskResponse, error) {
	if err := s.requireMember(ctx, actorID, projectID); err != nil {
		return nil, err
	}

	task, err := s.taskInProject(ctx, s.repo, projectID, taskID)
	if err != nil {
		return nil, err
	}

	resp := taskModel.NewTaskResponse(task)
	return &resp, nil
}

// Update changes task fields.
func (s *service) Update(
	ctx context.Context,
	actorID, projectID, taskID string,
	req *taskModel.UpdateTaskRequest,
) (*taskModel.TaskResponse, error) {
	var (
		task    *taskModel.Task
		action  = activityModel.ActionUpdated
		details = map[string]interface{}{}
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sc := s.txScope(tx)

		members, err := s.projectMembers(ctx, sc, projectID)
		if err != nil {
			return err
		}
		if err := access.RequireMember(members, actorID); err != nil {
			return err
		}
		task, err = s.taskInProject(ctx, sc.tasks, projectID, taskID)
		if err != nil {
			return err
		}
		if !access.CanUpdateTask(members, task.CreatorID, task.AssigneeID, actorID) {
			return access.ErrForbidden
		}

		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if title == "" {
				return taskModel.ErrTitleRequired
			}
			task.Title = title
			details["title"] = title
		}
		if req.Description != nil {
			task.Description = strings.TrimSpace(*req.Description)
		}
		if req.DueDate != nil {
			task.DueDate = req.DueDate.Time
			details["due_date"] = task.DueDate
		}
		if req.StartDate != nil {
			task.StartDate = req.StartDate.Ptr()
		}
		if task.StartDate != nil && task.StartDate.After(task.DueDate) {
			return taskModel.ErrInvalidDateRange
		}
		if req.Priority != nil {
			priority, err := taskModel.ParsePriority(*req.Priority)
			if err != nil {
				return err
			}
			task.Priority = priority
		}
		if req.AssigneeID != nil && *req.AssigneeID != task.AssigneeID {
			if err := s.checkAssignee(ctx, sc, projectID, members, *req.AssigneeID); err != nil {
				return err
			}
			task.AssigneeID = *req.AssigneeID
			details["assignee_id"] = task.AssigneeID
			action = activityModel.ActionAssigned
		}
		if req.Status != nil {
			status, err := taskModel.ParseStatus(*req.Status)
			if err != nil {
				return err
			}
			if status != task.Status {
				details["from"] = string(task.Status)
				details["to"] = string(status)
			}
			task.Transition(status, s.now())
			if status == taskModel.StatusCompleted {
				action = activityModel.ActionCompleted
			}
		}

		return sc.tasks.Save(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, actorID, task, action, details)

	resp := taskModel.NewTaskResponse(task)
	return &resp, nil
}

// Delete removes a task.
func (s *service) Delete(ctx context.Context, actorID, projectID, taskID string) error {
	var task *taskModel.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sc := s.txScope(tx)

		members, err := s.projectMembers(ctx, sc, projectID)
		if err != nil {
			return err
		}
		if err := access.RequireOwnerOrManager(members, actorID); err != nil {
			return err
		}
		task, err = s.taskInProject(ctx, sc.tasks, projectID, taskID)
		if err != nil {
			return err
		}

		return sc.tasks.Delete(ctx, taskID)
	})
	if err != nil {
		return err
	}

	s.record(ctx, actorID, task, activityModel.ActionDeleted, map[string]interface{}{"title": task.Title})
	return nil
}

// Move puts a task into another kanban column.
func (s *service) Move(ctx context.Context, actorID, taskID, column string) (*taskModel.TaskResponse, error) {
	to, err := taskModel.ParseStatus(column)
	if err != nil {
		return nil, err
	}

	var (
		task *taskModel.Task
		from taskModel.Status
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sc := s.txScope(tx)

		task, err = sc.tasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		members, err := sc.projects.GetMembers(ctx, task.ProjectID)
		if err != nil {
			return err
		}
		if err := access.RequireMember(members, actorID); err != nil {
			return err
		}
		if !access.CanUpdateTask(members, task.CreatorID, task.AssigneeID, actorID) {
			return access.ErrForbidden
		}

		from = task.Status
		task.Transition(to, s.now())
		return sc.tasks.Save(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	action := activityModel.ActionUpdated
	if to == taskModel.StatusCompleted {
		action = activityModel.ActionCompleted
	}
	s.record(ctx, actorID, task, action, map[string]interface{}{"from": string(from), "to": string(to)})

	resp := taskModel.NewTaskResponse(task)
	return &resp, nil
}

// Board returns the project's tasks grouped by kanban column.
func (s *service) Board(ctx context.Context, actorID, projectID string) (*taskModel.BoardResponse, error) {
	if err := s.requireMember(ctx, actorID, projectID); err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListByProject(ctx, projectID, taskModel.ListFilter{})
	if err != nil {
		return nil, err
	}

	board := &taskModel.BoardResponse{ProjectID: projectID}
	index := make(map[taskModel.Status]int, len(taskModel.Columns))
	for i, col := range taskModel.Columns {
		index[col] = i
		board.Columns = append(board.Columns, taskModel.BoardColumn{
			Column: col,
			Label:  col.Label(),
			Tasks:  []taskModel.TaskResponse{},
		})
	}
	for i := range tasks {
		if col, ok := index[tasks[i].Status]; ok {
			board.Columns[col].Tasks = append(board.Columns[col].Tasks, taskModel.NewTaskResponse(&tasks[i]))
		}
	}

	return board, nil
}

// Calendar returns the project's tasks due within [from, to], earliest first.
func (s *service) Calendar(
	ctx context.Context,
	actorID, projectID string,
	from, to time.Time,
) ([]taskModel.TaskResponse, error) {
	if to.Before(from) {
		return nil, taskModel.ErrInvalidDateRange
	}
	if err := s.requireMember(ctx, actorID, projectID); err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListByProject(ctx, projectID, taskModel.ListFilter{DueFrom: &from, DueTo: &to})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].DueDate.Before(tasks[j].DueDate)
	})

	return toResponses(tasks), nil
}

func (s *service) requireMember(ctx context.Context, actorID, projectID string) error {
	members, err := s.projectMembers(ctx, s.rootScope(), projectID)
	if err != nil {
		return err
	}
	return access.RequireMember(members, actorID)
}

// projectMembers checks the project exists and returns its membership list.
func (s *service) projectMembers(ctx context.Context, sc scope, projectID string) ([]access.Member, error) {
	if _, err := sc.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return sc.projects.GetMembers(ctx, projectID)
}

func (s *service) taskInProject(
	ctx context.Context,
	repo repository.Repository,
	projectID, taskID string,
) (*taskModel.Task, error) {
	task, err := repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.ProjectID != projectID {
		return nil, taskModel.ErrTaskNotFound
	}
	return task, nil
}

// checkAssignee accepts project members and members of any attached team.
func (s *service) checkAssignee(
	ctx context.Context,
	sc scope,
	projectID string,
	members []access.Member,
	assigneeID string,
) error {
	if assigneeID == "" {
		return taskModel.ErrInvalidAssignee
	}
	if access.IsMember(members, assigneeID) {
		return nil
	}

	teamIDs, err := sc.projects.ListTeamIDs(ctx, projectID)
	if err != nil {
		return err
	}
	teamMembers := make([][]access.Member, 0, len(teamIDs))
	for _, id := range teamIDs {
		tm, err := sc.teams.GetMembers(ctx, id)
		if err != nil {
			return err
		}
		teamMembers = append(teamMembers, tm)
	}

	if !access.IsValidAssignee(members, teamMembers, assigneeID) {
		return taskModel.ErrInvalidAssignee
	}
	return nil
}

func (s *service) record(
	ctx context.Context,
	actorID string,
	task *taskModel.Task,
	action activityModel.Action,
	details map[string]interface{},
) {
	s.activity.Record(ctx, activityModel.Entry{
		UserID:     actorID,
		EntityType: activityModel.EntityTask,
		EntityID:   task.ID,
		Action:     action,
		ProjectID:  task.ProjectID,
		Details:    details,
	})
}

func toResponses(tasks []taskModel.Task) []taskModel.TaskResponse {
	out := make([]taskModel.TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, taskModel.NewTaskResponse(&tasks[i]))
	}
	return out
}
