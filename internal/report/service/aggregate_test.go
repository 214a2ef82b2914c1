package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	activityModel "github.com/planzo/planzo-api/internal/activity/model"
	reportModel "github.com/planzo/planzo-api/internal/report/model"
)

var stamp = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func rows() []reportModel.TaskRow {
	return []reportModel.TaskRow{
		{ID: "t1", Title: "Spec", AssigneeID: "u1", AssigneeName: "Ada", Status: "Completed"},
		{ID: "t2", Title: "Build", AssigneeID: "u2", AssigneeName: "Bob", Status: "Ongoing"},
		{ID: "t3", Title: "Test", AssigneeID: "u1", AssigneeName: "Ada", Status: "Assigned"},
		{ID: "t4", Title: "Ship", AssigneeID: "gone", Status: "Assigned"},
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		part, total int
		want        string
	}{
		{part: 0, total: 0, want: "0"},
		{part: 1, total: 4, want: "25.00"},
		{part: 1, total: 3, want: "33.33"},
		{part: 2, total: 3, want: "66.67"},
		{part: 3, total: 3, want: "100.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, percentage(tt.part, tt.total), "%d/%d", tt.part, tt.total)
	}
}

func TestBurnDown(t *testing.T) {
	bd := burnDown("p1", rows(), stamp)

	assert.Equal(t, "Burn Down Report", bd.Title)
	assert.Equal(t, 4, bd.TotalTasks)
	assert.Equal(t, 1, bd.CompletedTasks)
	assert.Equal(t, 1, bd.InProgressTasks)
	assert.Equal(t, 2, bd.TodoTasks)
	assert.Equal(t, "25.00", bd.CompletionPercentage)
	assert.Equal(t, stamp, bd.Timestamp)

	empty := burnDown("p1", nil, stamp)
	assert.Equal(t, 0, empty.TotalTasks)
	assert.Equal(t, "0", empty.CompletionPercentage)
}

func TestTaskProgress(t *testing.T) {
	tp := taskProgress("p1", rows(), stamp)

	require.Len(t, tp.Records, 4)
	assert.Equal(t, "Done", tp.Records[0].Status)
	assert.Equal(t, "In Progress", tp.Records[1].Status)
	assert.Equal(t, "To Do", tp.Records[2].Status)
	assert.Equal(t, "Unassigned", tp.Records[3].Assignee)
}

func TestTeamPerformance(t *testing.T) {
	tp := teamPerformance("p1", rows(), stamp)

	require.Len(t, tp.AssigneePerformance, 3)

	ada := tp.AssigneePerformance[0]
	assert.Equal(t, "Ada", ada.Name)
	assert.Equal(t, 2, ada.TotalTasks)
	assert.Equal(t, 1, ada.CompletedTasks)
	assert.Equal(t, 1, ada.TodoTasks)
	assert.Equal(t, "50.00", ada.CompletionPercentage)

	bob := tp.AssigneePerformance[1]
	assert.Equal(t, 1, bob.InProgressTasks)
	assert.Equal(t, "0.00", bob.CompletionPercentage)

	assert.Equal(t, "unassigned", tp.AssigneePerformance[2].AssigneeID)
	assert.Equal(t, "Unassigned", tp.AssigneePerformance[2].Name)
}

func TestTimeTracking(t *testing.T) {
	logs := []activityModel.LogView{
		{EntityID: "t1", UserName: "Ada", Action: activityModel.ActionCreated, CreatedAt: stamp, Details: json.RawMessage(`{"title":"Spec"}`)},
		{EntityID: "t1", UserName: "Ada", Action: activityModel.ActionAssigned, CreatedAt: stamp.Add(time.Minute)},
		{EntityID: "t1", UserName: "Bob", Action: activityModel.ActionCompleted, CreatedAt: stamp.Add(2 * time.Minute)},
		{EntityID: "deleted", Action: activityModel.ActionDeleted, CreatedAt: stamp.Add(3 * time.Minute)},
	}

	tt := timeTracking("p1", rows(), logs, stamp)

	require.Len(t, tt.Records, 3)
	assert.Equal(t, "Created", tt.Records[0].Action)
	assert.Equal(t, "Spec", tt.Records[0].TaskTitle)
	assert.JSONEq(t, `{"title":"Spec"}`, tt.Records[0].Details)
	assert.Equal(t, "Completed", tt.Records[1].Action)
	assert.Equal(t, "Unknown Task", tt.Records[2].TaskTitle)
	assert.Equal(t, "Unknown", tt.Records[2].User)
}
