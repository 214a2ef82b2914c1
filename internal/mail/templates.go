package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// Template names.
const (
	TemplateSummary     = "summary"
	TemplateDueReminder = "due_reminder"
)

// SummaryData feeds the project summary template.
type SummaryData struct {
	ProjectName          string
	TotalTasks           int
	CompletedTasks       int
	InProgressTasks      int
	TodoTasks            int
	CompletionPercentage string
	GeneratedAt          time.Time
}

// ReminderTask is one line of a due date reminder.
type ReminderTask struct {
	Title       string
	ProjectName string
	DueDate     time.Time
}

// ReminderData feeds the due date reminder template.
type ReminderData struct {
	UserName string
	Tasks    []ReminderTask
}

const layout = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        table { border-collapse: collapse; width: 100%; }
        td, th { border-bottom: 1px solid #eee; padding: 6px; text-align: left; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
{{template "content" .}}
    <div class="footer">
        <p>Sent by Planzo.</p>
    </div>
</body>
</html>`

var templateBodies = map[string]string{
	TemplateSummary: `{{define "content"}}
    <div class="header">
        <h2>{{.ProjectName}}: progress summary</h2>
    </div>
    <table>
        <tr><th>Total tasks</th><td>{{.TotalTasks}}</td></tr>
        <tr><th>To Do</th><td>{{.TodoTasks}}</td></tr>
        <tr><th>In Progress</th><td>{{.InProgressTasks}}</td></tr>
        <tr><th>Done</th><td>{{.CompletedTasks}}</td></tr>
        <tr><th>Completion</th><td>{{.CompletionPercentage}}%</td></tr>
    </table>
    <p>Generated at {{.GeneratedAt.Format "2006-01-02 15:04 MST"}}.</p>
{{end}}`,

	TemplateDueReminder: `{{define "content"}}
    <div class="header">
        <h2>Tasks due soon</h2>
    </div>
    <p>Hello {{.UserName}},</p>
    <p>The following tasks assigned to you are due within the next 24 hours:</p>
    <table>
        <tr><th>Task</th><th>Project</th><th>Due</th></tr>
        {{range .Tasks}}<tr><td>{{.Title}}</td><td>{{.ProjectName}}</td><td>{{.DueDate.Format "2006-01-02 15:04"}}</td></tr>
        {{end}}
    </table>
{{end}}`,
}

var templates = parseTemplates()

func parseTemplates() map[string]*template.Template {
	parsed := make(map[string]*template.Template, len(templateBodies))
	for name, body := range templateBodies {
		parsed[name] = template.Must(template.Must(template.New(name).Parse(layout)).Parse(body))
	}
	return parsed
}

// Render executes the named template with data.
func Render(name string, data interface{}) (string, error) {
	tmpl, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return body.String(), nil
}
