package tools

import (
	"fmt"
	"strings"

	"taskManager/internal/models/task"
)

var statusEmoji = map[task.Status]string{
	task.StatusTodo:       "📝",
	task.StatusInProgress: "🔄",
	task.StatusCompleted:  "✅",
}

var priorityEmoji = map[task.Priority]string{
	task.PriorityHigh:   "🔴",
	task.PriorityMedium: "🟡",
	task.PriorityLow:    "🟢",
}

var statusLabel = map[task.Status]string{
	task.StatusTodo:       "todo",
	task.StatusInProgress: "in progress",
	task.StatusCompleted:  "completed",
}

// формат даты как у toLocaleDateString в en-US
const displayDateLayout = "1/2/2006"

type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result - ответ инструмента: текст для человека и данные для машины
type Result struct {
	Content []Content `json:"content"`
	Data    any       `json:"data,omitempty"`
	IsError bool      `json:"isError,omitempty"`
}

// Text склеивает все текстовые блоки результата
func (r Result) Text() string {
	parts := make([]string, 0, len(r.Content))
	for _, c := range r.Content {
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, "\n")
}

func textResult(text string, data any) Result {
	return Result{
		Content: []Content{{Type: "text", Text: text}},
		Data:    data,
	}
}

func errorResult(action string, err error) Result {
	return Result{
		Content: []Content{{Type: "text", Text: fmt.Sprintf("❌ Error %s: %s", action, errorMessage(err))}},
		IsError: true,
	}
}

func notFoundResult(taskID string) Result {
	return Result{
		Content: []Content{{Type: "text", Text: fmt.Sprintf("❌ Task \"%s\" not found.", taskID)}},
		IsError: true,
	}
}

func dueText(t task.Task) string {
	if t.DueDate == nil {
		return "No due date"
	}
	return t.DueDate.UTC().Format(displayDateLayout)
}

func presentCreated(t task.Task) Result {
	tags := strings.Join(t.Tags, ", ")
	if tags == "" {
		tags = "None"
	}
	text := fmt.Sprintf("✅ Created task \"%s\" (ID: %s)\n", t.Title, t.ID) +
		fmt.Sprintf("Priority: %s\n", t.Priority) +
		fmt.Sprintf("Due: %s\n", dueText(t)) +
		fmt.Sprintf("Tags: %s", tags)
	return textResult(text, map[string]any{"task": t})
}

func presentList(tasks []task.Task) Result {
	if len(tasks) == 0 {
		return textResult("📋 No tasks found matching your criteria.", map[string]any{"tasks": tasks})
	}

	items := make([]string, 0, len(tasks))
	for _, t := range tasks {
		due := "No due date"
		if t.DueDate != nil {
			due = "Due: " + dueText(t)
		}
		tags := ""
		if len(t.Tags) > 0 {
			tags = "[" + strings.Join(t.Tags, ", ") + "]"
		}
		items = append(items,
			fmt.Sprintf("%s %s %s (%s)\n", statusEmoji[t.Status], priorityEmoji[t.Priority], t.Title, t.ID)+
				fmt.Sprintf("   %s\n", t.Description)+
				fmt.Sprintf("   %s %s", due, tags))
	}

	text := fmt.Sprintf("📋 Found %d task(s):\n\n%s", len(tasks), strings.Join(items, "\n\n"))
	return textResult(text, map[string]any{"tasks": tasks})
}

func presentStatusUpdated(t task.Task) Result {
	text := fmt.Sprintf("%s Updated \"%s\" to %s", statusEmoji[t.Status], t.Title, statusLabel[t.Status])
	return textResult(text, map[string]any{"task": t})
}

func presentDeleted(taskID string) Result {
	text := fmt.Sprintf("🗑️ Deleted task %s", taskID)
	return textResult(text, map[string]any{"deleted": true, "taskId": taskID})
}

func presentStats(s task.Stats) Result {
	text := "📊 Task Statistics:\n\n" +
		fmt.Sprintf("📋 Total Tasks: %d\n", s.Total) +
		fmt.Sprintf("📝 Todo: %d\n", s.Todo) +
		fmt.Sprintf("🔄 In Progress: %d\n", s.InProgress) +
		fmt.Sprintf("✅ Completed: %d\n", s.Completed) +
		fmt.Sprintf("⏰ Overdue: %d", s.Overdue)
	return textResult(text, map[string]any{"stats": s})
}
