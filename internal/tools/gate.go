package tools

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"taskManager/internal/models/task"
	"taskManager/internal/service"

	"github.com/go-viper/mapstructure/v2"
)

const dateLayout = "2006-01-02"

type createTaskArgs struct {
	Title       string   `mapstructure:"title"`
	Description string   `mapstructure:"description"`
	Priority    *string  `mapstructure:"priority"`
	DueDate     *string  `mapstructure:"dueDate"`
	Tags        []string `mapstructure:"tags"`
}

type listTasksArgs struct {
	Status   *string `mapstructure:"status"`
	Priority *string `mapstructure:"priority"`
}

type updateStatusArgs struct {
	TaskID string `mapstructure:"taskId"`
	Status string `mapstructure:"status"`
}

type deleteTaskArgs struct {
	TaskID string `mapstructure:"taskId"`
}

// decodeArgs раскладывает произвольный JSON-объект аргументов в структуру.
// Несовпадение типов превращается в VALIDATION_ERROR.
func decodeArgs(args map[string]any, out any) error {
	if args == nil {
		args = map[string]any{}
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("создание декодера: %w", err)
	}
	if err := decoder.Decode(args); err != nil {
		field, reason := "arguments", err.Error()
		// первое поле с ошибкой типа, например title или tags[1]
		var decodeErr *mapstructure.DecodeError
		if errors.As(err, &decodeErr) && decodeErr.Name() != "" {
			field = decodeErr.Name()
			if inner := decodeErr.Unwrap(); inner != nil {
				reason = inner.Error()
			}
		}
		busErr := service.NewValidationError(field, reason)
		busErr.Err = err
		return busErr
	}
	return nil
}

func requireString(field, value, message string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", service.NewValidationError(field, message)
	}
	return value, nil
}

func enumValues[T ~string](values []T) string {
	names := make([]string, 0, len(values))
	for _, v := range values {
		names = append(names, string(v))
	}
	return strings.Join(names, ", ")
}

func parsePriority(field string, value *string) (task.Priority, error) {
	if value == nil {
		return "", nil
	}
	p := task.Priority(*value)
	if !p.Valid() {
		return "", service.NewValidationError(field, fmt.Sprintf("expected one of %s, got %q", enumValues(task.Priorities), *value))
	}
	return p, nil
}

func parseStatus(field string, value *string) (task.Status, error) {
	if value == nil {
		return "", nil
	}
	s := task.Status(*value)
	if !s.Valid() {
		return "", service.NewValidationError(field, fmt.Sprintf("expected one of %s, got %q", enumValues(task.Statuses), *value))
	}
	return s, nil
}

// parseDueDate принимает дату YYYY-MM-DD (полночь UTC) или полный RFC 3339
func parseDueDate(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	raw := strings.TrimSpace(*value)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return nil, service.NewValidationError("dueDate", fmt.Sprintf("expected ISO date (YYYY-MM-DD), got %q", raw))
	}
	return &t, nil
}

func ParseCreateTask(args map[string]any) (task.CreateRequest, error) {
	var raw createTaskArgs
	if err := decodeArgs(args, &raw); err != nil {
		return task.CreateRequest{}, err
	}

	title, err := requireString("title", raw.Title, "Title is required")
	if err != nil {
		return task.CreateRequest{}, err
	}
	description, err := requireString("description", raw.Description, "Description is required")
	if err != nil {
		return task.CreateRequest{}, err
	}
	priority, err := parsePriority("priority", raw.Priority)
	if err != nil {
		return task.CreateRequest{}, err
	}
	due, err := parseDueDate(raw.DueDate)
	if err != nil {
		return task.CreateRequest{}, err
	}

	req := task.NewCreateRequest(title, description,
		task.WithPriority(priority),
		task.WithTags(raw.Tags...),
	)
	req.DueDate = due
	return req, nil
}

func ParseListTasks(args map[string]any) (task.ListFilter, error) {
	var raw listTasksArgs
	if err := decodeArgs(args, &raw); err != nil {
		return task.ListFilter{}, err
	}

	status, err := parseStatus("status", raw.Status)
	if err != nil {
		return task.ListFilter{}, err
	}
	priority, err := parsePriority("priority", raw.Priority)
	if err != nil {
		return task.ListFilter{}, err
	}
	return task.ListFilter{Status: status, Priority: priority}, nil
}

func ParseUpdateStatus(args map[string]any) (task.UpdateStatusRequest, error) {
	var raw updateStatusArgs
	if err := decodeArgs(args, &raw); err != nil {
		return task.UpdateStatusRequest{}, err
	}

	id, err := requireString("taskId", raw.TaskID, "Task ID is required")
	if err != nil {
		return task.UpdateStatusRequest{}, err
	}
	if raw.Status == "" {
		return task.UpdateStatusRequest{}, service.NewValidationError("status", "Status is required")
	}
	status, err := parseStatus("status", &raw.Status)
	if err != nil {
		return task.UpdateStatusRequest{}, err
	}
	return task.UpdateStatusRequest{TaskID: id, Status: status}, nil
}

func ParseDeleteTask(args map[string]any) (task.DeleteRequest, error) {
	var raw deleteTaskArgs
	if err := decodeArgs(args, &raw); err != nil {
		return task.DeleteRequest{}, err
	}

	id, err := requireString("taskId", raw.TaskID, "Task ID is required")
	if err != nil {
		return task.DeleteRequest{}, err
	}
	return task.DeleteRequest{TaskID: id}, nil
}
