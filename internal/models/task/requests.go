package task

import "time"

// CreateRequest приходит в хранилище уже проверенным
type CreateRequest struct {
	Title       string
	Description string
	Priority    Priority
	DueDate     *time.Time
	Tags        []string
}

// ListFilter: пустое поле означает отсутствие фильтра по этому измерению
type ListFilter struct {
	Status   Status
	Priority Priority
}

func (f ListFilter) Match(t Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	return true
}

type UpdateStatusRequest struct {
	TaskID string
	Status Status
}

type DeleteRequest struct {
	TaskID string
}
