package task

type Stats struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Overdue    int `json:"overdue"`
}

// SummaryTask - сокращённое представление задачи для ресурса tasks://summary
type SummaryTask struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Status    Status   `json:"status"`
	Priority  Priority `json:"priority"`
	CreatedAt string   `json:"createdAt"`
	DueDate   string   `json:"dueDate,omitempty"`
}

type Summary struct {
	Statistics  Stats         `json:"statistics"`
	RecentTasks []SummaryTask `json:"recentTasks"`
}

const isoLayout = "2006-01-02T15:04:05.000Z07:00"

func ToSummaryTask(t Task) SummaryTask {
	st := SummaryTask{
		ID:        t.ID,
		Title:     t.Title,
		Status:    t.Status,
		Priority:  t.Priority,
		CreatedAt: t.CreatedAt.UTC().Format(isoLayout),
	}
	if t.DueDate != nil {
		st.DueDate = t.DueDate.UTC().Format(isoLayout)
	}
	return st
}
