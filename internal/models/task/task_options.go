package task

import (
	"time"
)

type CreateOption func(*CreateRequest)

func NewCreateRequest(title, description string, options ...CreateOption) CreateRequest {
	req := CreateRequest{
		Title:       title,
		Description: description,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&req)
		}
	}
	return req
}

func WithPriority(priority Priority) CreateOption {
	if priority == "" {
		return nil
	}
	return func(req *CreateRequest) {
		req.Priority = priority
	}
}

func WithDueDate(dueDate time.Time) CreateOption {
	if dueDate.IsZero() {
		return nil
	}
	return func(req *CreateRequest) {
		req.DueDate = &dueDate
	}
}

func WithTags(tags ...string) CreateOption {
	return func(req *CreateRequest) {
		req.Tags = append(req.Tags, tags...)
	}
}
