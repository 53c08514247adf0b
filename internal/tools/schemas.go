package tools

import "encoding/json"

var createTaskSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "title": {"type": "string", "description": "Task title"},
    "description": {"type": "string", "description": "Task description"},
    "priority": {"type": "string", "enum": ["low", "medium", "high"], "description": "Task priority level"},
    "dueDate": {"type": "string", "description": "Due date in ISO format (YYYY-MM-DD)"},
    "tags": {"type": "array", "items": {"type": "string"}, "description": "Tags for task categorization"}
  },
  "required": ["title", "description"]
}`)

var listTasksSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "status": {"type": "string", "enum": ["todo", "in-progress", "completed"], "description": "Filter by task status"},
    "priority": {"type": "string", "enum": ["low", "medium", "high"], "description": "Filter by task priority"}
  }
}`)

var updateTaskStatusSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "taskId": {"type": "string", "description": "Task ID to update"},
    "status": {"type": "string", "enum": ["todo", "in-progress", "completed"], "description": "New task status"}
  },
  "required": ["taskId", "status"]
}`)

var deleteTaskSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "taskId": {"type": "string", "description": "Task ID to delete"}
  },
  "required": ["taskId"]
}`)

var emptySchema = json.RawMessage(`{"type": "object", "properties": {}}`)
