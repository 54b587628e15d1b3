package persist

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Snapshot documents are validated against these schemas before they are
// decoded. A document that fails validation is treated as malformed: the
// store logs the condition and starts empty rather than propagating the
// error.

const tasksSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["Id", "UserId", "Title", "IsCompleted"],
		"properties": {
			"Id":          {"type": "integer", "minimum": 1},
			"UserId":      {"type": "integer"},
			"Title":       {"type": "string"},
			"IsCompleted": {"type": "boolean"},
			"Category":    {"type": "string"},
			"Priority":    {"type": "string"},
			"DueDate":     {"type": "string", "format": "date-time"}
		}
	}
}`

const usersSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["Id", "Username", "Password", "Role"],
		"properties": {
			"Id":       {"type": "integer", "minimum": 1},
			"Username": {"type": "string"},
			"Password": {"type": "string"},
			"Role":     {"type": "string"},
			"Tasks":    {"type": "array"}
		}
	}
}`

var (
	compiledTasksSchema = jsonschema.MustCompileString(TasksDocument, tasksSchema)
	compiledUsersSchema = jsonschema.MustCompileString(UsersDocument, usersSchema)
)

// ValidateTasks checks a tasks snapshot document against its schema.
func ValidateTasks(data []byte) error {
	return validate(compiledTasksSchema, data)
}

// ValidateUsers checks a users snapshot document against its schema.
func ValidateUsers(data []byte) error {
	return validate(compiledUsersSchema, data)
}

func validate(schema *jsonschema.Schema, data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("snapshot is not valid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("snapshot failed schema validation: %w", err)
	}
	return nil
}
