package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskExportEmail = "people.export.email"

// ExportEmailPayload carries everything the worker needs to deliver a
// roster export email. Attachment is the rendered PDF bytes (base64 on the
// wire via JSON encoding).
type ExportEmailPayload struct {
	To            string `json:"to"`
	RecipientName string `json:"recipientName"`
	FileName      string `json:"fileName"`
	Attachment    []byte `json:"attachment"`
}

func NewExportEmailTask(payload ExportEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskExportEmail, data), nil
}

func ParseExportEmailPayload(task *asynq.Task) (ExportEmailPayload, error) {
	var payload ExportEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ExportEmailPayload{}, err
	}
	return payload, nil
}
