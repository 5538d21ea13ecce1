package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskAuthTokensPurge = "auth.tokens.purge"

const TaskTicketStoreBackup = "tickets.store.backup"

type TicketStoreBackupPayload struct {
	SourceKey string `json:"sourceKey"`
}

func NewAuthTokensPurgeTask() *asynq.Task {
	return asynq.NewTask(TaskAuthTokensPurge, nil)
}

func NewTicketStoreBackupTask(payload TicketStoreBackupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTicketStoreBackup, data), nil
}

func ParseTicketStoreBackupPayload(task *asynq.Task) (TicketStoreBackupPayload, error) {
	var payload TicketStoreBackupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return TicketStoreBackupPayload{}, err
	}
	return payload, nil
}
