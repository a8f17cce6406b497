package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeAPIKeyExpire = "apikey:expire:sweep"
)

type ExpireAPIKeyPayload struct{}

func NewAPIKeyExpireTask(opts ...asynq.Option) (*asynq.Task, error) {
	payload := ExpireAPIKeyPayload{}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	uniqueOpt := asynq.Unique(1 * time.Hour)
	allOpts := append(opts, uniqueOpt)

	return asynq.NewTask(TypeAPIKeyExpire, payloadBytes, allOpts...), nil
}
