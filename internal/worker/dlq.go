package worker

// dlq.go — dead job parking
// Receipt and email jobs that exhaust their retries land on a per-queue dead
// list ("jobs:email" → "jobs:email:dead") so a customer receipt is never
// silently lost. The list is capped; the oldest entries fall off first.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	deadSuffix  = ":dead"
	deadMaxKept = 1000
)

// DeadJob records why a job was parked, with enough context to replay it
// by hand (LPUSH the payload back onto its queue).
type DeadJob struct {
	Queue    string          `json:"queue"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Error    string          `json:"error"`
	Attempts int             `json:"attempts"`
	FailedAt time.Time       `json:"failed_at"`
}

func deadKey(queue string) string { return queue + deadSuffix }

// ParkDeadJob moves a job that exhausted its retries onto the dead list.
func ParkDeadJob(ctx context.Context, rdb *redis.Client, queue, jobType string, payload json.RawMessage, cause error, attempts int) {
	entry := DeadJob{
		Queue:    queue,
		Type:     jobType,
		Payload:  payload,
		Error:    cause.Error(),
		Attempts: attempts,
		FailedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dead list: marshal failed")
		return
	}

	key := deadKey(queue)
	pipe := rdb.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, deadMaxKept-1)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Error().Err(err).Str("key", key).Msg("dead list: push failed")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("job_type", jobType).
		Str("error", entry.Error).
		Int("attempts", attempts).
		Msg("job parked on dead list")
}

// DeadJobCount reports how many jobs are parked for a queue.
func DeadJobCount(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, deadKey(queue)).Result()
}
