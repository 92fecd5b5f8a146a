package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Dead letters live in one Redis list per source queue, newest first.
const DLQPrefix = "dlq:"

// DLQEntry is a job that will not be retried automatically.
type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobID         string          `json:"job_id,omitempty"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      string          `json:"failed_at"` // RFC 3339, UTC
	Attempts      int             `json:"attempts"`
}

// SendToDLQ dead-letters job. Redis errors are logged, the job is then lost.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, job Job, reason string) {
	data, err := json.Marshal(DLQEntry{
		OriginalQueue: queue,
		JobID:         job.ID,
		JobType:       job.Type,
		Payload:       job.Payload,
		Reason:        reason,
		FailedAt:      time.Now().UTC().Format(time.RFC3339),
		Attempts:      job.Attempts,
	})
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Str("job_id", job.ID).Msg("dlq: failed to marshal entry")
		return
	}
	if err := rdb.LPush(ctx, DLQPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Str("job_id", job.ID).Msg("dlq: failed to push entry")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("job_id", job.ID).
		Str("job_type", job.Type).
		Str("reason", reason).
		Int("attempts", job.Attempts).
		Msg("dlq: job dead-lettered")
}

func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// ListDLQ returns the newest n entries. Undecodable entries are skipped.
func ListDLQ(ctx context.Context, rdb *redis.Client, queue string, n int64) ([]DLQEntry, error) {
	raws, err := rdb.LRange(ctx, DLQPrefix+queue, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]DLQEntry, 0, len(raws))
	for _, raw := range raws {
		var e DLQEntry
		if json.Unmarshal([]byte(raw), &e) == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

// ReintentarDLQ puts dead-lettered jobs back on their queue with a fresh
// attempt count, oldest first. Entries without a job type (undecodable
// envelopes) stay in the DLQ. It returns how many jobs were requeued.
func ReintentarDLQ(ctx context.Context, rdb *redis.Client, queue string) (int, error) {
	key := DLQPrefix + queue
	n, err := rdb.LLen(ctx, key).Result()
	if err != nil {
		return 0, err
	}

	requeued := 0
	for i := int64(0); i < n; i++ {
		raw, err := rdb.RPop(ctx, key).Result()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return requeued, err
		}

		var e DLQEntry
		if json.Unmarshal([]byte(raw), &e) != nil || e.JobType == "" {
			if err := rdb.LPush(ctx, key, raw).Err(); err != nil {
				return requeued, err
			}
			continue
		}
		data, _ := json.Marshal(Job{ID: e.JobID, Type: e.JobType, Payload: e.Payload})
		if err := rdb.LPush(ctx, queue, data).Err(); err != nil {
			_ = rdb.RPush(ctx, key, raw).Err()
			return requeued, err
		}
		requeued++
	}

	if requeued > 0 {
		log.Info().Str("queue", queue).Int("jobs", requeued).Msg("dlq: jobs requeued")
	}
	return requeued, nil
}
