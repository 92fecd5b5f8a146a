package worker

// retry_cron.go
// Failed jobs wait in a Redis sorted set scored by their next attempt time.
// A ticker moves the due ones back onto their original queue.

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retrySetKey       = "jobs:retry"
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 50
)

// retryEntry is the member stored in the retry set.
type retryEntry struct {
	Queue string `json:"queue"`
	Job   Job    `json:"job"`
}

func scheduleRetry(ctx context.Context, rdb *redis.Client, queue string, job Job, espera time.Duration) error {
	data, err := json.Marshal(retryEntry{Queue: queue, Job: job})
	if err != nil {
		return err
	}
	due := time.Now().Add(espera)
	return rdb.ZAdd(ctx, retrySetKey, redis.Z{Score: float64(due.Unix()), Member: data}).Err()
}

func runRetryPump(ctx context.Context, rdb *redis.Client) {
	ticker := time.NewTicker(retryTickInterval)
	defer ticker.Stop()

	log.Info().Msg("retry_cron: started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("retry_cron: shutting down")
			return
		case <-ticker.C:
			if n, err := requeueDue(ctx, rdb, time.Now()); err != nil {
				log.Error().Err(err).Msg("retry_cron: requeue failed")
			} else if n > 0 {
				log.Info().Int("count", n).Msg("retry_cron: jobs requeued")
			}
		}
	}
}

// requeueDue moves every retry whose time has come back to its queue.
// ZRem decides ownership so two pumps never requeue the same job.
func requeueDue(ctx context.Context, rdb *redis.Client, now time.Time) (int, error) {
	due, err := rdb.ZRangeByScore(ctx, retrySetKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.Unix(), 10),
		Count: retryBatchSize,
	}).Result()
	if err != nil {
		return 0, err
	}

	n := 0
	for _, member := range due {
		removed, err := rdb.ZRem(ctx, retrySetKey, member).Result()
		if err != nil || removed == 0 {
			continue
		}
		var entry retryEntry
		if err := json.Unmarshal([]byte(member), &entry); err != nil {
			log.Error().Err(err).Msg("retry_cron: corrupt retry entry dropped")
			continue
		}
		encoded, err := json.Marshal(entry.Job)
		if err != nil {
			continue
		}
		if err := rdb.LPush(ctx, entry.Queue, encoded).Err(); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
