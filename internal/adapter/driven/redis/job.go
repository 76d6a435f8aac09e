package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ericfisherdev/printbroker/internal/domain/model"
)

// Job hash fields.
const (
	fieldID          = "jobId"
	fieldDestination = "destination"
	fieldStatus      = "jobStatus"
	fieldData        = "data"
	fieldSubmitted   = "timeSubmitted"
	fieldStatusKey   = "statusKey"
)

// updateStatusScript moves a job between status indexes and rewrites its
// status. Missing jobs are left untouched and 0 is returned.
//
// KEYS[1] job hash, KEYS[2] new status index.
// ARGV[1] new status, ARGV[2] job ID.
var updateStatusScript = goredis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return 0
end
local old = redis.call('HGET', KEYS[1], 'statusKey')
if old then
  redis.call('ZREM', old, ARGV[2])
end
redis.call('ZADD', KEYS[2], tonumber(ARGV[2]), ARGV[2])
redis.call('HSET', KEYS[1], 'jobStatus', ARGV[1], 'statusKey', KEYS[2])
return 1
`)

// Create stores the job as a Hash and indexes it by destination and status.
func (s *Store) Create(ctx context.Context, job model.Job) error {
	id := strconv.FormatInt(job.ID, 10)
	statusKey := s.keys.status(job.Destination, string(job.Status))

	submitted := ""
	if !job.TimeSubmitted.IsZero() {
		submitted = strconv.FormatInt(job.TimeSubmittedMillis(), 10)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.keys.job(job.ID),
		fieldID, id,
		fieldDestination, job.Destination,
		fieldStatus, string(job.Status),
		fieldData, job.Data,
		fieldSubmitted, submitted,
		fieldStatusKey, statusKey,
	)
	pipe.ZAdd(ctx, s.keys.destination(job.Destination), goredis.Z{Score: float64(job.ID), Member: id})
	pipe.ZAdd(ctx, statusKey, goredis.Z{Score: float64(job.ID), Member: id})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("printbroker/redis: create job %d: %w", job.ID, err)
	}
	return nil
}

// UpdateStatus overwrites the job's status. A missing job is not an error.
func (s *Store) UpdateStatus(ctx context.Context, jobID int64, status model.JobStatus) error {
	key := s.keys.job(jobID)

	dest, err := s.client.HGet(ctx, key, fieldDestination).Result()
	if errors.Is(err, goredis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("printbroker/redis: update job %d status: %w", jobID, err)
	}

	keys := []string{key, s.keys.status(dest, string(status))}
	if err := updateStatusScript.Run(ctx, s.client, keys, string(status), strconv.FormatInt(jobID, 10)).Err(); err != nil {
		return fmt.Errorf("printbroker/redis: update job %d status: %w", jobID, err)
	}
	return nil
}

// ListByStatus returns the destination's jobs in status ordered by ID.
func (s *Store) ListByStatus(ctx context.Context, destination string, status model.JobStatus) ([]model.Job, error) {
	ids, err := s.client.ZRange(ctx, s.keys.status(destination, string(status)), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("printbroker/redis: list %s jobs: %w", status, err)
	}
	return s.loadJobs(ctx, destination, ids)
}

// GetByID returns the destination's job with jobID, or nil, nil if absent.
func (s *Store) GetByID(ctx context.Context, destination string, jobID int64) (*model.Job, error) {
	fields, err := s.client.HGetAll(ctx, s.keys.job(jobID)).Result()
	if err != nil {
		return nil, fmt.Errorf("printbroker/redis: get job %d: %w", jobID, err)
	}
	if len(fields) == 0 || fields[fieldDestination] != destination {
		return nil, nil
	}

	job, err := mapToJob(fields)
	if err != nil {
		return nil, fmt.Errorf("printbroker/redis: decode job %d: %w", jobID, err)
	}
	return &job, nil
}

// ListFromID returns the destination's jobs with ID >= startID ordered by ID.
func (s *Store) ListFromID(ctx context.Context, destination string, startID int64) ([]model.Job, error) {
	ids, err := s.client.ZRangeByScore(ctx, s.keys.destination(destination), &goredis.ZRangeBy{
		Min: strconv.FormatInt(startID, 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("printbroker/redis: list jobs from %d: %w", startID, err)
	}
	return s.loadJobs(ctx, destination, ids)
}

// loadJobs fetches the hashes for ids in one pipeline, preserving order.
func (s *Store) loadJobs(ctx context.Context, destination string, ids []string) ([]model.Job, error) {
	jobs := make([]model.Job, 0, len(ids))
	if len(ids) == 0 {
		return jobs, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*goredis.MapStringStringCmd, len(ids))
	for i, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("printbroker/redis: bad job id %q in index: %w", raw, err)
		}
		cmds[i] = pipe.HGetAll(ctx, s.keys.job(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("printbroker/redis: load jobs: %w", err)
	}

	for _, cmd := range cmds {
		fields := cmd.Val()
		// Hash removed out of band; the index entry is stale.
		if len(fields) == 0 || fields[fieldDestination] != destination {
			continue
		}
		job, err := mapToJob(fields)
		if err != nil {
			return nil, fmt.Errorf("printbroker/redis: decode job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func mapToJob(fields map[string]string) (model.Job, error) {
	id, err := strconv.ParseInt(fields[fieldID], 10, 64)
	if err != nil {
		return model.Job{}, fmt.Errorf("parse %s: %w", fieldID, err)
	}

	job := model.Job{
		ID:          id,
		Destination: fields[fieldDestination],
		Status:      model.JobStatus(fields[fieldStatus]),
		Data:        fields[fieldData],
	}

	if raw := fields[fieldSubmitted]; raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return model.Job{}, fmt.Errorf("parse %s: %w", fieldSubmitted, err)
		}
		job.TimeSubmitted = time.UnixMilli(ms).UTC()
	}
	return job, nil
}
