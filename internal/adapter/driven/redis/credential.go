package redis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ericfisherdev/printbroker/internal/domain/model"
	"github.com/ericfisherdev/printbroker/internal/domain/port/driven"
)

// Find returns the credential matching both destination and password.
func (s *Store) Find(ctx context.Context, destination, password string) ([]model.Credential, error) {
	createdAt, err := s.client.HGet(ctx, s.keys.credentials(destination), password).Result()
	if errors.Is(err, goredis.Nil) {
		return []model.Credential{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("printbroker/redis: find credential: %w", err)
	}

	return []model.Credential{{
		Destination: destination,
		Password:    password,
		CreatedAt:   parseTime(createdAt),
	}}, nil
}

// Add registers a destination/password pair.
func (s *Store) Add(ctx context.Context, cred model.Credential) error {
	createdAt := cred.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	added, err := s.client.HSetNX(ctx, s.keys.credentials(cred.Destination), cred.Password,
		createdAt.UTC().Format(time.RFC3339Nano)).Result()
	if err != nil {
		return fmt.Errorf("printbroker/redis: add credential: %w", err)
	}
	if !added {
		return fmt.Errorf("add credential for %s: %w", cred.Destination, driven.ErrCredentialExists)
	}

	if err := s.client.SAdd(ctx, s.keys.credentialIndex(), cred.Destination).Err(); err != nil {
		return fmt.Errorf("printbroker/redis: index credential: %w", err)
	}
	return nil
}

// Remove deletes a destination/password pair.
func (s *Store) Remove(ctx context.Context, destination, password string) error {
	key := s.keys.credentials(destination)

	removed, err := s.client.HDel(ctx, key, password).Result()
	if err != nil {
		return fmt.Errorf("printbroker/redis: remove credential: %w", err)
	}
	if removed == 0 {
		return fmt.Errorf("remove credential for %s: %w", destination, driven.ErrCredentialNotFound)
	}

	remaining, err := s.client.HLen(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("printbroker/redis: count credentials: %w", err)
	}
	if remaining == 0 {
		if err := s.client.SRem(ctx, s.keys.credentialIndex(), destination).Err(); err != nil {
			return fmt.Errorf("printbroker/redis: unindex credential: %w", err)
		}
	}
	return nil
}

// List returns all credentials ordered by destination then password.
func (s *Store) List(ctx context.Context) ([]model.Credential, error) {
	destinations, err := s.client.SMembers(ctx, s.keys.credentialIndex()).Result()
	if err != nil {
		return nil, fmt.Errorf("printbroker/redis: list destinations: %w", err)
	}
	slices.Sort(destinations)

	var creds []model.Credential
	for _, dest := range destinations {
		entries, err := s.client.HGetAll(ctx, s.keys.credentials(dest)).Result()
		if err != nil {
			return nil, fmt.Errorf("printbroker/redis: list credentials for %q: %w", dest, err)
		}
		for password, createdAt := range entries {
			creds = append(creds, model.Credential{
				Destination: dest,
				Password:    password,
				CreatedAt:   parseTime(createdAt),
			})
		}
	}

	slices.SortFunc(creds, func(a, b model.Credential) int {
		if c := strings.Compare(a.Destination, b.Destination); c != 0 {
			return c
		}
		return strings.Compare(a.Password, b.Password)
	})
	return creds, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
