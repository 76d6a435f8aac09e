package model

import "time"

// Credential is a registered printer agent. Destination identifies the agent
// and partitions its jobs; Password is the shared secret presented on every
// request alongside the destination.
type Credential struct {
	Destination string
	Password    string
	CreatedAt   time.Time
}
