package redis

import (
	"net/url"
	"strconv"

	"github.com/ericfisherdev/printbroker/internal/adapter/driven/schema"
)

// All keys are prefixed with "printbroker:" and namespaced by table name.
// Destinations and statuses are query-escaped so that a ':' inside them can
// never make two keys collide.
const keyPrefix = "printbroker:"

type keyspace struct {
	jobs     string
	sequence string
	clients  string
}

func newKeyspace(t schema.Tables) keyspace {
	return keyspace{
		jobs:     keyPrefix + t.Jobs + ":",
		sequence: keyPrefix + t.Sequence,
		clients:  keyPrefix + t.Clients + ":",
	}
}

func escape(s string) string { return url.QueryEscape(s) }

// job returns the Hash key for a job: printbroker:{jobs}:job:{id}
func (k keyspace) job(id int64) string {
	return k.jobs + "job:" + strconv.FormatInt(id, 10)
}

// destination returns the Sorted Set of every job ID of a destination,
// scored by ID: printbroker:{jobs}:dest:{destination}
func (k keyspace) destination(dest string) string {
	return k.jobs + "dest:" + escape(dest)
}

// statusPrefix is the common prefix of every status index key.
func (k keyspace) statusPrefix() string { return k.jobs + "status:" }

// status returns the Sorted Set of a destination's job IDs in one status:
// printbroker:{jobs}:status:{destination}:{status}
func (k keyspace) status(dest, status string) string {
	return k.statusPrefix() + escape(dest) + ":" + escape(status)
}

// credentials returns the Hash of password -> created_at for a destination:
// printbroker:{clients}:dest:{destination}
func (k keyspace) credentials(dest string) string {
	return k.clients + "dest:" + escape(dest)
}

// credentialIndex is the Set of destinations with at least one credential.
func (k keyspace) credentialIndex() string { return k.clients + "index" }

// counter is the Hash holding the nextId field.
func (k keyspace) counter() string { return k.sequence }
