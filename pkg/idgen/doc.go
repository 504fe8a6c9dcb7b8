// Package idgen generates ComposeIDs: one monotonic, globally unique
// identifier per composer invocation, used to correlate log lines and debug
// JSON blob siblings belonging to the same compose run.
//
// It is built on Sonyflake (a Snowflake derivative) for the same reasons a
// distributed-systems ID generator usually is: the id is time-ordered and
// unique without any shared coordination. It has nothing to do with the
// dense per-protection-domain id bitset the composer allocates internally
// (pkg/sdf) — that allocator is a small, closed 0-61 space with its own
// rules, not a generator of external-facing ids.
//
// Usage:
//
//	composeID, err := idgen.GenerateComposeID()
//	// composeID: "compose-1234567890"
package idgen
