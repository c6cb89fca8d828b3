// Package enrich adds repository statistics and version tags to catalog
// records.
//
// The two enrichers use different concurrency models and never overlap:
//
//   - [StatsEnricher] fans out one API request per repository through a
//     bounded task group, then merges every result after the group joins.
//   - [TagEnricher] feeds repositories to a fixed pool of workers, each of
//     which produces a [TagResult], then left-joins the results.
//
// In both cases workers only produce result values. Records are modified
// by the calling goroutine after the batch completes, and a failure is
// recorded against the repository that caused it.
package enrich
