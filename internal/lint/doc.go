// Package lint contains the orchestration core: the engine that fans out
// (file x rule) jobs, the judge client that turns a job into exactly one
// model judgment, and the Result and Summary types.
//
// A run is a single pass: expand files into jobs, partition them against
// the content cache, execute the misses under a bounded-concurrency limit,
// merge, persist the cache once, summarize, and report. Per-job remote
// failures degrade to api-error Results so a batch keeps making progress;
// authentication failures abort the whole run because they would recur on
// every remaining job.
//
// The exit code contract is deterministic: 1 when any error-severity rule
// failed or any result is an api-error placeholder, 0 otherwise.
package lint
