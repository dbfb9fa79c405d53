// Package cache provides durable, content-addressed memoization of lint
// results.
//
// Entries are keyed by "<rule_id>:<file_path>" and record SHA-256 hashes of
// both the file content and the rule prompt at the time of evaluation. An
// entry is reusable only when both hashes still match, so editing a file
// invalidates exactly that file's results and editing a rule's prompt
// invalidates exactly that rule's results, leaving everything else cached.
//
// The store persists as a single JSON document, .ai-lint/cache.json by
// default. The document carries a version tag and stable field names; other
// tooling may inspect it. A missing or corrupt file degrades to an empty
// cache and never fails a run.
package cache
