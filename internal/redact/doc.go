// Package redact strips likely secrets from file content before it is sent
// to a model provider. Detection is regex-heuristic: API keys, AWS
// credentials, bearer tokens, JWTs, private key blocks, and assignment-style
// secrets. Redaction happens after content hashing, so cache keys always
// reflect the real file content.
package redact
