// Package integrity validates the infrastructure the proposal ingest relies on.
//
// # Checks Provided
//
//   - Server: Validates that the proposals table matches the Proposal model (columns, type families).
//   - Archive: Verifies that the batch archive bucket exists in object storage, and creates it on request.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/server : Runs server schema check.
//   - GET /integrity/archive : Runs archive bucket check (supports ?fix=true).
package integrity
