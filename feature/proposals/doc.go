// Package proposals is the ingestion feature for scraped legislative proposals.
//
// # Flow
//
//  1. The handler receives {"proposals": [...]} on POST /api/v1/update-proposals.
//  2. DecodeBatch turns the loosely typed payload into reconcile.Records.
//  3. The service bounds concurrent batches and applies a per-batch timeout, then
//     hands the batch to the core Reconciler backed by the GORM store.
//  4. On commit the raw body is optionally archived to object storage.
//
// # Responses
//
//	200  {"message":"Data processed successfully","new_proposals":n,"updated_proposals":m}
//	400  {"error":"Missing proposals data"}
//	409  a concurrent batch inserted the same case number first
//	500  {"error":"Database transaction failed"}
//	503  the service runs without a database
//
// GET /setup-database creates the proposals table when missing.
package proposals
