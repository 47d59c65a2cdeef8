// Package reconcile implements the core reconcile.Store contract on top of GORM.
//
// A batch maps to one database transaction. The status update is a single
// conditional statement whose null-safe comparison is chosen per dialect:
//
//	postgres  durum IS DISTINCT FROM ?
//	mysql     NOT (durum <=> ?)
//	sqlite    durum IS NOT ?
//
// Unique violations on esas_no are reported as core reconcile.ErrDuplicateKey,
// whether they come from gorm.ErrDuplicatedKey, lib/pq (23505) or
// go-sql-driver/mysql (1062).
package reconcile
