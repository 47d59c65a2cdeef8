// Package database handles database connections and schema inspection.
//
// It wraps GORM to open PostgreSQL (through lib/pq), MySQL or SQLite connections
// from the application's configuration. Connections are opened with
// TranslateError so unique-constraint violations surface as gorm.ErrDuplicatedKey.
//
// # Schema Inspection
//
// GetTableColumns reads the live column list of a table on any supported
// dialect. The integrity feature compares it against the proposals model.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "proposals")
package database
