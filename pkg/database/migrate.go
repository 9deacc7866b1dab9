package database

import (
	"fmt"

	"gorm.io/gorm"
)

// EnableVector installs the pgvector extension. It is a no-op on sqlite.
func EnableVector(db *gorm.DB) error {
	if db.Dialector.Name() != DriverPostgres {
		return nil
	}
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("enable pgvector: %w", err)
	}
	return nil
}

// EnsureVectorIndex adds an HNSW cosine index on table.column. No-op on sqlite.
func EnsureVectorIndex(db *gorm.DB, table, column string) error {
	if db.Dialector.Name() != DriverPostgres {
		return nil
	}
	stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_%s_hnsw ON %s USING hnsw (%s vector_cosine_ops)", table, column, table, column)
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("create vector index on %s.%s: %w", table, column, err)
	}
	return nil
}
