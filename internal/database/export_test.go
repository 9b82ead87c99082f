package database

import (
	"testing"

	"gorm.io/gorm"
)

// BackfillCanonicalPairs exposes the migration step to the external test package.
func BackfillCanonicalPairs(t *testing.T, db *gorm.DB) error {
	t.Helper()
	return backfillCanonicalPairs(db)
}

// BackfillNotificationRequests exposes the migration step to the external test package.
func BackfillNotificationRequests(t *testing.T, db *gorm.DB) error {
	t.Helper()
	return backfillNotificationRequests(db)
}
