package services

import (
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-studyplan/internal/data/repos/testutil"
)

// serviceDB always uses a private SQLite database. Services open their own
// transactions and fan out reads, so they cannot run inside a test Tx.
func serviceDB(t *testing.T) *gorm.DB {
	t.Helper()
	t.Setenv("TEST_POSTGRES_DSN", "")
	return testutil.DB(t)
}
