// Package testutil wires in-memory databases and signed tokens for handler tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "campusaxis_backend/internals/databases"
)

const JWTSecret = "test-secret"

// OpenDB returns a migrated, private in-memory SQLite database. A single
// connection serialises writers the way row locks would in Postgres.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared&_busy_timeout=5000", name, uuid.NewString()[:8])

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// Token signs an HS256 access token the way the identity provider does.
func Token(t *testing.T, userID uuid.UUID, roles ...string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	if len(roles) > 0 {
		claims["roles_global"] = roles
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(JWTSecret))
	require.NoError(t, err)
	return signed
}

func Bearer(t *testing.T, userID uuid.UUID, roles ...string) string {
	return "Bearer " + Token(t, userID, roles...)
}
