package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN("db.internal", "5433", "app", "hunter2", "stackit", "require")
	assert.Equal(t, "host=db.internal port=5433 user=app password=hunter2 dbname=stackit sslmode=require", dsn)
}

func TestBuildDSN_DefaultsSSLModeToDisable(t *testing.T) {
	dsn := buildDSN("localhost", "5432", "user", "password", "stackit", "")
	assert.Contains(t, dsn, "sslmode=disable")
}
