//go:build unit

package repository

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// The outbox statements run outside any migration tooling, so a column they
// touch has to exist in the shipped schema. This cross-checks the mail_jobs
// DDL against every column the repository reads or writes.
func TestMailJobStatementsMatchSchema(t *testing.T) {
	declared := tableColumns(t, "mail_jobs")

	touched := []string{
		// Enqueue
		"id", "kind", "recipient", "payload", "status",
		// ClaimPending
		"attempts", "created_at",
		// MarkSent
		"sent_at",
	}

	for _, col := range touched {
		require.Contains(t, declared, col, "mail_jobs.%s missing from migrations/schema.sql", col)
	}
}

func tableColumns(t *testing.T, table string) map[string]struct{} {
	t.Helper()

	schema, err := os.ReadFile("../../../migrations/schema.sql")
	require.NoError(t, err)

	blockRe := regexp.MustCompile(`(?s)CREATE TABLE ` + table + ` \((.*?)\n\);`)
	m := blockRe.FindSubmatch(schema)
	require.NotNil(t, m, "CREATE TABLE %s not found", table)

	columns := make(map[string]struct{})
	colRe := regexp.MustCompile(`^([a-z_]+)\s`)
	for _, line := range strings.Split(string(m[1]), "\n") {
		line = strings.TrimSpace(line)
		if cm := colRe.FindStringSubmatch(line); cm != nil {
			columns[cm[1]] = struct{}{}
		}
	}
	return columns
}
