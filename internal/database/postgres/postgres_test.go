package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitStatements(t *testing.T) {
	script := `
-- enums
CREATE TYPE sex AS ENUM ('male', 'female');

-- tables
CREATE TABLE person (
    id BIGSERIAL PRIMARY KEY -- surrogate
);
;
`
	statements := splitStatements(script)

	assert.Len(t, statements, 2)
	assert.Equal(t, "CREATE TYPE sex AS ENUM ('male', 'female')", statements[0])
	assert.Contains(t, statements[1], "CREATE TABLE person")
}

func TestSplitStatements_Empty(t *testing.T) {
	assert.Empty(t, splitStatements("-- nothing here\n\n"))
}
