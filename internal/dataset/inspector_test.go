package dataset

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedDB builds a small titanic table with a known shape: 4 passengers,
// 2 survivors, one missing age.
func seedDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "titanic.sqlite")

	db, err := openDB("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE titanic (
		"PassengerId" INTEGER,
		"Survived" INTEGER,
		"Pclass" INTEGER,
		"Sex" TEXT,
		"Age" REAL,
		"Fare" REAL
	)`)
	require.NoError(t, err)

	rows := []struct {
		id, survived, class int
		sex                 string
		age                 any
		fare                float64
	}{
		{1, 1, 1, "female", 29.0, 71.28},
		{2, 0, 3, "male", 35.0, 7.25},
		{3, 1, 2, "female", nil, 13.0},
		{4, 0, 3, "male", 20.0, 8.05},
	}
	for _, r := range rows {
		_, err = db.Exec(`INSERT INTO titanic VALUES (?, ?, ?, ?, ?, ?)`,
			r.id, r.survived, r.class, r.sex, r.age, r.fare)
		require.NoError(t, err)
	}
	return dbPath
}

func TestInspectorAggregates(t *testing.T) {
	ctx := context.Background()

	insp, err := NewInspector(seedDB(t))
	require.NoError(t, err)
	defer insp.Close()

	rate, err := insp.SurvivalRate(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, rate, 0.001)

	count, err := insp.PassengerCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	dist, err := insp.ClassDistribution(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 2}, dist)

	// AVG skips the NULL age: (29 + 35 + 20) / 3.
	avg, err := insp.AverageAge(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 28.0, avg, 0.001)
}

func TestSchemaDescription(t *testing.T) {
	insp, err := NewInspector(seedDB(t))
	require.NoError(t, err)
	defer insp.Close()

	desc, err := insp.SchemaDescription(context.Background())
	require.NoError(t, err)

	assert.Contains(t, desc, "Table: titanic")
	assert.Contains(t, desc, "- Survived: INTEGER")
	assert.Contains(t, desc, "- Sex: TEXT")
	assert.Contains(t, desc, "- Age: REAL")
}

func TestQueryReadOnly(t *testing.T) {
	ctx := context.Background()

	insp, err := NewInspector(seedDB(t))
	require.NoError(t, err)
	defer insp.Close()

	out, err := insp.Query(ctx, "SELECT Pclass, COUNT(*) AS n FROM titanic GROUP BY Pclass ORDER BY Pclass", 10)
	require.NoError(t, err)
	assert.Contains(t, out, "Pclass | n")
	assert.Contains(t, out, "3 | 2")

	_, err = insp.Query(ctx, "DELETE FROM titanic", 10)
	require.Error(t, err)

	_, err = insp.Query(ctx, "  drop table titanic", 10)
	require.Error(t, err)
}

func TestQueryTruncation(t *testing.T) {
	insp, err := NewInspector(seedDB(t))
	require.NoError(t, err)
	defer insp.Close()

	out, err := insp.Query(context.Background(), "SELECT PassengerId FROM titanic ORDER BY PassengerId", 2)
	require.NoError(t, err)
	assert.Contains(t, out, "truncated at 2 rows")
}

func TestClassDistributionString(t *testing.T) {
	s := ClassDistributionString(map[int]int{3: 491, 1: 216, 2: 184})
	assert.Equal(t, "class 1: 216, class 2: 184, class 3: 491", s)
}
