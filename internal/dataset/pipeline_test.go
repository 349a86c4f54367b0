package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `PassengerId,Survived,Pclass,Name,Sex,Age,Fare
1,0,3,"Braund, Mr. Owen Harris",male,22,7.25
2,1,1,"Cumings, Mrs. John Bradley",female,38,71.2833
3,1,3,"Heikkinen, Miss. Laina",female,,7.925
`

func TestRunPipeline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	cfg := PipelineConfig{
		DataDir: t.TempDir(),
		CSVURL:  srv.URL,
		DBName:  "titanic.sqlite",
	}
	require.NoError(t, RunPipeline(context.Background(), cfg))

	insp, err := NewInspector(cfg.DBPath())
	require.NoError(t, err)
	defer insp.Close()

	count, err := insp.PassengerCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// The Name column must not survive conversion.
	desc, err := insp.SchemaDescription(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, desc, "Name")
	assert.Contains(t, desc, "- Age: REAL")
	assert.Contains(t, desc, "- Survived: INTEGER")

	// Empty Age cell loads as NULL and is skipped by AVG: (22 + 38) / 2.
	avg, err := insp.AverageAge(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 30.0, avg, 0.001)
}

func TestRunPipelineIdempotent(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	cfg := PipelineConfig{DataDir: t.TempDir(), CSVURL: srv.URL, DBName: "titanic.sqlite"}

	require.NoError(t, RunPipeline(context.Background(), cfg))
	require.NoError(t, RunPipeline(context.Background(), cfg))
	assert.Equal(t, 1, requests, "second run must reuse the cached CSV")
}

func TestDownloadRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	cfg := PipelineConfig{DataDir: t.TempDir(), CSVURL: srv.URL, DBName: "titanic.sqlite"}
	require.NoError(t, RunPipeline(context.Background(), cfg))
	assert.Equal(t, 3, attempts)

	data, err := os.ReadFile(cfg.CSVPath())
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(data))
}

func TestDownloadGivesUpOnClientErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.NotFound(w, r)
	}))
	defer srv.Close()

	cfg := PipelineConfig{DataDir: t.TempDir(), CSVURL: srv.URL, DBName: "titanic.sqlite"}
	require.Error(t, RunPipeline(context.Background(), cfg))
	assert.Equal(t, 1, attempts, "404 must not be retried")
}
