package journal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"dema/internal/evaluation"
	"dema/internal/score"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
		lines = append(lines, line)
	}
	require.NoError(t, sc.Err())
	return lines
}

func TestFileJournal_Append(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	j := NewFileJournal(path, 1, 1)

	r := evaluation.NewRecord("cars", score.Result{Alternative: "golf", Cost: 25000, Score: 0.71, Label: score.LabelHigh})
	j.Append(r)
	require.NoError(t, j.Close())

	lines := readLines(t, path)
	require.Len(t, lines, 1)
	line := lines[0]
	assert.Equal(t, r.ID, line["id"])
	assert.Equal(t, "cars", line["project"])
	assert.Equal(t, "golf", line["alternative"])
	assert.Equal(t, 25000.0, line["cost"])
	assert.Equal(t, 0.71, line["score"])
	assert.Equal(t, score.LabelHigh, line["label"])
	created, err := time.Parse(time.RFC3339Nano, line["created_at"].(string))
	require.NoError(t, err)
	assert.True(t, r.CreatedAt.Equal(created))
	_, err = time.Parse(time.RFC3339Nano, line["time"].(string))
	assert.NoError(t, err)
	assert.NotContains(t, line, "level")
	assert.NotContains(t, line, "msg")
}

func TestFileJournal_ConcurrentAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	j := NewFileJournal(path, 1, 1)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.Append(evaluation.NewRecord("p", score.Result{Alternative: "x"}))
		}()
	}
	wg.Wait()
	require.NoError(t, j.Close())

	assert.Len(t, readLines(t, path), 20)
}

func TestLineHandler_WithAttrs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	j := NewFileJournal(path, 1, 1)
	j.logger.With("source", "test").WithGroup("ignored").Info("", "k", 1)
	require.NoError(t, j.Close())

	lines := readLines(t, path)
	require.Len(t, lines, 1)
	assert.Equal(t, "test", lines[0]["source"])
	assert.Equal(t, 1.0, lines[0]["k"])
}

func TestNop(t *testing.T) {
	var j Journal = Nop{}
	j.Append(evaluation.Record{})
	assert.NoError(t, j.Close())
}
