package cli

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/minq/internal/ir"
	"github.com/roach88/minq/internal/store"
)

// recordRunViaCLI executes a source file through the run command with
// recording enabled and returns the recorded run token.
func recordRunViaCLI(t *testing.T, source, dbPath string) string {
	t.Helper()

	path := writeSource(t, source)
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRunCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--db", dbPath})
	require.NoError(t, cmd.Execute())

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	tokens, err := st.ListRunTokens(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, tokens)
	return tokens[len(tokens)-1]
}

func TestReplayMissingDatabaseFlag(t *testing.T) {
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestReplayEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	st.Close()

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "No runs found")
}

func TestReplayRecordedRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	token := recordRunViaCLI(t, demoSource, dbPath)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, token)
	assert.Contains(t, output, "✓")
	assert.Contains(t, output, "Replayed 1 run(s)")
	assert.Contains(t, output, "All runs verified deterministic")
}

func TestReplaySpecificToken(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	token := recordRunViaCLI(t, demoSource, dbPath)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, token})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), token)
}

func TestReplayJSON(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	recordRunViaCLI(t, demoSource, dbPath)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, data["all_deterministic"])
	assert.Equal(t, float64(1), data["total_runs"])
}

func TestReplayDetectsTampering(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	token := recordRunViaCLI(t, demoSource, dbPath)

	// Corrupt a recorded step value behind the store's back.
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	_, err = db.ExecContext(context.Background(),
		"UPDATE steps SET value = ? WHERE run_token = ? AND seq = 2",
		string(ir.MarshalValue(ir.Int(7))), token)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	err = cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "✗")
	assert.Contains(t, buf.String(), "mismatch")
}

func TestReplayUnknownToken(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	st.Close()

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "no-such-token"})

	err = cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
