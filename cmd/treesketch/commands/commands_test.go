package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempDoc(t *testing.T, dir, name, contents string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

// emptyConfig pins the commands to defaults regardless of any config file
// in CWD or $HOME.
func emptyConfig(t *testing.T, dir string) string {
	t.Helper()

	return writeTempDoc(t, dir, "config.yaml", "")
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestSketchCommand_JSONOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := writeTempDoc(t, dir, "a.json", `{"user": {"name": "alice"}}`)

	out, err := runCommand(t, NewSketchCommand(), "-c", emptyConfig(t, dir), doc)
	require.NoError(t, err)

	var results []sketchResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, doc, results[0].Document)
	assert.Len(t, results[0].Sketch, 128)
	assert.Equal(t, 128, results[0].NumHashes)
}

func TestSketchCommand_FlagOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := writeTempDoc(t, dir, "a.json", `{"a": 1}`)

	out, err := runCommand(t, NewSketchCommand(),
		"-c", emptyConfig(t, dir), "--hashes", "64", "--groups", "8", doc)
	require.NoError(t, err)

	var results []sketchResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Len(t, results[0].Sketch, 64)
}

func TestSketchCommand_InvalidOverride_Fails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := writeTempDoc(t, dir, "a.json", `{"a": 1}`)

	_, err := runCommand(t, NewSketchCommand(),
		"-c", emptyConfig(t, dir), "--shingle-size", "0", doc)
	require.Error(t, err)
}

func TestSketchCommand_YAMLOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := writeTempDoc(t, dir, "a.json", `{"a": 1}`)

	out, err := runCommand(t, NewSketchCommand(),
		"-c", emptyConfig(t, dir), "-f", "yaml", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "num_hashes: 128")
}

func TestSketchCommand_UnknownFormat_Fails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := writeTempDoc(t, dir, "a.json", `{"a": 1}`)

	_, err := runCommand(t, NewSketchCommand(),
		"-c", emptyConfig(t, dir), "-f", "xml", doc)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestSketchCommand_MissingFile_Fails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := runCommand(t, NewSketchCommand(),
		"-c", emptyConfig(t, dir), filepath.Join(dir, "absent.json"))
	require.Error(t, err)
}

func TestShinglesCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := writeTempDoc(t, dir, "a.json", `{"user": {"name": "alice", "age": 30}}`)

	out, err := runCommand(t, NewShinglesCommand(), "-c", emptyConfig(t, dir), doc)
	require.NoError(t, err)

	var result shinglesResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, doc, result.Document)
	assert.NotEmpty(t, result.Shingles)
	assert.Equal(t, len(result.Shingles), result.Count)
}

func TestCompareCommand_IdenticalDocuments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	docA := writeTempDoc(t, dir, "a.json", `{"user": "alice"}`)
	docB := writeTempDoc(t, dir, "b.json", `{"user": "alice"}`)

	out, err := runCommand(t, NewCompareCommand(),
		"-c", emptyConfig(t, dir), "-q", docA, docB)
	require.NoError(t, err)

	sim, parseErr := strconv.ParseFloat(strings.TrimSpace(out), 64)
	require.NoError(t, parseErr)
	assert.InDelta(t, 1.0, sim, 0)
}

func TestCompareCommand_Verdict(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	docA := writeTempDoc(t, dir, "a.json", `{"user": "alice"}`)
	docB := writeTempDoc(t, dir, "b.json", `{"user": "alice"}`)

	out, err := runCommand(t, NewCompareCommand(),
		"-c", emptyConfig(t, dir), "--no-color", docA, docB)
	require.NoError(t, err)
	assert.Contains(t, out, "DUPLICATE")
}

func TestCompareCommand_Bounded(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	docA := writeTempDoc(t, dir, "a.json", `{"alpha": {"beta": 1}}`)
	docB := writeTempDoc(t, dir, "b.json", `{"gamma": {"delta": 2}}`)

	out, err := runCommand(t, NewCompareCommand(),
		"-c", emptyConfig(t, dir), "-q", "--bounded", "--threshold", "0.9", docA, docB)
	require.NoError(t, err)

	sim, parseErr := strconv.ParseFloat(strings.TrimSpace(out), 64)
	require.NoError(t, parseErr)
	assert.Less(t, sim, 0.9)
}

func TestDedupeCommand_FindsDuplicatePair(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	docA := writeTempDoc(t, dir, "a.json", `{"user": {"name": "alice", "age": 30}}`)
	docB := writeTempDoc(t, dir, "b.json", `{"user": {"name": "alice", "age": 30}}`)
	docC := writeTempDoc(t, dir, "c.json", `{"inventory": {"sku": "X-22", "count": 7}}`)

	out, err := runCommand(t, NewDedupeCommand(),
		"-c", emptyConfig(t, dir), docA, docB, docC)
	require.NoError(t, err)

	assert.Contains(t, out, "indexed 3 documents")
	assert.Contains(t, out, "1 duplicate pairs")
	assert.Contains(t, out, "a.json")
	assert.Contains(t, out, "b.json")
}

func TestDedupeCommand_SchemaSkipsNonConforming(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	schema := writeTempDoc(t, dir, "schema.json",
		`{"type": "object", "required": ["user"]}`)
	docA := writeTempDoc(t, dir, "a.json", `{"user": {"name": "alice"}}`)
	docB := writeTempDoc(t, dir, "b.json", `{"user": {"name": "alice"}}`)
	docC := writeTempDoc(t, dir, "c.json", `{"not_user": true}`)

	out, err := runCommand(t, NewDedupeCommand(),
		"-c", emptyConfig(t, dir), "--schema", schema, docA, docB, docC)
	require.NoError(t, err)

	assert.Contains(t, out, "indexed 2 documents, 1 skipped")
	assert.Contains(t, out, "skipping "+docC)
}

func TestDedupeCommand_WritesPlot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	docA := writeTempDoc(t, dir, "a.json", `{"user": "alice"}`)
	docB := writeTempDoc(t, dir, "b.json", `{"user": "alice"}`)
	plotPath := filepath.Join(dir, "pairs.html")

	_, err := runCommand(t, NewDedupeCommand(),
		"-c", emptyConfig(t, dir), "--plot", plotPath, docA, docB)
	require.NoError(t, err)

	contents, readErr := os.ReadFile(plotPath)
	require.NoError(t, readErr)
	assert.Contains(t, string(contents), "echarts")
}

func TestDedupeCommand_BandCoverageMismatch_Fails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	docA := writeTempDoc(t, dir, "a.json", `{"a": 1}`)
	docB := writeTempDoc(t, dir, "b.json", `{"b": 2}`)

	_, err := runCommand(t, NewDedupeCommand(),
		"-c", emptyConfig(t, dir), "--bands", "3", "--rows", "5", docA, docB)
	require.Error(t, err)
}
