package evaluate

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBundles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func bundleWith(patterns ...string) string {
	var buf bytes.Buffer
	buf.WriteString(`{"type":"bundle","objects":[`)
	for i, p := range patterns {
		if i > 0 {
			buf.WriteString(",")
		}
		fmt.Fprintf(&buf, `{"type":"indicator","pattern":%q}`, p)
	}
	buf.WriteString("]}")
	return buf.String()
}

func newTestScanner(t *testing.T) *Scanner {
	t.Helper()
	s, err := NewScanner(WithPoolSize(2))
	require.NoError(t, err)
	t.Cleanup(s.Release)
	return s
}

func TestBundleFiles(t *testing.T) {
	dir := writeBundles(t, map[string]string{
		"b.json":    "{}",
		"a.json":    "{}",
		"notes.txt": "x",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	names, err := BundleFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.json"}, names)

	_, err = BundleFiles("")
	assert.ErrorIs(t, err, ErrDirectoryRequired)

	_, err = BundleFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestScanner_Evaluate(t *testing.T) {
	files := map[string]string{
		"stix_output_002.json": bundleWith("[file:hashes.MD5 = 'aaa']"),
		"stix_output_001.json": bundleWith("[file:hashes.MD5 = 'aaa']", "[file:hashes.MD5 = 'bbb']"),
		"broken.json":          "not json",
	}
	for i := 3; i <= 12; i++ {
		files[fmt.Sprintf("stix_output_%03d.json", i)] = bundleWith()
	}
	dir := writeBundles(t, files)

	summaries, err := newTestScanner(t).Evaluate(t.Context(), dir, []string{"aaa", "bbb"})
	require.NoError(t, err)

	require.Len(t, summaries, 12, "unparseable files are skipped")
	assert.Equal(t, "stix_output_001.json", summaries[0].File)
	assert.Equal(t, 100.0, summaries[0].Percentage)
	assert.Equal(t, "stix_output_002.json", summaries[1].File)
	assert.Equal(t, []string{"bbb"}, summaries[1].Missing)
	assert.Equal(t, 50.0, summaries[1].Percentage)
	assert.Equal(t, "stix_output_012.json", summaries[11].File)
	assert.Equal(t, 0, summaries[11].Matched)
}

func TestScanner_Validate(t *testing.T) {
	dir := writeBundles(t, map[string]string{
		"good.json":   validBundle,
		"bad.json":    brokenBundle,
		"broken.json": "not json",
	})

	results, err := newTestScanner(t).Validate(t.Context(), dir)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "bad.json", results[0].File)
	assert.False(t, results[0].IsValid)
	assert.Equal(t, "broken.json", results[1].File)
	assert.False(t, results[1].IsValid)
	assert.Equal(t, "good.json", results[2].File)
	assert.True(t, results[2].IsValid)
}

func TestScanner_Cancelled(t *testing.T) {
	dir := writeBundles(t, map[string]string{"a.json": bundleWith()})
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := newTestScanner(t).Evaluate(ctx, dir, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrintSummaries(t *testing.T) {
	var buf bytes.Buffer
	PrintSummaries(&buf, []Summary{{
		File:       "stix_output_001.json",
		Matched:    1,
		Total:      2,
		Percentage: 50,
		Missing:    []string{"bbb"},
	}})

	out := buf.String()
	assert.Contains(t, out, "stix_output_001.json: 1/2 matched (50.00%)")
	assert.Contains(t, out, "Missing (1):")
	assert.Contains(t, out, "- bbb")
	assert.NotContains(t, out, "Repeated")
}

func TestPrintValidations(t *testing.T) {
	var buf bytes.Buffer
	PrintValidations(&buf, []Validation{
		{File: "good.json", IsValid: true},
		{File: "bad.json", Errors: []string{"objects[0]: empty pattern"}},
	})

	out := buf.String()
	assert.Contains(t, out, "good.json: valid")
	assert.Contains(t, out, "bad.json: INVALID")
	assert.Contains(t, out, "  - objects[0]: empty pattern")
}
