package terminal

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataset(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "financials.csv")
	content := "Entity,Revenue,Expenses,Tax\nAlpha Ltd,600000,350000,\nBeta Ltd,400000,250000,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cli := NewCLI(Options{Output: &out, Logger: zerolog.Nop()})
	cli.SetArgs(args)
	err := cli.Execute()
	return out.String(), err
}

func TestCLI_Analyze(t *testing.T) {
	dir := t.TempDir()
	file := writeDataset(t, dir)

	t.Run("english report", func(t *testing.T) {
		out, err := run(t, "analyze", "--file", file, "--mode", "comprehensive")

		require.NoError(t, err)
		assert.Contains(t, out, "Financial analysis")
		assert.Contains(t, out, "=== Summary ===")
		assert.Contains(t, out, "1,000,000")
		assert.Contains(t, out, "=== Recommendations ===")
	})

	t.Run("hebrew report", func(t *testing.T) {
		out, err := run(t, "analyze", "--file", file, "--language", "he")

		require.NoError(t, err)
		assert.Contains(t, out, "ניתוח פיננסי")
		assert.Contains(t, out, "=== סיכום ===")
	})

	t.Run("summary mode has no recommendations", func(t *testing.T) {
		out, err := run(t, "analyze", "--file", file, "--mode", "summary")

		require.NoError(t, err)
		assert.NotContains(t, out, "=== Recommendations ===")
	})

	t.Run("missing file flag", func(t *testing.T) {
		_, err := run(t, "analyze")
		assert.Error(t, err)
	})

	t.Run("empty dataset", func(t *testing.T) {
		empty := filepath.Join(dir, "empty.csv")
		require.NoError(t, os.WriteFile(empty, nil, 0o644))

		_, err := run(t, "analyze", "--file", empty)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file is empty")
	})
}

func TestCLI_SaveAndAsk(t *testing.T) {
	dir := t.TempDir()
	file := writeDataset(t, dir)
	db := filepath.Join(dir, "analyses.duckdb")

	out, err := run(t, "analyze", "--file", file, "--save", "--db", db)
	require.NoError(t, err)

	match := regexp.MustCompile(`Saved analysis (\S+)`).FindStringSubmatch(out)
	require.Len(t, match, 2)

	out, err = run(t, "ask", "--analysis", match[1], "--question", "What is the total tax?", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Total tax is 0.")
	assert.Contains(t, out, "intent: total_tax")
	assert.Contains(t, out, "tax_calculation")

	_, err = run(t, "ask", "--analysis", "missing", "--question", "What is the total tax?", "--db", db)
	assert.Error(t, err)
}

func TestCLI_Ask(t *testing.T) {
	dir := t.TempDir()
	file := writeDataset(t, dir)

	t.Run("from file in hebrew", func(t *testing.T) {
		out, err := run(t, "ask", "--file", file, "--question", "למה המס הוא אפס?", "--language", "he")

		require.NoError(t, err)
		assert.Contains(t, out, "intent: why_tax_zero")
	})

	t.Run("requires a source", func(t *testing.T) {
		_, err := run(t, "ask", "--question", "What is the total tax?")
		assert.Error(t, err)
	})

	t.Run("file and analysis are exclusive", func(t *testing.T) {
		_, err := run(t, "ask", "--file", file, "--analysis", "a-1", "--question", "What is the total tax?")
		assert.Error(t, err)
	})
}

func TestCLI_Recommend(t *testing.T) {
	file := writeDataset(t, t.TempDir())

	out, err := run(t, "recommend", "--file", file)

	require.NoError(t, err)
	assert.Regexp(t, `(?m)^1\. `, out)
}

func TestCLI_Suggest(t *testing.T) {
	out, err := run(t, "suggest", "--language", "he")

	require.NoError(t, err)
	assert.Contains(t, out, "מהו סך המס?")
}

func TestCLI_Config(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing config file", func(t *testing.T) {
		_, err := run(t, "suggest", "--config", filepath.Join(dir, "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("synonyms extend the resolver", func(t *testing.T) {
		data := filepath.Join(dir, "custom.csv")
		require.NoError(t, os.WriteFile(data, []byte("Proceeds,Outlays\n1000,400\n"), 0o644))
		synonyms := filepath.Join(dir, "synonyms.ini")
		require.NoError(t, os.WriteFile(synonyms, []byte("[revenue]\nexact = proceeds\n\n[expense]\nexact = outlays\n"), 0o644))

		out, err := run(t, "ask", "--file", data, "--question", "What are the total expenses?", "--synonyms", synonyms)

		require.NoError(t, err)
		assert.Contains(t, out, "Total expenses are 400")
	})
}
