package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brent-soan/CSADPRG/internal/config"
	apperrors "github.com/brent-soan/CSADPRG/internal/errors"
	"github.com/brent-soan/CSADPRG/internal/shared/testutil"
	"github.com/brent-soan/CSADPRG/pkg/contracts/domain"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { cfgFile, inputFile, outputDir = "", "", "" })

	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.Execute()
	return out.String(), err
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(t, "", "schema")
	require.NoError(t, err)

	assert.Contains(t, out, "SOURCE HEADER")
	assert.Contains(t, out, "ApprovedBudgetForContract")
	assert.Contains(t, out, "funding_year")
	assert.Contains(t, out, "22")
}

func TestRunCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteContractsCSV(t, dir, "contracts.csv", testutil.SampleContracts()...)
	output := filepath.Join(dir, "out")

	out, err := execute(t, "", "run", "--json", "--input", input, "--output", output)
	require.NoError(t, err)

	var m domain.Manifest
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, input, m.Source)
	assert.Equal(t, 3, m.Summary.TotalProjects)
	require.Len(t, m.Reports, 3)
	assert.Equal(t, filepath.Join(output, config.Report1FileName), m.Reports[0].FilePath)
	assert.FileExists(t, filepath.Join(output, config.SummaryFileName))
}

func TestRunCommand_Preview(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteContractsCSV(t, dir, "contracts.csv", testutil.SampleContracts()...)

	out, err := execute(t, "", "run", "--preview", "1", "--input", input, "--output", filepath.Join(dir, "out"))
	require.NoError(t, err)

	assert.Contains(t, out, "5 rows loaded, 3 kept after cleaning")
	assert.Contains(t, out, "Regional Flood Mitigation Efficiency Summary")
	assert.Contains(t, out, "1 more rows")
	assert.Contains(t, out, "wrote "+filepath.Join(dir, "out", config.WorkbookFileName))
}

func TestRunCommand_MissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "", "run", "--input", filepath.Join(dir, "missing.csv"), "--output", dir)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	assert.NoFileExists(t, filepath.Join(dir, config.Report1FileName))
}

func TestRootCommand_Menu(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteContractsCSV(t, dir, "contracts.csv", testutil.SampleContracts()...)

	out, err := execute(t, "2\n1\n3\n", "--input", input, "--output", filepath.Join(dir, "out"))
	require.NoError(t, err)

	assert.Contains(t, out, "please load the file first")
	assert.Contains(t, out, "5 rows loaded, 3 kept after cleaning")
	assert.Contains(t, out, "Thank you")
}
