package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/geodata/internal/i18n"
	importerdomain "github.com/smallbiznis/geodata/internal/importer/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRootCmd_Subcommands(t *testing.T) {
	cmd := getRootCmd()
	assert.Equal(t, "geodata", cmd.Use)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"serve", "migrate", "import", "export"} {
		assert.Contains(t, names, want)
	}
}

func TestGetRootCmd_Version(t *testing.T) {
	cmd := getRootCmd()
	cmd.Version = "v1.2.3"

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "v1.2.3\n", buf.String())
}

func TestExportCmd_NeedsEntityOrAll(t *testing.T) {
	for _, args := range [][]string{
		{"export"},
		{"export", "countries", "--all"},
	} {
		cmd := getRootCmd()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetArgs(args)
		err := cmd.Execute()
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "--all")
	}
}

func TestExportCmd_RejectsFormat(t *testing.T) {
	cmd := getRootCmd()
	cmd.SetArgs([]string{"export", "countries", "--format", "pdf"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"pdf"`)
}

func TestImportCmd_Arguments(t *testing.T) {
	cmd := getRootCmd()
	cmd.SetArgs([]string{"import", "countries"})
	assert.Error(t, cmd.Execute())

	cmd = getRootCmd()
	cmd.SetArgs([]string{"import", "planets", "planets.csv"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "planets")
}

func TestReportImportError_ListsProblems(t *testing.T) {
	verr := &importerdomain.ValidationError{
		Entity: importerdomain.EntityRegions,
		Problems: []importerdomain.Problem{
			importerdomain.NewMessage(i18n.MsgRegionCountryMismatch),
			&importerdomain.ReferentialError{Entity: importerdomain.EntityCountries, Code: "PE"},
		},
	}

	var out bytes.Buffer
	err := reportImportError(&out, "es", verr)
	require.Error(t, err)
	assert.Equal(t, "regions rejected with 2 problems", err.Error())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "- El país con código PE no existe", lines[1])
}

func TestReportImportError_LocalizesSingleProblem(t *testing.T) {
	err := reportImportError(new(bytes.Buffer), "en", &importerdomain.MissingContextError{Entity: importerdomain.EntityCities})
	assert.EqualError(t, err, i18n.MsgCityCountryRequired)

	plain := errors.New("boom")
	assert.Equal(t, plain, reportImportError(new(bytes.Buffer), "en", plain))
}

func TestPrintImportResult(t *testing.T) {
	var out bytes.Buffer
	runID := ulid.Make().String()
	printImportResult(&out, &importerdomain.Result{
		RunID:        runID,
		Entity:       importerdomain.EntityCities,
		Imported:     1250,
		Created:      1000,
		Skipped:      3,
		Translations: 2500,
	})
	assert.Equal(t, "imported 1,250 cities (1,000 created, 3 skipped, 2,500 translations) run "+runID+"\n", out.String())
}
