package oalist

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureCSV = `File,Article Citation,Accession ID,Last Updated (YYYY-MM-DD HH:MM:SS),PMID,License
oa_package/aa/bb/PMC100.tar.gz,Stroke outcomes in adults. J Neurol 2024,PMC100,2024-06-01 10:00:00,11111,CC BY
oa_package/cc/dd/PMC200.tar.gz,Statin therapy revisited. Lancet 2025,PMC200,2025-01-15 09:30:00,22222,CC BY
oa_package/ee/ff/PMC300.tar.gz,An untitled note,PMC300,,33333,CC BY
oa_package/gg/hh/PMC400.tar.gz,Unrelated paper. BMJ 2023,PMC400,2023-02-02 08:00:00,44444,CC BY
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oa_file_list.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtureCSV), 0o600))
	return path
}

func TestResolve_MatchesAndSortsNewestFirst(t *testing.T) {
	idx := New(Config{CachePath: writeFixture(t)})

	papers, err := idx.Resolve(context.Background(), []string{"PMC100", "PMC200"})
	require.NoError(t, err)
	require.Len(t, papers, 2)

	assert.Equal(t, "PMC200", papers[0].PMCID)
	assert.Equal(t, "PMC100", papers[1].PMCID)
	assert.Equal(t, "Statin therapy revisited", papers[0].Title)
	assert.Equal(t, "oa_package/cc/dd/PMC200.tar.gz", papers[0].ArchivePath)
}

func TestResolve_UnknownIDsAreSkipped(t *testing.T) {
	idx := New(Config{CachePath: writeFixture(t)})

	papers, err := idx.Resolve(context.Background(), []string{"PMC100", "PMC999"})
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "PMC100", papers[0].PMCID)
}

func TestResolve_BlankDateGetsPlaceholder(t *testing.T) {
	idx := New(Config{CachePath: writeFixture(t)})

	papers, err := idx.Resolve(context.Background(), []string{"PMC300"})
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, placeholderDate, papers[0].LastUpdated)
}

func TestResolve_EmptyInput(t *testing.T) {
	idx := New(Config{CachePath: writeFixture(t)})

	papers, err := idx.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, papers)
}

func TestResolve_CitationWithoutPeriod(t *testing.T) {
	idx := New(Config{CachePath: writeFixture(t)})

	papers, err := idx.Resolve(context.Background(), []string{"PMC300"})
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "An untitled note", papers[0].Title)
}
