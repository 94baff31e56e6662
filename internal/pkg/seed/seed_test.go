package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func regionLoader(t *testing.T, cfg Config) loader {
	t.Helper()
	for _, l := range loaders(cfg) {
		if l.table == "region_code" {
			return l
		}
	}
	t.Fatal("no region_code loader")
	return loader{}
}

func TestRegionLoaderPrefersCSV(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "지역코드.csv"), []byte("code,sido,sigungu\n"), 0o644))

	cfg := DefaultConfig()
	cfg.Dir = dir
	assert.Equal(t, "지역코드.csv", regionLoader(t, cfg).file)
}

func TestRegionLoaderFallsBackToDump(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dir = t.TempDir()
	assert.Equal(t, cfg.RegionDumpFile, regionLoader(t, cfg).file)

	// An explicit dump path replaces the CSV even when the directory exists.
	cfg.RegionCodesFile = ""
	cfg.RegionDumpFile = "/srv/data/법정동코드 전체자료.txt"
	assert.Equal(t, cfg.RegionDumpFile, regionLoader(t, cfg).file)
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), nil, 0o644))

	assert.True(t, fileExists(dir, "a.csv"))
	assert.True(t, fileExists("", filepath.Join(dir, "a.csv")))
	assert.False(t, fileExists(dir, "b.csv"))
	assert.False(t, fileExists(dir, ""))
	assert.False(t, fileExists(filepath.Dir(dir), filepath.Base(dir)))
}
