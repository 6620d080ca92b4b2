package repo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/repomgr/repoman/internal/models"
)

func TestRenderAndParseDescRoundTrip(t *testing.T) {
	meta := &models.PkgMeta{
		Filename:  "foo-1.0-1-x86_64.pkg.tar.zst",
		Name:      "foo",
		Version:   "1.0-1",
		Desc:      "a test package",
		Size:      1234,
		ISize:     5678,
		MD5Sum:    "aaaa",
		SHA256Sum: "bbbb",
		URL:       "https://example.invalid",
		License:   []string{"MIT", "GPL"},
		Arch:      "x86_64",
		BuildDate: 1700000000,
		Packager:  "Test <test@example.invalid>",
	}

	rendered := renderDesc(meta)
	blocks := parseBlocks([]byte(rendered))

	got := &models.PkgMeta{}
	applyDescBlocks(got, blocks)

	require.Equal(t, meta.Filename, got.Filename)
	require.Equal(t, meta.Name, got.Name)
	require.Equal(t, meta.Version, got.Version)
	require.Equal(t, meta.Desc, got.Desc)
	require.Equal(t, meta.Size, got.Size)
	require.Equal(t, meta.ISize, got.ISize)
	require.Equal(t, meta.MD5Sum, got.MD5Sum)
	require.Equal(t, meta.SHA256Sum, got.SHA256Sum)
	require.Equal(t, meta.URL, got.URL)
	require.Equal(t, meta.License, got.License)
	require.Equal(t, meta.Arch, got.Arch)
	require.Equal(t, meta.BuildDate, got.BuildDate)
	require.Equal(t, meta.Packager, got.Packager)
}

func TestRenderDescOmitsPGPSIGWhenAbsent(t *testing.T) {
	meta := &models.PkgMeta{Name: "foo", Version: "1.0-1"}
	rendered := renderDesc(meta)
	require.NotContains(t, rendered, "%PGPSIG%")
}

func TestRenderDescIncludesPGPSIGWhenPresent(t *testing.T) {
	meta := &models.PkgMeta{Name: "foo", Version: "1.0-1", Base64Sig: "deadbeef"}
	rendered := renderDesc(meta)
	require.Contains(t, rendered, "%PGPSIG%\ndeadbeef\n")
}

func TestRenderAndParseDependsRoundTrip(t *testing.T) {
	meta := &models.PkgMeta{
		Depends:     []string{"bar>=1.0", "baz"},
		Conflicts:   []string{"qux"},
		Provides:    []string{"foo-compat"},
		OptDepends:  []string{"quux: extra"},
		MakeDepends: []string{"build-dep"},
	}

	rendered := renderDepends(meta)
	blocks := parseBlocks([]byte(rendered))

	got := &models.PkgMeta{}
	applyDependsBlocks(got, blocks)

	require.Equal(t, meta.Depends, got.Depends)
	require.Equal(t, meta.Conflicts, got.Conflicts)
	require.Equal(t, meta.Provides, got.Provides)
	require.Equal(t, meta.OptDepends, got.OptDepends)
	require.Equal(t, meta.MakeDepends, got.MakeDepends)
}

func TestRenderAndParseFilesRoundTrip(t *testing.T) {
	meta := &models.PkgMeta{Files: []string{"usr/bin/foo", "usr/share/doc/foo/README"}}

	rendered := renderFiles(meta)
	blocks := parseBlocks([]byte(rendered))

	got := &models.PkgMeta{}
	applyFilesBlocks(got, blocks)

	require.Equal(t, meta.Files, got.Files)
}

func TestParseBlocksReturnsUnknownHeaders(t *testing.T) {
	blocks := parseBlocks([]byte("%NAME%\nfoo\n\n%SOMETHING_NEW%\nvalue\n\n"))
	require.Equal(t, []string{"foo"}, blocks["NAME"])
	require.Equal(t, []string{"value"}, blocks["SOMETHING_NEW"])
}
