package semver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainward/devkit/internal/execx"
)

func TestCurrentReadsVersionFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, VersionFile), []byte("3.1.4\n"), 0o644))

	r := &Resolver{Dir: dir}
	assert.Equal(t, "3.1.4", r.Current().String())
}

func TestCurrentFallsBackToZero(t *testing.T) {
	r := &Resolver{Dir: t.TempDir()}
	assert.Equal(t, "0.0.0", r.Current().String())
}

func TestCurrentFallsBackOnGarbage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, VersionFile), []byte("not a version"), 0o644))

	r := &Resolver{Dir: dir}
	assert.Equal(t, "0.0.0", r.Current().String())
}

func TestSetRewritesTrackedFiles(t *testing.T) {
	dir := t.TempDir()
	pkg := `{"name": "demo", "version": "0.1.0", "private": true}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(pkg), 0o644))

	r := &Resolver{Dir: dir}
	require.NoError(t, r.Set(MustParse("2.0.1")))

	assert.Equal(t, "2.0.1", r.Current().String())

	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": "2.0.1"`)
	assert.Contains(t, string(data), `"name": "demo"`)
}

func TestSetIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	pkg := `{"version": "0.1.0"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(pkg), 0o644))

	r := &Resolver{Dir: dir}
	require.NoError(t, r.Set(MustParse("1.0.0")))

	first, err := os.ReadFile(filepath.Join(dir, "package.json"))
	require.NoError(t, err)
	firstVersion, err := os.ReadFile(filepath.Join(dir, VersionFile))
	require.NoError(t, err)

	require.NoError(t, r.Set(MustParse("1.0.0")))

	second, err := os.ReadFile(filepath.Join(dir, "package.json"))
	require.NoError(t, err)
	secondVersion, err := os.ReadFile(filepath.Join(dir, VersionFile))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstVersion, secondVersion)
}

func TestSetWithoutPackageJSON(t *testing.T) {
	r := &Resolver{Dir: t.TempDir()}
	require.NoError(t, r.Set(MustParse("1.2.3")))
	assert.Equal(t, "1.2.3", r.Current().String())
}

func TestLatestTagSkipsNonSemverTags(t *testing.T) {
	fake := execx.NewFake().Respond("git tag", execx.FakeResponse{
		Stdout: "nightly\nv2.1.0\nv2.0.0\n",
	})

	v, ok := LatestTag(fake)
	require.True(t, ok)
	assert.Equal(t, "2.1.0", v.String())
}

func TestLatestTagNoTags(t *testing.T) {
	fake := execx.NewFake().Respond("git tag", execx.FakeResponse{Stdout: "\n"})

	_, ok := LatestTag(fake)
	assert.False(t, ok)
}

func TestCommitChangeMessageByKind(t *testing.T) {
	fake := execx.NewFake()
	require.NoError(t, CommitChange(fake, MustParse("2.0.0"), Major))

	assert.True(t, fake.CalledWith("git commit -m chore(release): bump major version to 2.0.0"))
}
