package pathres

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectHost(t *testing.T) {
	release := func(s string) func() (string, error) {
		return func() (string, error) { return s, nil }
	}

	assert.Equal(t, DriveLetter, DetectHost("windows", nil))
	assert.Equal(t, Mount, DetectHost("linux", release("5.15.90.1-microsoft-standard-WSL2\n")))
	assert.Equal(t, Mount, DetectHost("linux", release("4.4.0-19041-Microsoft")))
	assert.Equal(t, Posix, DetectHost("linux", release("6.8.0-45-generic")))
	assert.Equal(t, Posix, DetectHost("darwin", func() (string, error) { return "", errors.New("no such file") }))
	assert.Equal(t, Posix, DetectHost("linux", nil))
}

func TestTranslateMountHost(t *testing.T) {
	r := New(WithConvention(Mount))

	assert.Equal(t, "/mnt/c/Users/me/app", r.Translate(`C:\Users\me\app`))
	assert.Equal(t, "/mnt/d/work", r.Translate(`D:\work\`))
	assert.Equal(t, "/mnt/c", r.Translate(`c:\`))
	assert.Equal(t, "/home/me/app", r.Translate("/home/me/./app/../app"))
}

func TestTranslateDriveLetterHost(t *testing.T) {
	r := New(WithConvention(DriveLetter))

	assert.Equal(t, `C:\Users\me\app`, r.Translate("/mnt/c/Users/me/app"))
	assert.Equal(t, `E:\`, r.Translate("/mnt/e"))
	assert.Equal(t, `D:\data`, r.Translate("/mnt/d/data/"))
}

func TestTranslatePosixHostPassesThrough(t *testing.T) {
	r := New(WithConvention(Posix))

	assert.Equal(t, "a/b", r.Translate("a//b/./"))
	assert.Equal(t, ".", r.Translate(""))
	assert.Equal(t, "/mnt/c/x", r.Translate("/mnt/c/x"))
}

func TestResolveExistingDirectory(t *testing.T) {
	dir := t.TempDir()
	r := New(WithConvention(Posix))

	got, err := r.Resolve(dir + "/./")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(dir), got)
}

func TestResolveMissingDirectory(t *testing.T) {
	r := New(WithConvention(Mount))

	_, err := r.Resolve(`Q:\definitely\missing`)
	require.Error(t, err)

	var notFound *PathNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "/mnt/q/definitely/missing", notFound.Resolved)
	assert.Contains(t, err.Error(), "/mnt/q/definitely/missing")
	assert.Contains(t, err.Error(), "/mnt/c/Users/me/app")
}

func TestResolveFileIsNotDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := New(WithConvention(Posix)).Resolve(file)
	var notFound *PathNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Contains(t, err.Error(), file)
}

func TestResolveUsesInjectedStat(t *testing.T) {
	var statted string
	stat := func(p string) (os.FileInfo, error) {
		statted = p
		return os.Stat(os.TempDir())
	}
	r := New(WithConvention(DriveLetter), WithStat(stat))

	got, err := r.Resolve("/mnt/c/projects/app")
	require.NoError(t, err)
	assert.Equal(t, `C:\projects\app`, got)
	assert.Equal(t, `C:\projects\app`, statted)
	assert.Contains(t, (&PathNotFoundError{Host: DriveLetter}).Error(), `C:\Users\me\app`)
}
