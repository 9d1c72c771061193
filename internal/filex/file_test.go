package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureDir_RelativeBaseResolvedAgainstCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureDir("download", "")
	require.NoError(t, err)

	want := filepath.Join(tmp, "download")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}
}

func TestEnsureDir_AbsoluteBaseWithSubdir(t *testing.T) {
	tmp := t.TempDir()

	got, err := EnsureDir(tmp, "alice")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmp, "alice"), got)
}

func TestEnsureDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()

	first, err := EnsureDir(tmp, "download")
	require.NoError(t, err)

	second, err := EnsureDir(tmp, "download")
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "download"), []byte("x"), 0o660))

	_, err := EnsureDir(tmp, "download")
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "report.pdf", "report.pdf"},
		{"unix traversal", "../../etc/passwd", "passwd"},
		{"windows traversal", `..\..\boot.ini`, "boot.ini"},
		{"reserved chars", `a<b>:c?.txt`, "a_b__c_.txt"},
		{"control chars", "a\x00b\nc.txt", "abc.txt"},
		{"empty", "", "file-7"},
		{"dot dot", "..", "file-7"},
		{"spaces only", "   ", "file-7"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SafeFileName(tc.in, "file-7"))
		})
	}
}

func TestUniquePath(t *testing.T) {
	tmp := t.TempDir()

	first := UniquePath(tmp, "notes.txt")
	require.Equal(t, filepath.Join(tmp, "notes.txt"), first)
	require.NoError(t, os.WriteFile(first, []byte("1"), 0o600))

	second := UniquePath(tmp, "notes.txt")
	require.Equal(t, filepath.Join(tmp, "notes (1).txt"), second)
	require.NoError(t, os.WriteFile(second, []byte("2"), 0o600))

	assert.Equal(t, filepath.Join(tmp, "notes (2).txt"), UniquePath(tmp, "notes.txt"))
}
