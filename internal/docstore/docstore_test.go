package docstore

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	n, err := s.Put(ctx, "contracts/e1.pdf", strings.NewReader("pdf-bytes"))
	require.NoError(t, err)
	require.Equal(t, int64(9), n)

	rc, err := s.Get(ctx, "contracts/e1.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "pdf-bytes", string(data))

	// Overwrite is allowed; the latest write wins.
	_, err = s.Put(ctx, "contracts/e1.pdf", strings.NewReader("v2"))
	require.NoError(t, err)
	rc, err = s.Get(ctx, "contracts/e1.pdf")
	require.NoError(t, err)
	data, _ = io.ReadAll(rc)
	rc.Close()
	require.Equal(t, "v2", string(data))

	require.NoError(t, s.Delete(ctx, "contracts/e1.pdf"))
	_, err = s.Get(ctx, "contracts/e1.pdf")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.Delete(ctx, "contracts/e1.pdf"), ErrNotFound)
}

func Test_Memory(t *testing.T) {
	testStore(t, NewMemory())
}

func Test_Filesystem(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	testStore(t, fs)
}

func Test_Filesystem_RejectsTraversal(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)

	_, err = fs.Put(context.Background(), "../escape", strings.NewReader("x"))
	require.Error(t, err)
	_, err = fs.Get(context.Background(), "/abs/path")
	require.Error(t, err)
}

func Test_Open_SelectsDriver(t *testing.T) {
	s, err := Open(context.Background(), Config{Driver: DriverMemory})
	require.NoError(t, err)
	require.Equal(t, DriverMemory, s.Driver())

	s, err = Open(context.Background(), Config{Driver: DriverFilesystem, Root: t.TempDir()})
	require.NoError(t, err)
	require.Equal(t, DriverFilesystem, s.Driver())

	_, err = Open(context.Background(), Config{Driver: "bogus"})
	require.Error(t, err)
}
