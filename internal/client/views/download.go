package views

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/mydrive/internal/client/client"
	"github.com/dmitrijs2005/mydrive/internal/filex"
	"github.com/dmitrijs2005/mydrive/internal/netx"
)

// downloadTo saves file id into dir under name, never overwriting an
// existing file. A failed transfer leaves nothing behind.
func downloadTo(ctx context.Context, c client.Client, dir string, id int64, name string, onProgress netx.ProgressFunc) (string, error) {
	base, err := filex.EnsureDir(dir, "")
	if err != nil {
		return "", err
	}

	path := filex.UniquePath(base, filex.SafeFileName(name, fmt.Sprintf("file-%d", id)))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", err
	}

	_, err = c.DownloadFile(ctx, id, f, onProgress)
	err = errors.Join(err, f.Close())
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}
