package views

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/dmitrijs2005/mydrive/internal/client/client"
	"github.com/dmitrijs2005/mydrive/internal/client/models"
	"github.com/dmitrijs2005/mydrive/internal/logging"
	"github.com/dmitrijs2005/mydrive/internal/netx"
)

// DriveState is a snapshot of the drive view for rendering.
type DriveState struct {
	Section        models.Section
	Files          []models.FileRecord
	Loaded         bool
	Loading        bool
	Err            string
	UploadProgress int
	Downloads      map[int64]int
}

// Drive lists the user's files under one of four sections and runs file
// actions. Each section has its own cache; Recent is always derived from
// the All listing.
type Drive struct {
	client      client.Client
	session     SessionSource
	downloadDir string
	log         logging.Logger

	mu        sync.Mutex
	active    models.Section
	files     map[models.Section][]models.FileRecord
	loaded    map[models.Section]bool
	gen       uint64
	loading   bool
	err       string
	upload    int
	downloads map[int64]int
}

func NewDrive(c client.Client, session SessionSource, downloadDir string, log logging.Logger) *Drive {
	return &Drive{
		client:      c,
		session:     session,
		downloadDir: downloadDir,
		log:         log,
		active:      models.SectionAll,
		files:       make(map[models.Section][]models.FileRecord),
		loaded:      make(map[models.Section]bool),
		downloads:   make(map[int64]int),
	}
}

// State returns a copy of the view state for the active section.
func (d *Drive) State() DriveState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DriveState{
		Section:        d.active,
		Files:          slices.Clone(d.files[d.active]),
		Loaded:         d.loaded[d.active],
		Loading:        d.loading,
		Err:            d.err,
		UploadProgress: d.upload,
		Downloads:      maps.Clone(d.downloads),
	}
}

func (d *Drive) Section() models.Section {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Err is the message of the last failed action, or "".
func (d *Drive) Err() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Mount loads the active section. Every mount fetches, so returning to
// the drive shows changes made elsewhere.
func (d *Drive) Mount(ctx context.Context) error {
	return d.fetch(ctx, d.Section())
}

// Select makes section active and loads it. Selecting the section that is
// already active and loaded does nothing; use Refresh for that.
func (d *Drive) Select(ctx context.Context, section models.Section) error {
	d.mu.Lock()
	same := d.active == section && d.loaded[section]
	d.active = section
	d.mu.Unlock()

	if same {
		return nil
	}
	return d.fetch(ctx, section)
}

// Refresh refetches the active section.
func (d *Drive) Refresh(ctx context.Context) error {
	return d.fetch(ctx, d.Section())
}

// fetch replaces the cache of section with a fresh listing. A response
// that arrives after a newer fetch has started is dropped.
func (d *Drive) fetch(ctx context.Context, section models.Section) error {
	id := d.session.Current()
	if id == nil || id.Username == "" {
		return d.fail(message(msgNoUsername))
	}

	d.mu.Lock()
	d.gen++
	gen := d.gen
	d.loading = true
	d.mu.Unlock()

	files, err := d.client.ListFiles(ctx, id.Username, section)

	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.gen {
		d.log.Debug(ctx, "dropping superseded file listing", "section", section, "generation", gen)
		return nil
	}
	d.loading = false

	if err != nil {
		d.log.Warn(ctx, "list files failed", "section", section, "error", err)
		e := failure("Failed to load files: ", err)
		d.err = e.Message
		return e
	}

	switch section {
	case models.SectionAll, models.SectionRecent:
		d.files[models.SectionAll] = files
		d.files[models.SectionRecent] = models.Recent(files)
		d.loaded[models.SectionAll] = true
		d.loaded[models.SectionRecent] = true
	default:
		d.files[section] = files
		d.loaded[section] = true
	}
	d.err = ""
	return nil
}

func (d *Drive) fail(e *Error) *Error {
	d.mu.Lock()
	d.err = e.Message
	d.mu.Unlock()
	return e
}

// Upload sends the local file at path, then refetches the active section
// whether or not the upload succeeded. Upload progress returns to 0 when
// done.
func (d *Drive) Upload(ctx context.Context, path string, onProgress netx.ProgressFunc) error {
	id := d.session.Current()
	if id == nil || id.Username == "" {
		return d.fail(message(msgNoUsername))
	}

	f, err := os.Open(path)
	if err != nil {
		return d.fail(&Error{Message: "Failed to upload file: " + err.Error(), Err: err})
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return d.fail(&Error{Message: "Failed to upload file: " + err.Error(), Err: err})
	}
	if st.IsDir() {
		return d.fail(message("Failed to upload file: " + path + " is a directory"))
	}

	d.setUpload(0)
	_, upErr := d.client.UploadFile(ctx, id.ID, filepath.Base(path), f, st.Size(), func(p int) {
		d.setUpload(p)
		if onProgress != nil {
			onProgress(p)
		}
	})
	d.setUpload(0)

	if upErr != nil {
		d.log.Warn(ctx, "upload failed", "path", path, "error", upErr)
	} else {
		d.log.Info(ctx, "uploaded", "path", path, "size", st.Size())
	}

	fetchErr := d.Refresh(ctx)

	if upErr != nil {
		return d.fail(failure("Failed to upload file: ", upErr))
	}
	return fetchErr
}

func (d *Drive) setUpload(p int) {
	d.mu.Lock()
	d.upload = p
	d.mu.Unlock()
}

func (d *Drive) setDownload(id int64, p int) {
	d.mu.Lock()
	if p <= 0 {
		delete(d.downloads, id)
	} else {
		d.downloads[id] = p
	}
	d.mu.Unlock()
}

// Download saves file id into the download directory and returns the
// written path. The name comes from any cached listing.
func (d *Drive) Download(ctx context.Context, id int64, onProgress netx.ProgressFunc) (string, error) {
	name := d.fileName(id)

	d.setDownload(id, 0)
	path, err := downloadTo(ctx, d.client, d.downloadDir, id, name, func(p int) {
		d.setDownload(id, p)
		if onProgress != nil {
			onProgress(p)
		}
	})
	d.setDownload(id, 0)

	if err != nil {
		d.log.Warn(ctx, "download failed", "file_id", id, "error", err)
		return "", d.fail(failure("Failed to download file: ", err))
	}

	d.mu.Lock()
	d.err = ""
	d.mu.Unlock()
	return path, nil
}

func (d *Drive) fileName(id int64) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, s := range models.Sections {
		if f, ok := models.FindFile(d.files[s], id); ok {
			return f.DisplayName()
		}
	}
	return fmt.Sprintf("file-%d", id)
}

var errSharedReadOnly = errors.New("not available for files shared in groups")

// Delete removes file id on the server and refetches the active section.
func (d *Drive) Delete(ctx context.Context, id int64) (string, error) {
	if d.Section() == models.SectionShared {
		return "", d.fail(failure("Failed to delete file: ", errSharedReadOnly))
	}

	msg, err := d.client.DeleteFile(ctx, id)
	fetchErr := d.Refresh(ctx)
	if err != nil {
		return "", d.fail(failure("Failed to delete file: ", err))
	}
	return msg, fetchErr
}

// ToggleFavourite flips the favourite flag of file id in the active
// section and refetches.
func (d *Drive) ToggleFavourite(ctx context.Context, id int64) (bool, error) {
	d.mu.Lock()
	section := d.active
	rec, ok := models.FindFile(d.files[section], id)
	d.mu.Unlock()

	const prefix = "Failed to update favourite status: "
	if section == models.SectionShared {
		return false, d.fail(failure(prefix, errSharedReadOnly))
	}
	if !ok {
		return false, d.fail(message(prefix + fmt.Sprintf("file %d is not in this list", id)))
	}

	value := !rec.IsFavourite
	_, err := d.client.SetFavourite(ctx, id, value)
	if err == nil {
		d.markFavourite(id, value)
	}

	fetchErr := d.Refresh(ctx)
	if err != nil {
		return rec.IsFavourite, d.fail(failure(prefix, err))
	}
	return value, fetchErr
}

func (d *Drive) markFavourite(id int64, value bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, files := range d.files {
		for i := range files {
			if files[i].ID == id {
				files[i].IsFavourite = value
			}
		}
	}
}
