package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/mydrive/internal/client/models"
	"github.com/dmitrijs2005/mydrive/internal/client/views"
)

func usage(s string) error {
	return errors.New("Usage: " + s)
}

func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("Invalid %s %q", what, arg)
	}
	return id, nil
}

func (a *App) Drive(ctx context.Context) error {
	return a.open(ctx, views.PathDrive)
}

func (a *App) Groups(ctx context.Context) error {
	return a.open(ctx, views.PathGroups)
}

// Section switches the drive to the named section and lists it.
func (a *App) Section(ctx context.Context, name string) error {
	if name == "" {
		return usage("section <all|recent|favourites|shared>")
	}
	s, err := models.ParseSection(name)
	if err != nil {
		return err
	}
	if err := a.drive.Select(ctx, s); err != nil {
		return err
	}
	a.printFiles()
	return nil
}

func (a *App) ListFiles(context.Context) error {
	a.printFiles()
	return nil
}

// Refresh reloads whatever the current view shows.
func (a *App) Refresh(ctx context.Context) error {
	if a.view() == views.ViewGroups {
		if err := a.groups.Refresh(ctx); err != nil {
			return err
		}
		if a.groups.State().Selected != nil {
			a.printMessages()
		} else {
			a.printGroups()
		}
		return nil
	}

	if err := a.drive.Refresh(ctx); err != nil {
		return err
	}
	a.printFiles()
	return nil
}

func (a *App) Upload(ctx context.Context, path string) error {
	if path == "" {
		return usage("upload <path>")
	}

	var size int64
	if st, err := os.Stat(path); err == nil {
		size = st.Size()
	}

	bar := newProgressBar(a.out, "Uploading "+filepath.Base(path), size)
	err := a.drive.Upload(ctx, path, bar.report)
	bar.finish()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Uploaded %s (%s)\n", filepath.Base(path), humanize.Bytes(uint64(size)))
	a.printFiles()
	return nil
}

func (a *App) Download(ctx context.Context, arg string) error {
	if arg == "" {
		return usage("download <id>")
	}
	id, err := parseID(arg, "file id")
	if err != nil {
		return err
	}

	bar := newProgressBar(a.out, "Downloading", 0)
	path, err := a.drive.Download(ctx, id, bar.report)
	bar.finish()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved to %s\n", path)
	return nil
}

func (a *App) Delete(ctx context.Context, arg string) error {
	if arg == "" {
		return usage("delete <id>")
	}
	id, err := parseID(arg, "file id")
	if err != nil {
		return err
	}

	msg, err := a.drive.Delete(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	a.printFiles()
	return nil
}

func (a *App) Favourite(ctx context.Context, arg string) error {
	if arg == "" {
		return usage("fav <id>")
	}
	id, err := parseID(arg, "file id")
	if err != nil {
		return err
	}

	fav, err := a.drive.ToggleFavourite(ctx, id)
	if err != nil {
		return err
	}
	if fav {
		fmt.Fprintln(a.out, "Added to favourites")
	} else {
		fmt.Fprintln(a.out, "Removed from favourites")
	}
	return nil
}

// printFiles lists the active drive section.
func (a *App) printFiles() {
	st := a.drive.State()
	fmt.Fprintf(a.out, "%s (%d)\n", st.Section.Title(), len(st.Files))
	if st.Err != "" {
		fmt.Fprintln(a.out, "  "+st.Err)
		return
	}
	writeFiles(a.out, st.Files, st.Section == models.SectionShared)
}

func writeFiles(w io.Writer, files []models.FileRecord, shared bool) {
	if len(files) == 0 {
		fmt.Fprintln(w, "  no files")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, f := range files {
		mark := ""
		if f.IsFavourite {
			mark = "*"
		}
		if shared && f.GroupName != "" {
			mark = strings.TrimSpace(mark + " shared in " + f.GroupName)
		}
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", f.ID, f.DisplayName(), f.FileType, mark)
	}
	_ = tw.Flush()
}
