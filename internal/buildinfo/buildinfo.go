// Package buildinfo exposes version data injected at link time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/mydrive/internal/buildinfo.Version=v1.2.0 \
//	  -X github.com/dmitrijs2005/mydrive/internal/buildinfo.Date=$(date -u +%F) \
//	  -X github.com/dmitrijs2005/mydrive/internal/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version = "N/A"
	Date    = "N/A"
	Commit  = "N/A"
)

// PrintBuildData writes version, date and commit to w, one per line.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build date: %s\n", Date)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
}

// String is the one-line form used in logs and the dev server banner.
func String() string {
	return fmt.Sprintf("%s (%s, %s)", Version, Commit, Date)
}
