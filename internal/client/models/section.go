package models

import (
	"fmt"
	"strings"
)

// Section selects which listing the drive view shows.
type Section string

const (
	SectionAll        Section = "all"
	SectionRecent     Section = "recent"
	SectionFavourites Section = "favourites"
	SectionShared     Section = "shared"
)

// Sections lists every section in menu order.
var Sections = []Section{SectionAll, SectionRecent, SectionFavourites, SectionShared}

// RecentCount is how many trailing entries of the full listing form Recent.
const RecentCount = 3

func (s Section) Title() string {
	switch s {
	case SectionAll:
		return "My Files"
	case SectionRecent:
		return "Recent"
	case SectionFavourites:
		return "Favourites"
	case SectionShared:
		return "Shared with me"
	}
	return string(s)
}

// ParseSection maps user input to a Section.
func ParseSection(s string) (Section, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "my", "mydrive", "files":
		return SectionAll, nil
	case "recent", "recents":
		return SectionRecent, nil
	case "fav", "favs", "favourite", "favourites", "favorites":
		return SectionFavourites, nil
	case "shared":
		return SectionShared, nil
	}
	return "", fmt.Errorf("unknown section %q (all, recent, fav, shared)", s)
}

// Recent returns the last RecentCount entries of all, in the same order.
func Recent(all []FileRecord) []FileRecord {
	if len(all) <= RecentCount {
		return append([]FileRecord(nil), all...)
	}
	return append([]FileRecord(nil), all[len(all)-RecentCount:]...)
}
