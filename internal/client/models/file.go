package models

import "fmt"

// FileRecord describes one stored file as returned by the server.
// GroupName is only filled for entries of the Shared section.
type FileRecord struct {
	ID          int64  `json:"id"`
	FileName    string `json:"fileName"`
	FileType    string `json:"fileType"`
	IsFavourite bool   `json:"isFavourite"`
	GroupName   string `json:"groupName,omitempty"`
}

// DisplayName is the name used for listings and for files saved to disk.
func (f FileRecord) DisplayName() string {
	if f.FileName == "" {
		return fmt.Sprintf("file-%d", f.ID)
	}
	return f.FileName
}

// FindFile returns the record with the given id.
func FindFile(files []FileRecord, id int64) (FileRecord, bool) {
	for _, f := range files {
		if f.ID == id {
			return f, true
		}
	}
	return FileRecord{}, false
}
