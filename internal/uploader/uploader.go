// Package uploader ships case directories to remote object storage.
package uploader

import "context"

// Uploader pushes one case directory and returns its remote location.
type Uploader interface {
	Enabled() bool
	UploadDir(ctx context.Context, dir string) (string, error)
}

// NoopUploader is used when no remote storage is configured.
type NoopUploader struct{}

func (n NoopUploader) Enabled() bool {
	return false
}

func (n NoopUploader) UploadDir(ctx context.Context, dir string) (string, error) {
	return "", nil
}

// caseFiles lists the files to push for a case directory. When the compressed
// case archive is present only it and the summary are uploaded; everything
// else is inside the archive.
func caseFiles(entries []string, archiveName string) []string {
	hasArchive := false
	for _, name := range entries {
		if name == archiveName {
			hasArchive = true
			break
		}
	}
	if !hasArchive {
		return entries
	}
	out := make([]string, 0, 2)
	for _, name := range entries {
		if name == archiveName || name == "summary.json" {
			out = append(out, name)
		}
	}
	return out
}
