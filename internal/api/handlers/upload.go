package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// maxUploadMemory bounds what multipart parsing keeps in memory; the rest
// spills to disk.
const maxUploadMemory = 32 << 20

// spoolFormFile writes the named multipart file to the spool directory and
// returns its local path, or "" when the field is absent. The ingest adapter
// removes the spooled file once it has been consumed.
func spoolFormFile(r *http.Request, field, dir string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil
		}
		return "", err
	}
	defer file.Close()

	return spool(file, header, dir)
}

func spool(file multipart.File, header *multipart.FileHeader, dir string) (string, error) {
	ext := filepath.Ext(header.Filename)
	local := filepath.Join(dir, fmt.Sprintf("upload-%s%s", uuid.New().String(), ext))

	out, err := os.Create(local)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(local)
		return "", err
	}
	return local, nil
}
