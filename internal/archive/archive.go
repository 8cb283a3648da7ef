// Package archive prepares update payloads for upload. Directories are
// zipped into a temporary archive; plain files are passed through untouched.
package archive

import (
	"archive/zip"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/souhouse/code-push/internal/constants"
)

const archiveNameAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Packager turns an update path into an uploadable file.
type Packager struct {
	fs afero.Fs
}

// NewPackager creates a packager on the given filesystem.
func NewPackager(fs afero.Fs) *Packager {
	return &Packager{fs: fs}
}

// Prepare returns the path of the file to upload for the given update path.
// A plain file is used as-is. A directory is walked in lexical order and
// written to a fresh zip archive in the temp directory, so identical
// contents always produce identical archives. The returned flag reports
// whether the path is a temporary file the caller must delete when done.
func (p *Packager) Prepare(updatePath string) (string, bool, error) {
	info, err := p.fs.Stat(updatePath)
	if err != nil {
		return "", false, fmt.Errorf("failed to inspect update path: %w", err)
	}
	if !info.IsDir() {
		return updatePath, false, nil
	}

	archivePath, err := p.zipDirectory(updatePath)
	if err != nil {
		return "", false, err
	}
	return archivePath, true, nil
}

// Remove deletes a temporary archive produced by Prepare.
func (p *Packager) Remove(archivePath string) error {
	return p.fs.Remove(archivePath)
}

func (p *Packager) zipDirectory(root string) (string, error) {
	name, err := randomArchiveName()
	if err != nil {
		return "", err
	}
	archivePath := filepath.Join(afero.GetTempDir(p.fs, ""), name)

	out, err := p.fs.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}

	if err := p.writeArchive(out, root); err != nil {
		_ = out.Close()
		_ = p.fs.Remove(archivePath)
		return "", err
	}
	if err := out.Close(); err != nil {
		_ = p.fs.Remove(archivePath)
		return "", fmt.Errorf("failed to finish archive: %w", err)
	}
	return archivePath, nil
}

func (p *Packager) writeArchive(out io.Writer, root string) error {
	writer := zip.NewWriter(out)

	err := afero.Walk(p.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		// Symlinks and other irregular entries have no place in an
		// update payload.
		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		entry, err := writer.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}

		file, err := p.fs.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(entry, file)
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
		return err
	})
	if err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to package %s: %w", root, err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return nil
}

func randomArchiveName() (string, error) {
	buf := make([]byte, constants.TempArchiveNameLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate archive name: %w", err)
	}
	for i, b := range buf {
		buf[i] = archiveNameAlphabet[int(b)%len(archiveNameAlphabet)]
	}
	return string(buf) + ".zip", nil
}
