package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/nwaples/rardecode/v2"
)

func (l *Loader) gunzip(raw []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return l.limitedRead(zr)
}

// extractFromZIP extracts the first VGM member of a ZIP archive
func (l *Loader) extractFromZIP(raw []byte) ([]byte, string, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, "", fmt.Errorf("failed to open zip: %w", err)
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !isStreamFile(f.Name) {
			continue
		}
		data, err := l.openEntry(f.Open)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		return data, filepath.Base(f.Name), nil
	}
	return nil, "", ErrNoStream
}

// extractFrom7z extracts the first VGM member of a 7z archive
func (l *Loader) extractFrom7z(raw []byte) ([]byte, string, error) {
	r, err := sevenzip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, "", fmt.Errorf("failed to open 7z: %w", err)
	}

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !isStreamFile(f.Name) {
			continue
		}
		data, err := l.openEntry(f.Open)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		return data, filepath.Base(f.Name), nil
	}
	return nil, "", ErrNoStream
}

// extractFromRAR extracts the first VGM member of a RAR archive
func (l *Loader) extractFromRAR(raw []byte) ([]byte, string, error) {
	r, err := rardecode.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("failed to open rar: %w", err)
	}

	for {
		header, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read rar entry: %w", err)
		}
		if header.IsDir || !isStreamFile(header.Name) {
			continue
		}

		data, err := l.decodeEntry(r)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", header.Name, err)
		}
		return data, filepath.Base(header.Name), nil
	}
	return nil, "", ErrNoStream
}

func (l *Loader) openEntry(open func() (io.ReadCloser, error)) ([]byte, error) {
	rc, err := open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return l.decodeEntry(rc)
}
