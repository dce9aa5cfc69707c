// Package loader reads VGM images from plain files, gzip compressed VGZ
// files and archives (ZIP, 7z, RAR), with a small cache of decoded images.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"
)

// Magic bytes for format detection
var (
	magicVGM    = []byte("Vgm ")
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4B, 0x05, 0x06} // empty zip
	magic7z     = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip   = []byte{0x1F, 0x8B}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21} // "Rar!"
)

const (
	// DefaultMaxSize bounds a decompressed image. Long PCM heavy logs stay
	// well below it.
	DefaultMaxSize = 64 * 1024 * 1024

	// DefaultCacheEntries is the number of decoded images kept in memory.
	DefaultCacheEntries = 8
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoStream          = errors.New("no VGM stream found in archive")
	ErrFileTooLarge      = errors.New("file exceeds maximum size limit")
)

type formatType int

const (
	formatUnknown formatType = iota
	formatVGM
	formatGzip
	formatZIP
	format7z
	formatRAR
)

func (f formatType) String() string {
	switch f {
	case formatVGM:
		return "vgm"
	case formatGzip:
		return "vgz"
	case formatZIP:
		return "zip"
	case format7z:
		return "7z"
	case formatRAR:
		return "rar"
	default:
		return "unknown"
	}
}

type cacheKey struct {
	path    string
	size    int64
	modTime time.Time
}

// Loader resolves paths to uncompressed VGM images.
type Loader struct {
	fs      afero.Fs
	maxSize int64
	cache   *lru.Cache[cacheKey, []byte]
	logger  *slog.Logger
}

type Option func(*Loader)

// WithMaxSize overrides DefaultMaxSize.
func WithMaxSize(n int64) Option { return func(l *Loader) { l.maxSize = n } }

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option { return func(l *Loader) { l.logger = logger } }

// New returns a loader reading from fs.
func New(fs afero.Fs, opts ...Option) *Loader {
	cache, _ := lru.New[cacheKey, []byte](DefaultCacheEntries)
	l := &Loader{
		fs:      fs,
		maxSize: DefaultMaxSize,
		cache:   cache,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewOS returns a loader over the host filesystem.
func NewOS(opts ...Option) *Loader {
	return New(afero.NewOsFs(), opts...)
}

// Load returns the uncompressed image stored at path. The result is shared
// with the cache and must not be modified.
func (l *Loader) Load(path string) ([]byte, error) {
	f, err := l.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnsupportedFormat, path)
	}

	key := cacheKey{path: path, size: info.Size(), modTime: info.ModTime()}
	if data, ok := l.cache.Get(key); ok {
		l.logger.Debug("VGM cache hit", "path", path)
		return data, nil
	}

	raw, err := l.limitedRead(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	format := detectFormat(raw, path)
	data, entry, err := l.decode(raw, format, path)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("Loaded VGM image",
		"path", path,
		"format", format,
		"entry", entry,
		"size", len(data))

	l.cache.Add(key, data)
	return data, nil
}

// Purge drops every cached image.
func (l *Loader) Purge() {
	l.cache.Purge()
}

func (l *Loader) decode(raw []byte, format formatType, path string) ([]byte, string, error) {
	switch format {
	case formatVGM:
		return raw, filepath.Base(path), nil
	case formatGzip:
		data, err := l.gunzip(raw)
		if err != nil {
			return nil, "", fmt.Errorf("failed to decompress %s: %w", path, err)
		}
		return data, filepath.Base(path), nil
	case formatZIP:
		return l.extractFromZIP(raw)
	case format7z:
		return l.extractFrom7z(raw)
	case formatRAR:
		return l.extractFromRAR(raw)
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// decodeEntry turns an archive member into a VGM image, unpacking VGZ
// members. Nested archives are not followed.
func (l *Loader) decodeEntry(r io.Reader) ([]byte, error) {
	data, err := l.limitedRead(r)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(data, magicGzip) {
		return l.gunzip(data)
	}
	return data, nil
}

// detectFormat determines the file format based on magic bytes and extension
func detectFormat(header []byte, path string) formatType {
	switch {
	case bytes.HasPrefix(header, magicVGM):
		return formatVGM
	case bytes.HasPrefix(header, magicZIP), bytes.HasPrefix(header, magicZIPEnd):
		return formatZIP
	case bytes.HasPrefix(header, magicRAR):
		return formatRAR
	case bytes.HasPrefix(header, magic7z):
		return format7z
	case bytes.HasPrefix(header, magicGzip):
		return formatGzip
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".vgm":
		return formatVGM
	case ".vgz", ".gz":
		return formatGzip
	case ".zip":
		return formatZIP
	case ".7z":
		return format7z
	case ".rar":
		return formatRAR
	}
	return formatUnknown
}

// isStreamFile checks if an archive member looks like a VGM log
func isStreamFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".vgm", ".vgz":
		return true
	}
	return false
}

// limitedRead reads from r up to maxSize bytes, returning an error if exceeded
func (l *Loader) limitedRead(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
