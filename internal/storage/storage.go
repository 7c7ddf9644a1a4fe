package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/konstantinfoerster/card-printings-go/internal/aio"
	"github.com/konstantinfoerster/card-printings-go/internal/config"
	"github.com/konstantinfoerster/card-printings-go/internal/web"
)

type Storer interface {
	Store(in io.Reader, path ...string) (StoredFile, error)
	Load(path ...string) (io.ReadCloser, error)
}

type StoredFile struct {
	Path         string
	AbsolutePath string
}

func NewLocalStorage(cfg config.Storage) (Storer, error) {
	location, err := filepath.Abs(cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid storage dir %s, %w", cfg.Location, err)
	}
	if err := os.MkdirAll(location, 0750); err != nil {
		return nil, fmt.Errorf("failed to create storage dir %s, %w", location, err)
	}

	return &localStorage{
		location: location,
		mode:     cfg.Mode,
	}, nil
}

type localStorage struct {
	location string
	mode     string
}

// fromBasePath joins path onto the storage dir. Leading ".." elements are dropped by the
// join against the root, so the result never leaves the storage dir.
func (s *localStorage) fromBasePath(path ...string) (string, error) {
	rel := filepath.Join(string(filepath.Separator), filepath.Join(path...))
	target := filepath.Join(s.location, rel)

	r, err := filepath.Rel(s.location, target)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path is not within base path %s", s.location)
	}

	return target, nil
}

func (s *localStorage) Store(r io.Reader, path ...string) (_ StoredFile, err error) {
	filePath, err := s.fromBasePath(path...)
	if err != nil {
		return StoredFile{}, err
	}
	if filePath == s.location {
		return StoredFile{}, fmt.Errorf("storing without a file name is not supported")
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0750); err != nil {
		return StoredFile{}, fmt.Errorf("failed to create sub dirs for %s, %w", filePath, err)
	}

	flags := os.O_RDWR | os.O_CREATE
	if strings.EqualFold(s.mode, config.REPLACE) {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}

	// #nosec G304 fromBasePath keeps the path inside the storage dir
	target, err := os.OpenFile(filePath, flags, 0600)
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to create file %s with mode %s, %w", filePath, s.mode, err)
	}
	defer aio.CloseWithErr(target, &err)

	if _, err := io.Copy(target, r); err != nil {
		return StoredFile{}, fmt.Errorf("failed to write file %s, %w", filePath, err)
	}

	if err := target.Sync(); err != nil {
		return StoredFile{}, fmt.Errorf("failed to sync file %s, %w", filePath, err)
	}

	rel, err := filepath.Rel(s.location, filePath)
	if err != nil {
		return StoredFile{}, err
	}

	return StoredFile{
		AbsolutePath: filePath,
		Path:         rel,
	}, nil
}

func (s *localStorage) Load(path ...string) (io.ReadCloser, error) {
	filePath, err := s.fromBasePath(path...)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info %s, %w", filePath, err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("loading a directory is not supported")
	}

	// #nosec G304 fromBasePath keeps the path inside the storage dir
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s, %w", filePath, err)
	}

	return file, nil
}

// StoreReport stores a report under name with the file extension of its mime type.
func StoreReport(s Storer, name string, mime web.MimeType, r io.Reader) (StoredFile, error) {
	fileName, err := mime.BuildFilename(name)
	if err != nil {
		return StoredFile{}, fmt.Errorf("invalid report name %s, %w", name, err)
	}

	return s.Store(r, fileName)
}

// LoadReport opens a report stored with StoreReport.
func LoadReport(s Storer, name string, mime web.MimeType) (io.ReadCloser, error) {
	fileName, err := mime.BuildFilename(name)
	if err != nil {
		return nil, fmt.Errorf("invalid report name %s, %w", name, err)
	}

	return s.Load(fileName)
}
