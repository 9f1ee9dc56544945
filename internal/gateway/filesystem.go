package gateway

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/naka-gawa/lighthouse-check/internal/domain"
)

const reportPattern = "*.json"

// ReportReader defines the behavior of a gateway for loading report files.
type ReportReader interface {
	List(ctx context.Context, dir string) ([]string, error)
	Read(ctx context.Context, path string) (domain.RawReport, error)
}

// FileSystemGateway reads Lighthouse reports from a local directory.
type FileSystemGateway struct {
	logger *log.Logger
}

// NewFileSystemGateway creates a new instance of FileSystemGateway.
func NewFileSystemGateway(logger *log.Logger) *FileSystemGateway {
	return &FileSystemGateway{logger: logger}
}

// List returns the *.json files directly inside dir, in lexical order.
// Subdirectories are not searched.
func (f *FileSystemGateway) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(filepath.Join(dir, reportPattern))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid reports directory %q", dir)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return nil, errors.Wrapf(err, "stat %s", m)
		}
		if info.IsDir() {
			continue
		}
		paths = append(paths, m)
	}
	f.logger.Debugf("Found %d report candidates in %s", len(paths), dir)
	return paths, nil
}

// Read loads one file and checks that it holds valid JSON.
// Invalid JSON is an error; the shape of the document is not checked here.
func (f *FileSystemGateway) Read(ctx context.Context, path string) (domain.RawReport, error) {
	if err := ctx.Err(); err != nil {
		return domain.RawReport{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.RawReport{}, errors.Wrapf(err, "failed to read report %s", path)
	}
	if !json.Valid(data) {
		var probe interface{}
		err := json.Unmarshal(data, &probe)
		if err == nil {
			err = errors.New("invalid JSON")
		}
		return domain.RawReport{}, errors.Wrapf(err, "failed to decode report %s", path)
	}
	f.logger.Debugf("Read %s (%d bytes)", path, len(data))
	return domain.RawReport{Path: path, Data: data}, nil
}
