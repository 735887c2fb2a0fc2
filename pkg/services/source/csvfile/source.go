package csvfile

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/de-tools/roi-atlas/pkg/services/source"
)

type fileSource struct {
	path string
}

// Factory creates a source reading a local CSV file.
func Factory(_ context.Context, spec domain.SourceSpec) (source.Source, error) {
	if spec.Location == "" {
		return nil, fmt.Errorf("csv source requires a file path")
	}
	return NewSource(spec.Location), nil
}

func NewSource(path string) source.Source {
	return &fileSource{path: path}
}

func (s *fileSource) Name() string {
	return "csv:" + s.path
}

func (s *fileSource) Load(_ context.Context) ([]domain.CampaignRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	return Decode(f)
}

func (s *fileSource) Close() error {
	return nil
}
