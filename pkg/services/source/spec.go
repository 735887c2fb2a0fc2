package source

import (
	"fmt"
	"strings"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
)

// ParseSpec parses a "kind:location" source argument. A bare path is treated as a
// local CSV file and an s3:// URL as an S3 object.
func ParseSpec(arg string) (domain.SourceSpec, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return domain.SourceSpec{}, fmt.Errorf("empty source")
	}
	if strings.HasPrefix(arg, "s3://") {
		return domain.SourceSpec{Kind: domain.SourceKindS3, Location: arg}, nil
	}

	kind, location, found := strings.Cut(arg, ":")
	if !found {
		return domain.SourceSpec{Kind: domain.SourceKindCSV, Location: arg}, nil
	}

	switch k := domain.SourceKind(kind); k {
	case domain.SourceKindCSV, domain.SourceKindS3, domain.SourceKindSnowflake,
		domain.SourceKindDatabricks, domain.SourceKindSQLite:
		return domain.SourceSpec{Kind: k, Location: location}, nil
	default:
		// windows drive letters and other colons belong to a plain path
		if len(kind) == 1 {
			return domain.SourceSpec{Kind: domain.SourceKindCSV, Location: arg}, nil
		}
		return domain.SourceSpec{}, fmt.Errorf("%w: %q", domain.ErrUnknownSource, kind)
	}
}
