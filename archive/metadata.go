package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"
)

// Metadata is embedded in every bundle so a restore knows where the data came from.
type Metadata struct {
	MedalDir string `json:"medalDir"`
}

func writeMetadata(zw *zip.Writer, md Metadata) error {
	data, err := json.Marshal(md)
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	hdr := &zip.FileHeader{
		Name:     MetadataFileName,
		Method:   zip.Deflate,
		Modified: time.Now(),
	}
	dst, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("adding metadata: %w", err)
	}
	if _, err := dst.Write(data); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	return nil
}

// ReadMetadata parses the metadata record from an extracted bundle directory.
func ReadMetadata(dir string) (Metadata, error) {
	var md Metadata

	data, err := os.ReadFile(filepath.Join(dir, MetadataFileName))
	if err != nil {
		return md, fmt.Errorf("reading %s: %w", MetadataFileName, err)
	}
	if err := json.Unmarshal(data, &md); err != nil {
		return md, fmt.Errorf("parsing %s: %w", MetadataFileName, err)
	}
	if md.MedalDir == "" {
		return md, errors.New(MetadataFileName + " does not name a Medal directory")
	}
	return md, nil
}
