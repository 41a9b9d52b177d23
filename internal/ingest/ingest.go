package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sourcingdesk/docextract/constants"
	"github.com/sourcingdesk/docextract/internal/extract"
)

// maxFileSize guards against someone pointing the collector at a dump of
// raw camera footage. Larger files are counted as failed, not read.
const maxFileSize = 50 << 20

// Stats aggregates one collection run.
type Stats struct {
	Scanned      uint32
	Matched      uint32
	Loaded       uint32
	Deduplicated uint32
	Failed       uint32
}

// Collector loads supported documents from the filesystem. Byte-identical
// files are loaded once: the same attachment routinely arrives on several
// forwarded mails in one batch.
type Collector struct {
	SkipHidden bool
	logger     *slog.Logger

	seen map[string]struct{} // sha256 hex of loaded content
}

func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{SkipHidden: true, logger: logger, seen: make(map[string]struct{})}
}

// Collect loads every supported file among the given paths, walking
// directories recursively. Unreadable files are logged and counted, never
// fatal; the caller decides whether an empty result is an error.
func (c *Collector) Collect(paths []string) ([]extract.RawDocument, Stats, error) {
	var docs []extract.RawDocument
	var stats Stats

	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			return nil, stats, errors.New("empty input path")
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, stats, err
		}
		if !info.IsDir() {
			stats.Scanned++
			c.addFile(p, &docs, &stats)
			continue
		}

		walkErr := filepath.WalkDir(p, func(path string, d fs.DirEntry, werr error) error {
			stats.Scanned++
			if werr != nil {
				c.logger.Warn("walk error, skipping entry", "path", path, "error", werr)
				stats.Failed++
				return nil
			}
			if c.SkipHidden && isHidden(path) && path != p {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			c.addFile(path, &docs, &stats)
			return nil
		})
		if walkErr != nil {
			return nil, stats, walkErr
		}
	}
	return docs, stats, nil
}

func (c *Collector) addFile(path string, docs *[]extract.RawDocument, stats *Stats) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		return
	}
	stats.Matched++

	info, err := os.Stat(path)
	if err != nil {
		c.logger.Warn("stat failed, skipping file", "path", path, "error", err)
		stats.Failed++
		return
	}
	if info.Size() > maxFileSize {
		c.logger.Warn("file exceeds size cap, skipping", "path", path, "size", info.Size())
		stats.Failed++
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		c.logger.Warn("read failed, skipping file", "path", path, "error", err)
		stats.Failed++
		return
	}

	sum := sha256.Sum256(data)
	hexSum := hex.EncodeToString(sum[:])
	if _, dup := c.seen[hexSum]; dup {
		c.logger.Info("duplicate content, skipping file", "path", path, "sha256", hexSum[:12])
		stats.Deduplicated++
		return
	}
	c.seen[hexSum] = struct{}{}

	*docs = append(*docs, extract.RawDocument{Filename: filepath.Base(path), Data: data})
	stats.Loaded++
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}
