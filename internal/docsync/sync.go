// Package docsync mirrors a local directory into a remote vector store so
// the model's retrieval tool can search it.
package docsync

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

const manifestName = ".quill-sync.json"

// syncable file extensions; everything else is skipped silently.
var syncExtensions = map[string]bool{
	".txt": true, ".md": true, ".pdf": true, ".html": true,
	".json": true, ".go": true, ".py": true, ".js": true, ".ts": true,
}

// FileResult records what happened to one file during a sync pass.
type FileResult struct {
	Path   string `json:"path"`
	FileID string `json:"file_id,omitempty"`
	Status string `json:"status"` // uploaded, unchanged, failed
	Err    string `json:"error,omitempty"`
}

// Report summarizes a sync pass. Per-file failures are collected here,
// not raised.
type Report struct {
	Uploaded  int          `json:"uploaded"`
	Unchanged int          `json:"unchanged"`
	Failed    int          `json:"failed"`
	Files     []FileResult `json:"files"`
}

// Syncer uploads new and changed files and attaches them to the vector
// store. A manifest in the synced directory remembers content hashes so
// unchanged files are skipped on later passes.
type Syncer struct {
	client        *openai.Client
	vectorStoreID string
	log           zerolog.Logger
}

func NewSyncer(client *openai.Client, vectorStoreID string, log zerolog.Logger) *Syncer {
	return &Syncer{
		client:        client,
		vectorStoreID: vectorStoreID,
		log:           log,
	}
}

// Sync walks dir and uploads every syncable file whose content changed
// since the last pass. Individual file failures go into the report; only
// walking the tree or persisting the manifest can fail the run.
func (s *Syncer) Sync(ctx context.Context, dir string) (*Report, error) {
	manifest, err := loadManifest(dir)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		// hidden files, including our own manifest, never sync
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if !syncExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.syncFile(ctx, path, manifest, report)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	if err := saveManifest(dir, manifest); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("dir", dir).
		Int("uploaded", report.Uploaded).
		Int("unchanged", report.Unchanged).
		Int("failed", report.Failed).
		Msg("sync pass complete")
	return report, nil
}

func (s *Syncer) syncFile(ctx context.Context, path string, manifest map[string]string, report *Report) {
	data, err := os.ReadFile(path)
	if err != nil {
		report.Failed++
		report.Files = append(report.Files, FileResult{Path: path, Status: "failed", Err: err.Error()})
		return
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	if manifest[path] == hash {
		report.Unchanged++
		report.Files = append(report.Files, FileResult{Path: path, Status: "unchanged"})
		return
	}

	file, err := s.client.CreateFileBytes(ctx, openai.FileBytesRequest{
		Name:    filepath.Base(path),
		Bytes:   data,
		Purpose: openai.PurposeAssistants,
	})
	if err == nil {
		_, err = s.client.CreateVectorStoreFile(ctx, s.vectorStoreID, openai.VectorStoreFileRequest{
			FileID: file.ID,
		})
	}
	if err != nil {
		report.Failed++
		report.Files = append(report.Files, FileResult{Path: path, Status: "failed", Err: err.Error()})
		s.log.Warn().Str("path", path).Err(err).Msg("upload failed")
		return
	}

	manifest[path] = hash
	report.Uploaded++
	report.Files = append(report.Files, FileResult{Path: path, FileID: file.ID, Status: "uploaded"})
	s.log.Info().Str("path", path).Str("file_id", file.ID).Msg("uploaded")
}

func manifestPath(dir string) string {
	return filepath.Join(dir, manifestName)
}

func loadManifest(dir string) (map[string]string, error) {
	data, err := os.ReadFile(manifestPath(dir))
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sync manifest: %w", err)
	}
	var manifest map[string]string
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("decode sync manifest: %w", err)
	}
	if manifest == nil {
		manifest = map[string]string{}
	}
	return manifest, nil
}

func saveManifest(dir string, manifest map[string]string) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(manifestPath(dir), data, 0600); err != nil {
		return fmt.Errorf("write sync manifest: %w", err)
	}
	return nil
}
