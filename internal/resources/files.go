package resources

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/intentlang/internal/language"
)

// FileKind tells intent language files from entity language files.
type FileKind string

const (
	KindIntent FileKind = "intent"
	KindEntity FileKind = "entity"
)

// File holds metadata about a language file found in the folder.
type File struct {
	Path        string        // Absolute path on disk.
	RelPath     string        // Slash separated path relative to the language folder.
	Language    language.Code // Language subfolder the file lives in.
	Kind        FileKind
	Name        string // Intent or entity name.
	Size        int64
	ContentHash string // SHA-256 hex digest of the file content.
}

// Filter restricts the files returned by Files. Patterns are doublestar
// globs matched against the relative path and the base name.
type Filter struct {
	Include []string
	Exclude []string
}

// Files lists every language file of the folder, sorted by relative path.
// Files outside a supported language subfolder are ignored.
func (s *Source) Files(filter Filter) ([]File, error) {
	var files []File
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			s.logger.Warn("skipping unreadable entry", zap.String("path", path), zap.Error(walkErr))
			return nil
		}
		if d.IsDir() {
			if path != s.dir && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || filepath.Ext(d.Name()) != Ext {
			return nil
		}

		relPath, err := filepath.Rel(s.dir, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)
		parts := strings.Split(relPath, "/")
		if len(parts) != 2 {
			return nil
		}
		code, err := language.ParseCode(parts[0])
		if err != nil {
			return nil
		}

		if !MatchesInclude(relPath, filter.Include) || MatchesExclude(relPath, filter.Exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		hash, err := hashFile(path)
		if err != nil {
			return fmt.Errorf("hash %s: %w", relPath, err)
		}

		kind, name := KindIntent, strings.TrimSuffix(parts[1], Ext)
		if strings.HasPrefix(name, EntityFilePrefix) {
			kind, name = KindEntity, strings.TrimPrefix(name, EntityFilePrefix)
		}
		files = append(files, File{
			Path:        path,
			RelPath:     relPath,
			Language:    code,
			Kind:        kind,
			Name:        name,
			Size:        info.Size(),
			ContentHash: hash,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("resources: traversal: %w", err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// Fingerprint summarizes the content of files in a single digest, so that
// callers can tell whether anything changed since the last load.
func Fingerprint(files []File) string {
	h := sha256.New()
	for _, f := range files {
		io.WriteString(h, f.RelPath)
		io.WriteString(h, "\x00")
		io.WriteString(h, f.ContentHash)
		io.WriteString(h, "\n")
	}
	return hex.EncodeToString(h.Sum(nil))
}

// hashFile computes the SHA-256 digest of the given file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
