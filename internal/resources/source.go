package resources

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/intentlang/internal/language"
)

// EntityFilePrefix marks the language file of a custom entity.
const EntityFilePrefix = "ENTITY_"

// Ext is the extension of language files.
const Ext = ".yaml"

// Source reads language documents from a language folder laid out as
//
//	<dir>/<lang>/<intent>.yaml
//	<dir>/<lang>/ENTITY_<entity>.yaml
type Source struct {
	dir    string
	logger *zap.Logger
}

// Open returns a Source over dir. The folder must exist.
func Open(dir string, logger *zap.Logger) (*Source, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resources: resolve %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("resources: language folder %s does not exist", abs)
		}
		return nil, fmt.Errorf("resources: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("resources: %s is not a directory", abs)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{dir: abs, logger: logger}, nil
}

// Dir returns the absolute path of the language folder.
func (s *Source) Dir() string { return s.dir }

// Languages returns the languages that have a subfolder, sorted. Folders
// starting with "." or "_" are ignored; folders that are not a supported
// language code are skipped with a warning.
func (s *Source) Languages() ([]language.Code, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("resources: list languages: %w", err)
	}
	var codes []language.Code
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || isHidden(name) {
			continue
		}
		code, err := language.ParseCode(name)
		if err != nil {
			s.logger.Warn("skipping unrecognized language folder",
				zap.String("folder", filepath.Join(s.dir, name)))
			continue
		}
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes, nil
}

// IntentPath returns the path of the language file of intent in lang.
func (s *Source) IntentPath(intent string, lang language.Code) string {
	return filepath.Join(s.dir, string(lang), intent+Ext)
}

// EntityPath returns the path of the language file of entity in lang.
func (s *Source) EntityPath(entity string, lang language.Code) string {
	return filepath.Join(s.dir, string(lang), EntityFilePrefix+entity+Ext)
}

// IntentDocument decodes the language file of intent in lang. An empty
// file decodes to nil.
func (s *Source) IntentDocument(intent string, lang language.Code) (any, error) {
	return s.decode(s.IntentPath(intent, lang))
}

// EntityDocument decodes the language file of a custom entity in lang.
func (s *Source) EntityDocument(entity string, lang language.Code) (any, error) {
	return s.decode(s.EntityPath(entity, lang))
}

func (s *Source) decode(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("language file not found, expected %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	s.logger.Debug("decoded language file", zap.String("path", path))
	return doc, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
