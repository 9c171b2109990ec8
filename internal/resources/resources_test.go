package resources

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ziadkadry99/intentlang/internal/language"
)

// writeTree creates files under root from a map of relative path to content.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func sampleFolder(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"en/greet.yaml":             "examples:\n  - hello\n",
		"en/ENTITY_pizza_type.yaml": "entries:\n  margherita: [margherita]\n",
		"en/empty.yaml":             "",
		"en/notes.txt":              "not a language file",
		"it/greet.yaml":             "examples:\n  - ciao\n",
		"klingon/greet.yaml":        "examples:\n  - nuqneH\n",
		"_drafts/greet.yaml":        "examples: []\n",
		".cache/en/greet.yaml":      "examples: []\n",
		"README.yaml":               "name: top level\n",
	})
	return dir
}

func TestOpen_MissingFolder(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"), nil)
	if err == nil {
		t.Fatal("expected error for a missing folder")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLanguages(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	src, err := Open(sampleFolder(t), zap.New(core))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	got, err := src.Languages()
	if err != nil {
		t.Fatalf("Languages() error: %v", err)
	}
	want := []language.Code{language.English, language.Italian}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Languages() = %v, want %v", got, want)
	}

	warned := logs.FilterMessage("skipping unrecognized language folder").All()
	if len(warned) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warned))
	}
	if folder := warned[0].ContextMap()["folder"]; !strings.HasSuffix(folder.(string), "klingon") {
		t.Errorf("warning folder = %v", folder)
	}
}

func TestIntentDocument(t *testing.T) {
	src, err := Open(sampleFolder(t), nil)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	doc, err := src.IntentDocument("greet", language.Italian)
	if err != nil {
		t.Fatalf("IntentDocument() error: %v", err)
	}
	m, ok := doc.(map[string]any)
	if !ok {
		t.Fatalf("document is %T, want map[string]any", doc)
	}
	if !reflect.DeepEqual(m["examples"], []any{"ciao"}) {
		t.Errorf("examples = %v", m["examples"])
	}

	doc, err = src.IntentDocument("empty", language.English)
	if err != nil {
		t.Fatalf("IntentDocument(empty) error: %v", err)
	}
	if doc != nil {
		t.Errorf("empty file decoded to %v, want nil", doc)
	}

	_, err = src.IntentDocument("greet", language.German)
	if err == nil {
		t.Fatal("expected error for missing language file")
	}
	if !strings.Contains(err.Error(), filepath.Join("de", "greet.yaml")) {
		t.Errorf("error should name the expected path: %v", err)
	}
}

func TestIntentDocument_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"en/broken.yaml": "examples: [unclosed\n"})
	src, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if _, err := src.IntentDocument("broken", language.English); err == nil {
		t.Error("expected a parse error")
	}
}

func TestEntityDocument(t *testing.T) {
	src, err := Open(sampleFolder(t), nil)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	doc, err := src.EntityDocument("pizza_type", language.English)
	if err != nil {
		t.Fatalf("EntityDocument() error: %v", err)
	}
	entries, err := language.LoadEntity(doc, "pizza_type")
	if err != nil {
		t.Fatalf("LoadEntity() error: %v", err)
	}
	if len(entries) != 1 || entries[0].Value != "margherita" {
		t.Errorf("entries = %v", entries)
	}
}

func TestFiles(t *testing.T) {
	src, err := Open(sampleFolder(t), nil)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	files, err := src.Files(Filter{})
	if err != nil {
		t.Fatalf("Files() error: %v", err)
	}

	var rel []string
	for _, f := range files {
		rel = append(rel, f.RelPath)
		if len(f.ContentHash) != 64 {
			t.Errorf("ContentHash for %s has length %d, expected 64", f.RelPath, len(f.ContentHash))
		}
		if !filepath.IsAbs(f.Path) {
			t.Errorf("Path %s is not absolute", f.Path)
		}
	}
	want := []string{"en/ENTITY_pizza_type.yaml", "en/empty.yaml", "en/greet.yaml", "it/greet.yaml"}
	if !reflect.DeepEqual(rel, want) {
		t.Errorf("Files() = %v, want %v", rel, want)
	}

	entity := files[0]
	if entity.Kind != KindEntity || entity.Name != "pizza_type" || entity.Language != language.English {
		t.Errorf("entity file = %+v", entity)
	}
	intent := files[3]
	if intent.Kind != KindIntent || intent.Name != "greet" || intent.Language != language.Italian {
		t.Errorf("intent file = %+v", intent)
	}
	if files[2].ContentHash == files[3].ContentHash {
		t.Error("different content should hash differently")
	}
}

func TestFiles_IncludeExclude(t *testing.T) {
	src, err := Open(sampleFolder(t), nil)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{
			name:   "include one language",
			filter: Filter{Include: []string{"it/**"}},
			want:   []string{"it/greet.yaml"},
		},
		{
			name:   "exclude entities by base name",
			filter: Filter{Exclude: []string{"ENTITY_*.yaml"}},
			want:   []string{"en/empty.yaml", "en/greet.yaml", "it/greet.yaml"},
		},
		{
			name:   "include by base name",
			filter: Filter{Include: []string{"greet.yaml"}},
			want:   []string{"en/greet.yaml", "it/greet.yaml"},
		},
		{
			name:   "doublestar",
			filter: Filter{Include: []string{"**/ENTITY_*"}},
			want:   []string{"en/ENTITY_pizza_type.yaml"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := src.Files(tt.filter)
			if err != nil {
				t.Fatalf("Files() error: %v", err)
			}
			var got []string
			for _, f := range files {
				got = append(got, f.RelPath)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Files() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	dir := sampleFolder(t)
	src, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	before, _ := src.Files(Filter{})

	writeTree(t, dir, map[string]string{"en/greet.yaml": "examples:\n  - hi\n"})
	after, _ := src.Files(Filter{})

	if Fingerprint(before) == Fingerprint(after) {
		t.Error("fingerprint should change when a file changes")
	}
	again, _ := src.Files(Filter{})
	if Fingerprint(after) != Fingerprint(again) {
		t.Error("fingerprint should be stable")
	}
}
