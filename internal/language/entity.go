package language

import (
	"fmt"
	"sort"
)

// EntityEntry is one value of a custom entity with its synonyms.
type EntityEntry struct {
	Value    string   `json:"value"`
	Synonyms []string `json:"synonyms"`
}

// LoadEntity builds the entries of a custom entity from doc, the decoded
// content of its language file:
//
//	entries:
//	  margherita:
//	    - margherita
//	    - plain pizza
//	  marinara: [marinara]
//
// Entries are returned sorted by value. Failures are returned as
// *EntityLoadError.
func LoadEntity(doc any, entityName string) ([]EntityEntry, error) {
	entries, err := loadEntity(doc)
	if err != nil {
		return nil, &EntityLoadError{EntityName: entityName, Cause: err}
	}
	return entries, nil
}

func loadEntity(doc any) ([]EntityEntry, error) {
	if doc == nil {
		return []EntityEntry{}, nil
	}
	root, ok := asMap(doc)
	if !ok {
		return nil, &MalformedDocumentError{Reason: fmt.Sprintf("expected a mapping, found %s", describe(doc))}
	}
	raw, present := root["entries"]
	if !present || raw == nil {
		return []EntityEntry{}, nil
	}
	m, ok := asMap(raw)
	if !ok {
		return nil, &MalformedDocumentError{Section: "entries", Reason: fmt.Sprintf("expected a mapping of values to synonyms, found %s", describe(raw))}
	}

	entries := make([]EntityEntry, 0, len(m))
	for value, rawSyn := range m {
		items, ok := asList(rawSyn)
		if !ok {
			return nil, &MalformedDocumentError{Section: "entries", Reason: fmt.Sprintf("synonyms of %q must be a list, found %s", value, describe(rawSyn))}
		}
		synonyms := make([]string, 0, len(items))
		for i, item := range items {
			switch item := item.(type) {
			case string:
				synonyms = append(synonyms, item)
			case int, int64, uint64, float64, bool:
				synonyms = append(synonyms, fmt.Sprint(item))
			default:
				return nil, &MalformedDocumentError{Section: "entries", Reason: fmt.Sprintf("synonym %d of %q: expected a string, found %s", i, value, describe(item))}
			}
		}
		entries = append(entries, EntityEntry{Value: value, Synonyms: synonyms})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Value < entries[j].Value })
	return entries, nil
}
