package ctags

import (
	"encoding/json"
	"strings"
)

// TagRecord is one line of ctags JSON output
type TagRecord struct {
	// Type is "tag" for tags and "ptag" for pseudo tags; older builds omit it
	Type      string `json:"_type,omitempty"`
	Name      string `json:"name"`
	Kind      string `json:"kind,omitempty"`
	Scope     string `json:"scope,omitempty"`
	ScopeKind string `json:"scopeKind,omitempty"`
}

// TryParseRecord parses a single output line. It accepts the line only if it
// is brace-delimited, valid JSON, names a symbol and is not a pseudo tag.
//
// Pseudo tags ("_type": "ptag", such as !_TAG_PROGRAM_VERSION) are dropped on
// purpose: they describe the tag file, not a symbol, and would otherwise
// surface as completion words. Lines without "_type" are accepted as tags.
func TryParseRecord(line string) (TagRecord, bool) {
	if !strings.HasPrefix(line, "{") || !strings.HasSuffix(line, "}") {
		return TagRecord{}, false
	}

	var rec TagRecord
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return TagRecord{}, false
	}
	if rec.Name == "" {
		return TagRecord{}, false
	}
	if rec.Type != "" && rec.Type != "tag" {
		return TagRecord{}, false
	}
	return rec, true
}
