package ctags

// Candidate is one completion entry handed to the host
type Candidate struct {
	Word string `json:"word"`
	Kind string `json:"kind,omitempty"`
	Menu string `json:"menu,omitempty"`
}

// NewCandidate maps a record to a candidate. Menu is "<scope> [<scopeKind>]"
// and is set only when the record carries both.
func NewCandidate(rec TagRecord) Candidate {
	c := Candidate{
		Word: rec.Name,
		Kind: rec.Kind,
	}
	if rec.Scope != "" && rec.ScopeKind != "" {
		c.Menu = rec.Scope + " [" + rec.ScopeKind + "]"
	}
	return c
}

// ParseCandidates maps every parseable line to a candidate, keeping output
// order and duplicates.
func ParseCandidates(lines []string) []Candidate {
	candidates := make([]Candidate, 0, len(lines))
	for _, line := range lines {
		if rec, ok := TryParseRecord(line); ok {
			candidates = append(candidates, NewCandidate(rec))
		}
	}
	return candidates
}
