package apikey

// Scope is a permission tag granted to an API key. The set is closed; new
// endpoints must pick from (or extend) this list rather than invent strings.
type Scope string

const (
	ScopeKeywordsRead    Scope = "keywords:read"
	ScopeRankingsRead    Scope = "rankings:read"
	ScopeBacklinksRead   Scope = "backlinks:read"
	ScopeOnPageRead      Scope = "onpage:read"
	ScopeCompetitorsRead Scope = "competitors:read"
	ScopeReportsRead     Scope = "reports:read"

	ScopeKeywordsWrite Scope = "keywords:write"
	ScopeRankingsWrite Scope = "rankings:write"
	ScopeDataImport    Scope = "data:import"

	// ScopeAdminFull is the wildcard sentinel: it satisfies every scope
	// requirement, including the admin management surface.
	ScopeAdminFull Scope = "admin:*"
)

var knownScopes = map[Scope]struct{}{
	ScopeKeywordsRead:    {},
	ScopeRankingsRead:    {},
	ScopeBacklinksRead:   {},
	ScopeOnPageRead:      {},
	ScopeCompetitorsRead: {},
	ScopeReportsRead:     {},
	ScopeKeywordsWrite:   {},
	ScopeRankingsWrite:   {},
	ScopeDataImport:      {},
	ScopeAdminFull:       {},
}

func (s Scope) Valid() bool {
	_, ok := knownScopes[s]
	return ok
}

// ParseScopes validates a list of raw scope strings. It returns the first
// unknown tag encountered, if any.
func ParseScopes(raw []string) ([]Scope, string, bool) {
	scopes := make([]Scope, 0, len(raw))
	for _, r := range raw {
		s := Scope(r)
		if !s.Valid() {
			return nil, r, false
		}
		scopes = append(scopes, s)
	}
	return scopes, "", true
}

func ScopeStrings(scopes []Scope) []string {
	out := make([]string, len(scopes))
	for i, s := range scopes {
		out[i] = string(s)
	}
	return out
}
