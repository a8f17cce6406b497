package service

import (
	"fmt"
	"strings"

	"github.com/seolytics/seo-api/internal/domain/apikey"
)

// MissingScopesError reports every unmet scope at once, not just the first,
// so a client can fix its key's grants in one round trip.
type MissingScopesError struct {
	Missing []apikey.Scope
}

func (e *MissingScopesError) Error() string {
	return fmt.Sprintf("missing required scopes: %s", strings.Join(apikey.ScopeStrings(e.Missing), ", "))
}

// Authorize checks a principal's granted scopes against an endpoint's
// requirements. The admin wildcard short-circuits to allowed.
func Authorize(granted []apikey.Scope, required ...apikey.Scope) error {
	grantedSet := make(map[apikey.Scope]struct{}, len(granted))
	for _, s := range granted {
		if s == apikey.ScopeAdminFull {
			return nil
		}
		grantedSet[s] = struct{}{}
	}

	var missing []apikey.Scope
	for _, req := range required {
		if _, ok := grantedSet[req]; !ok {
			missing = append(missing, req)
		}
	}

	if len(missing) > 0 {
		return &MissingScopesError{Missing: missing}
	}
	return nil
}
