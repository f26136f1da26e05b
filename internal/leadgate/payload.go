package leadgate

import (
	"fmt"
	"sort"
	"strings"
)

// Payload is the free-form field set posted to the forms backend. Keys vary
// by caller: the audit form sends name/phone/location/lead_type, the purchase
// modal sends name/phone/package/source, and the conversational path sends
// whatever qualifying fields the model extracted.
type Payload map[string]string

// RequireFields checks that every named field is present and non-blank.
// Missing fields are reported together so the caller can surface one error.
func (p Payload) RequireFields(fields ...string) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(p[f]) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("leadgate: missing required fields: %s", strings.Join(missing, ", "))
}

// WithSource returns a copy of the payload tagged with a source label.
func (p Payload) WithSource(source string) Payload {
	out := make(Payload, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	out["source"] = source
	return out
}
