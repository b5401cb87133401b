// AngelaMos | 2026
// policy.go

package gate

import (
	"strings"
)

// Policy decides whether an authenticated identity may use the application
// at all. This is distinct from role checks: an identity that fails the
// policy is treated as if it had no account.
type Policy interface {
	Allows(email string) bool
}

type allowList struct {
	emails map[string]struct{}
}

// NewAllowList builds a Policy from a fixed set of permitted email
// addresses. Matching is case-insensitive.
func NewAllowList(emails []string) Policy {
	set := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		set[strings.ToLower(strings.TrimSpace(email))] = struct{}{}
	}
	return &allowList{emails: set}
}

func (p *allowList) Allows(email string) bool {
	_, ok := p.emails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}
