// AngelaMos | 2026
// role.go

package role

// Role names are stored lowercase in user_roles and on preference keys.
const (
	Admin    = "admin"
	Manager  = "manager"
	Resident = "resident"
)

// precedence orders roles from most to least privileged. When a user holds
// several roles and has no stored preference, the highest one wins.
var precedence = []string{Admin, Manager, Resident}

func IsValid(role string) bool {
	switch role {
	case Admin, Manager, Resident:
		return true
	}
	return false
}

// Highest returns the most privileged role present in the slice, or empty
// string when the slice holds no known role.
func Highest(roles []string) string {
	held := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		held[r] = struct{}{}
	}

	for _, r := range precedence {
		if _, ok := held[r]; ok {
			return r
		}
	}

	return ""
}

func Contains(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
