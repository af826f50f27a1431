// Package password implements the rule-based password strength check applied
// before symmetric encryption.
package password

// Validate reports whether the password is acceptable. Rules are checked in a
// fixed order and the first failure wins: minimum length, then uppercase,
// lowercase, and digit presence (ASCII only).
func Validate(pw string) (bool, string) {
	if len(pw) < 8 {
		return false, "Password must be at least 8 characters long"
	}
	if !containsRange(pw, 'A', 'Z') {
		return false, "Password must contain at least one uppercase letter"
	}
	if !containsRange(pw, 'a', 'z') {
		return false, "Password must contain at least one lowercase letter"
	}
	if !containsRange(pw, '0', '9') {
		return false, "Password must contain at least one number"
	}
	return true, "Password is strong"
}

func containsRange(s string, lo, hi byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= lo && s[i] <= hi {
			return true
		}
	}
	return false
}
