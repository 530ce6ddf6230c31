package crystal

import "strings"

// firstSymbol returns the first upper case letter with the lower case
// letters after it.
func firstSymbol(s string) (string, bool) {
	for i := 0; i < len(s); i++ {
		if !isUpper(s[i]) {
			continue
		}
		j := i + 1
		for j < len(s) && isLower(s[j]) {
			j++
		}
		return s[i:j], true
	}
	return "", false
}

// GetAtomType guesses the element from a site label. The label is split
// at parentheses, so Fe(1) gives Fe, and the first element-like piece
// wins. ok is false for labels like "123".
func GetAtomType(label string) (string, bool) {
	parts := strings.FieldsFunc(label, func(r rune) bool { return r == '(' || r == ')' })
	for _, p := range parts {
		if sym, ok := firstSymbol(p); ok {
			return sym, true
		}
	}
	return "", false
}
