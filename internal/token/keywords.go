package token

var keywords = map[string]Kind{
	"depends:":    Depends,
	"blocked-by:": BlockedBy,
	"evidence:":   Evidence,
}

// LookupKeyword reports whether word is a body keyword. Matching is exact
// and case-sensitive; the trailing colon is part of the keyword.
func LookupKeyword(word string) (Kind, bool) {
	k, ok := keywords[word]
	return k, ok
}

// Keywords returns the keyword literals in a stable order.
func Keywords() []string {
	return []string{"depends:", "blocked-by:", "evidence:"}
}
