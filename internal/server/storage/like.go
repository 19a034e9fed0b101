package storage

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern turns a raw search value into a substring LIKE pattern.
// Wildcards in s are escaped, so the pattern must be used with ESCAPE '\'.
func LikePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
