// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a LIKE/ILIKE argument matching search as a literal
// substring. `%` and `_` typed by a client match only themselves.
func ContainsPattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}
