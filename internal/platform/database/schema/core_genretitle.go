// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreGenreTitleTable represents the 'core.genretitle' table
type CoreGenreTitleTable struct {
	Table   string
	ID      string
	TitleID string
	GenreID string
}

// CoreGenreTitle is the schema definition for core.genretitle
var CoreGenreTitle = CoreGenreTitleTable{
	Table:   "core.genretitle",
	ID:      "id",
	TitleID: "titleid",
	GenreID: "genreid",
}

// Columns returns every column of core.genretitle in declaration order.
func (t CoreGenreTitleTable) Columns() []string {
	return []string{t.ID, t.TitleID, t.GenreID}
}
