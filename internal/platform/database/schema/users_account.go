// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns of the YaMDb database.
//
// Repositories build their SQL from these values so that a renamed column
// is a one-line change.

package schema

// UsersAccountTable represents the 'users.account' table
type UsersAccountTable struct {
	Table       string
	ID          string
	Username    string
	Email       string
	Role        string
	Bio         string
	FirstName   string
	LastName    string
	IsSuperuser string
	IsConfirmed string
	CreatedAt   string
	UpdatedAt   string
}

// UsersAccount is the schema definition for users.account
var UsersAccount = UsersAccountTable{
	Table:       "users.account",
	ID:          "id",
	Username:    "username",
	Email:       "email",
	Role:        "role",
	Bio:         "bio",
	FirstName:   "firstname",
	LastName:    "lastname",
	IsSuperuser: "issuperuser",
	IsConfirmed: "isconfirmed",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns every column of users.account in declaration order.
func (t UsersAccountTable) Columns() []string {
	return []string{t.ID, t.Username, t.Email, t.Role, t.Bio, t.FirstName, t.LastName, t.IsSuperuser, t.IsConfirmed, t.CreatedAt, t.UpdatedAt}
}
