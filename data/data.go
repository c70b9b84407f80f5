// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package data ships the SQL schema migrations inside the binary.
package data

import "embed"

// MigrationsDir is the directory of [Migrations] holding the .sql files.
const MigrationsDir = "migrations"

// Migrations holds the golang-migrate up/down files.
//
//go:embed migrations/*.sql
var Migrations embed.FS
