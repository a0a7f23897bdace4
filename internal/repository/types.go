package repository

import "database/sql"

type Repo struct {
	db *sql.DB
}

type Favorite struct {
	UserID string
	Title  string
	Author string
	URL    string
}
