package repository

import (
	"context"
	"database/sql"
)

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) AddFavorite(ctx context.Context, f *Favorite) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO favorites(user_id, song_title, song_author, song_url) VALUES (?,?,?,?)`,
		f.UserID, f.Title, f.Author, f.URL,
	)
	return err
}

func (r *Repo) ListFavoritesByUser(ctx context.Context, userID string) ([]Favorite, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, song_title, song_author, song_url FROM favorites WHERE user_id=? ORDER BY rowid ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Favorite
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.UserID, &f.Title, &f.Author, &f.URL); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
