package repository

import (
	"context"
	"strings"
)

// FavoritesService is the favorites store exposed to the rest of the bot.
// Duplicate entries are allowed.
type FavoritesService struct {
	repo *Repo
}

func NewFavoritesService(repo *Repo) *FavoritesService {
	return &FavoritesService{repo: repo}
}

func (f *FavoritesService) Insert(ctx context.Context, userID, title, author, url string) error {
	return f.repo.AddFavorite(ctx, &Favorite{
		UserID: userID,
		Title:  strings.TrimSpace(title),
		Author: strings.TrimSpace(author),
		URL:    strings.TrimSpace(url),
	})
}

func (f *FavoritesService) ListByUser(ctx context.Context, userID string) ([]Favorite, error) {
	return f.repo.ListFavoritesByUser(ctx, userID)
}
