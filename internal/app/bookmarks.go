package app

import (
	"context"
	"errors"
	"strings"

	"cinelog/pkg/domain"
	"cinelog/pkg/store"
)

const defaultFolder = "default"

type BookmarkInput struct {
	MovieID int64  `json:"movie_id"`
	Folder  string `json:"folder"`
	Notes   string `json:"notes"`
}

// AddBookmark saves a movie into one of the caller's folders. The same movie
// can live in several folders but only once per folder.
func (a *App) AddBookmark(ctx context.Context, actor domain.User, in BookmarkInput) (domain.Bookmark, error) {
	folder := strings.TrimSpace(in.Folder)
	if folder == "" {
		folder = defaultFolder
	}
	if len(folder) > 50 {
		return domain.Bookmark{}, Validationf("folder name must be 50 characters or fewer")
	}
	if _, err := a.GetMovie(ctx, in.MovieID); err != nil {
		return domain.Bookmark{}, err
	}
	bookmark, err := a.store.CreateBookmark(ctx, domain.Bookmark{
		UserID:  actor.ID,
		MovieID: in.MovieID,
		Folder:  folder,
		Notes:   in.Notes,
	})
	if errors.Is(err, store.ErrDuplicate) {
		return domain.Bookmark{}, Conflictf("movie is already bookmarked in this folder")
	}
	if err != nil {
		return domain.Bookmark{}, Internal(err)
	}
	return bookmark, nil
}

func (a *App) ListBookmarks(ctx context.Context, actor domain.User, folder string) ([]domain.Bookmark, error) {
	bookmarks, err := a.store.ListBookmarks(ctx, actor.ID, strings.TrimSpace(folder))
	if err != nil {
		return nil, Internal(err)
	}
	return bookmarks, nil
}

type BookmarkUpdateInput struct {
	Folder *string `json:"folder"`
	Notes  *string `json:"notes"`
}

// UpdateBookmark moves or annotates a bookmark the caller owns.
func (a *App) UpdateBookmark(ctx context.Context, actor domain.User, id int64, in BookmarkUpdateInput) (domain.Bookmark, error) {
	if in.Folder != nil {
		folder := strings.TrimSpace(*in.Folder)
		if folder == "" {
			folder = defaultFolder
		}
		if len(folder) > 50 {
			return domain.Bookmark{}, Validationf("folder name must be 50 characters or fewer")
		}
		in.Folder = &folder
	}
	bookmark, err := a.store.UpdateBookmark(ctx, id, actor.ID, in.Folder, in.Notes)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Bookmark{}, NotFoundf("bookmark not found")
	}
	if errors.Is(err, store.ErrDuplicate) {
		return domain.Bookmark{}, Conflictf("movie is already bookmarked in this folder")
	}
	if err != nil {
		return domain.Bookmark{}, Internal(err)
	}
	return bookmark, nil
}

func (a *App) RemoveBookmark(ctx context.Context, actor domain.User, id int64) error {
	err := a.store.DeleteBookmark(ctx, id, actor.ID)
	if errors.Is(err, store.ErrNotFound) {
		return NotFoundf("bookmark not found")
	}
	if err != nil {
		return Internal(err)
	}
	return nil
}

func (a *App) BookmarkFolders(ctx context.Context, actor domain.User) ([]domain.FolderCount, error) {
	folders, err := a.store.BookmarkFolders(ctx, actor.ID)
	if err != nil {
		return nil, Internal(err)
	}
	return folders, nil
}
