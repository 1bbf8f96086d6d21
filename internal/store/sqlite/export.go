package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/id"
	"github.com/readwellapp/readwell-server/internal/store"
)

// ExportLibrary assembles a user's full library tree: every book with its
// chapters, appearance, sounds, defaults, ambients, decorative font and
// the user's own reading progress, plus reading fonts and global settings.
func (s *Store) ExportLibrary(ctx context.Context, userID string) (*domain.Library, error) {
	books, err := s.ListBooks(ctx, userID)
	if err != nil {
		return nil, err
	}

	library := &domain.Library{Version: domain.LibraryVersion}
	for _, book := range books {
		bundle := &domain.BookBundle{Book: book}

		if bundle.Chapters, err = s.ListChapters(ctx, book.ID); err != nil {
			return nil, err
		}
		if bundle.Appearance, err = optional(s.GetAppearance(ctx, book.ID)); err != nil {
			return nil, err
		}
		if bundle.Sounds, err = optional(s.GetSounds(ctx, book.ID)); err != nil {
			return nil, err
		}
		if bundle.Defaults, err = optional(s.GetDefaultSettings(ctx, book.ID)); err != nil {
			return nil, err
		}
		if bundle.Ambients, err = s.ListAmbients(ctx, book.ID); err != nil {
			return nil, err
		}
		if bundle.DecorativeFont, err = optional(s.GetDecorativeFont(ctx, book.ID)); err != nil {
			return nil, err
		}
		if bundle.Progress, err = optional(s.GetProgress(ctx, userID, book.ID)); err != nil {
			return nil, err
		}

		library.Books = append(library.Books, bundle)
	}

	if library.ReadingFonts, err = s.ListReadingFonts(ctx, userID); err != nil {
		return nil, err
	}
	if library.Settings, err = optional(s.GetGlobalSettings(ctx, userID)); err != nil {
		return nil, err
	}

	return library, nil
}

// optional maps store.ErrNotFound to a nil value, for 0-or-1 satellites.
func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return v, err
}

// ImportLibrary inserts an exported library tree under the given user.
// Imported books are appended after the user's existing books starting at
// positionOffset, and every row gets a fresh ID so an export can be
// imported into the account it came from. All or nothing: one transaction.
func (s *Store) ImportLibrary(ctx context.Context, userID string, library *domain.Library, positionOffset int) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for i, bundle := range library.Books {
			if bundle.Book == nil {
				continue
			}

			book := *bundle.Book
			book.ID = id.MustGenerate("book")
			book.UserID = userID
			book.Position = positionOffset + i
			book.InitTimestamps()
			book.DeletedAt = nil
			if err := insertBook(ctx, tx, &book); err != nil {
				return err
			}

			for pos, ch := range bundle.Chapters {
				chapter := *ch
				chapter.ID = id.MustGenerate("chap")
				chapter.BookID = book.ID
				chapter.Position = pos
				chapter.InitTimestamps()
				chapter.DeletedAt = nil
				if err := insertChapter(ctx, tx, &chapter); err != nil {
					return err
				}
			}

			appearance := bundle.Appearance
			if appearance == nil {
				appearance = domain.NewBookAppearance(book.ID)
			} else {
				cp := *appearance
				cp.BookID = book.ID
				appearance = &cp
			}
			if err := insertAppearance(ctx, tx, appearance); err != nil {
				return err
			}

			sounds := bundle.Sounds
			if sounds == nil {
				sounds = domain.NewBookSounds(book.ID)
			} else {
				cp := *sounds
				cp.BookID = book.ID
				sounds = &cp
			}
			if err := insertSounds(ctx, tx, sounds); err != nil {
				return err
			}

			defaults := bundle.Defaults
			if defaults == nil {
				defaults = domain.NewBookDefaultSettings(book.ID)
			} else {
				cp := *defaults
				cp.BookID = book.ID
				defaults = &cp
			}
			if err := insertDefaultSettings(ctx, tx, defaults); err != nil {
				return err
			}

			ambients := bundle.Ambients
			if len(ambients) == 0 {
				ambients = domain.SeedAmbients(book.ID)
			}
			for _, amb := range ambients {
				ambient := *amb
				ambient.ID = id.MustGenerate("amb")
				ambient.BookID = book.ID
				ambient.DeletedAt = nil
				if err := insertAmbient(ctx, tx, &ambient); err != nil {
					return err
				}
			}

			if bundle.DecorativeFont != nil {
				font := *bundle.DecorativeFont
				font.BookID = book.ID
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO decorative_fonts (book_id, name, file_url, created_at, updated_at)
					VALUES (?, ?, ?, ?, ?)`,
					font.BookID, font.Name, font.FileURL,
					formatTime(font.CreatedAt), formatTime(font.UpdatedAt)); err != nil {
					return err
				}
			}

			if bundle.Progress != nil {
				p := *bundle.Progress
				p.UserID = userID
				p.BookID = book.ID
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO reading_progress (
						user_id, book_id, page, font, font_size, theme,
						sound_enabled, sound_volume, ambient_type, ambient_volume, updated_at
					) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
					p.UserID, p.BookID, p.Page, p.Font, p.FontSize, p.Theme,
					boolToInt(p.SoundEnabled), p.SoundVolume,
					p.AmbientType, p.AmbientVolume, formatTime(p.UpdatedAt)); err != nil {
					return err
				}
			}
		}

		if err := importReadingFonts(ctx, tx, userID, library.ReadingFonts); err != nil {
			return err
		}

		if library.Settings != nil {
			settings := *library.Settings
			settings.UserID = userID
			if err := upsertGlobalSettings(ctx, tx, &settings); err != nil {
				return err
			}
		}
		return nil
	})
}

// importReadingFonts appends imported fonts the user does not already have,
// matching on font_key so builtin fonts never duplicate.
func importReadingFonts(ctx context.Context, tx *sql.Tx, userID string, fonts []*domain.ReadingFont) error {
	if len(fonts) == 0 {
		return nil
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT font_key FROM reading_fonts WHERE user_id = ? AND deleted_at IS NULL`, userID)
	if err != nil {
		return err
	}
	existing := make(map[string]bool)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			rows.Close()
			return err
		}
		existing[key] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	var next int
	if err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position) + 1, 0) FROM reading_fonts
		WHERE user_id = ? AND deleted_at IS NULL`, userID).Scan(&next); err != nil {
		return err
	}

	for _, f := range fonts {
		if existing[f.FontKey] {
			continue
		}
		font := *f
		font.ID = id.MustGenerate("font")
		font.UserID = userID
		font.Position = next
		font.DeletedAt = nil
		if err := insertReadingFont(ctx, tx, &font); err != nil {
			return err
		}
		existing[font.FontKey] = true
		next++
	}
	return nil
}
