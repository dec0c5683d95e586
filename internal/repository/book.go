package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/internal/model"
)

func (r *repository) ListBooks(ctx context.Context) ([]model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "ListBooks")
	}
	defer rows.Close()

	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	if books == nil {
		books = make([]model.Book, 0)
	}
	return books, nil
}

func (r *repository) GetBook(ctx context.Context, id string) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Book{}, errors.Wrap(err, "GetBook")
	}
	defer rows.Close()

	book, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Book{}, errs.ErrBookNotFound
		}
		return model.Book{}, errors.Wrap(err, "GetBook")
	}
	return book, nil
}

func (r *repository) ListBookBorrows(ctx context.Context, bookID string) ([]model.Borrow, error) {
	query, args, err := qb.Select(borrowColumns...).
		From(borrowsTableName).
		Where(sq.Eq{"book_id": bookID}).
		OrderBy("borrow_date desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "ListBookBorrows")
	}
	defer rows.Close()

	borrows, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Borrow])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	if borrows == nil {
		borrows = make([]model.Borrow, 0)
	}
	return borrows, nil
}

func (r *repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("id", "title", "author", "isbn", "cover_image", "description", "status").
		Values(book.ID, book.Title, book.Author, book.ISBN, book.CoverImage, book.Description, model.BookAvailable).
		Suffix(returning(bookColumns)).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Book{}, errors.Wrap(err, "CreateBook")
	}
	defer rows.Close()

	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == constraintBookISBN {
			return model.Book{}, errs.ErrISBNExists
		}
		r.log.Error("CreateBook", zap.String("q", query), zap.Error(err))
		return model.Book{}, errors.Wrap(err, "CreateBook")
	}
	return created, nil
}

func (r *repository) UpdateBook(ctx context.Context, id string, req model.UpdateBookRequest) (model.Book, error) {
	if req.Empty() {
		return r.GetBook(ctx, id)
	}

	fields := make(map[string]interface{}, 6)
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Author != nil {
		fields["author"] = *req.Author
	}
	if req.ISBN != nil {
		fields["isbn"] = *req.ISBN
	}
	if req.CoverImage != nil {
		fields["cover_image"] = *req.CoverImage
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	fields["updated_at"] = time.Now().UTC()

	query, args, err := qb.Update(booksTableName).
		SetMap(fields).
		Where(sq.Eq{"id": id}).
		Suffix(returning(bookColumns)).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Book{}, errors.Wrap(err, "UpdateBook")
	}
	defer rows.Close()

	book, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Book{}, errs.ErrBookNotFound
		}
		if constraint, ok := uniqueViolation(err); ok && constraint == constraintBookISBN {
			return model.Book{}, errs.ErrISBNExists
		}
		return model.Book{}, errors.Wrap(err, "UpdateBook")
	}
	return book, nil
}

// DeleteBook removes a book and its returned borrows. A book on loan is kept.
func (r *repository) DeleteBook(ctx context.Context, id string) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := lockBook(ctx, tx, id); err != nil {
			return err
		}

		var active bool
		q := `select exists(select 1 from borrows where book_id = $1 and status = $2)`
		if err := tx.QueryRow(ctx, q, id, model.BorrowActive).Scan(&active); err != nil {
			return errors.Wrap(err, "DeleteBook active borrow")
		}
		if active {
			return errs.ErrBookBorrowed
		}

		query, args, err := qb.Delete(booksTableName).Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return errors.Wrap(err, "DeleteBook")
		}
		return nil
	})
}

// lockBook reads the book status holding a row lock until tx ends.
func lockBook(ctx context.Context, tx pgx.Tx, id string) (model.BookStatus, error) {
	query, args, err := qb.Select("status").
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		Suffix("for update").
		ToSql()
	if err != nil {
		return "", err
	}

	var status model.BookStatus
	if err := tx.QueryRow(ctx, query, args...).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errs.ErrBookNotFound
		}
		return "", errors.Wrap(err, "lockBook")
	}
	return status, nil
}
