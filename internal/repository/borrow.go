package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/internal/model"
)

// BorrowBook creates an active borrow and marks the book borrowed in one transaction.
// The book row lock serializes concurrent borrows of the same book.
func (r *repository) BorrowBook(ctx context.Context, userID, bookID string, now time.Time) (model.Borrow, error) {
	var borrow model.Borrow
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		status, err := lockBook(ctx, tx, bookID)
		if err != nil {
			return err
		}
		if status != model.BookAvailable {
			return errs.ErrBookNotAvailable
		}

		query, args, err := qb.Insert(borrowsTableName).
			Columns("id", "user_id", "book_id", "borrow_date", "due_date", "status").
			Values(uuid.NewString(), userID, bookID, now, now.Add(model.LoanPeriod), model.BorrowActive).
			Suffix(returning(borrowColumns)).
			ToSql()
		if err != nil {
			return err
		}
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return errors.Wrap(err, "insert borrow")
		}
		borrow, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Borrow])
		if err != nil {
			if constraint, ok := uniqueViolation(err); ok && constraint == constraintActiveBorrow {
				return errs.ErrBookNotAvailable
			}
			return errors.Wrap(err, "insert borrow")
		}

		return setBookStatus(ctx, tx, bookID, model.BookBorrowed, now)
	})
	if err != nil {
		return model.Borrow{}, err
	}
	return borrow, nil
}

// ReturnBook closes the caller's active borrow and makes the book available again.
func (r *repository) ReturnBook(ctx context.Context, userID, bookID string, now time.Time) (model.Borrow, error) {
	var borrow model.Borrow
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := lockBook(ctx, tx, bookID); err != nil {
			if errors.Is(err, errs.ErrBookNotFound) {
				return errs.ErrNoActiveBorrow
			}
			return err
		}

		query, args, err := qb.Update(borrowsTableName).
			Set("status", model.BorrowReturned).
			Set("return_date", now).
			Where(sq.Eq{
				"book_id": bookID,
				"user_id": userID,
				"status":  model.BorrowActive,
			}).
			Suffix(returning(borrowColumns)).
			ToSql()
		if err != nil {
			return err
		}
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return errors.Wrap(err, "update borrow")
		}
		borrow, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Borrow])
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return errs.ErrNoActiveBorrow
			}
			return errors.Wrap(err, "update borrow")
		}

		return setBookStatus(ctx, tx, bookID, model.BookAvailable, now)
	})
	if err != nil {
		return model.Borrow{}, err
	}
	return borrow, nil
}

func setBookStatus(ctx context.Context, tx pgx.Tx, bookID string, status model.BookStatus, now time.Time) error {
	query, args, err := qb.Update(booksTableName).
		Set("status", status).
		Set("updated_at", now).
		Where(sq.Eq{"id": bookID}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return errors.Wrap(err, "setBookStatus")
	}
	return nil
}
