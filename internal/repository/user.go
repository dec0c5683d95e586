package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/internal/model"
)

func (r *repository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	query, args, err := qb.Insert(usersTableName).
		Columns("id", "name", "email", "password").
		Values(user.ID, user.Name, user.Email, user.Password).
		Suffix(returning(userColumns)).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.User{}, errors.Wrap(err, "CreateUser")
	}
	defer rows.Close()

	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == constraintUserEmail {
			return model.User{}, errs.ErrUserExists
		}
		r.log.Error("CreateUser", zap.String("q", query), zap.Error(err))
		return model.User{}, errors.Wrap(err, "CreateUser")
	}
	return created, nil
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getUser(ctx, sq.Eq{"email": email})
}

func (r *repository) GetUserByID(ctx context.Context, id string) (model.User, error) {
	return r.getUser(ctx, sq.Eq{"id": id})
}

func (r *repository) getUser(ctx context.Context, where sq.Eq) (model.User, error) {
	query, args, err := qb.Select(userColumns...).
		From(usersTableName).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.User{}, errors.Wrap(err, "getUser")
	}
	defer rows.Close()

	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, errs.ErrUserNotFound
		}
		return model.User{}, errors.Wrap(err, "getUser")
	}
	return user, nil
}

func (r *repository) ListUserBorrows(ctx context.Context, userID string) ([]model.BorrowWithBook, error) {
	cols := make([]string, 0, len(borrowColumns)+len(bookColumns))
	for _, c := range borrowColumns {
		cols = append(cols, "br."+c)
	}
	for _, c := range bookColumns {
		cols = append(cols, "b."+c)
	}
	query, args, err := qb.Select(cols...).
		From(borrowsTableName + " br").
		Join(fmt.Sprintf("%s b on b.id = br.book_id", booksTableName)).
		Where(sq.Eq{"br.user_id": userID}).
		OrderBy("br.borrow_date desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("ListUserBorrows", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "ListUserBorrows")
	}
	defer rows.Close()

	items := make([]model.BorrowWithBook, 0)
	for rows.Next() {
		var it model.BorrowWithBook
		if err := rows.Scan(
			&it.Borrow.ID, &it.Borrow.UserID, &it.Borrow.BookID, &it.Borrow.BorrowDate,
			&it.Borrow.DueDate, &it.Borrow.ReturnDate, &it.Borrow.Status,
			&it.Book.ID, &it.Book.Title, &it.Book.Author, &it.Book.ISBN, &it.Book.CoverImage,
			&it.Book.Description, &it.Book.Status, &it.Book.CreatedAt, &it.Book.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "ListUserBorrows scan")
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "ListUserBorrows rows")
	}
	return items, nil
}
