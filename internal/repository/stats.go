package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/Astemirdum/lending-service/pkg/kafka"
)

func (r *repository) SaveEvent(ctx context.Context, event kafka.LendingEvent) error {
	q := `insert into lending_events (timestamp, user_id, book_id, borrow_id, event_type)
	values (@timestamp, @user_id, @book_id, @borrow_id, @event_type)`
	args := pgx.NamedArgs{
		"timestamp":  event.Timestamp,
		"user_id":    event.UserID,
		"book_id":    event.BookID,
		"borrow_id":  event.BorrowID,
		"event_type": event.EventType,
	}
	_, err := r.db.Exec(ctx, q, args)
	return errors.Wrap(err, "SaveEvent")
}

func (r *repository) GetStats(ctx context.Context) (model.StatsInfo, error) {
	const q = `
	select user_id::text as user_id,
	       count(*) filter (where event_type = 'BORROW') as borrows,
	       count(*) filter (where event_type = 'RETURN') as returns,
	       max(timestamp) as last_activity
	from lending_events
	group by user_id
	order by user_id
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return model.StatsInfo{}, errors.Wrap(err, "GetStats")
	}
	defer rows.Close()

	stats, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Stats])
	if err != nil {
		return model.StatsInfo{}, errors.Wrap(err, "pgx.CollectRows")
	}
	if stats == nil {
		stats = make([]model.Stats, 0)
	}
	return model.StatsInfo{Data: stats}, nil
}
