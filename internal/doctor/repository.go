package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/clinic-booking-backend/internal/schedule"
)

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id string) (*Doctor, error)

	// ReplaceAvailability swaps the doctor's whole weekly schedule atomically.
	ReplaceAvailability(ctx context.Context, id string, windows []schedule.Window) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, d *Doctor) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.doctors").
		Columns("name", "specialization", "consultation_fee").
		Values(d.Name, d.Specialization, d.ConsultationFee).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create doctor query failed: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create doctor tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, query, args...).Scan(&d.ID, &d.CreatedAt); err != nil {
		return fmt.Errorf("create doctor failed: %w", err)
	}
	if err := insertWindows(ctx, tx, d.ID, d.Availability); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create doctor failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "name", "specialization", "consultation_fee", "created_at").
		From("public.doctors").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get doctor query failed: %w", err)
	}

	var d Doctor
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&d.ID, &d.Name, &d.Specialization, &d.ConsultationFee, &d.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get doctor failed: %w", err)
	}

	windows, err := r.listWindows(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Availability = windows
	return &d, nil
}

func (r *pgxRepository) ReplaceAvailability(ctx context.Context, id string, windows []schedule.Window) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace availability tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the doctor row so concurrent replacements serialize.
	lockQuery, lockArgs, err := psql.Select("id").
		From("public.doctors").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("build lock doctor query failed: %w", err)
	}
	var locked string
	if err := tx.QueryRow(ctx, lockQuery, lockArgs...).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock doctor failed: %w", err)
	}

	delQuery, delArgs, err := psql.Delete("public.doctor_availability").
		Where(squirrel.Eq{"doctor_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete availability query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, delQuery, delArgs...); err != nil {
		return fmt.Errorf("delete availability failed: %w", err)
	}

	if err := insertWindows(ctx, tx, id, windows); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace availability failed: %w", err)
	}
	return nil
}

// insertWindows stores windows with their position so reads keep input order,
// which decides the first match for a weekday.
func insertWindows(ctx context.Context, tx pgx.Tx, doctorID string, windows []schedule.Window) error {
	if len(windows) == 0 {
		return nil
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	insert := psql.Insert("public.doctor_availability").
		Columns("doctor_id", "position", "weekday", "from_time", "to_time", "status")
	for i, w := range windows {
		insert = insert.Values(doctorID, i, int(w.Day), w.From.String(), w.To.String(), string(w.Status))
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert availability query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert availability failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) listWindows(ctx context.Context, doctorID string) ([]schedule.Window, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("weekday", "to_char(from_time, 'HH24:MI')", "to_char(to_time, 'HH24:MI')", "status").
		From("public.doctor_availability").
		Where(squirrel.Eq{"doctor_id": doctorID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list availability query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list availability failed: %w", err)
	}
	defer rows.Close()

	var windows []schedule.Window
	for rows.Next() {
		var (
			day      int
			from, to string
			status   string
		)
		if err := rows.Scan(&day, &from, &to, &status); err != nil {
			return nil, fmt.Errorf("scan availability failed: %w", err)
		}
		w, err := decodeWindow(day, from, to, status)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate availability failed: %w", err)
	}
	return windows, nil
}

func decodeWindow(day int, from, to, status string) (schedule.Window, error) {
	if day < int(time.Sunday) || day > int(time.Saturday) {
		return schedule.Window{}, fmt.Errorf("stored weekday %d out of range", day)
	}
	f, err := schedule.ParseWallClock(from)
	if err != nil {
		return schedule.Window{}, fmt.Errorf("stored from_time: %w", err)
	}
	t, err := schedule.ParseWallClock(to)
	if err != nil {
		return schedule.Window{}, fmt.Errorf("stored to_time: %w", err)
	}
	st, err := schedule.ParseStatus(status)
	if err != nil {
		return schedule.Window{}, fmt.Errorf("stored status: %w", err)
	}
	return schedule.Window{Day: time.Weekday(day), From: f, To: t, Status: st}, nil
}
