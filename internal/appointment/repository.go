package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/clinic-booking-backend/internal/schedule"
)

type Repository interface {
	// Create stores a new appointment. It returns ErrSlotConflict when another
	// non-cancelled appointment already holds the same doctor, date and slot.
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context, filter Filter) ([]*Appointment, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var appointmentColumns = []string{
	"id", "doctor_id", "patient_id", "date", "time_slot", "status", "payment_status", "created_at",
}

func (r *pgxRepository) Create(ctx context.Context, a *Appointment) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.appointments").
		Columns("doctor_id", "patient_id", "date", "time_slot", "status", "payment_status").
		Values(a.DoctorID, a.PatientID, a.Date.In(time.UTC), a.TimeSlot, string(a.Status), string(a.PaymentStatus)).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create appointment query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&a.ID, &a.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return ErrSlotConflict
			case pgerrcode.ForeignKeyViolation:
				return ErrDoctorNotFound
			}
		}
		return fmt.Errorf("create appointment failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(appointmentColumns...).
		From("public.appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get appointment query failed: %w", err)
	}

	a, err := scanAppointment(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get appointment failed: %w", err)
	}
	return a, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Appointment, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(appointmentColumns...).From("public.appointments")

	if filter.DoctorID != "" {
		query = query.Where(squirrel.Eq{"doctor_id": filter.DoctorID})
	}
	if filter.PatientID != "" {
		query = query.Where(squirrel.Eq{"patient_id": filter.PatientID})
	}
	if filter.Date != nil {
		query = query.Where(squirrel.Eq{"date": filter.Date.In(time.UTC)})
	}

	sql, args, err := query.OrderBy("date ASC", "created_at ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list appointments query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments failed: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment failed: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments failed: %w", err)
	}
	return out, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var (
		a             Appointment
		date          time.Time
		status        string
		paymentStatus string
	)
	if err := row.Scan(
		&a.ID, &a.DoctorID, &a.PatientID, &date, &a.TimeSlot, &status, &paymentStatus, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	a.Date = schedule.DateOf(date)
	a.Status = Status(status)
	a.PaymentStatus = PaymentStatus(paymentStatus)
	return &a, nil
}
