package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/caremeet/telehealth-api/internal/model"
	"github.com/caremeet/telehealth-api/internal/repository"
)

type availabilityRepository struct {
	BaseRepository
}

func NewAvailabilityRepository(db *sqlx.DB) repository.AvailabilityRepository {
	return &availabilityRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *availabilityRepository) Create(ctx context.Context, window *model.AvailabilityWindow) error {
	window.ID = uuid.New()
	window.CreatedAt = time.Now()
	window.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO availability_windows (id, doctor_id, date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
		`, window.ID, window.DoctorID, window.Date, window.CreatedAt, window.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create availability window: %w", err)
		}

		if err := insertTimeRanges(ctx, tx, window); err != nil {
			return err
		}
		return nil
	})
}

func insertTimeRanges(ctx context.Context, tx *sqlx.Tx, window *model.AvailabilityWindow) error {
	for i := range window.Times {
		window.Times[i].ID = uuid.New()
		window.Times[i].WindowID = window.ID
		_, err := tx.ExecContext(ctx, `
			INSERT INTO availability_times (id, window_id, start_time, end_time)
			VALUES ($1, $2, $3, $4)
		`, window.Times[i].ID, window.ID, window.Times[i].StartTime, window.Times[i].EndTime)
		if err != nil {
			return fmt.Errorf("failed to create availability time range: %w", err)
		}
	}
	return nil
}

func (r *availabilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AvailabilityWindow, error) {
	query := `
		SELECT id, doctor_id, date, created_at, updated_at
		FROM availability_windows
		WHERE id = $1
	`
	var window model.AvailabilityWindow
	err := r.db.GetContext(ctx, &window, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get availability window: %w", err)
	}

	if err := r.loadTimes(ctx, &window); err != nil {
		return nil, err
	}
	return &window, nil
}

func (r *availabilityRepository) FindByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date time.Time) (*model.AvailabilityWindow, error) {
	query := `
		SELECT id, doctor_id, date, created_at, updated_at
		FROM availability_windows
		WHERE doctor_id = $1 AND date = $2
	`
	var window model.AvailabilityWindow
	err := r.db.GetContext(ctx, &window, query, doctorID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find availability window: %w", err)
	}

	if err := r.loadTimes(ctx, &window); err != nil {
		return nil, err
	}
	return &window, nil
}

func (r *availabilityRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AvailabilityWindow, error) {
	query := `
		SELECT id, doctor_id, date, created_at, updated_at
		FROM availability_windows
		WHERE doctor_id = $1
		ORDER BY date ASC
	`
	var windows []*model.AvailabilityWindow
	err := r.db.SelectContext(ctx, &windows, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability windows: %w", err)
	}

	for _, w := range windows {
		if err := r.loadTimes(ctx, w); err != nil {
			return nil, err
		}
	}
	return windows, nil
}

func (r *availabilityRepository) Update(ctx context.Context, window *model.AvailabilityWindow, replaceTimes bool) error {
	window.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE availability_windows SET date = $1, updated_at = $2 WHERE id = $3
		`, window.Date, window.UpdatedAt, window.ID)
		if err != nil {
			return fmt.Errorf("failed to update availability window: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return repository.ErrNotFound
		}

		if !replaceTimes {
			return nil
		}

		// Sub-range replacement is all-or-nothing, never a merge.
		_, err = tx.ExecContext(ctx, `DELETE FROM availability_times WHERE window_id = $1`, window.ID)
		if err != nil {
			return fmt.Errorf("failed to clear availability time ranges: %w", err)
		}
		return insertTimeRanges(ctx, tx, window)
	})
}

func (r *availabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM availability_windows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete availability window: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *availabilityRepository) loadTimes(ctx context.Context, window *model.AvailabilityWindow) error {
	query := `
		SELECT id, window_id, start_time, end_time
		FROM availability_times
		WHERE window_id = $1
		ORDER BY start_time ASC
	`
	err := r.db.SelectContext(ctx, &window.Times, query, window.ID)
	if err != nil {
		return fmt.Errorf("failed to load availability time ranges: %w", err)
	}
	return nil
}
