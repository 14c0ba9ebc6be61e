package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/programhub/internal/db"
	"github.com/alexanderramin/programhub/internal/domain"
)

// SQLiteProgramRepo implements ProgramRepo using a SQLite database.
type SQLiteProgramRepo struct {
	db db.DBTX
}

// NewSQLiteProgramRepo creates a new SQLiteProgramRepo.
func NewSQLiteProgramRepo(conn db.DBTX) *SQLiteProgramRepo {
	return &SQLiteProgramRepo{db: conn}
}

const programColumns = `id, short_id, name, fy_start_year, fy_end_year, start_date, target_date, created_at, updated_at`

func (r *SQLiteProgramRepo) Create(ctx context.Context, p *domain.Program) error {
	query := `INSERT INTO programs (` + programColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.ShortID,
		p.Name,
		p.FYStartYear,
		p.FYEndYear,
		nullableTimeToString(p.StartDate, dateLayout),
		nullableTimeToString(p.TargetDate, dateLayout),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting program: %w", err)
	}
	return nil
}

func (r *SQLiteProgramRepo) GetByID(ctx context.Context, id string) (*domain.Program, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+programColumns+` FROM programs WHERE id = ?`, id)
	return scanProgram(row)
}

func (r *SQLiteProgramRepo) GetByShortID(ctx context.Context, shortID string) (*domain.Program, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+programColumns+` FROM programs WHERE UPPER(short_id) = UPPER(?)`, shortID)
	return scanProgram(row)
}

func (r *SQLiteProgramRepo) List(ctx context.Context) ([]*domain.Program, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+programColumns+` FROM programs ORDER BY created_at, short_id`)
	if err != nil {
		return nil, fmt.Errorf("listing programs: %w", err)
	}
	defer rows.Close()

	var programs []*domain.Program
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating programs: %w", err)
	}
	return programs, nil
}

func (r *SQLiteProgramRepo) Update(ctx context.Context, p *domain.Program) error {
	query := `UPDATE programs SET short_id = ?, name = ?, fy_start_year = ?, fy_end_year = ?,
		start_date = ?, target_date = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.ShortID,
		p.Name,
		p.FYStartYear,
		p.FYEndYear,
		nullableTimeToString(p.StartDate, dateLayout),
		nullableTimeToString(p.TargetDate, dateLayout),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating program: %w", err)
	}
	return requireAffected(res, "program")
}

func (r *SQLiteProgramRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM programs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting program: %w", err)
	}
	return requireAffected(res, "program")
}

func scanProgram(row rowScanner) (*domain.Program, error) {
	var p domain.Program
	var startDate, targetDate sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&p.ID, &p.ShortID, &p.Name, &p.FYStartYear, &p.FYEndYear,
		&startDate, &targetDate, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("program: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning program: %w", err)
	}

	p.StartDate = parseNullableTime(startDate, dateLayout)
	p.TargetDate = parseNullableTime(targetDate, dateLayout)
	p.CreatedAt, p.UpdatedAt, err = parseTimestamps(createdAt, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing program timestamps: %w", err)
	}
	return &p, nil
}

// requireAffected turns a zero-row update or delete into ErrNotFound.
func requireAffected(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return nil
}
