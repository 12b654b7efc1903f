package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/alfredjeanlab/hiredesk/internal/idgen"
	"github.com/alfredjeanlab/hiredesk/internal/model"
)

// viewColumns is the column list used for SELECT statements on the views table.
const viewColumns = `id, name, job_id, criteria, display_columns, created_at, updated_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// querySaveView upserts v keyed on name. A new view gets a fresh ID; saving
// over an existing name keeps that view's ID and creation time.
func querySaveView(ctx context.Context, db executor, v *model.View) error {
	if v.ID == "" {
		id, err := idgen.NewViewID()
		if err != nil {
			return err
		}
		v.ID = id
	}
	criteria, err := json.Marshal(v.Criteria)
	if err != nil {
		return fmt.Errorf("marshal criteria: %w", err)
	}
	columns := v.Columns
	if columns == nil {
		columns = []string{}
	}

	err = db.QueryRowContext(ctx, `
		INSERT INTO views (id, name, job_id, criteria, display_columns)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE SET
			job_id = EXCLUDED.job_id,
			criteria = EXCLUDED.criteria,
			display_columns = EXCLUDED.display_columns,
			updated_at = now()
		RETURNING id, created_at, updated_at`,
		v.ID, v.Name, nullString(v.JobID), criteria, pq.Array(columns),
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save view %s: %w", v.Name, err)
	}
	return nil
}

// queryGetView matches ref against both ID and name.
func queryGetView(ctx context.Context, db executor, ref string) (*model.View, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+viewColumns+` FROM views WHERE id = $1 OR name = $1`, ref)
	return scanView(row)
}

func queryListViews(ctx context.Context, db executor) ([]*model.View, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+viewColumns+` FROM views ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list views: %w", err)
	}
	defer rows.Close()
	return scanViews(rows)
}

func queryDeleteView(ctx context.Context, db executor, ref string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM views WHERE id = $1 OR name = $1`, ref)
	if err != nil {
		return fmt.Errorf("delete view %s: %w", ref, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete view %s: %w", ref, err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
