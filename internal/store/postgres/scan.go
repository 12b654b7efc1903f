package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/alfredjeanlab/hiredesk/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanView scans a single row into a model.View.
// The row must contain columns in the order defined by viewColumns.
func scanView(row scannable) (*model.View, error) {
	var v model.View
	var (
		jobID    sql.NullString
		criteria []byte
		columns  pq.StringArray
	)
	if err := row.Scan(&v.ID, &v.Name, &jobID, &criteria, &columns, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	v.JobID = jobID.String
	if len(columns) > 0 {
		v.Columns = []string(columns)
	}
	if len(criteria) > 0 {
		if err := json.Unmarshal(criteria, &v.Criteria); err != nil {
			return nil, fmt.Errorf("decode criteria for view %s: %w", v.ID, err)
		}
	}
	return &v, nil
}

// scanViews scans multiple rows into a slice of model.View pointers.
func scanViews(rows *sql.Rows) ([]*model.View, error) {
	var views []*model.View
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return views, nil
}

// nullString converts a string to sql.NullString; empty string is null.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
