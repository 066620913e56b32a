package sql

import (
	"context"

	"github.com/querykit/querykit/dialect"
)

// Processor turns driver results into builder results. The base processor
// covers engines that report generated keys through LastInsertId; Postgres
// and SQL Server need statement-level strategies.
type Processor interface {
	// ProcessSelect scans all remaining rows into generic Row maps.
	ProcessSelect(b *Builder, rows *Rows) ([]Row, error)
	// ProcessInsertGetID executes a compiled single-row insert and
	// returns the generated key of the sequence column.
	ProcessInsertGetID(ctx context.Context, b *Builder, query string, args []any, sequence string) (int64, error)
}

// NewProcessor returns the processor for the named dialect.
func NewProcessor(name string) Processor {
	switch name {
	case dialect.Postgres:
		return postgresProcessor{}
	case dialect.SQLServer:
		return sqlserverProcessor{}
	default:
		return baseProcessor{}
	}
}

type baseProcessor struct{}

func (baseProcessor) ProcessSelect(b *Builder, rows *Rows) ([]Row, error) {
	return scanRows(rows)
}

func (baseProcessor) ProcessInsertGetID(ctx context.Context, b *Builder, query string, args []any, sequence string) (int64, error) {
	res, err := b.conn.Exec(ctx, query, args)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// postgresProcessor reads the generated key from the `returning` clause
// the Postgres grammar appends.
type postgresProcessor struct{ baseProcessor }

func (p postgresProcessor) ProcessInsertGetID(ctx context.Context, b *Builder, query string, args []any, sequence string) (int64, error) {
	rows, err := b.conn.Select(ctx, query, args)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	results, err := scanRows(rows)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return toInt64(results[0][sequence])
}

// sqlserverProcessor appends a scope_identity() select to the insert and
// reads the key from it.
type sqlserverProcessor struct{ baseProcessor }

func (p sqlserverProcessor) ProcessInsertGetID(ctx context.Context, b *Builder, query string, args []any, sequence string) (int64, error) {
	query = query + "; select scope_identity() as " + b.grammar.WrapValue(sequence)
	rows, err := b.conn.Select(ctx, query, args)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	results, err := scanRows(rows)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return toInt64(results[0][sequence])
}

// scanRows drains rows into generic maps, one per row.
func scanRows(rows *Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []Row
	for rows.Next() {
		values := make([]any, len(columns))
		dests := make([]any, len(columns))
		for i := range values {
			dests[i] = &values[i]
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, err
		}
		row := make(Row, len(columns))
		for i, c := range columns {
			row[c] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
