package store

import (
	"context"
	"strconv"
	"strings"

	perr "spillway/internal/platform/errors"
)

// pg's extended protocol caps bind parameters at uint16
const maxBindArgs = 65535

// BulkInsert writes rows with a single multi-row INSERT .. RETURNING id and
// returns the inserted count plus the first generated id. One statement means
// one atomic write: either every row lands or none do. The target table must
// carry a bigserial id column. Empty batches are rejected so callers
// short-circuit before touching the pool
func BulkInsert(ctx context.Context, q RowQuerier, table string, cols []string, rowSet [][]any) (int64, int64, error) {
	if q == nil {
		return 0, 0, ErrNotInitialized
	}
	if len(cols) == 0 {
		return 0, 0, perr.Newf(perr.ErrorCodeInvalidArgument, "bulk insert %s: no columns", table)
	}
	if len(rowSet) == 0 {
		return 0, 0, perr.Newf(perr.ErrorCodeInvalidArgument, "bulk insert %s: empty row set", table)
	}
	if len(cols)*len(rowSet) > maxBindArgs {
		return 0, 0, perr.Newf(perr.ErrorCodeInvalidArgument,
			"bulk insert %s: %d args exceed protocol limit", table, len(cols)*len(rowSet))
	}

	var sb strings.Builder
	sb.Grow(64 + len(rowSet)*len(cols)*4)
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(") VALUES ")

	args := make([]any, 0, len(rowSet)*len(cols))
	n := 1
	for i, r := range rowSet {
		if len(r) != len(cols) {
			return 0, 0, perr.Newf(perr.ErrorCodeInvalidArgument,
				"bulk insert %s: row %d has %d values, want %d", table, i, len(r), len(cols))
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('(')
		for j := range r {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			n++
		}
		sb.WriteByte(')')
		args = append(args, r...)
	}
	sb.WriteString(" RETURNING id")

	rows, err := q.Query(ctx, sb.String(), args...)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	var count, firstID int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, 0, err
		}
		if count == 0 {
			firstID = id
		}
		count++
	}
	return count, firstID, rows.Err()
}
