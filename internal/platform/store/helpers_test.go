package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	perr "spillway/internal/platform/errors"
)

type fakeRowQuerier struct {
	execTag CommandTag
	execErr error

	queryRows Rows
	queryErr  error

	qrRow   Row
	qrErr   error
	qrCalls int
}

func (f *fakeRowQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return f.execTag, f.execErr
}

func (f *fakeRowQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return f.queryRows, f.queryErr
}

func (f *fakeRowQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	f.qrCalls++
	return &fakeRow{err: f.qrErr, val: f.qrRow}
}

type fakeRow struct {
	// if val != nil, delegate; else zero the first dest
	val Row
	err error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if r.val != nil {
		return r.val.Scan(dest...)
	}
	if len(dest) > 0 {
		rv := reflect.ValueOf(dest[0])
		if rv.Kind() == reflect.Pointer && rv.Elem().CanSet() {
			rv.Elem().Set(reflect.Zero(rv.Elem().Type()))
		}
	}
	return nil
}

type fakeRows struct {
	cols   []string
	data   [][]any // each row is len(cols)
	idx    int     // -1 before first
	err    error
	closed bool
}

func newRows(cols []string, data [][]any) *fakeRows {
	return &fakeRows{cols: cols, data: data, idx: -1}
}
func (r *fakeRows) Columns() []string { return r.cols }
func (r *fakeRows) Next() bool {
	if r.err != nil {
		return false
	}
	r.idx++
	return r.idx >= 0 && r.idx < len(r.data)
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if r.idx < 0 || r.idx >= len(r.data) {
		return errors.New("scan out of bounds")
	}
	row := r.data[r.idx]
	if len(dest) != len(row) {
		return errors.New("dest len mismatch")
	}
	for i := range dest {
		// dest[i] is pointer; set underlying to row[i]
		dv := reflect.ValueOf(dest[i])
		if dv.Kind() != reflect.Pointer || !dv.Elem().CanSet() {
			return errors.New("dest not settable")
		}
		val := reflect.ValueOf(row[i])
		// if types don't match, try conversion for common cases
		if val.IsValid() && val.Type().AssignableTo(dv.Elem().Type()) {
			dv.Elem().Set(val)
			continue
		}
		// []byte -> string
		if b, ok := row[i].([]byte); ok && dv.Elem().Kind() == reflect.String {
			dv.Elem().SetString(string(b))
			continue
		}
		// string -> []byte
		if s, ok := row[i].(string); ok && dv.Elem().Kind() == reflect.Slice &&
			dv.Elem().Type().Elem().Kind() == reflect.Uint8 {
			dv.Elem().SetBytes([]byte(s))
			continue
		}
		if val.IsValid() && val.Type().ConvertibleTo(dv.Elem().Type()) {
			dv.Elem().Set(val.Convert(dv.Elem().Type()))
			continue
		}
		dv.Elem().Set(reflect.Zero(dv.Elem().Type()))
	}
	return nil
}
func (r *fakeRows) Err() error { return r.err }
func (r *fakeRows) Close()     { r.closed = true }

// scanVal lets us force the returned Scan value
type scanVal struct{ v any }

func (s *scanVal) Scan(dest ...any) error {
	if len(dest) == 0 {
		return nil
	}
	dv := reflect.ValueOf(dest[0])
	if dv.Kind() == reflect.Pointer && dv.Elem().CanSet() {
		val := reflect.ValueOf(s.v)
		if val.Type().AssignableTo(dv.Elem().Type()) {
			dv.Elem().Set(val)
		} else if val.Type().ConvertibleTo(dv.Elem().Type()) {
			dv.Elem().Set(val.Convert(dv.Elem().Type()))
		}
	}
	return nil
}

// projectRow mirrors the shape repos scan out of the registry table
type projectRow struct {
	ID        int64
	Slug      string
	Retention int
}

func scanProject(r Row) (projectRow, error) {
	var p projectRow
	if err := r.Scan(&p.ID, &p.Slug, &p.Retention); err != nil {
		return projectRow{}, err
	}
	return p, nil
}

/*
	tests
*/

func TestScalar_ReadsFirstColumn(t *testing.T) {
	t.Parallel()

	// the limiter's RETURNING count path: one row, one int
	f := &fakeRowQuerier{
		qrRow: Row(&scanVal{v: 42}),
	}
	got, err := Scalar[int](context.Background(), f, "insert counter returning count")
	if err != nil {
		t.Fatalf("Scalar err: %v", err)
	}
	if got != 42 {
		t.Fatalf("Scalar got %d want 42", got)
	}
	if f.qrCalls != 1 {
		t.Fatalf("QueryRow calls = %d, want 1", f.qrCalls)
	}
}

func TestScalar_ScanError(t *testing.T) {
	t.Parallel()

	f := &fakeRowQuerier{qrErr: errors.New("scan bad")}
	_, err := Scalar[int](context.Background(), f, "select count")
	if err == nil || err.Error() != "scan bad" {
		t.Fatalf("expected scan error, got %v", err)
	}
}

func TestOne_SingleRow(t *testing.T) {
	t.Parallel()

	rows := newRows([]string{"id", "slug", "retention_days"}, [][]any{
		{int64(7), "checkout-api", 3},
	})
	f := &fakeRowQuerier{queryRows: rows}

	p, err := One(context.Background(), f, scanProject, "select project by key hash")
	if err != nil {
		t.Fatalf("One err: %v", err)
	}
	if p.ID != 7 || p.Slug != "checkout-api" || p.Retention != 3 {
		t.Fatalf("One scanned %+v", p)
	}
	if !rows.closed {
		t.Fatalf("rows not closed")
	}
}

func TestOne_NotFoundAndTooMany(t *testing.T) {
	t.Parallel()

	// not found
	f1 := &fakeRowQuerier{queryRows: newRows([]string{"id", "slug", "retention_days"}, nil)}
	_, err := One(context.Background(), f1, scanProject, "q")
	if !errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// too many: two projects cannot share a key hash
	f2 := &fakeRowQuerier{queryRows: newRows([]string{"id", "slug", "retention_days"}, [][]any{
		{int64(1), "gateway", 3},
		{int64(2), "gateway-2", 7},
	})}
	_, err = One(context.Background(), f2, scanProject, "q")
	if err == nil || err.Error() == "" {
		t.Fatalf("expected error for >1 row")
	}
}

func TestOne_QueryErrorAndErrFromRowsOnNoNext(t *testing.T) {
	t.Parallel()

	// Query error
	f1 := &fakeRowQuerier{queryErr: errors.New("query bad")}
	_, err := One(context.Background(), f1, scanProject, "q")
	if err == nil || err.Error() != "query bad" {
		t.Fatalf("expected query error, got %v", err)
	}

	// rows.Err() when no Next
	r := newRows([]string{"id", "slug", "retention_days"}, nil)
	r.err = errors.New("rows-err")
	f2 := &fakeRowQuerier{queryRows: r}
	_, err = One(context.Background(), f2, scanProject, "q")
	if err == nil || err.Error() != "rows-err" {
		t.Fatalf("expected rows.Err, got %v", err)
	}
}

func TestMany_MultiRow(t *testing.T) {
	t.Parallel()

	// the retention walk scans distinct day windows
	f := &fakeRowQuerier{queryRows: newRows([]string{"retention_days"}, [][]any{{1}, {3}, {30}})}
	days, err := Many(context.Background(), f, func(r Row) (int, error) {
		var d int
		return d, r.Scan(&d)
	}, "select distinct retention_days")
	if err != nil {
		t.Fatalf("Many err: %v", err)
	}
	want := []int{1, 3, 30}
	if !reflect.DeepEqual(days, want) {
		t.Fatalf("Many %v want %v", days, want)
	}
}

func TestMany_EmptyRows_IsHappyPath(t *testing.T) {
	t.Parallel()

	f := &fakeRowQuerier{queryRows: newRows([]string{"id", "slug", "retention_days"}, nil)}
	items, err := Many(context.Background(), f, scanProject, "q")
	if err != nil {
		t.Fatalf("expected nil error on empty result set, got %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty slice, got %v", items)
	}
}

func TestMany_QueryErrorAndScanError(t *testing.T) {
	t.Parallel()

	// Query error
	f1 := &fakeRowQuerier{queryErr: errors.New("boom")}
	_, err := Many(context.Background(), f1, scanProject, "q")
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected query error, got %v", err)
	}

	// Scan error (second row)
	rows := newRows([]string{"n"}, [][]any{{1}, {2}})
	f2 := &fakeRowQuerier{queryRows: rows}
	_, err = Many(context.Background(), f2, func(r Row) (int, error) {
		if rows.idx == 0 {
			var v int
			return v, r.Scan(&v)
		}
		return 0, errors.New("scan in mapper failed")
	}, "q")
	if err == nil || err.Error() != "scan in mapper failed" {
		t.Fatalf("expected mapper error, got %v", err)
	}
}

func TestMany_ReturnsRowsErr_WhenIteratorErrors(t *testing.T) {
	t.Parallel()

	// rows.Err should propagate even if we never enter the loop
	r := newRows([]string{"n"}, nil)
	r.err = errors.New("iter blew up")
	f := &fakeRowQuerier{queryRows: r}

	items, err := Many[int](context.Background(), f, func(Row) (int, error) { return 0, nil }, "q")
	if err == nil || err.Error() != "iter blew up" {
		t.Fatalf("expected rows.Err to bubble, got %v", err)
	}
	if items != nil {
		t.Fatalf("expected nil slice on error, got %v", items)
	}
}

func TestRowFromRows_SingleScanFacade(t *testing.T) {
	t.Parallel()

	cols := []string{"minute_utc"}
	data := [][]any{{int64(29761234)}}
	fr := newRows(cols, data)
	r := &rowFromRows{rows: fr}

	// advance to first row then scan through facade
	if !fr.Next() {
		t.Fatalf("Next false")
	}
	var m int64
	if err := r.Scan(&m); err != nil {
		t.Fatalf("rowFromRows.Scan err: %v", err)
	}
	if m != 29761234 {
		t.Fatalf("rowFromRows got %d want 29761234", m)
	}
}
