package namespace

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/jexlang/jexl/internal/values"
)

// sqlFuncs is the `sql:` namespace, backed by the pure-Go modernc.org/sqlite
// driver. Query results come back as *Row host objects rather than Maps,
// demonstrating a second pluggable uberspect host-object shape alongside the
// reflective default: Row implements uberspect.PropertyByName so `.column_name`
// resolves through a host-supplied column map instead of Go struct reflection.
func sqlFuncs() map[string]Func {
	return map[string]Func{
		"open":     sqlOpen,
		"close":    sqlClose,
		"exec":     sqlExec,
		"query":    sqlQuery,
		"queryRow": sqlQueryRow,
	}
}

func sqlOpen(args []values.Value) (values.Value, error) {
	dsn := values.ToGoString(arg(args, 0))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql:open: %w", err)
	}
	return values.Object{Native: db}, nil
}

func sqlClose(args []values.Value) (values.Value, error) {
	db, err := dbOf(arg(args, 0))
	if err != nil {
		return nil, err
	}
	return values.NULL, db.Close()
}

func dbOf(v values.Value) (*sql.DB, error) {
	obj, ok := v.(values.Object)
	if !ok {
		return nil, fmt.Errorf("sql: argument is not a database handle")
	}
	db, ok := obj.Native.(*sql.DB)
	if !ok {
		return nil, fmt.Errorf("sql: argument is not a database handle")
	}
	return db, nil
}

func sqlArgs(rest []values.Value) []interface{} {
	out := make([]interface{}, len(rest))
	for i, v := range rest {
		out[i] = sqlGoValue(v)
	}
	return out
}

func sqlGoValue(v values.Value) interface{} {
	switch x := v.(type) {
	case values.Null:
		return nil
	case values.Bool:
		return bool(x)
	case values.Int64:
		return int64(x)
	case values.Float64:
		return float64(x)
	case values.Str:
		return string(x)
	default:
		return v.String()
	}
}

func sqlExec(args []values.Value) (values.Value, error) {
	db, err := dbOf(arg(args, 0))
	if err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, fmt.Errorf("sql:exec(db, query, args...)")
	}
	query := values.ToGoString(args[1])
	res, err := db.Exec(query, sqlArgs(args[2:])...)
	if err != nil {
		return nil, fmt.Errorf("sql:exec: %w", err)
	}
	n, _ := res.RowsAffected()
	return values.Int64(n), nil
}

func sqlQuery(args []values.Value) (values.Value, error) {
	db, err := dbOf(arg(args, 0))
	if err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, fmt.Errorf("sql:query(db, query, args...)")
	}
	query := values.ToGoString(args[1])
	rows, err := db.Query(query, sqlArgs(args[2:])...)
	if err != nil {
		return nil, fmt.Errorf("sql:query: %w", err)
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sql:query: %w", err)
	}
	var out []values.Value
	for rows.Next() {
		rowVal, err := scanRow(rows, cols)
		if err != nil {
			return nil, fmt.Errorf("sql:query: %w", err)
		}
		out = append(out, values.Object{Native: rowVal})
	}
	return values.Array{Elems: out}, rows.Err()
}

func sqlQueryRow(args []values.Value) (values.Value, error) {
	result, err := sqlQuery(args)
	if err != nil {
		return nil, err
	}
	arr := result.(values.Array)
	if len(arr.Elems) == 0 {
		return values.NULL, nil
	}
	return arr.Elems[0], nil
}

// Row is a query-result row exposed as a host object: column name -> Value.
type Row struct {
	Columns []string
	Values  map[string]values.Value
}

// JexlProperty implements uberspect.PropertyByName: `.column_name` access on
// a queried row resolves straight to the scanned column value instead of
// going through Go struct-field reflection.
func (r *Row) JexlProperty(name string) (values.Value, bool) {
	v, ok := r.Values[name]
	return v, ok
}

func scanRow(rows *sql.Rows, cols []string) (*Row, error) {
	raw := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	row := &Row{Columns: cols, Values: make(map[string]values.Value, len(cols))}
	for i, c := range cols {
		row.Values[c] = sqlColumnValue(raw[i])
	}
	return row, nil
}

func sqlColumnValue(raw interface{}) values.Value {
	switch x := raw.(type) {
	case nil:
		return values.NULL
	case int64:
		return values.Int64(x)
	case float64:
		return values.Float64(x)
	case []byte:
		return values.Str(string(x))
	case string:
		return values.Str(x)
	case bool:
		return values.Bool(x)
	}
	return values.Str(fmt.Sprintf("%v", raw))
}
