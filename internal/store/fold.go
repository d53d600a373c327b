package store

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"modernc.org/sqlite"
)

// foldFunc is a SQL function lowercasing text with Unicode case rules.
// SQLite's built-in LOWER only folds ASCII.
const foldFunc = "taskly_fold"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(foldFunc, 1, foldText)
}

func foldText(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return strings.ToLower(fmt.Sprint(v)), nil
	}
}
