package oracle

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

func mysqlErrCode(err error) (uint16, bool) {
	if err == nil {
		return 0, false
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number, true
	}
	return 0, false
}

// isWhitelistedSQLError reports whether the engine error is an expected
// consequence of randomly generated SQL rather than a bug signal.
// 1064 syntax error, 1292 truncated value, 1690 BIGINT out of range.
func isWhitelistedSQLError(err error) (uint16, bool) {
	code, ok := mysqlErrCode(err)
	if !ok {
		return 0, false
	}
	switch code {
	case 1064, 1292, 1690:
		return code, true
	default:
		return code, false
	}
}

func sqlErrorReason(oracle string, err error) (string, uint16) {
	code, whitelisted := isWhitelistedSQLError(err)
	if whitelisted {
		return oracle + ":whitelisted_sql_error", code
	}
	return oracle + ":sql_error", code
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
