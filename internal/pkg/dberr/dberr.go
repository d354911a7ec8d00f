package dberr

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// IsPermissionDenied classifies content-store failures that call for
// re-authentication, as opposed to "no content yet". MySQL reports these
// as access-denied error numbers.
func IsPermissionDenied(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1044, 1045, 1142, 1143:
			return true
		}
	}
	return false
}
