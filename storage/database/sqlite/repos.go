// Package sqliterepos implements the domain repositories on the file-backed
// sqlite store. Each repository holds a default executor and accepts an
// override so service-level transactions can pass their own.
package sqliterepos

import (
	"strings"

	"github.com/shulehq/shule/core"
)

func getExec(repoExec core.DBExecutor, svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repoExec
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on the
// given "table.column" target.
func isUniqueViolation(err error, target string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+target)
}
