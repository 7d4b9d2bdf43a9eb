// Package compileinfoprint is imported for the side effect of printing the
// compileinfo to os.Stderr at startup.
package compileinfoprint

import "github.com/itsatony/mediabase-sub002/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}
