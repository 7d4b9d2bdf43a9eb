package mediabase

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
)

// ExpandHome expands a leading ~ to the invoking user's home directory, so
// upload paths can be passed the way people type them at a shell.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalln(pfx.Err(err))
		}
		path = filepath.Join(home, path[2:])
	}

	return path
}
