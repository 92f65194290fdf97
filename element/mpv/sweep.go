package mpv

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anisan-cli/vigil/constant"
	"github.com/anisan-cli/vigil/filesystem"
	"github.com/anisan-cli/vigil/log"
	"github.com/anisan-cli/vigil/where"
)

// StaleSocketAge is how old a leftover IPC socket must be before it is removed.
const StaleSocketAge = 24 * time.Hour

// CollectStaleSockets removes IPC sockets left behind by runs that did not shut down cleanly.
// Sockets of running sessions are younger than StaleSocketAge and are kept.
func CollectStaleSockets() int {
	fs := filesystem.API()
	removed := 0

	_ = fs.Walk(where.Temp(), func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		name := filepath.Base(path)
		if !strings.HasPrefix(name, constant.Vigil+"-") || !strings.HasSuffix(name, ".sock") {
			return nil
		}

		if time.Since(info.ModTime()) > StaleSocketAge {
			if fs.Remove(path) == nil {
				removed++
			}
		}
		return nil
	})

	if removed > 0 {
		log.Infof("removed %d stale mpv sockets", removed)
	}
	return removed
}
