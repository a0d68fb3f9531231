package installer

import (
	"os"
	"path/filepath"
	"strings"

	fs "github.com/TheAppgineer/extension-installer-docker/pkg/filesystem"
	"github.com/TheAppgineer/extension-installer-docker/pkg/logging"
)

// bindProvisioner ensures host-side backing for the binds an image
// descriptor declares: a directory chain plus an empty placeholder file
// per bind, created under a root directory.
type bindProvisioner struct {
	fs     fs.FileSystemAPI
	logger logging.Logger
}

// provision walks the declared binds from the last to the first and
// returns one host:container bind-mount entry per absolute bind.
//
// Provisioning is idempotent: existing directories and files are left
// untouched, absence is never an error. Relative bind declarations get
// no host backing; they are expected to be volume targets. A genuine
// I/O failure aborts the walk, leaving earlier artifacts in place.
func (p *bindProvisioner) provision(root string, binds []string) ([]string, error) {
	var entries []string

	for index := len(binds) - 1; index >= 0; index-- {
		bind := binds[index]
		if !strings.HasPrefix(bind, "/") {
			p.logger.Debugf("Skipping host backing for relative bind: %s", bind)
			continue
		}

		hostPath := filepath.Join(root, bind)
		if err := p.fs.MkdirAll(filepath.Dir(hostPath), 0755); err != nil {
			return nil, err
		}

		if _, err := p.fs.Stat(hostPath); err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			if err := p.fs.WriteFile(hostPath, nil, 0644); err != nil {
				return nil, err
			}
			p.logger.Debugf("Created bind backing file: %s", hostPath)
		}

		entries = append(entries, hostPath+":"+bind)
	}

	return entries, nil
}
