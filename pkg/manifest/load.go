// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// Load reads the description file named fileName in dir.
// It returns (nil, nil) when dir has no such file.
func Load(fsys afero.Fs, dir, fileName string) (*PkgInfo, error) {
	path := filepath.Join(dir, fileName)
	st, err := fsys.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if st.IsDir() {
		return nil, nil
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}
