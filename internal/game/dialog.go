package game

import (
	"errors"

	"github.com/ncruces/zenity"
)

// PickConfigFile asks for a YAML configuration file with a native dialog.
// A cancelled dialog returns "" and no error.
func PickConfigFile() (string, error) {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Background Configuration"),
		zenity.FileFilters{{
			Name:     "YAML",
			Patterns: []string{"*.yaml", "*.yml"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil
		}
		return "", err
	}
	return filename, nil
}
