package render

import (
	"fmt"
	"os"

	"github.com/sznuper/updavail/internal/failure"
)

// DefaultTemplate is used when no template file is configured.
const DefaultTemplate = ` as of {time}:
 upgrade            {upgrade}
 install            {install}
 remove             {remove}
 not upgraded       {not_upgraded}`

// LoadTemplate returns the contents of path, or DefaultTemplate when path
// is empty. Read errors are failure.Render.
func LoadTemplate(path string) (string, error) {
	if path == "" {
		return DefaultTemplate, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", failure.New(failure.Render, stage, fmt.Errorf("reading template: %w", err))
	}
	return string(data), nil
}
