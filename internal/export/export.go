// Package export serializes a calendar's full event listing to file formats
// consumed outside the application. It only reads the engine through the
// sorted enumeration the calendar exposes.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ToFile writes the calendar to path, picking the format from the file
// extension (.ics or .csv), and returns the absolute path written.
func ToFile(path string, cal Source) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve export path %q: %w", path, err)
	}

	f, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(abs)) {
	case ".ics":
		err = WriteICS(f, cal)
	case ".csv":
		err = WriteCSV(f, cal)
	default:
		err = fmt.Errorf("unsupported export format %q (use .ics or .csv)", filepath.Ext(abs))
	}
	if err != nil {
		return "", err
	}
	return abs, nil
}
