package scan

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/icco/rudiments/internal/drumerr"
)

// Open opens path for reading. A path that does not name a regular file is
// reported as drumerr.ErrFileNotFound before anything is read.
func Open(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, drumerr.NotFound(path)
	}
	f, err := os.Open(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", path, err)
	}
	return f, nil
}

// Lines calls fn for every non-blank line of r, stopping at the first error.
// Line numbers are 1-based and count blank lines.
func Lines(r io.Reader, fn func(num int, line string) error) error {
	sc := bufio.NewScanner(r)
	num := 0
	for sc.Scan() {
		num++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(num, line); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("error reading line %d: %w", num+1, err)
	}
	return nil
}
