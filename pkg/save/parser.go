package save

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/arthur-debert/savesvc/pkg/errors"
	"github.com/arthur-debert/savesvc/pkg/registry"
	"github.com/arthur-debert/savesvc/pkg/types"
)

// ParseConfig reads a previously persisted configuration back into
// entries, accepting exactly what WriteConfig produces: an optional
// "@config" header, blank lines, and one "name=value" or
// "[id]name=value" assignment per line. Values come back as
// string-typed; the original type information is not persisted.
func ParseConfig(r io.Reader) ([]registry.Entry, error) {
	var entries []registry.Entry

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimRight(scanner.Text(), "\r")

		if line == "" || strings.HasPrefix(line, "@config") {
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "line %d", lineno)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "cannot read configuration")
	}

	return entries, nil
}

// ParseConfigFile loads entries from a configuration file. A missing
// file yields no entries; on first startup nothing has been saved yet.
func ParseConfigFile(fsys types.FS, path string) ([]registry.Entry, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot read %s", path)
	}
	return ParseConfig(bytes.NewReader(data))
}

// parseLine splits one assignment line into an entry.
func parseLine(line string) (registry.Entry, error) {
	var entry registry.Entry

	rest := line
	if strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return entry, errors.Newf(errors.ErrConfigParse, "unterminated instance qualifier in %q", line)
		}
		id, err := strconv.Atoi(rest[1:end])
		if err != nil || id <= 0 {
			return entry, errors.Newf(errors.ErrConfigParse, "bad instance qualifier in %q", line)
		}
		entry.InstanceID = id
		rest = rest[end+1:]
	}

	name, value, ok := strings.Cut(rest, "=")
	if !ok || name == "" {
		return entry, errors.Newf(errors.ErrConfigParse, "not an assignment: %q", line)
	}

	entry.Name = name
	entry.Value = registry.String(value)
	return entry, nil
}
