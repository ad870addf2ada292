package save

import (
	"fmt"
	"io"
	"iter"

	"github.com/arthur-debert/savesvc/pkg/logging"
	"github.com/arthur-debert/savesvc/pkg/registry"
)

// FormatEntry renders one dirty entry as a configuration line.
// Entries without an instance qualifier serialize as "name=value\n";
// qualified entries as "[id]name=value\n". Value conversion errors
// propagate so callers can skip the entry.
func FormatEntry(e registry.Entry) (string, error) {
	value, err := e.Value.StringValue()
	if err != nil {
		return "", err
	}

	if e.InstanceID == 0 {
		return fmt.Sprintf("%s=%s\n", e.Name, value), nil
	}
	return fmt.Sprintf("[%d]%s=%s\n", e.InstanceID, e.Name, value), nil
}

// writeEntries streams serialized entries into w, preserving the
// iterator's order. An entry whose value cannot be converted is
// skipped with a diagnostic; a write error aborts the batch.
func writeEntries(w io.Writer, entries iter.Seq[registry.Entry]) error {
	logger := logging.GetLogger("save.serializer")

	for e := range entries {
		line, err := FormatEntry(e)
		if err != nil {
			logger.Warn().
				Err(err).
				Str("name", e.Name).
				Int("instanceID", e.InstanceID).
				Msg("Cannot serialize variable, skipping")
			continue
		}

		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}
