package save

import (
	"io/fs"
	"iter"
	"os"

	"github.com/arthur-debert/savesvc/pkg/errors"
	"github.com/arthur-debert/savesvc/pkg/logging"
	"github.com/arthur-debert/savesvc/pkg/paths"
	"github.com/arthur-debert/savesvc/pkg/registry"
	"github.com/arthur-debert/savesvc/pkg/types"
)

// ConfigHeader is the literal header of every persisted file. The
// loadconfig utility keys on it; the blank line after it is part of
// the format.
const ConfigHeader = "@config User Settings\n\n"

// configFileMode is the permission bits for freshly created files.
const configFileMode fs.FileMode = 0644

// WriteConfig persists one batch of dirty entries to outputPath as a
// single transaction: the batch is written in full to a staging file
// next to the target, then published with an atomic rename. Readers
// of outputPath see either the previous complete save or the new one,
// never a partial file.
func WriteConfig(fsys types.FS, outputPath string, entries iter.Seq[registry.Entry]) error {
	logger := logging.GetLogger("save.writer")
	staging := paths.StagingPath(outputPath)

	// Best-effort removal of a stale staging file from an interrupted
	// cycle. Anything but not-exist is logged and tolerated; the
	// create below truncates whatever is left.
	if err := fsys.Remove(staging); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Str("path", staging).Msg("Cannot remove stale staging file")
	}

	f, err := fsys.OpenFile(staging, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, configFileMode)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "cannot create staging file %s", staging)
	}

	if err := writeStaging(f, entries); err != nil {
		// The staging file is abandoned; the previous final file is
		// untouched. The next cycle removes the leftover.
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write staging file %s", staging)
	}

	if err := fsys.Rename(staging, outputPath); err != nil {
		return errors.Wrapf(err, errors.ErrRename, "cannot publish %s", outputPath)
	}

	logger.Debug().Str("path", outputPath).Msg("Configuration saved")
	return nil
}

// writeStaging writes the header and entry lines, closing the file in
// all cases. The file is only fit for publishing if this returns nil.
func writeStaging(f types.File, entries iter.Seq[registry.Entry]) error {
	if _, err := f.Write([]byte(ConfigHeader)); err != nil {
		_ = f.Close()
		return err
	}

	if err := writeEntries(f, entries); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
