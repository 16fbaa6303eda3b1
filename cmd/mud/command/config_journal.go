package command

import (
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/charleslucas/tbdmud/internal/journal"
)

const (
	JournalDriverSQLite = "sqlite"
	JournalDriverZstd   = "zstd"
)

// JournalConfig enables the event journal when Driver is set.
type JournalConfig struct {
	Driver string `json:"driver"`
	Path   string `json:"path"`
	Buffer int    `json:"buffer"`
}

func (c *JournalConfig) validate() error {
	el := errors.NewErrorList()

	switch c.Driver {
	case "":
		return nil
	case JournalDriverSQLite, JournalDriverZstd:
	default:
		el.Add(fmt.Errorf("journal: unknown driver %q", c.Driver))
	}
	if c.Path == "" {
		el.Add(fmt.Errorf("journal: path is required"))
	}
	if c.Buffer < 0 {
		el.Add(fmt.Errorf("journal: buffer must not be negative"))
	}

	return el.Err()
}

// BuildJournal returns nil when journaling is disabled.
func (c *JournalConfig) BuildJournal() (*journal.Journal, error) {
	var (
		w   journal.Writer
		err error
	)

	switch c.Driver {
	case "":
		return nil, nil
	case JournalDriverSQLite:
		w, err = journal.OpenSQLite(c.Path)
	case JournalDriverZstd:
		w, err = journal.OpenZstd(c.Path)
	default:
		return nil, fmt.Errorf("unknown journal driver %q", c.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	return journal.NewJournal(w, c.Buffer), nil
}
