package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Sumatoshi-tech/integeriser/pkg/config"
	"github.com/Sumatoshi-tech/integeriser/pkg/integeriser"
	"github.com/Sumatoshi-tech/integeriser/pkg/observability"
)

const dictionaryDirPerm = 0o750

// ErrNoDictionary is returned by read-only commands when no dictionary has been saved yet.
var ErrNoDictionary = errors.New("dictionary not found")

// ErrCorruptDictionary is returned when a code and its value do not map back to each other.
var ErrCorruptDictionary = errors.New("dictionary is inconsistent")

// dictionary is the loaded table plus what is needed to write it back.
type dictionary struct {
	table   *observability.Instrumented[string]
	path    string
	existed bool
	loaded  int
}

func (a *app) newTable(values []string) (integeriser.Integeriser[string], error) {
	if a.cfg.Table.Backing == config.BackingOrdered {
		if values == nil {
			return integeriser.NewOrdered[string](integeriser.WithCapacity(a.cfg.Table.Capacity)), nil
		}

		return integeriser.NewOrderedFrom(values)
	}

	if values == nil {
		return integeriser.NewHashed[string](integeriser.WithCapacity(a.cfg.Table.Capacity)), nil
	}

	return integeriser.NewHashedFrom(values)
}

// loadDictionary reads the saved dictionary. When required is false a missing
// dictionary yields an empty table.
func (a *app) loadDictionary(required bool) (*dictionary, error) {
	dir := a.cfg.Store.Directory
	path := a.persister.Path(dir)

	existed, err := a.persister.Exists(dir)
	if err != nil {
		return nil, err
	}

	var table integeriser.Integeriser[string]

	switch {
	case existed:
		err = a.persister.Load(dir, func(values *[]string) error {
			var buildErr error

			table, buildErr = a.newTable(*values)

			return buildErr
		})
		if err != nil {
			return nil, fmt.Errorf("load dictionary %s: %w", path, err)
		}
	case required:
		return nil, fmt.Errorf("%w: %s", ErrNoDictionary, path)
	default:
		table, err = a.newTable(nil)
		if err != nil {
			return nil, err
		}
	}

	a.logger.DebugContext(a.ctx, "dictionary loaded",
		slog.String("path", path),
		slog.Bool("existed", existed),
		slog.Int("size", table.Size()),
	)

	return &dictionary{
		table:   observability.Instrument(a.ctx, table, a.metrics),
		path:    path,
		existed: existed,
		loaded:  table.Size(),
	}, nil
}

// saveDictionary writes the dictionary back when it is new or has grown.
func (a *app) saveDictionary(dict *dictionary) error {
	if dict.existed && dict.table.Size() == dict.loaded {
		return nil
	}

	dir := a.cfg.Store.Directory

	err := os.MkdirAll(dir, dictionaryDirPerm)
	if err != nil {
		return fmt.Errorf("create dictionary dir: %w", err)
	}

	err = a.persister.Save(dir, func() *[]string {
		values := integeriser.Values(dict.table.Unwrap())

		return &values
	})
	if err != nil {
		return fmt.Errorf("save dictionary %s: %w", dict.path, err)
	}

	a.logger.InfoContext(a.ctx, "dictionary saved",
		slog.String("path", dict.path),
		slog.Int("size", dict.table.Size()),
		slog.Int("added", dict.table.Size()-dict.loaded),
	)

	return nil
}

// verify checks that every code resolves to a value that maps back to it.
func verify(table integeriser.Integeriser[string]) error {
	for code := range table.Size() {
		value, found := table.FindValue(code)
		if !found {
			return fmt.Errorf("%w: code %d has no value", ErrCorruptDictionary, code)
		}

		back, found := table.FindKey(value)
		if !found || back != code {
			return fmt.Errorf("%w: value %q of code %d maps to %d", ErrCorruptDictionary, value, code, back)
		}
	}

	return nil
}
