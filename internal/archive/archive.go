package archive

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/rickgao/polychart/internal/model"
)

// ErrNotFound is returned when a key has never been archived.
var ErrNotFound = errors.New("archive: not found")

const instrumentsKey = "instruments"

// Archive is an embedded key/value snapshot of the latest fetched data.
type Archive struct {
	db *badger.DB
}

// Open opens (or creates) the archive at path.
func Open(path string) (*Archive, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Badger's own logging is too chatty for a side store

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	return &Archive{db: db}, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// PutInstruments replaces the archived catalog.
func (a *Archive) PutInstruments(instruments []model.Instrument) error {
	return a.putJSON(instrumentsKey, instruments)
}

// Instruments returns the archived catalog.
func (a *Archive) Instruments() ([]model.Instrument, error) {
	var out []model.Instrument
	if err := a.getJSON(instrumentsKey, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PutSamples replaces the archived history for one instrument.
func (a *Archive) PutSamples(marketID string, samples []model.Sample) error {
	return a.putJSON(samplesKey(marketID), samples)
}

// Samples returns the archived history for one instrument, ascending in T.
func (a *Archive) Samples(marketID string) ([]model.Sample, error) {
	var out []model.Sample
	if err := a.getJSON(samplesKey(marketID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func samplesKey(marketID string) string {
	return "samples/" + marketID
}

func (a *Archive) putJSON(key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	err = a.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), payload)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (a *Archive) getJSON(key string, v any) error {
	var payload []byte
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			payload = append([]byte{}, val...)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}

	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}
