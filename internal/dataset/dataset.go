// Package dataset persists the station metadata file, its tabular CSV
// projection, and the merge rules applied across sessions.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"stationpack/internal/station"
)

// Dataset is the persisted metadata document: the fixed field-name list
// followed by station records serialized in that field order.
type Dataset struct {
	Fields   []string         `json:"fields"`
	Stations []station.Record `json:"stations"`
}

// New wraps records into a dataset carrying the schema field list.
func New(records []station.Record) Dataset {
	return Dataset{Fields: station.Fields, Stations: records}
}

// Load reads a persisted dataset. A missing file yields an empty dataset
// and no error so first runs need no special casing.
func Load(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(nil), nil
		}
		return Dataset{}, fmt.Errorf("read dataset %s: %w", path, err)
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	if len(ds.Fields) == 0 {
		ds.Fields = station.Fields
	}
	return ds, nil
}

// Save writes the dataset as indented JSON.
func Save(path string, ds Dataset) error {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write dataset %s: %w", path, err)
	}
	return nil
}

// WriteCSV writes the tabular projection: a header row followed by one
// row per record. The station column carries the display name.
func WriteCSV(path string, ds Dataset) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv %s: %w", path, err)
	}
	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"id", "station", "stream_url", "logo"}); err != nil {
		_ = file.Close()
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range ds.Stations {
		flat := rec.Flatten()
		row := []string{strconv.FormatInt(flat.ID, 10), flat.Name, flat.StreamURL, flat.Logo}
		if err := writer.Write(row); err != nil {
			_ = file.Close()
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = file.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close csv: %w", err)
	}
	return nil
}

// MaxID returns the highest record id, or station.IDOffset-1 when the
// dataset is empty so new batches start at the reserved offset.
func (ds Dataset) MaxID() int64 {
	max := int64(station.IDOffset - 1)
	for _, rec := range ds.Stations {
		if rec.ID > max {
			max = rec.ID
		}
	}
	return max
}

// Names returns every display name in the dataset.
func (ds Dataset) Names() []string {
	names := make([]string, 0, len(ds.Stations))
	for _, rec := range ds.Stations {
		names = append(names, rec.Name)
	}
	return names
}

// Merge folds incoming records into prior output. Records whose stream
// URL already exists in prior are dropped; survivors are renumbered
// starting one past the prior maximum id. The merged dataset and the
// number of records actually added are returned.
func Merge(prior Dataset, incoming []station.Record) (Dataset, int) {
	known := make(map[string]struct{}, len(prior.Stations))
	for _, rec := range prior.Stations {
		known[rec.Station] = struct{}{}
	}

	nextID := prior.MaxID() + 1
	merged := append([]station.Record(nil), prior.Stations...)
	added := 0
	for _, rec := range incoming {
		if _, dup := known[rec.Station]; dup {
			continue
		}
		known[rec.Station] = struct{}{}
		rec.ID = nextID
		nextID++
		merged = append(merged, rec)
		added++
	}
	return New(merged), added
}
