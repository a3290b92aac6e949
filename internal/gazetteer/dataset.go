// Package gazetteer loads a worldcities-style dataset and answers
// city-name lookups against it.
package gazetteer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"github.com/meteoagente/weathertool/internal/weather"
)

var (
	// ErrMissingColumn is returned when the dataset header lacks one of
	// the required columns.
	ErrMissingColumn = errors.New("missing required column")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// requiredColumns are the dataset columns the resolver depends on; any
// other columns in the file are ignored.
var requiredColumns = []string{"city", "city_ascii", "lat", "lng"}

// CityRecord is one usable row of the dataset.
type CityRecord struct {
	Name      string
	ASCIIName string
	Latitude  float64
	Longitude float64
}

// Coordinates returns the record's position.
func (r CityRecord) Coordinates() weather.Coordinates {
	return weather.Coordinates{Latitude: r.Latitude, Longitude: r.Longitude}
}

// cityRow is the raw gocsv mapping. Coordinates use a tolerant type so a
// malformed cell drops the row instead of aborting the whole load.
type cityRow struct {
	Name      string   `csv:"city"`
	ASCIIName string   `csv:"city_ascii"`
	Latitude  csvCoord `csv:"lat"`
	Longitude csvCoord `csv:"lng"`
}

// csvCoord is a coordinate cell that records whether it held a parseable
// number instead of failing the whole decode.
type csvCoord struct {
	Value float64
	OK    bool
}

// UnmarshalCSV takes the string representation from a CSV file and
// attempts to convert it to a float64.
func (c *csvCoord) UnmarshalCSV(cell string) error {
	cell = strings.TrimSpace(cell)
	if len(cell) < 1 {
		c.OK = false
		return nil
	}

	val, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		c.OK = false
		return nil
	}

	c.Value = val
	c.OK = true
	return nil
}

// Load reads the dataset file at path.
func Load(logger *zap.Logger, path string) ([]CityRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gazetteer dataset: %w", err)
	}
	defer f.Close()

	records, err := Parse(logger, f)
	if err != nil {
		return nil, fmt.Errorf("parse gazetteer dataset %s: %w", path, err)
	}
	return records, nil
}

// Parse decodes a worldcities-style CSV stream. The header must contain
// every required column; rows without any name or with unusable
// coordinates are dropped with a warning.
func Parse(logger *zap.Logger, r io.Reader) ([]CityRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	if err := checkHeader(data); err != nil {
		return nil, err
	}

	gocsv.SetCSVReader(cityCSVReader)

	var rows []*cityRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, err
	}

	records := make([]CityRecord, 0, len(rows))
	for i, row := range rows {
		// Header occupies line 1, so data row i sits on line i+2.
		line := i + 2

		if row.Name == "" && row.ASCIIName == "" {
			logger.Warn("gazetteer row has no city name, dropping", zap.Int("line", line))
			continue
		}
		if !row.Latitude.OK || !row.Longitude.OK {
			logger.Warn("gazetteer row has unusable coordinates, dropping",
				zap.Int("line", line),
				zap.String("city", row.Name))
			continue
		}

		rec := CityRecord{
			Name:      row.Name,
			ASCIIName: row.ASCIIName,
			Latitude:  row.Latitude.Value,
			Longitude: row.Longitude.Value,
		}
		if !rec.Coordinates().Valid() {
			logger.Warn("gazetteer row is off the WGS84 grid, dropping",
				zap.Int("line", line),
				zap.String("city", row.Name),
				zap.Float64("lat", rec.Latitude),
				zap.Float64("lon", rec.Longitude))
			continue
		}

		records = append(records, rec)
	}
	return records, nil
}

func checkHeader(data []byte) error {
	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return fmt.Errorf("read dataset header: %w", err)
	}

	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[strings.TrimSpace(col)] = true
	}
	for _, col := range requiredColumns {
		if !present[col] {
			return fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}
	return nil
}

// Rows with fewer cells than the header are tolerated; missing cells
// surface as unusable values and the row is dropped after decoding.
func cityCSVReader(in io.Reader) gocsv.CSVReader {
	csvReader := csv.NewReader(in)
	csvReader.FieldsPerRecord = -1
	return csvReader
}
