package gazetteer

import (
	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/meteoagente/weathertool/internal/weather"
)

// Index answers city-name lookups with a case-fold exact match: the
// primary name column first, the ASCII fallback second. When several rows
// share a name, the earliest row in dataset order wins; duplicate names
// are not disambiguated further.
type Index struct {
	count   int
	byName  map[string]weather.Coordinates
	byASCII map[string]weather.Coordinates
}

// NewIndex builds an Index over records, preserving dataset order for
// duplicate names. The records are not retained.
func NewIndex(records []CityRecord) *Index {
	ix := &Index{
		count:   len(records),
		byName:  make(map[string]weather.Coordinates, len(records)),
		byASCII: make(map[string]weather.Coordinates, len(records)),
	}

	for _, rec := range records {
		if rec.Name != "" {
			key := fold(rec.Name)
			if _, dup := ix.byName[key]; !dup {
				ix.byName[key] = rec.Coordinates()
			}
		}
		if rec.ASCIIName != "" {
			key := fold(rec.ASCIIName)
			if _, dup := ix.byASCII[key]; !dup {
				ix.byASCII[key] = rec.Coordinates()
			}
		}
	}
	return ix
}

// LoadIndex is the usual entry point: read the dataset at path and index
// it.
func LoadIndex(logger *zap.Logger, path string) (*Index, error) {
	records, err := Load(logger, path)
	if err != nil {
		return nil, err
	}

	ix := NewIndex(records)
	logger.Info("gazetteer dataset loaded",
		zap.String("path", path),
		zap.Int("cities", ix.Len()))
	return ix, nil
}

// Resolve maps a city name to coordinates. A miss on both columns comes
// back as *weather.CityNotFoundError carrying the name as supplied.
func (ix *Index) Resolve(city string) (weather.Coordinates, error) {
	key := fold(city)
	if coords, ok := ix.byName[key]; ok {
		return coords, nil
	}
	if coords, ok := ix.byASCII[key]; ok {
		return coords, nil
	}
	return weather.Coordinates{}, &weather.CityNotFoundError{City: city}
}

// Len reports how many records were indexed.
func (ix *Index) Len() int {
	return ix.count
}

// A cases.Caser is stateful and not safe for concurrent use, so build a
// fresh one per call.
func fold(s string) string {
	return cases.Fold().String(s)
}
