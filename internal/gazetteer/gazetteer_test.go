package gazetteer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meteoagente/weathertool/internal/weather"
)

const sampleCSV = `city,city_ascii,lat,lng,country,population
Madrid,Madrid,40.4168,-3.7038,Spain,6026000
Barcelona,Barcelona,41.3825,2.1769,Spain,4588000
"San José","San Jose",9.9333,-84.0833,Costa Rica,1453000
San Jose,San Jose,37.3386,-121.8853,United States,1026908
Springfield,Springfield,39.7990,-89.6439,United States,117006
Springfield,Springfield,37.1943,-93.2916,United States,169176
A Coruña,A Coruna,43.3713,-8.3960,Spain,245468
`

func sampleIndex(t *testing.T) *Index {
	t.Helper()

	records, err := Parse(zap.NewNop(), strings.NewReader(sampleCSV))
	require.NoError(t, err)
	return NewIndex(records)
}

func TestParseSample(t *testing.T) {
	records, err := Parse(zap.NewNop(), strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 7)

	assert.Equal(t, "Madrid", records[0].Name)
	assert.Equal(t, "Madrid", records[0].ASCIIName)
	assert.Equal(t, 40.4168, records[0].Latitude)
	assert.Equal(t, -3.7038, records[0].Longitude)

	assert.Equal(t, "San José", records[2].Name)
	assert.Equal(t, "San Jose", records[2].ASCIIName)
}

func TestResolveCaseFold(t *testing.T) {
	ix := sampleIndex(t)

	want := weather.Coordinates{Latitude: 40.4168, Longitude: -3.7038}
	for _, name := range []string{"Madrid", "madrid", "MADRID", "mAdRiD"} {
		coords, err := ix.Resolve(name)
		require.NoError(t, err, "resolving %q", name)
		assert.Equal(t, want, coords, "resolving %q", name)
	}
}

func TestResolveASCIIFallback(t *testing.T) {
	ix := sampleIndex(t)

	coords, err := ix.Resolve("a coruña")
	require.NoError(t, err)
	assert.Equal(t, weather.Coordinates{Latitude: 43.3713, Longitude: -8.396}, coords)

	coords, err = ix.Resolve("a coruna")
	require.NoError(t, err)
	assert.Equal(t, weather.Coordinates{Latitude: 43.3713, Longitude: -8.396}, coords)
}

// The primary column is consulted across the whole dataset before the
// ASCII column: a later primary match beats an earlier ASCII-only match.
func TestResolvePrimaryColumnWins(t *testing.T) {
	ix := sampleIndex(t)

	coords, err := ix.Resolve("san jose")
	require.NoError(t, err)
	assert.Equal(t, weather.Coordinates{Latitude: 37.3386, Longitude: -121.8853}, coords)

	coords, err = ix.Resolve("san josé")
	require.NoError(t, err)
	assert.Equal(t, weather.Coordinates{Latitude: 9.9333, Longitude: -84.0833}, coords)
}

func TestResolveFirstMatchWins(t *testing.T) {
	ix := sampleIndex(t)

	coords, err := ix.Resolve("springfield")
	require.NoError(t, err)
	assert.Equal(t, weather.Coordinates{Latitude: 39.799, Longitude: -89.6439}, coords)
}

func TestResolveNotFound(t *testing.T) {
	ix := sampleIndex(t)

	_, err := ix.Resolve("Atlantis")
	require.Error(t, err)
	assert.ErrorIs(t, err, weather.ErrCityNotFound)

	var notFound *weather.CityNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Atlantis", notFound.City)
	assert.Equal(t, "No encuentro la ciudad 'Atlantis' en el CSV de ciudades.", notFound.Message())
}

// Matching is exact after folding: no trimming, no substrings.
func TestResolveIsExact(t *testing.T) {
	ix := sampleIndex(t)

	for _, name := range []string{" madrid", "madrid ", "madri", "madrid city"} {
		_, err := ix.Resolve(name)
		assert.ErrorIs(t, err, weather.ErrCityNotFound, "resolving %q", name)
	}
}

func TestParseMissingColumn(t *testing.T) {
	const noLng = "city,city_ascii,lat\nMadrid,Madrid,40.4168\n"

	_, err := Parse(zap.NewNop(), strings.NewReader(noLng))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "lng")
}

func TestParseSkipsBadRows(t *testing.T) {
	const dirty = `city,city_ascii,lat,lng
Madrid,Madrid,40.4168,-3.7038
Nowhere,Nowhere,not-a-number,-3.7038
Short,Short
OffGrid,OffGrid,95.0,10.0
,,12.0,13.0
Barcelona,Barcelona,41.3825,2.1769
`

	records, err := Parse(zap.NewNop(), strings.NewReader(dirty))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Madrid", records[0].Name)
	assert.Equal(t, "Barcelona", records[1].Name)
}

func TestParseStripsBOM(t *testing.T) {
	withBOM := "\xef\xbb\xbf" + sampleCSV

	records, err := Parse(zap.NewNop(), strings.NewReader(withBOM))
	require.NoError(t, err)
	assert.Len(t, records, 7)
}

func TestLoadIndexFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	ix, err := LoadIndex(zap.NewNop(), path)
	require.NoError(t, err)
	assert.Equal(t, 7, ix.Len())

	coords, err := ix.Resolve("barcelona")
	require.NoError(t, err)
	assert.Equal(t, weather.Coordinates{Latitude: 41.3825, Longitude: 2.1769}, coords)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(zap.NewNop(), filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
