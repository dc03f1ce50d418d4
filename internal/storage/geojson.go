package storage

import (
	"fmt"
	"os"
	"sort"

	"github.com/paulmach/orb/geojson"

	"github.com/dublin-energylink/internal/frame"
)

// GeometryColumn is the column name carrying orb.Geometry values on tables
// loaded from boundary files. Pipelines treat these values as opaque and only
// the rendering collaborator interprets them.
const GeometryColumn = "geometry"

// ReadGeoJSON reads a GeoJSON feature collection into a table: one row per
// feature, one column per property (in first-seen order) plus the geometry
// column. Features missing a property get nil.
func ReadGeoJSON(path string) (*frame.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read boundary file: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse boundary file %s: %w", path, err)
	}

	var columns []string
	seen := make(map[string]bool)
	for _, feature := range fc.Features {
		// Property key order is not stable in JSON maps, so collect the union
		// of keys and sort additions within each feature deterministically.
		for _, key := range sortedKeys(feature.Properties) {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
	}
	columns = append(columns, GeometryColumn)

	t := frame.New(columns...)
	for _, feature := range fc.Features {
		row := make([]any, len(columns))
		for i, c := range columns[:len(columns)-1] {
			if v, ok := feature.Properties[c]; ok {
				row[i] = v
			}
		}
		row[len(columns)-1] = feature.Geometry
		t.Append(row...)
	}
	return t, nil
}

func sortedKeys(properties map[string]interface{}) []string {
	keys := make([]string, 0, len(properties))
	for k := range properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
