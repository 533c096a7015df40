// Package zcta builds the zip centroid table from Census ZCTA shapefiles or
// from a plain CSV export. Centroids feed the default distance reference
// point when a caseworker selects a zip instead of entering an address.
package zcta

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"

	"github.com/caseworks/directory-cli/internal/model"
)

// DefaultZipField is the ZCTA code attribute in 2020-vintage Census files.
const DefaultZipField = "ZCTA5CE20"

// FromCSV reads centroids from a CSV with a header row. Recognized columns
// are zip, latitude, longitude, city, and county; anything else is ignored.
func FromCSV(r io.Reader) ([]model.ZipCentroid, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, eris.Wrap(err, "zcta: read csv header")
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	zipIdx, okZip := cols["zip"]
	latIdx, okLat := cols["latitude"]
	lngIdx, okLng := cols["longitude"]
	if !okZip || !okLat || !okLng {
		return nil, eris.New("zcta: csv needs zip, latitude, and longitude columns")
	}

	var out []model.ZipCentroid
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "zcta: read csv line %d", line)
		}

		zip := strings.TrimSpace(rec[zipIdx])
		if zip == "" {
			continue
		}
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(rec[latIdx]), 64)
		lng, lngErr := strconv.ParseFloat(strings.TrimSpace(rec[lngIdx]), 64)
		if latErr != nil || lngErr != nil {
			zap.L().Warn("zcta: skipping row with bad coordinates",
				zap.String("zip", zip),
				zap.Int("line", line),
			)
			continue
		}

		zc := model.ZipCentroid{Zip: zip, Latitude: lat, Longitude: lng}
		if i, ok := cols["city"]; ok && i < len(rec) {
			zc.City = strings.TrimSpace(rec[i])
		}
		if i, ok := cols["county"]; ok && i < len(rec) {
			zc.County = strings.TrimSpace(rec[i])
		}
		out = append(out, zc)
	}
	return out, nil
}

// FromShapefile reads ZCTA polygons and reduces each to its area centroid.
// zipField names the attribute carrying the zip code; pass "" for
// DefaultZipField.
func FromShapefile(path, zipField string) ([]model.ZipCentroid, error) {
	if zipField == "" {
		zipField = DefaultZipField
	}

	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "zcta: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	zipIdx := fieldIndex(reader, zipField)
	if zipIdx < 0 {
		return nil, eris.Errorf("zcta: shapefile has no %s field", zipField)
	}

	var out []model.ZipCentroid
	for reader.Next() {
		_, shape := reader.Shape()
		if shape == nil {
			continue
		}

		zip := strings.TrimSpace(reader.Attribute(zipIdx))
		if zip == "" {
			continue
		}

		poly, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}
		mp := toMultiPolygon(poly)
		if mp == nil {
			continue
		}

		centroid, err := xy.Centroid(mp)
		if err != nil {
			zap.L().Warn("zcta: centroid failed", zap.String("zip", zip), zap.Error(err))
			continue
		}

		// Shapefile order is X=longitude, Y=latitude.
		out = append(out, model.ZipCentroid{
			Zip:       zip,
			Latitude:  centroid[1],
			Longitude: centroid[0],
		})
	}
	return out, nil
}

// fieldIndex returns the index of a named attribute, or -1 when absent.
// Field names are NUL-padded in the DBF header.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}

// toMultiPolygon converts a shapefile Polygon, ring by ring; malformed rings
// are dropped rather than failing the record.
func toMultiPolygon(p *shp.Polygon) geom.T {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("zcta: skipping malformed ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("zcta: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
