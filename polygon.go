package wbm

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/im7mortal/UTM"
)

// Ring is a closed sequence of (longitude,latitude) vertices.
type Ring [][2]float64

// Polygon is one polygon part: an exterior ring and any interior holes,
// in geographic (WGS84) coordinates.
type Polygon struct {
	Rings []Ring // first exterior, remainder holes
}

type geojsonGeom struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
	Geometry    json.RawMessage `json:"geometry"`
	Features    []struct {
		Geometry json.RawMessage `json:"geometry"`
	} `json:"features"`
}

// ParseGeoJSON decodes a wetland boundary from a GeoJSON Feature,
// FeatureCollection or bare geometry. Only Polygon and MultiPolygon
// geometries are accepted.
func ParseGeoJSON(b []byte) ([]Polygon, error) {
	var g geojsonGeom
	if err := json.Unmarshal(b, &g); err != nil {
		return nil, fmt.Errorf(" ParseGeoJSON: %v", err)
	}
	switch g.Type {
	case "FeatureCollection":
		if len(g.Features) == 0 {
			return nil, fmt.Errorf(" ParseGeoJSON: FeatureCollection contains no features")
		}
		return ParseGeoJSON(g.Features[0].Geometry)
	case "Feature":
		if len(g.Geometry) == 0 {
			return nil, fmt.Errorf(" ParseGeoJSON: feature has no geometry")
		}
		return ParseGeoJSON(g.Geometry)
	case "Polygon":
		var rings []Ring
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf(" ParseGeoJSON: %v", err)
		}
		p := Polygon{Rings: rings}
		if err := p.check(); err != nil {
			return nil, err
		}
		return []Polygon{p}, nil
	case "MultiPolygon":
		var mp [][]Ring
		if err := json.Unmarshal(g.Coordinates, &mp); err != nil {
			return nil, fmt.Errorf(" ParseGeoJSON: %v", err)
		}
		if len(mp) == 0 {
			return nil, fmt.Errorf(" ParseGeoJSON: empty MultiPolygon")
		}
		polys := make([]Polygon, 0, len(mp))
		for _, rings := range mp {
			p := Polygon{Rings: rings}
			if err := p.check(); err != nil {
				return nil, err
			}
			polys = append(polys, p)
		}
		return polys, nil
	case "":
		return nil, fmt.Errorf(" ParseGeoJSON: geometry type missing")
	default:
		return nil, fmt.Errorf(" ParseGeoJSON: wetland geometry must be a Polygon, got %s", g.Type)
	}
}

func (p Polygon) check() error {
	if len(p.Rings) == 0 {
		return fmt.Errorf(" ParseGeoJSON: polygon has no rings")
	}
	for _, r := range p.Rings {
		if len(r) < 3 {
			return fmt.Errorf(" ParseGeoJSON: ring with fewer than 3 vertices")
		}
	}
	return nil
}

// project converts a geographic ring to UTM metres. Small wetland extents are
// assumed to sit within a single UTM zone.
func project(r Ring) (Ring, error) {
	o := make(Ring, len(r))
	for i, v := range r {
		e, n, _, _, err := UTM.FromLatLon(v[1], v[0], v[1] >= 0.)
		if err != nil {
			return nil, fmt.Errorf(" polygon vertex (%f,%f): %v", v[0], v[1], err)
		}
		o[i] = [2]float64{e, n}
	}
	return o, nil
}

// shoelace unsigned ring area (projected units).
func shoelace(r Ring) float64 {
	a, n := 0., len(r)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a += r[i][0]*r[j][1] - r[j][0]*r[i][1]
	}
	return math.Abs(a / 2.)
}

// perimeter ring length (projected units).
func perimeter(r Ring) float64 {
	s, n := 0., len(r)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		dx, dy := r[j][0]-r[i][0], r[j][1]-r[i][1]
		s += math.Sqrt(dx*dx + dy*dy)
	}
	return s
}

// AreaHa returns the wetland area in hectares: exterior ring areas less holes,
// evaluated on UTM-projected vertices.
func AreaHa(polys []Polygon) (float64, error) {
	a := 0.
	for _, p := range polys {
		ext, err := project(p.Rings[0])
		if err != nil {
			return 0., err
		}
		a += shoelace(ext)
		for _, h := range p.Rings[1:] {
			hp, err := project(h)
			if err != nil {
				return 0., err
			}
			a -= shoelace(hp)
		}
	}
	return a / 1.e4, nil
}

// BufferedAreaHa approximates the area of the wetland dilated by buf metres:
// A + P*buf + pi*buf^2 per part. A stand-in for a delineated catchment, not a
// hydrologically derived boundary.
func BufferedAreaHa(polys []Polygon, buf float64) (float64, error) {
	a := 0.
	for _, p := range polys {
		ext, err := project(p.Rings[0])
		if err != nil {
			return 0., err
		}
		a += shoelace(ext) + perimeter(ext)*buf + math.Pi*buf*buf
		for _, h := range p.Rings[1:] {
			hp, err := project(h)
			if err != nil {
				return 0., err
			}
			a -= shoelace(hp)
		}
	}
	return a / 1.e4, nil
}
