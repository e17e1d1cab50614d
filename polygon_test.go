package wbm

import (
	"testing"
)

func TestParseGeoJSONForms(t *testing.T) {
	ring := `[[[175.300,-37.800],[175.301,-37.800],[175.301,-37.801],[175.300,-37.801],[175.300,-37.800]]]`
	for _, tc := range []struct {
		nam, j string
	}{
		{"bare geometry", `{"type":"Polygon","coordinates":` + ring + `}`},
		{"feature", `{"type":"Feature","geometry":{"type":"Polygon","coordinates":` + ring + `}}`},
		{"feature collection", `{"type":"FeatureCollection","features":[{"geometry":{"type":"Polygon","coordinates":` + ring + `}}]}`},
		{"multipolygon", `{"type":"MultiPolygon","coordinates":[` + ring + `]}`},
	} {
		polys, err := ParseGeoJSON([]byte(tc.j))
		if err != nil {
			t.Errorf("%s: %v", tc.nam, err)
			continue
		}
		if len(polys) != 1 || len(polys[0].Rings) != 1 || len(polys[0].Rings[0]) != 5 {
			t.Errorf("%s: unexpected shape %+v", tc.nam, polys)
		}
	}
}

func TestParseGeoJSONErrors(t *testing.T) {
	for _, tc := range []struct{ nam, j string }{
		{"empty collection", `{"type":"FeatureCollection","features":[]}`},
		{"point geometry", `{"type":"Point","coordinates":[175.3,-37.8]}`},
		{"missing type", `{"coordinates":[]}`},
		{"degenerate ring", `{"type":"Polygon","coordinates":[[[175.3,-37.8],[175.301,-37.8]]]}`},
		{"empty multipolygon", `{"type":"MultiPolygon","coordinates":[]}`},
		{"not json", `]`},
	} {
		if _, err := ParseGeoJSON([]byte(tc.j)); err == nil {
			t.Errorf("%s: expected error", tc.nam)
		}
	}
}

func TestAreaHa(t *testing.T) {
	polys := testPolys(t)
	a, err := AreaHa(polys)
	if err != nil {
		t.Fatal(err)
	}
	// ~0.001 deg square near 37.8S: about 98 m x 111 m, a shade over 1 ha
	if a < .9 || a > 1.3 {
		t.Errorf("wetland area %f ha, expected ~1.1", a)
	}
}

func TestBufferedAreaHa(t *testing.T) {
	polys := testPolys(t)
	a, _ := AreaHa(polys)
	b, err := BufferedAreaHa(polys, 50.)
	if err != nil {
		t.Fatal(err)
	}
	// A + P*50 + pi*50^2: perimeter ~418 m adds ~2.1 ha, the cap ~0.8 ha
	if b <= a+2. || b > a+4. {
		t.Errorf("buffered area %f ha against wetland %f ha", b, a)
	}
}

func TestAreaWithHole(t *testing.T) {
	j := `{"type":"Polygon","coordinates":[
		[[175.300,-37.800],[175.302,-37.800],[175.302,-37.802],[175.300,-37.802],[175.300,-37.800]],
		[[175.3005,-37.8005],[175.3015,-37.8005],[175.3015,-37.8015],[175.3005,-37.8015],[175.3005,-37.8005]]]}`
	polys, err := ParseGeoJSON([]byte(j))
	if err != nil {
		t.Fatal(err)
	}
	a, err := AreaHa(polys)
	if err != nil {
		t.Fatal(err)
	}
	full := `{"type":"Polygon","coordinates":[[[175.300,-37.800],[175.302,-37.800],[175.302,-37.802],[175.300,-37.802],[175.300,-37.800]]]}`
	fp, _ := ParseGeoJSON([]byte(full))
	af, _ := AreaHa(fp)
	if a >= af {
		t.Errorf("holed area %f must be less than full area %f", a, af)
	}
}
