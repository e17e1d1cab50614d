package grid

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/maseology/mmio"
)

// Nodata sentinel used in persisted rasters.
const Nodata = -9999.

// Save persists the raster as float32 little-endian .bil with an ESRI .hdr
// sidecar, a .prj holding the CRS tag, and a .msk validity band (one byte per
// cell, 255 at nodata cells).
func (r *Raster) Save(fp string) error {
	f32 := make([]float32, len(r.A))
	msk := make([]uint8, len(r.A))
	for i, v := range r.A {
		if r.Msk[i] || math.IsNaN(v) {
			f32[i] = Nodata
			msk[i] = 255
		} else {
			f32[i] = float32(v)
		}
	}

	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, f32); err != nil {
		return fmt.Errorf(" Raster.Save: %v", err)
	}
	if err := os.WriteFile(fp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf(" Raster.Save: %v", err)
	}
	prfx := mmio.RemoveExtension(fp)
	if err := r.toHDR(prfx + ".hdr"); err != nil {
		return fmt.Errorf(" Raster.Save: %v", err)
	}
	if len(r.Proj) > 0 {
		if err := os.WriteFile(prfx+".prj", []byte(r.Proj), 0644); err != nil {
			return fmt.Errorf(" Raster.Save: %v", err)
		}
	}
	if err := os.WriteFile(prfx+".msk", msk, 0644); err != nil {
		return fmt.Errorf(" Raster.Save: %v", err)
	}
	return nil
}

func (r *Raster) toHDR(fp string) error {
	// ULXMAP/ULYMAP reference the centre of the upper-left cell
	ulx, uly := r.Coord(0)
	s := fmt.Sprintf("BYTEORDER      I\nLAYOUT         BIL\nNROWS          %d\nNCOLS          %d\nNBANDS         1\nNBITS          32\nBANDROWBYTES   %d\nTOTALROWBYTES  %d\nPIXELTYPE      FLOAT\nULXMAP         %f\nULYMAP         %f\nXDIM           %f\nYDIM           %f\nNODATA         %d\n",
		r.Nr, r.Nc, r.Nc*4, r.Nc*4, ulx, uly, r.Cs, r.Cs, int(Nodata))
	return os.WriteFile(fp, []byte(s), 0644)
}

// Load reads a .bil+.hdr pair written by Save (or any float32 BIL with a
// conforming header), restoring values, mask and georeferencing. A .msk
// sidecar, when present, is OR'd into the mask.
func Load(fp string) (*Raster, error) {
	prfx := mmio.RemoveExtension(fp)
	if _, ok := mmio.FileExists(prfx + ".hdr"); !ok {
		return nil, fmt.Errorf(" grid.Load: header not found: %s.hdr", prfx)
	}

	nr, nc, cs, ulx, uly, ndv, err := parseHDR(prfx + ".hdr")
	if err != nil {
		return nil, fmt.Errorf(" grid.Load: %v", err)
	}

	b, err := os.ReadFile(fp)
	if err != nil {
		return nil, fmt.Errorf(" grid.Load: %v", err)
	}
	if len(b) != nr*nc*4 {
		return nil, fmt.Errorf(" grid.Load: %s holds %d bytes, expected %d", fp, len(b), nr*nc*4)
	}
	f32 := make([]float32, nr*nc)
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, f32); err != nil {
		return nil, fmt.Errorf(" grid.Load: %v", err)
	}

	proj := ""
	if _, ok := mmio.FileExists(prfx + ".prj"); ok {
		if pb, err := os.ReadFile(prfx + ".prj"); err == nil {
			proj = strings.TrimSpace(string(pb))
		}
	}

	a := make([]float64, nr*nc)
	for i, v := range f32 {
		a[i] = float64(v)
	}
	gt := [6]float64{ulx - cs/2., cs, 0., uly + cs/2., 0., -cs}
	r, err := Build(a, nr, nc, cs, gt, proj, ndv)
	if err != nil {
		return nil, fmt.Errorf(" grid.Load: %v", err)
	}

	if _, ok := mmio.FileExists(prfx + ".msk"); ok {
		mb, err := os.ReadFile(prfx + ".msk")
		if err == nil && len(mb) == nr*nc {
			for i, v := range mb {
				if v != 0 {
					r.A[i] = math.NaN()
					r.Msk[i] = true
				}
			}
		}
	}
	return r, nil
}

func parseHDR(fp string) (nr, nc int, cs, ulx, uly, ndv float64, err error) {
	cs, ndv = -1., Nodata
	ydim := -1.
	lns, err := mmio.ReadTextLines(fp)
	if err != nil {
		return 0, 0, 0, 0, 0, 0, fmt.Errorf("parseHDR %s: %v", fp, err)
	}
	for _, ln := range lns {
		f := strings.Fields(ln)
		if len(f) < 2 {
			continue
		}
		v := f[1]
		switch strings.ToUpper(f[0]) {
		case "NROWS":
			nr, err = strconv.Atoi(v)
		case "NCOLS":
			nc, err = strconv.Atoi(v)
		case "XDIM":
			cs, err = strconv.ParseFloat(v, 64)
		case "YDIM":
			ydim, err = strconv.ParseFloat(v, 64)
		case "ULXMAP":
			ulx, err = strconv.ParseFloat(v, 64)
		case "ULYMAP":
			uly, err = strconv.ParseFloat(v, 64)
		case "NODATA":
			ndv, err = strconv.ParseFloat(v, 64)
		case "NBITS":
			var nb int
			if nb, err = strconv.Atoi(v); err == nil && nb != 32 {
				err = fmt.Errorf("unsupported NBITS %d", nb)
			}
		}
		if err != nil {
			return 0, 0, 0, 0, 0, 0, fmt.Errorf("parseHDR '%s': %v", ln, err)
		}
	}
	if nr <= 0 || nc <= 0 || cs <= 0 {
		return 0, 0, 0, 0, 0, 0, fmt.Errorf("parseHDR %s: incomplete header", fp)
	}
	if ydim > 0 && ydim != cs {
		return 0, 0, 0, 0, 0, 0, fmt.Errorf("parseHDR %s: non-square cells not supported", fp)
	}
	return
}
