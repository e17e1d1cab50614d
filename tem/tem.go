package tem

// TEC topologic elevation model cell
type TEC struct {
	Z, S float64 // elevation; slope (degrees)
	Ds   int     // downslope cell id, -1 where none (sink/outlet)
}

// TEM topologic elevation model: a drainage forest keyed by cell id, each
// cell pointing to at most one downslope cell.
type TEM struct {
	TECs map[int]TEC
	us   map[int][]int
	c    int
}

// New builds a TEM from a set of cells, indexing upslope contributors.
func New(tecs map[int]TEC) *TEM {
	t := TEM{TECs: tecs}
	t.buildUpslopes()
	return &t
}

func (t *TEM) buildUpslopes() {
	t.us = make(map[int][]int, len(t.TECs))
	for i, v := range t.TECs {
		if v.Ds >= 0 {
			t.us[v.Ds] = append(t.us[v.Ds], i)
		}
	}
}

// NumCells number of cells that make up the TEM
func (t *TEM) NumCells() int {
	return len(t.TECs)
}

// UpIDs cell ids draining directly into cid.
func (t *TEM) UpIDs(cid int) []int {
	return t.us[cid]
}

// Downslopes returns the cell-to-downslope mapping, -1 marking roots.
func (t *TEM) Downslopes() map[int]int {
	o := make(map[int]int, len(t.TECs))
	for i, v := range t.TECs {
		o[i] = v.Ds
	}
	return o
}

// UnitContributingArea computes the (unit) contributing area from a given
// cell id, inclusive of the cell itself.
func (t *TEM) UnitContributingArea(cid int) float64 {
	t.c = 0
	t.climb(cid)
	return float64(t.c)
}

func (t *TEM) climb(cid int) {
	t.c++
	for _, i := range t.us[cid] {
		t.climb(i)
	}
}
