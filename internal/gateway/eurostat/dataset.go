package eurostat

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"assetscope/internal/market"

	"github.com/tidwall/gjson"
)

// Dataset is a raw JSON-stat document. Values are addressed by a flat index
// computed from the per-dimension positions in row-major order of "id".
type Dataset struct {
	Key  string
	root gjson.Result
}

func newDataset(key string, body []byte) *Dataset {
	return &Dataset{Key: key, root: gjson.ParseBytes(body)}
}

type category struct {
	code string
	pos  int
}

// categories returns the codes of one dimension ordered by position.
func (d *Dataset) categories(dim string) []category {
	index := d.root.Get("dimension." + escapePath(dim) + ".category.index")
	var out []category
	switch {
	case index.IsArray():
		for i, code := range index.Array() {
			out = append(out, category{code: code.String(), pos: i})
		}
	case index.IsObject():
		index.ForEach(func(k, v gjson.Result) bool {
			out = append(out, category{code: k.String(), pos: int(v.Int())})
			return true
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].pos < out[j].pos })
	return out
}

func (d *Dataset) label(dim, code string) string {
	l := d.root.Get("dimension." + escapePath(dim) + ".category.label." + escapePath(code))
	if l.Exists() && l.String() != "" {
		return l.String()
	}
	return code
}

// Series flattens the time dimension into observations, in time order. Every
// other dimension is pinned to its first category. Missing values are
// skipped.
func (d *Dataset) Series() (market.Observations, error) {
	ids := d.root.Get("id").Array()
	sizes := d.root.Get("size").Array()
	if len(ids) != len(sizes) {
		return nil, fmt.Errorf("eurostat %s: id/size length mismatch (%d vs %d)", d.Key, len(ids), len(sizes))
	}
	timeAxis := -1
	for i, id := range ids {
		if id.String() == "time" {
			timeAxis = i
			break
		}
	}
	if timeAxis < 0 {
		return nil, fmt.Errorf("eurostat %s: no time dimension", d.Key)
	}
	stride := int64(1)
	for i := len(sizes) - 1; i > timeAxis; i-- {
		stride *= sizes[i].Int()
	}
	values := d.root.Get("value")
	out := market.Observations{}
	for _, cat := range d.categories("time") {
		flat := int64(cat.pos) * stride
		v := values.Get(strconv.FormatInt(flat, 10))
		if !v.Exists() || v.Type != gjson.Number {
			continue
		}
		out = append(out, market.Observation{Period: cat.code, Value: v.Float()})
	}
	return out, nil
}

// Countries returns the geo categories that are plain ISO-style 2-letter
// codes, dropping aggregates such as EU27_2020 or EA20.
func (d *Dataset) Countries() []market.Country {
	var out []market.Country
	for _, cat := range d.categories("geo") {
		if !isCountryCode(cat.code) {
			continue
		}
		out = append(out, market.Country{Code: cat.code, Name: d.label("geo", cat.code)})
	}
	return out
}

func isCountryCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	for _, r := range code {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// escapePath quotes characters gjson treats as path syntax.
func escapePath(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
