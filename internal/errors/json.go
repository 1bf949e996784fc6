package errors

import (
	"strconv"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// ToJSON renders every accumulated diagnostic as a pretty-printed JSON
// array, for editor/LSP-style tool consumers that want structured output
// instead of the caret-rendered text form.
func (r *Reporter) ToJSON() ([]byte, error) {
	json := "[]"
	var err error
	for i, d := range r.Diagnostics() {
		path := func(suffix string) string { return strconv.Itoa(i) + "." + suffix }
		json, err = sjson.Set(json, path("severity"), d.Severity.String())
		if err != nil {
			return nil, err
		}
		json, err = sjson.Set(json, path("code"), d.Code)
		if err != nil {
			return nil, err
		}
		json, err = sjson.Set(json, path("message"), d.Message)
		if err != nil {
			return nil, err
		}
		json, err = sjson.Set(json, path("line"), d.Pos.Line)
		if err != nil {
			return nil, err
		}
		json, err = sjson.Set(json, path("column"), d.Pos.Column)
		if err != nil {
			return nil, err
		}
		if d.Fix != "" {
			json, err = sjson.Set(json, path("fix"), d.Fix)
			if err != nil {
				return nil, err
			}
		}
		for j, rel := range d.Related {
			relPath := func(suffix string) string { return path("related." + strconv.Itoa(j) + "." + suffix) }
			json, err = sjson.Set(json, relPath("message"), rel.Message)
			if err != nil {
				return nil, err
			}
			json, err = sjson.Set(json, relPath("line"), rel.Pos.Line)
			if err != nil {
				return nil, err
			}
			json, err = sjson.Set(json, relPath("column"), rel.Pos.Column)
			if err != nil {
				return nil, err
			}
		}
	}
	return pretty.Pretty([]byte(json)), nil
}

