package matching

import (
	"encoding/json"
	"strings"
)

// ImportProduct is one record of a bulk import. Only the attributes used for
// matching are decoded; the original JSON object is kept and echoed back.
type ImportProduct struct {
	Name        string
	Brand       string
	Category    string
	SubCategory string

	raw json.RawMessage
}

// subcategoryKeys lists the accepted spellings, most preferred first.
var subcategoryKeys = []string{"subCategory", "subcategory", "sub_category"}

// UnmarshalJSON decodes an import record. Attributes that are not strings are
// treated as absent.
func (p *ImportProduct) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*p = ImportProduct{
		Name:        textField(fields, "name"),
		Brand:       textField(fields, "brand"),
		Category:    textField(fields, "category"),
		SubCategory: textField(fields, subcategoryKeys...),
		raw:         append(json.RawMessage(nil), data...),
	}
	return nil
}

// MarshalJSON returns the record as it was received, or the decoded
// attributes for records built in code.
func (p ImportProduct) MarshalJSON() ([]byte, error) {
	if len(p.raw) > 0 {
		return p.raw, nil
	}
	out := map[string]string{"name": p.Name}
	if p.Brand != "" {
		out["brand"] = p.Brand
	}
	if p.Category != "" {
		out["category"] = p.Category
	}
	if p.SubCategory != "" {
		out["subCategory"] = p.SubCategory
	}
	return json.Marshal(out)
}

func textField(fields map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
