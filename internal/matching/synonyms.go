package matching

import "sort"

// DefaultSynonyms returns the built-in synonym groups. Each key and its
// values name the same brand or category. A fresh map is returned on every
// call so callers may extend it.
func DefaultSynonyms() map[string][]string {
	return map[string][]string{
		"hp":          {"hewlett packard", "hewlettpackard"},
		"ge":          {"general electric"},
		"vw":          {"volkswagen"},
		"3m":          {"minnesota mining", "tres m"},
		"lg":          {"lg electronics", "lucky goldstar"},
		"electronics": {"electronica", "electronicos", "electronicas"},
		"computers":   {"computadoras", "computadores", "ordenadores", "pc"},
		"phones":      {"telefonos", "celulares", "smartphones", "moviles"},
		"appliances":  {"electrodomesticos", "linea blanca"},
		"furniture":   {"muebles", "mobiliario"},
		"office":      {"oficina", "papeleria", "office supplies"},
		"cleaning":    {"limpieza", "aseo"},
		"food":        {"alimentos", "comida", "abarrotes"},
		"beverages":   {"bebidas", "drinks"},
		"tools":       {"herramientas", "ferreteria"},
		"toys":        {"juguetes", "jugueteria"},
		"clothing":    {"ropa", "vestimenta", "apparel"},
		"footwear":    {"calzado", "zapatos", "shoes"},
		"sports":      {"deportes", "deportivos"},
		"health":      {"salud", "farmacia"},
		"beauty":      {"belleza", "cosmeticos", "cuidado personal"},
		"home":        {"hogar", "casa"},
		"automotive":  {"automotriz", "autopartes", "refacciones"},
		"pets":        {"mascotas"},
		"hardware":    {"ferreteria industrial"},
		"accessories": {"accesorios"},
	}
}

// SynonymTable answers whether two normalized terms belong to the same
// synonym group. It is immutable once built and safe for concurrent use.
type SynonymTable struct {
	groups []map[string]struct{}
	index  map[string][]int
}

// NewSynonymTable normalizes every term of dict and indexes the groups.
func NewSynonymTable(dict map[string][]string) *SynonymTable {
	keys := make([]string, 0, len(dict))
	for k := range dict {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := &SynonymTable{index: make(map[string][]int)}
	for _, key := range keys {
		group := make(map[string]struct{}, len(dict[key])+1)
		for _, term := range append([]string{key}, dict[key]...) {
			if n := Normalize(term); n != "" {
				group[n] = struct{}{}
			}
		}
		if len(group) == 0 {
			continue
		}
		id := len(t.groups)
		t.groups = append(t.groups, group)
		for term := range group {
			t.index[term] = append(t.index[term], id)
		}
	}
	return t
}

// Same reports whether a and b, both already normalized, are members of a
// common group. Membership is exact.
func (t *SynonymTable) Same(a, b string) bool {
	if t == nil || a == "" || b == "" {
		return false
	}
	for _, id := range t.index[a] {
		if _, ok := t.groups[id][b]; ok {
			return true
		}
	}
	return false
}

// Len returns the number of groups.
func (t *SynonymTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.groups)
}
