package card

// MergeMaps merges an imported document into a base document. The base
// decides which keys exist: nested objects are merged recursively, any other
// value is taken from imported when the key is present there. Keys only
// found in imported are dropped.
func MergeMaps(imported, base map[string]any) map[string]any {
	out := make(map[string]any, len(base))
	for k, bv := range base {
		iv, present := imported[k]
		if bm, ok := bv.(map[string]any); ok {
			im, _ := iv.(map[string]any)
			out[k] = MergeMaps(im, bm)
			continue
		}
		if present {
			out[k] = iv
		} else {
			out[k] = bv
		}
	}
	return out
}

// Merge imports a config document into base, keeping base's shape.
func Merge(data []byte, format Format, base Config) (Config, error) {
	imported, err := toMap(data, format)
	if err != nil {
		return Config{}, err
	}
	bm, err := base.asMap()
	if err != nil {
		return Config{}, err
	}
	return fromMap(MergeMaps(imported, bm))
}
