package normalize

// RawRecord is one heterogeneous record as decoded from a sync batch. Field
// names and units are whatever the device-sync source emits; normalizers own
// the mapping to the canonical schema.
type RawRecord struct {
	Kind   Kind           `json:"kind"`
	Fields map[string]any `json:"fields"`
}

// floatField fetches a numeric field. JSON numbers decode as float64;
// absent or null values report false.
func (r RawRecord) floatField(name string) (float64, bool) {
	v, ok := r.Fields[name]
	if !ok || v == nil {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// intField fetches a numeric field and truncates it to an int.
func (r RawRecord) intField(name string) (int, bool) {
	f, ok := r.floatField(name)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// stringField fetches a non-empty string field.
func (r RawRecord) stringField(name string) (string, bool) {
	v, ok := r.Fields[name]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
