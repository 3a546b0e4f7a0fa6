package config

import (
	"reflect"

	"github.com/google/uuid"
)

// secretFields are masked by AsMap(true).
var secretFields = map[string]bool{
	"secret_key":  true,
	"license_key": true,
}

// AsMap returns every field keyed by schema name, plus the derived
// static_dir.  With redact set, non-empty secrets are replaced by "****".
func (s *Settings) AsMap(redact bool) map[string]any {
	rv := reflect.ValueOf(s).Elem()
	rt := rv.Type()
	out := make(map[string]any, rt.NumField()+1)
	for i := 0; i < rt.NumField(); i++ {
		name := rt.Field(i).Tag.Get("koanf")
		if name == "" || name == "-" {
			continue
		}
		switch val := rv.Field(i).Interface().(type) {
		case uuid.UUID:
			out[name] = val.String()
		case Environment:
			out[name] = string(val)
		case []string:
			out[name] = append([]string{}, val...)
		case string:
			if redact && secretFields[name] && val != "" {
				val = "****"
			}
			out[name] = val
		default:
			out[name] = val
		}
	}
	out["static_dir"] = s.StaticDir()
	return out
}
