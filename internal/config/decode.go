// internal/config/decode.go
//
// Field-by-field decoding of the merged koanf tree into Settings.
//
// Context
// -------
// Every field is decoded on its own so a failure names the exact key and
// raw value.  Keys that match no field are never looked at, which is how
// unknown entries in the environment or override file get ignored.
//
// Conversions
// -----------
//   • bool     – 1/0, true/false, yes/no, on/off, t/f, y/n (any case).
//   • []string – JSON array, or comma-separated text.  "" is empty.
//   • UUID     – uuid.UUID's TextUnmarshaler.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	koanf "github.com/knadh/koanf/v2"
)

// Fields returns the schema field names in declaration order.
func Fields() []string {
	t := reflect.TypeOf(Settings{})
	out := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name := t.Field(i).Tag.Get("koanf"); name != "" && name != "-" {
			out = append(out, name)
		}
	}
	return out
}

// decodeSettings copies every known key from k into s.
func decodeSettings(k *koanf.Koanf, s *Settings) error {
	rv := reflect.ValueOf(s).Elem()
	rt := rv.Type()

	var errs []error
	for i := 0; i < rt.NumField(); i++ {
		name := rt.Field(i).Tag.Get("koanf")
		if name == "" || name == "-" || !k.Exists(name) {
			continue
		}
		raw := k.Get(name)

		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook:       decodeHook(),
			WeaklyTypedInput: true,
			Result:           rv.Field(i).Addr().Interface(),
		})
		if err != nil {
			return err
		}
		if err := dec.Decode(raw); err != nil {
			errs = append(errs, &Error{
				Field: name,
				Value: rawString(raw),
				Err:   fmt.Errorf("%w: %v", ErrInvalidValue, rootCause(err)),
			})
		}
	}

	// Lists are never nil, whatever the sources held.
	for _, p := range []*[]string{&s.AuthProviders, &s.AuthRequiredRoles, &s.CORSAllowOrigins} {
		if *p == nil {
			*p = []string{}
		}
	}
	s.AuthProviders = dedupe(s.AuthProviders)
	return errors.Join(errs...)
}

// dedupe drops repeats, keeping the first occurrence and the order.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0:0]
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		stringToBoolHook,
		stringToListHook,
		mapstructure.TextUnmarshallerHookFunc(),
	)
}

var (
	boolType = reflect.TypeOf(true)
	listType = reflect.TypeOf([]string(nil))
)

func stringToBoolHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != boolType {
		return data, nil
	}
	return parseBool(data.(string))
}

func stringToListHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != listType {
		return data, nil
	}
	return parseList(data.(string))
}

// parseBool accepts the spellings operators commonly put in .env files.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	}
	return false, fmt.Errorf("cannot parse %q as bool", s)
}

// parseList reads a JSON array of strings or comma-separated text.
func parseList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}, nil
	}
	if strings.HasPrefix(s, "[") {
		var out []string
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return nil, fmt.Errorf("malformed list: %v", err)
		}
		if out == nil {
			out = []string{}
		}
		return out, nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

// rootCause strips mapstructure's "decoding failed" wrappers.
func rootCause(err error) error {
	for {
		u := errors.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
}

func rawString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	}
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprint(v)
}
