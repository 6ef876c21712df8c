package nav

import (
	"net/url"
	"reflect"
	"strings"
)

// Values of the view parameter.
const (
	ViewContents = "contents"
	ViewArchive  = "archive"
)

// params is the flat query form of a State. Fields are written in
// declaration order and read by their url tag.
type params struct {
	Edition string `url:"edition"`
	Article string `url:"article"`
	View    string `url:"view"`
}

// encodeFlat writes the non-empty string fields of a struct as a query,
// in field order.
func encodeFlat(v any) string {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	rt := rv.Type()

	var b strings.Builder
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		fv := rv.Field(i)
		key := tagKey(field)
		if key == "-" || fv.Kind() != reflect.String || fv.IsZero() {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(fv.String()))
	}
	return b.String()
}

// decodeFlat fills the string fields of the struct dst points to from the
// first value of each key. Keys that are missing leave the field empty.
func decodeFlat(values url.Values, dst any) {
	rv := reflect.ValueOf(dst).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		fv := rv.Field(i)
		key := tagKey(field)
		if key == "-" || !fv.CanSet() || fv.Kind() != reflect.String {
			continue
		}
		fv.SetString(values.Get(key))
	}
}

func tagKey(f reflect.StructField) string {
	if key := f.Tag.Get("url"); key != "" {
		return key
	}
	return strings.ToLower(f.Name)
}
