package client

import (
	"reflect"

	"github.com/edgeo-scada/uacore/pkg/ua"
)

// setResponseHeader writes header into the ResponseHeader field every
// built-in response type carries. Response bodies come back from a
// descriptor as `any` holding a pointer to a concrete struct; reflection
// here replaces what would otherwise be a type switch listing every
// response type twice (once in the registry, once here).
func setResponseHeader(response any, header ua.ResponseHeader) {
	v := reflect.ValueOf(response)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return
	}
	f := v.Elem().FieldByName("ResponseHeader")
	if !f.IsValid() || !f.CanSet() {
		return
	}
	f.Set(reflect.ValueOf(header))
}

// responseHeaderOf reads the ResponseHeader field back out, used by the
// generic dispatch path to inspect responseHeader.serviceResult without
// a type switch.
func responseHeaderOf(response any) (ua.ResponseHeader, bool) {
	v := reflect.ValueOf(response)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	f := v.FieldByName("ResponseHeader")
	if !f.IsValid() {
		return ua.ResponseHeader{}, false
	}
	h, ok := f.Interface().(ua.ResponseHeader)
	return h, ok
}
