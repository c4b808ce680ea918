package binder

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type fieldTag struct {
	name     string
	skip     bool
	required bool
}

// bindToStruct binds values to the struct v points to using tagName.
func bindToStruct(v any, tagName string, values map[string][]string, bindErr error) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: target must be a non-nil pointer", bindErr)
	}

	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("%w: target must be a pointer to struct", bindErr)
	}

	rt := rv.Type()
	for i := range rv.NumField() {
		field := rv.Field(i)
		sf := rt.Field(i)
		if !field.CanSet() {
			continue
		}

		tag := parseFieldTag(sf, tagName)
		if tag.skip {
			continue
		}

		fieldValues := values[tag.name]
		if len(fieldValues) == 0 || (len(fieldValues) == 1 && fieldValues[0] == "") {
			if tag.required {
				return fmt.Errorf("%w: %s", ErrMissingParam, tag.name)
			}
			continue
		}

		if err := setFieldValue(field, sf.Type, fieldValues); err != nil {
			return fmt.Errorf("%w: %s: %v", bindErr, tag.name, err)
		}
	}

	return nil
}

func parseFieldTag(field reflect.StructField, tagName string) fieldTag {
	tag := field.Tag.Get(tagName)
	if tag == "" {
		return fieldTag{name: strings.ToLower(field.Name)}
	}
	if tag == "-" {
		return fieldTag{skip: true}
	}

	parts := strings.Split(tag, ",")
	ft := fieldTag{name: parts[0]}
	if ft.name == "" {
		ft.name = strings.ToLower(field.Name)
	}
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "required" {
			ft.required = true
		}
	}
	return ft
}

func setFieldValue(field reflect.Value, fieldType reflect.Type, values []string) error {
	if fieldType.Kind() == reflect.Pointer {
		if field.IsNil() {
			field.Set(reflect.New(fieldType.Elem()))
		}
		return setFieldValue(field.Elem(), fieldType.Elem(), values)
	}

	if fieldType.Kind() == reflect.Slice {
		return setSliceValue(field, fieldType, values)
	}

	if len(values) == 0 {
		return nil
	}
	value := values[0]

	switch fieldType.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, fieldType.Bits())
		if err != nil {
			return errors.New("not an integer")
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, fieldType.Bits())
		if err != nil {
			return errors.New("not an unsigned integer")
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, fieldType.Bits())
		if err != nil {
			return errors.New("not a number")
		}
		field.SetFloat(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			switch strings.ToLower(value) {
			case "on", "yes":
				b = true
			case "off", "no":
				b = false
			default:
				return errors.New("not a boolean")
			}
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported type %s", fieldType.Kind())
	}

	return nil
}

// setSliceValue accepts repeated parameters as well as comma separated lists.
func setSliceValue(field reflect.Value, fieldType reflect.Type, values []string) error {
	var all []string
	for _, v := range values {
		all = append(all, strings.Split(v, ",")...)
	}

	slice := reflect.MakeSlice(fieldType, len(all), len(all))
	for i, value := range all {
		if err := setFieldValue(slice.Index(i), fieldType.Elem(), []string{strings.TrimSpace(value)}); err != nil {
			return err
		}
	}

	field.Set(slice)
	return nil
}
