package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// FlagSource exposes parsed command-line flags as a configuration source.
// Struct tags declare the mapping from field to configuration key.
type FlagSource struct {
	flags    interface{}
	priority int
}

// NewFlagSource creates a command-line flag data source. flags is a
// struct (or pointer to one) whose fields carry `config:"key"` tags.
func NewFlagSource(flags interface{}, priority int) *FlagSource {
	return &FlagSource{
		flags:    flags,
		priority: priority,
	}
}

func (s *FlagSource) Name() string {
	return "flags"
}

func (s *FlagSource) Priority() int {
	return s.priority
}

// Load maps non-zero flag fields to configuration keys. A field may map
// to several keys: `config:"logger.level,event.log_level"`. Fields tagged
// "-" or left untagged without a default mapping are skipped.
func (s *FlagSource) Load() (map[string]interface{}, error) {
	result := make(map[string]interface{})

	if s.flags == nil {
		return result, nil
	}

	v := reflect.ValueOf(s.flags)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return result, nil
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("flags must be a struct or pointer to struct")
	}

	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanInterface() {
			continue
		}

		configTag := fieldType.Tag.Get("config")
		if configTag == "" {
			applyDefaultMapping(fieldType.Name, field, result)
			continue
		}

		keys := strings.Split(configTag, ",")
		for _, key := range keys {
			key = strings.TrimSpace(key)
			if key == "" || key == "-" {
				continue
			}

			if !isZeroValue(field) {
				result[key] = field.Interface()
			}
		}
	}

	return result, nil
}

// applyDefaultMapping covers the well-known untagged flag fields.
func applyDefaultMapping(fieldName string, field reflect.Value, result map[string]interface{}) {
	if isZeroValue(field) {
		return
	}

	value := field.Interface()

	switch fieldName {
	case "AppName":
		result["app.name"] = value
	case "LogLevel":
		result["logger.level"] = value
	case "LogDir":
		result["logger.base_log_dir"] = value
	}
}

func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// ConvertValue coerces a raw source value to the target kind. Environment
// variables arrive as strings even for numeric keys.
func ConvertValue(value interface{}, targetKind reflect.Kind) (interface{}, error) {
	switch targetKind {
	case reflect.String:
		return fmt.Sprintf("%v", value), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch v := value.(type) {
		case int:
			return v, nil
		case int64:
			return v, nil
		case string:
			return strconv.ParseInt(v, 10, 64)
		default:
			return 0, fmt.Errorf("cannot convert %T to int", value)
		}
	case reflect.Bool:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			return strconv.ParseBool(v)
		default:
			return false, fmt.Errorf("cannot convert %T to bool", value)
		}
	default:
		return value, nil
	}
}
