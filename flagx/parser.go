// Package flagx binds cobra command flags to plain structs so command
// handlers can pass them to the event dispatcher as typed parameters.
package flagx

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// ParseFlags copies flag values from cmd into the tagged fields of target.
//
// Usage:
//
//	var args NotifyArgs
//	if err := flagx.ParseFlags(cmd, &args); err != nil {
//	    return err
//	}
//	_, err := dispatcher.Run(cmd.Context(), "user.notify", args.Channel, args.Message)
//	return err
//
// Argument struct (supported struct tags):
//
//	type NotifyArgs struct {
//	    Channel string `flag:"channel"`
//	    Message string `flag:"message"`
//	    Retries int    `flag:"retries"`
//	}
//
// Supported tags:
// - flag: flag name, optionally with a short name ("channel,c")
func ParseFlags(cmd *cobra.Command, target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to struct")
	}

	v = v.Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		// Skip unexported fields
		if !field.CanSet() {
			continue
		}

		flagTag := fieldType.Tag.Get("flag")
		if flagTag == "" {
			continue
		}

		// The first segment is the long name ("channel,c")
		flagName := strings.Split(flagTag, ",")[0]

		if err := setFieldValue(cmd, field, flagName); err != nil {
			return fmt.Errorf("parse field %s: %w", fieldType.Name, err)
		}
	}

	return nil
}

// setFieldValue reads one flag into one struct field.
func setFieldValue(cmd *cobra.Command, field reflect.Value, flagName string) error {
	switch field.Kind() {
	case reflect.String:
		val, _ := cmd.Flags().GetString(flagName)
		field.SetString(val)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val, _ := cmd.Flags().GetInt(flagName)
		field.SetInt(int64(val))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		val, _ := cmd.Flags().GetUint(flagName)
		field.SetUint(uint64(val))

	case reflect.Bool:
		val, _ := cmd.Flags().GetBool(flagName)
		field.SetBool(val)

	case reflect.Float32, reflect.Float64:
		val, _ := cmd.Flags().GetFloat64(flagName)
		field.SetFloat(val)

	case reflect.Slice:
		return setSliceValue(cmd, field, flagName)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// setSliceValue reads a repeatable flag into a slice field.
func setSliceValue(cmd *cobra.Command, field reflect.Value, flagName string) error {
	switch field.Type().Elem().Kind() {
	case reflect.String:
		val, _ := cmd.Flags().GetStringSlice(flagName)
		field.Set(reflect.ValueOf(val))

	case reflect.Int:
		val, _ := cmd.Flags().GetIntSlice(flagName)
		field.Set(reflect.ValueOf(val))

	default:
		return fmt.Errorf("unsupported slice element type: %s", field.Type().Elem().Kind())
	}

	return nil
}

// BindFlags registers one cobra flag per tagged struct field, so the same
// struct declares the command's flags and carries the dispatch parameters.
//
// Usage:
//
//	cmd := &cobra.Command{...}
//	var args NotifyArgs
//	flagx.BindFlags(cmd, &args)
//
// Argument struct (complete tag set):
//
//	type NotifyArgs struct {
//	    Channel string   `flag:"channel,c" usage:"delivery channel (required)" required:"true"`
//	    Message string   `flag:"message,m" usage:"message body (required)" required:"true"`
//	    Retries int      `flag:"retries,r" usage:"delivery retries" default:"3"`
//	    CC      []string `flag:"cc" usage:"extra recipients"`
//	}
//
// Supported tags:
// - flag: flag name and optional short name (mandatory)
// - usage: help text (optional)
// - default: default value (optional)
// - required: "true" marks the flag required (optional)
func BindFlags(cmd *cobra.Command, target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to struct")
	}

	v = v.Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		fieldType := t.Field(i)

		flagTag := fieldType.Tag.Get("flag")
		if flagTag == "" {
			continue
		}

		parts := strings.Split(flagTag, ",")
		flagName := parts[0]
		shortName := ""
		if len(parts) > 1 {
			shortName = parts[1]
		}

		usage := fieldType.Tag.Get("usage")
		defaultVal := fieldType.Tag.Get("default")
		required := fieldType.Tag.Get("required") == "true"

		if err := registerFlag(cmd, fieldType, flagName, shortName, usage, defaultVal); err != nil {
			return err
		}

		if required {
			cmd.MarkFlagRequired(flagName)
		}
	}

	return nil
}

// registerFlag declares one flag on cmd matching the field's type.
func registerFlag(cmd *cobra.Command, field reflect.StructField, name, short, usage, defaultVal string) error {
	switch field.Type.Kind() {
	case reflect.String:
		cmd.Flags().StringP(name, short, defaultVal, usage)

	case reflect.Int:
		def := 0
		if defaultVal != "" {
			def, _ = strconv.Atoi(defaultVal)
		}
		cmd.Flags().IntP(name, short, def, usage)

	case reflect.Bool:
		def := false
		if defaultVal != "" {
			def, _ = strconv.ParseBool(defaultVal)
		}
		cmd.Flags().BoolP(name, short, def, usage)

	case reflect.Float64:
		def := 0.0
		if defaultVal != "" {
			def, _ = strconv.ParseFloat(defaultVal, 64)
		}
		cmd.Flags().Float64P(name, short, def, usage)

	case reflect.Slice:
		switch field.Type.Elem().Kind() {
		case reflect.String:
			cmd.Flags().StringSliceP(name, short, nil, usage)
		case reflect.Int:
			cmd.Flags().IntSliceP(name, short, nil, usage)
		default:
			return fmt.Errorf("unsupported slice element type: %s", field.Type.Elem().Kind())
		}

	default:
		return fmt.Errorf("unsupported field type: %s", field.Type.Kind())
	}

	return nil
}
