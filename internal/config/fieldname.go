package config

import (
	"reflect"
	"strings"
)

// tomlFieldName reports struct fields by their TOML key so validation
// messages match what users write in config.toml.
func tomlFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("toml"), ",")
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}
