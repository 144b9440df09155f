package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/lightnode/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EnvPrefix is prepended to every env tag when reading environment overrides.
const EnvPrefix = "LIGHTNODE_"

// binding ties one Options field to its TOML path, env key and CLI flag.
type binding struct {
	name     string
	field    reflect.Value
	flag     string
	tomlPath string
	envKey   string
}

// LoadConfig fills opts, a pointer to an Options struct, from the TOML
// file named by its Config field and from LIGHTNODE_ environment
// variables. Precedence is CLI flag > env var > config file > default;
// flags explicitly set on cmd are never overwritten. A missing file is
// not an error, a value of the wrong type is.
func LoadConfig(opts any, cmd *cobra.Command) error {
	bindings, err := bind(opts)
	if err != nil {
		return err
	}
	changed := changedFlags(cmd)

	var configPath string
	for _, b := range bindings {
		if b.name == "Config" {
			configPath = b.field.String()
		}
	}

	doc, err := readDocument(configPath)
	if err != nil {
		return err
	}

	for _, b := range bindings {
		if changed[b.flag] || b.tomlPath == "" {
			continue
		}
		value, ok := lookup(doc, b.tomlPath)
		if !ok {
			continue
		}
		if err := assign(b.field, value); err != nil {
			return fmt.Errorf("%s: %s: %w", configPath, b.tomlPath, err)
		}
	}

	for _, b := range bindings {
		if changed[b.flag] || b.envKey == "" {
			continue
		}
		value := os.Getenv(EnvPrefix + b.envKey)
		if value == "" {
			continue
		}
		if err := assignString(b.field, value); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, b.envKey, err)
		}
	}

	return nil
}

func bind(opts any) ([]binding, error) {
	v := reflect.ValueOf(opts)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("options must be a pointer to a struct, got %T", opts)
	}
	v = v.Elem()
	t := v.Type()

	bindings := make([]binding, 0, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		bindings = append(bindings, binding{
			name:     f.Name,
			field:    v.Field(i),
			flag:     flagName(f.Name),
			tomlPath: f.Tag.Get("toml"),
			envKey:   f.Tag.Get("env"),
		})
	}
	return bindings, nil
}

func changedFlags(cmd *cobra.Command) map[string]bool {
	changed := make(map[string]bool)
	if cmd == nil {
		return changed
	}
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			changed[f.Name] = true
		}
	})
	return changed
}

// readDocument parses the config file into a generic tree. A missing
// file yields an empty tree.
func readDocument(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}
	return doc, nil
}

// flagName converts a field name to its CLI flag: "MqttTopicPrefix"
// becomes "mqtt-topic-prefix".
func flagName(fieldName string) string {
	var b strings.Builder
	for i, r := range fieldName {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('-')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// lookup resolves a dotted path such as "mqtt.topic_prefix".
func lookup(doc map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	current := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	value, ok := current[parts[len(parts)-1]]
	return value, ok
}

var durationType = reflect.TypeFor[time.Duration]()

// assign stores a decoded TOML value in field.
func assign(field reflect.Value, value any) error {
	if !field.CanSet() {
		return nil
	}

	if field.Type() == durationType {
		s, ok := value.(string)
		if !ok {
			return typeError("duration string", value)
		}
		return assignString(field, s)
	}

	switch field.Kind() {
	case reflect.String:
		s, ok := value.(string)
		if !ok {
			return typeError("string", value)
		}
		field.SetString(s)
	case reflect.Bool:
		b, ok := value.(bool)
		if !ok {
			return typeError("bool", value)
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int64:
		i, ok := value.(int64)
		if !ok {
			return typeError("integer", value)
		}
		field.SetInt(i)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported field type %s", field.Type())
		}
		arr, ok := value.([]any)
		if !ok {
			return typeError("array", value)
		}
		slice := make([]string, len(arr))
		for i, v := range arr {
			s, ok := v.(string)
			if !ok {
				return typeError("array of strings", value)
			}
			slice[i] = s
		}
		field.Set(reflect.ValueOf(slice))
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}

// assignString parses an environment value into field. Slices are
// comma-separated.
func assignString(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}

	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int64:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(i)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported field type %s", field.Type())
		}
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field.Set(reflect.ValueOf(parts))
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}

func typeError(want string, got any) error {
	return fmt.Errorf("expected %s, got %T", want, got)
}

// ReadLoggingConfig parses the [logging] table of a config file. Read and
// parse errors are reported so a reload of a half-written file can be
// skipped instead of resetting every level. Missing keys keep defaults.
func ReadLoggingConfig(configPath string) (logging.Config, error) {
	cfg := defaultLoggingConfig()
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", configPath, err)
	}

	var rawConfig struct {
		Logging map[string]string `toml:"logging"`
	}
	if err := toml.Unmarshal(data, &rawConfig); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", configPath, err)
	}

	// Extract level and format, rest are module-specific levels
	for key, value := range rawConfig.Logging {
		switch key {
		case "level":
			cfg.Level = value
		case "format":
			cfg.Format = value
		default:
			cfg.Modules[key] = value
		}
	}

	return cfg, nil
}

func defaultLoggingConfig() logging.Config {
	return logging.Config{
		Level:   "info",
		Format:  "text",
		Modules: make(map[string]string),
	}
}
