package device

import (
	"bytes"
	"embed"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/lightnode/internal/logging"
)

const (
	deviceTreeModelPath = "/proc/device-tree/model"

	// AutoProfile selects a built-in profile from the device-tree model.
	AutoProfile = "auto"
	// FallbackProfile is used when auto-detection matches nothing.
	FallbackProfile = "none"
)

//go:embed profiles/*.toml
var builtinFS embed.FS

// Builtins returns the names of the embedded profiles, sorted.
func Builtins() []string {
	entries, err := builtinFS.ReadDir("profiles")
	if err != nil {
		return []string{}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
	}
	sort.Strings(names)
	return names
}

// Builtin returns the embedded profile with the given name.
func Builtin(name string) (*Profile, error) {
	data, err := builtinFS.ReadFile(path.Join("profiles", name+".toml"))
	if err != nil {
		return nil, NewError(ErrCodeProfileNotFound, "no built-in profile "+name, err)
	}
	return parse(bytes.NewReader(data), name)
}

// LoadFile reads a profile from a TOML file. Unknown keys are rejected.
func LoadFile(file string) (*Profile, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, NewError(ErrCodeProfileNotFound, "cannot open profile "+file, err)
	}
	defer f.Close()
	return parse(f, file)
}

func parse(r io.Reader, source string) (*Profile, error) {
	var p Profile
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&p); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, NewError(ErrCodeParseFailed, "unknown keys in "+source, errors.New(strict.String()))
		}
		return nil, NewError(ErrCodeParseFailed, "cannot parse "+source, err)
	}

	p.applyDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Resolve picks the profile named by spec: "auto" (or empty) detects the
// board, a value ending in .toml or containing a path separator is loaded
// from disk, anything else is a built-in name. Root is applied to the result.
func Resolve(spec, root string, logger logging.Logger) (*Profile, error) {
	if logger == nil {
		logger = logging.GetLogger("config")
	}

	var (
		p   *Profile
		err error
	)

	switch {
	case spec == "" || spec == AutoProfile:
		p, err = detect(root, logger)
	case strings.HasSuffix(spec, ".toml") || strings.ContainsRune(spec, filepath.Separator):
		p, err = LoadFile(spec)
	default:
		p, err = Builtin(spec)
	}
	if err != nil {
		return nil, err
	}

	p.Root = root
	logger.Info("Using device profile",
		"profile", p.Name,
		"backlight", p.HasBacklight(),
		"rgb", p.HasRGB(),
		"breath", p.HasBreath(),
		"aw22xx", p.HasAW22XX(),
		"nubia", p.HasNubia())
	return p, nil
}

// detect matches the device-tree model against built-in profiles.
func detect(root string, logger logging.Logger) (*Profile, error) {
	model := detectBoard(root)
	logger.Info("Detecting board for light control", "board_model", model)

	for _, name := range Builtins() {
		p, err := Builtin(name)
		if err != nil {
			return nil, err
		}
		for _, m := range p.Match {
			if m != "" && strings.Contains(model, m) {
				logger.Info("Matched built-in profile", "profile", name, "match", m)
				return p, nil
			}
		}
	}

	logger.Info("No profile matched board, using fallback", "board_model", model, "profile", FallbackProfile)
	return Builtin(FallbackProfile)
}

// detectBoard reads the device tree model to identify the board.
func detectBoard(root string) string {
	data, err := os.ReadFile(filepath.Join(root, deviceTreeModelPath))
	if err != nil {
		return "unknown"
	}

	// Device tree model contains null bytes, trim them
	return strings.TrimRight(string(data), "\x00")
}
