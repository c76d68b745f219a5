// Package dxcfg supplies the small set of boolean toggles the device
// runtime consults at a handful of call sites (debug layer attachment,
// cursor visibility, shader dump, clear-color randomization). It mirrors
// the original driver's config::getBool(config::Key) pattern with an
// interface so tests can substitute fixed values.
package dxcfg

import (
	"os"
	"strconv"
)

// Key names a single boolean configuration toggle.
type Key int

const (
	// Debug is passed by Create to wgpubackend.Open as Options.Debug.
	// Open does not forward it to the instance, and no device-runtime
	// logging depends on it.
	Debug Key = iota
	// InitialHideCursor makes Reset mark the device's cursor as hidden.
	// Only the device's cursorHidden flag is set; the system cursor is
	// not touched.
	InitialHideCursor
	// ShaderDump writes every translated shader to shaderdump/ alongside
	// its source, keyed by stage and a monotonic counter.
	ShaderDump
	// RandomClearColour replaces Clear's caller-supplied color with a
	// random one, a stress-test aid carried over from the original
	// driver unchanged.
	RandomClearColour
)

func (k Key) String() string {
	switch k {
	case Debug:
		return "Debug"
	case InitialHideCursor:
		return "InitialHideCursor"
	case ShaderDump:
		return "ShaderDump"
	case RandomClearColour:
		return "RandomClearColour"
	default:
		return "Unknown"
	}
}

// Source resolves configuration toggles. Implementations must be safe for
// concurrent use.
type Source interface {
	GetBool(key Key) bool
}

// EnvSource reads toggles from the environment variables listed in
// envNames, e.g. DXUP_DEBUG=1 or DXUP_SHADER_DUMP=true. Unset or unparsable variables
// default to false.
type EnvSource struct{}

// envNames maps each Key to the environment variable consulted for it.
var envNames = map[Key]string{
	Debug:             "DXUP_DEBUG",
	InitialHideCursor: "DXUP_INITIAL_HIDE_CURSOR",
	ShaderDump:        "DXUP_SHADER_DUMP",
	RandomClearColour: "DXUP_RANDOM_CLEAR_COLOUR",
}

// GetBool implements Source.
func (EnvSource) GetBool(key Key) bool {
	name, ok := envNames[key]
	if !ok {
		return false
	}
	v, ok := os.LookupEnv(name)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}

// StaticSource is a fixed-value Source, useful in tests.
type StaticSource map[Key]bool

// GetBool implements Source.
func (s StaticSource) GetBool(key Key) bool {
	return s[key]
}

// Default is the package-level Source consulted by the device runtime
// unless a caller overrides it via Device creation parameters.
var Default Source = EnvSource{}
