package dxcfg

import "testing"

func TestStaticSource(t *testing.T) {
	s := StaticSource{Debug: true}
	if !s.GetBool(Debug) {
		t.Errorf("GetBool(Debug) = false, want true")
	}
	if s.GetBool(ShaderDump) {
		t.Errorf("GetBool(ShaderDump) = true, want false for an unset key")
	}
}

func TestEnvSourceUnsetDefaultsFalse(t *testing.T) {
	var e EnvSource
	if e.GetBool(Debug) {
		t.Errorf("GetBool(Debug) = true with no environment variable set")
	}
}

func TestEnvSourceParsesSetVariable(t *testing.T) {
	t.Setenv("DXUP_DEBUG", "true")
	var e EnvSource
	if !e.GetBool(Debug) {
		t.Errorf("GetBool(Debug) = false with DXUP_DEBUG=true")
	}
}

func TestKeyString(t *testing.T) {
	if got := Debug.String(); got != "Debug" {
		t.Errorf("Debug.String() = %q, want \"Debug\"", got)
	}
	if got := Key(99).String(); got != "Unknown" {
		t.Errorf("Key(99).String() = %q, want \"Unknown\"", got)
	}
}
