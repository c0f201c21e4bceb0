package params

import (
	"testing"
)

func TestBuildConfigurationDefaults(t *testing.T) {
	cfg, err := BuildConfiguration(map[string]interface{}{})
	if err != nil {
		t.Fatalf("empty map rejected: %v", err)
	}
	if cfg.Iterations != 1000 {
		t.Errorf("default iterations = %d, want 1000", cfg.Iterations)
	}
	if cfg.LaunchLat != 45.72341 || cfg.LaunchLon != 63.32275 {
		t.Errorf("default launch site = (%v, %v)", cfg.LaunchLat, cfg.LaunchLon)
	}
}

func TestBuildConfigurationZonePreset(t *testing.T) {
	cfg, err := BuildConfiguration(map[string]interface{}{
		"zone_id": "zone-306",
		// Manual fields must lose against the preset.
		"launch_lat": 10.0,
		"iterations": 500,
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if cfg.ZoneID != "zone-306" {
		t.Errorf("zone id = %q", cfg.ZoneID)
	}
	if cfg.LaunchLat != 45.92861 {
		t.Errorf("launch lat = %v, want the preset value", cfg.LaunchLat)
	}
	if cfg.Iterations != 500 {
		t.Errorf("iterations = %d, want 500", cfg.Iterations)
	}
}

func TestBuildConfigurationUnknownZone(t *testing.T) {
	if _, err := BuildConfiguration(map[string]interface{}{"zone_id": "zone-999"}); err == nil {
		t.Error("unknown zone accepted")
	}
}

func TestBuildConfigurationManualFields(t *testing.T) {
	cfg, err := BuildConfiguration(map[string]interface{}{
		"zone_id":      "manual",
		"launch_lat":   50.5,
		"launch_lon":   "61.25", // numeric strings are accepted
		"azimuth":      90,
		"sep_altitude": 43000.0,
		"use_gpu":      true,
		"target_date":  "2026-06-15",
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if cfg.LaunchLat != 50.5 || cfg.LaunchLon != 61.25 || cfg.Azimuth != 90 {
		t.Errorf("manual fields = %v/%v/%v", cfg.LaunchLat, cfg.LaunchLon, cfg.Azimuth)
	}
	if cfg.SepAltitude != 43000 {
		t.Errorf("sep altitude = %v", cfg.SepAltitude)
	}
	if !cfg.UseGPU {
		t.Error("gpu flag lost")
	}
	if got := cfg.TargetDate.Format("2006-01-02"); got != "2026-06-15" {
		t.Errorf("target date = %s", got)
	}
}

func TestBuildConfigurationPermissiveCoercion(t *testing.T) {
	// A malformed numeric value becomes 0 instead of failing the build.
	cfg, err := BuildConfiguration(map[string]interface{}{
		"launch_lat": "not-a-number",
	})
	if err != nil {
		t.Fatalf("malformed numeric rejected: %v", err)
	}
	if cfg.LaunchLat != 0 {
		t.Errorf("launch lat = %v, want 0 for malformed input", cfg.LaunchLat)
	}
}

func TestBuildConfigurationRejectsBadIterations(t *testing.T) {
	for _, v := range []interface{}{0, -5, "garbage"} {
		if _, err := BuildConfiguration(map[string]interface{}{"iterations": v}); err == nil {
			t.Errorf("iterations=%v accepted", v)
		}
	}
}

func TestBuildConfigurationRejectsBadDate(t *testing.T) {
	if _, err := BuildConfiguration(map[string]interface{}{"target_date": "15.06.2026"}); err == nil {
		t.Error("malformed date accepted")
	}
}

func TestRunParameterSchema(t *testing.T) {
	ps := RunParameters()
	byName := make(map[string]Parameter, len(ps))
	for _, p := range ps {
		byName[p.Name] = p
	}

	zone, ok := byName["zone_id"]
	if !ok {
		t.Fatal("no zone_id parameter")
	}
	if len(zone.Options) != 4 || zone.Options[0] != "manual" {
		t.Errorf("zone options = %v", zone.Options)
	}

	iter, ok := byName["iterations"]
	if !ok {
		t.Fatal("no iterations parameter")
	}
	if iter.Type != "integer" || !iter.Required || iter.Default != 1000 {
		t.Errorf("iterations schema = %+v", iter)
	}

	for _, p := range ManualParameters() {
		if p.Type != "float" {
			t.Errorf("manual parameter %q has type %q", p.Name, p.Type)
		}
	}
}
