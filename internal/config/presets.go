package config

// SolarBodies is the Sun/Earth/Moon set used by the "solar" scenario.
// Masses and separations are the standard astronomical values; parents are
// listed before their satellites so orbital velocities chain correctly.
var SolarBodies = []BodySpec{
	{Name: "sun", Mass: 1.98847e30, Radius: 6.9634e8, Density: 1408, Color: "#ffd24a"},
	{Name: "earth", Mass: 5.9722e24, Radius: 6.371e6, Density: 5514, Color: "#4a9bff",
		Parent: "sun", Separation: 1.496e11},
	{Name: "moon", Mass: 7.342e22, Radius: 1.7374e6, Density: 3344, Color: "#c9c9c9",
		Parent: "earth", Separation: 3.844e8},
}

// BinaryBodies is an equal-mass star pair on a mutual circular orbit.
var BinaryBodies = []BodySpec{
	{Name: "alpha", Mass: 1.5e30, Radius: 8.0e8, Density: 900, Color: "#ff9d4a"},
	{Name: "beta", Mass: 1.5e30, Radius: 8.0e8, Density: 900, Color: "#6ad1ff",
		Parent: "alpha", Separation: 9.0e10},
}

var Presets = map[string]*Config{
	"solar": {
		Scenario: "solar", Bodies: SolarBodies,
		StepSize: DefaultStepSize, MaxSteps: DefaultMaxSteps,
		Softening: DefaultSoftening, TimeScale: DefaultTimeScale,
		MaxRealDt: DefaultMaxRealDt,
	},
	"binary": {
		Scenario: "binary", Bodies: BinaryBodies,
		StepSize: 120.0, MaxSteps: DefaultMaxSteps,
		Softening: DefaultSoftening, TimeScale: 5 * DefaultTimeScale,
		MaxRealDt: DefaultMaxRealDt,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
