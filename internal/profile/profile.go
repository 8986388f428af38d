package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when the profile file does not exist. Callers that
// treat scoring as optional (the scrape pipeline) check for it explicitly.
var ErrNotFound = errors.New("user profile not found")

// Profile is the user_profile.yaml document. The scorer only ever reads it.
type Profile struct {
	User    User    `yaml:"profile"`
	Scoring Scoring `yaml:"scoring"`
}

// User holds the preferences the fit scorer matches jobs against.
type User struct {
	Skills struct {
		Required  []string `yaml:"required"`
		Preferred []string `yaml:"preferred"`
	} `yaml:"skills"`
	Locations struct {
		Preferred  []string `yaml:"preferred"`
		Acceptable []string `yaml:"acceptable"`
	} `yaml:"locations"`
	Salary struct {
		Minimum   int `yaml:"minimum"`
		Preferred int `yaml:"preferred"`
	} `yaml:"salary"`
	Dealbreakers []string `yaml:"dealbreakers"`
}

// Scoring holds user-supplied overrides for the scoring weights. Missing
// entries fall back to the scorer defaults; a missing profile file does not.
type Scoring struct {
	Weights map[string]float64 `yaml:"weights"`
}

// Load reads and parses the user profile from path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading user profile %q: %w", path, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing user profile %q: %w", path, err)
	}

	return &p, nil
}
