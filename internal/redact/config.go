package redact

import (
	"os"

	"gopkg.in/yaml.v3"
)

// configFileNames are the conventional locations probed for user-declared
// scrub patterns, relative to the working directory.
var configFileNames = []string{"env-config.yml", "env-config.yaml"}

// scrubConfig is the optional scrubbing section of the tool configuration.
// Only this section is read here; the rest of the document belongs to the
// config package. This loader runs before any other configuration
// machinery initializes, so it parses the file directly.
type scrubConfig struct {
	Scrubbing struct {
		// ScrubGlobs are additional secret-name globs, e.g. "*_KEY".
		ScrubGlobs []string `yaml:"scrub_globs"`
		// WhitelistGlobs exempt matching names, e.g. "*_VALUE".
		WhitelistGlobs []string `yaml:"whitelist_globs"`
	} `yaml:"scrubbing"`
}

// loadScrubConfig returns the user scrubbing configuration, or nil when
// the document is absent or malformed. Failure is silent: coverage
// degrades to the built-in sets, it never fails closed and never aborts
// startup over an optional file.
func loadScrubConfig() *scrubConfig {
	for _, name := range configFileNames {
		data, err := os.ReadFile(name)
		if err != nil {
			continue
		}
		var cfg scrubConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			continue
		}
		return &cfg
	}
	return nil
}
