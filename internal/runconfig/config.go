// Package runconfig loads the composer's invocation options: which board
// and example to compose, where the sDDF driver repository and device tree
// blobs live, and where to write the rendered output. Options come from an
// optional YAML file, then environment variables, following an
// env-var-first New() convention.
package runconfig

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the resolved set of options one compose invocation runs with.
type Config struct {
	// Board names the target platform (e.g. "qemu_virt_aarch64"); it
	// selects the board's device tree and driver repository subtree.
	Board string `yaml:"board"`

	// Example names the system to compose from the board's example set.
	Example string `yaml:"example"`

	// SDFOutputPath is where the rendered <system> XML is written. An
	// empty value means stdout.
	SDFOutputPath string `yaml:"sdf_output_path"`

	// SDDFRepoPath is the root of the sDDF repository driverdb.Probe scans.
	SDDFRepoPath string `yaml:"sddf_repo_path"`

	// DTBPath is the compiled device tree blob for Board.
	DTBPath string `yaml:"dtb_path"`

	// OutputDir is where per-subsystem binary config records are written.
	OutputDir string `yaml:"output_dir"`

	// Debug additionally writes a human-readable JSON sibling next to
	// every binary config record.
	Debug bool `yaml:"debug"`
}

// New loads configuration from yamlPath if non-empty, then applies
// environment variable overrides, which always win.
func New(yamlPath string) (*Config, error) {
	cfg := &Config{
		SDFOutputPath: "",
		OutputDir:     ".",
	}

	if yamlPath != "" {
		raw, err := os.ReadFile(yamlPath)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SDFGEN_BOARD"); v != "" {
		cfg.Board = v
	}
	if v := os.Getenv("SDFGEN_EXAMPLE"); v != "" {
		cfg.Example = v
	}
	if v := os.Getenv("SDFGEN_SDF_OUTPUT"); v != "" {
		cfg.SDFOutputPath = v
	}
	if v := os.Getenv("SDFGEN_SDDF_REPO"); v != "" {
		cfg.SDDFRepoPath = v
	}
	if v := os.Getenv("SDFGEN_DTB"); v != "" {
		cfg.DTBPath = v
	}
	if v := os.Getenv("SDFGEN_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("SDFGEN_DEBUG"); v == "1" || v == "true" {
		cfg.Debug = true
	}
}
