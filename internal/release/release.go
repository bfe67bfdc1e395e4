package release

import (
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Strategy selects how a version's binaries are compiled.
type Strategy string

const (
	// StrategyContainer compiles inside an emulated build container with an
	// explicit target platform.
	StrategyContainer Strategy = "container"

	// StrategyHost invokes the toolchain directly on the host with explicit
	// target-architecture environment, bypassing the upstream build layer
	// that drops the architecture for some binaries.
	StrategyHost Strategy = "host"
)

// Architectures built when the configuration does not name its own set.
var defaultArchitectures = []string{"amd64", "arm64"}

// Top-level release configuration.
//
// Loaded once per run and never mutated. One VersionSpec per supported
// release line.
type Config struct {
	Image         string        `yaml:"image"`         // Image name, used for container IDs and rendering.
	Base          string        `yaml:"base"`          // OCI archive the final image is assembled on top of.
	Builder       string        `yaml:"builder"`       // OCI archive providing the in-container build environment.
	Roots         []string      `yaml:"roots"`         // In-image roots scanned by inventory and diff.
	Architectures []string      `yaml:"architectures"` // Target architecture set. Defaults to amd64 and arm64.
	Versions      []VersionSpec `yaml:"versions"`      // Supported release lines.
}

// One supported release line: a version label pinned to a source revision
// with a fixed build strategy and binary manifest.
type VersionSpec struct {
	Version  string   `yaml:"version"`  // Version label (e.g., "2.4").
	Revision string   `yaml:"revision"` // Pinned source revision (tag, branch, or commit).
	Strategy Strategy `yaml:"strategy"` // Default build strategy for the version's binaries.
	Binaries []Binary `yaml:"binaries"` // Fixed binary manifest.
}

// One expected binary of a version.
type Binary struct {
	Name     string   `yaml:"name"`     // Logical name (e.g., "server").
	Path     string   `yaml:"path"`     // Expected absolute path inside the image.
	Artifact string   `yaml:"artifact"` // Path of the compiled artifact in the source tree.
	Command  string   `yaml:"command"`  // Build command, run in the source tree root.
	Strategy Strategy `yaml:"strategy"` // Per-binary strategy override. Empty uses the version default.
}

// One (version, architecture) pair requiring its own compiled artifact set.
type BuildTarget struct {
	Version string // Version label.
	Arch    string // Target architecture (e.g., "amd64").
}

// Returns the OCI platform string for the target (e.g., "linux/arm64").
func (t BuildTarget) Platform() string {
	return "linux/" + t.Arch
}

func (t BuildTarget) String() string {
	return t.Version + "/" + t.Arch
}

// Reads and validates a release configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return Parse(data)
}

// Parses and validates release configuration bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	if len(cfg.Architectures) == 0 {
		cfg.Architectures = append([]string(nil), defaultArchitectures...)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Looks up a version spec by label.
func (c *Config) Version(label string) (VersionSpec, bool) {
	for _, v := range c.Versions {
		if v.Version == label {
			return v, true
		}
	}
	return VersionSpec{}, false
}

// Returns the build targets for a version: the cross product of the version
// and the configured architecture set, in configuration order.
func (c *Config) Targets(v VersionSpec) []BuildTarget {
	targets := make([]BuildTarget, 0, len(c.Architectures))
	for _, arch := range c.Architectures {
		targets = append(targets, BuildTarget{Version: v.Version, Arch: arch})
	}
	return targets
}

// Returns the effective strategy for a binary: the per-binary override when
// set, otherwise the version default.
func (v VersionSpec) BinaryStrategy(b Binary) Strategy {
	if b.Strategy != "" {
		return b.Strategy
	}
	return v.Strategy
}

// Returns the subset of the version's manifest built with the given strategy.
func (v VersionSpec) BinariesFor(s Strategy) []Binary {
	var subset []Binary
	for _, b := range v.Binaries {
		if v.BinaryStrategy(b) == s {
			subset = append(subset, b)
		}
	}
	return subset
}

func (c *Config) validate() error {
	if c.Base == "" {
		return fmt.Errorf("%w: base image archive is required", ErrConfig)
	}
	for _, root := range c.Roots {
		if !path.IsAbs(root) {
			return fmt.Errorf("%w: root %q must be absolute", ErrConfig, root)
		}
	}
	for _, arch := range c.Architectures {
		if strings.TrimSpace(arch) == "" {
			return fmt.Errorf("%w: empty architecture entry", ErrConfig)
		}
	}

	seen := make(map[string]bool, len(c.Versions))
	for _, v := range c.Versions {
		if v.Version == "" {
			return fmt.Errorf("%w: version label is required", ErrConfig)
		}
		if seen[v.Version] {
			return fmt.Errorf("%w: duplicate version %q", ErrConfig, v.Version)
		}
		seen[v.Version] = true

		if err := v.validate(); err != nil {
			return fmt.Errorf("%w: version %q: %w", ErrConfig, v.Version, err)
		}
	}
	return nil
}

func (v VersionSpec) validate() error {
	if v.Revision == "" {
		return fmt.Errorf("revision is required")
	}
	if err := validStrategy(v.Strategy); err != nil {
		return err
	}
	if len(v.Binaries) == 0 {
		return fmt.Errorf("binary manifest is empty")
	}

	names := make(map[string]bool, len(v.Binaries))
	for _, b := range v.Binaries {
		if b.Name == "" {
			return fmt.Errorf("binary name is required")
		}
		if names[b.Name] {
			return fmt.Errorf("duplicate binary %q", b.Name)
		}
		names[b.Name] = true

		if !path.IsAbs(b.Path) {
			return fmt.Errorf("binary %q: path %q must be absolute", b.Name, b.Path)
		}
		if b.Artifact == "" {
			return fmt.Errorf("binary %q: artifact path is required", b.Name)
		}
		if b.Command == "" {
			return fmt.Errorf("binary %q: build command is required", b.Name)
		}
		if b.Strategy != "" {
			if err := validStrategy(b.Strategy); err != nil {
				return fmt.Errorf("binary %q: %w", b.Name, err)
			}
		}
	}
	return nil
}

func validStrategy(s Strategy) error {
	switch s {
	case StrategyContainer, StrategyHost:
		return nil
	default:
		return fmt.Errorf("unknown strategy %q", s)
	}
}
