package release

import (
	"errors"
	"testing"
)

const validConfig = `
image: crux
base: /var/lib/remint/base.tar
builder: /var/lib/remint/builder.tar
roots:
  - /usr/bin
  - /usr/lib/crux
versions:
  - version: "2.4"
    revision: v2.4.1
    strategy: container
    binaries:
      - name: server
        path: /usr/bin/crux-server
        artifact: out/server
        command: make server
      - name: agent
        path: /usr/bin/crux-agent
        artifact: out/agent
        command: make agent
        strategy: host
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(validConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Image != "crux" {
		t.Fatalf("Image = %q, want crux", cfg.Image)
	}
	if len(cfg.Roots) != 2 {
		t.Fatalf("Roots = %v, want 2 entries", cfg.Roots)
	}

	spec, ok := cfg.Version("2.4")
	if !ok {
		t.Fatal("version 2.4 not found")
	}
	if spec.Revision != "v2.4.1" {
		t.Fatalf("Revision = %q, want v2.4.1", spec.Revision)
	}
	if len(spec.Binaries) != 2 {
		t.Fatalf("Binaries = %v, want 2 entries", spec.Binaries)
	}
}

func TestParseDefaultArchitectures(t *testing.T) {
	cfg, err := Parse([]byte(validConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(cfg.Architectures) != 2 || cfg.Architectures[0] != "amd64" || cfg.Architectures[1] != "arm64" {
		t.Fatalf("Architectures = %v, want [amd64 arm64]", cfg.Architectures)
	}
}

func TestParseExplicitArchitectures(t *testing.T) {
	cfg, err := Parse([]byte(`
base: /base.tar
architectures: [arm64]
versions:
  - version: "1.0"
    revision: v1
    strategy: host
    binaries:
      - name: a
        path: /usr/bin/a
        artifact: out/a
        command: make a
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.Architectures) != 1 || cfg.Architectures[0] != "arm64" {
		t.Fatalf("Architectures = %v, want [arm64]", cfg.Architectures)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not yaml", ": : :"},
		{"missing base", `
versions:
  - version: "1.0"
    revision: v1
    strategy: host
    binaries:
      - {name: a, path: /a, artifact: out/a, command: make}
`},
		{"relative root", `
base: /base.tar
roots: [usr/bin]
`},
		{"missing revision", `
base: /base.tar
versions:
  - version: "1.0"
    strategy: host
    binaries:
      - {name: a, path: /a, artifact: out/a, command: make}
`},
		{"unknown strategy", `
base: /base.tar
versions:
  - version: "1.0"
    revision: v1
    strategy: docker
    binaries:
      - {name: a, path: /a, artifact: out/a, command: make}
`},
		{"empty manifest", `
base: /base.tar
versions:
  - version: "1.0"
    revision: v1
    strategy: host
    binaries: []
`},
		{"duplicate version", `
base: /base.tar
versions:
  - version: "1.0"
    revision: v1
    strategy: host
    binaries:
      - {name: a, path: /a, artifact: out/a, command: make}
  - version: "1.0"
    revision: v2
    strategy: host
    binaries:
      - {name: a, path: /a, artifact: out/a, command: make}
`},
		{"duplicate binary", `
base: /base.tar
versions:
  - version: "1.0"
    revision: v1
    strategy: host
    binaries:
      - {name: a, path: /a, artifact: out/a, command: make}
      - {name: a, path: /b, artifact: out/b, command: make}
`},
		{"relative binary path", `
base: /base.tar
versions:
  - version: "1.0"
    revision: v1
    strategy: host
    binaries:
      - {name: a, path: a, artifact: out/a, command: make}
`},
		{"missing command", `
base: /base.tar
versions:
  - version: "1.0"
    revision: v1
    strategy: host
    binaries:
      - {name: a, path: /a, artifact: out/a}
`},
		{"bad binary strategy", `
base: /base.tar
versions:
  - version: "1.0"
    revision: v1
    strategy: host
    binaries:
      - {name: a, path: /a, artifact: out/a, command: make, strategy: vm}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrConfig) {
				t.Fatalf("error %v does not wrap ErrConfig", err)
			}
		})
	}
}

func TestVersionLookupMiss(t *testing.T) {
	cfg, err := Parse([]byte(validConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := cfg.Version("9.9"); ok {
		t.Fatal("lookup of unknown version succeeded")
	}
}

func TestTargets(t *testing.T) {
	cfg, err := Parse([]byte(validConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	spec, _ := cfg.Version("2.4")

	targets := cfg.Targets(spec)
	if len(targets) != 2 {
		t.Fatalf("targets = %v, want 2 entries", targets)
	}
	if targets[0] != (BuildTarget{Version: "2.4", Arch: "amd64"}) {
		t.Fatalf("targets[0] = %+v", targets[0])
	}
	if targets[1] != (BuildTarget{Version: "2.4", Arch: "arm64"}) {
		t.Fatalf("targets[1] = %+v", targets[1])
	}
}

func TestBuildTargetPlatform(t *testing.T) {
	target := BuildTarget{Version: "2.4", Arch: "arm64"}
	if target.Platform() != "linux/arm64" {
		t.Fatalf("Platform = %q, want linux/arm64", target.Platform())
	}
	if target.String() != "2.4/arm64" {
		t.Fatalf("String = %q, want 2.4/arm64", target.String())
	}
}

func TestBinaryStrategy(t *testing.T) {
	cfg, err := Parse([]byte(validConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	spec, _ := cfg.Version("2.4")

	if got := spec.BinaryStrategy(spec.Binaries[0]); got != StrategyContainer {
		t.Fatalf("server strategy = %q, want container (version default)", got)
	}
	if got := spec.BinaryStrategy(spec.Binaries[1]); got != StrategyHost {
		t.Fatalf("agent strategy = %q, want host (override)", got)
	}
}

func TestBinariesFor(t *testing.T) {
	cfg, err := Parse([]byte(validConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	spec, _ := cfg.Version("2.4")

	container := spec.BinariesFor(StrategyContainer)
	if len(container) != 1 || container[0].Name != "server" {
		t.Fatalf("container subset = %v, want [server]", container)
	}

	host := spec.BinariesFor(StrategyHost)
	if len(host) != 1 || host[0].Name != "agent" {
		t.Fatalf("host subset = %v, want [agent]", host)
	}
}
