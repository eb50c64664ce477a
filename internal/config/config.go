// Package config loads the host configuration file: which documents to
// spawn and how to run the tick loop. The file is HCL.
package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Scene declares one document to spawn at startup.
type Scene struct {
	Name     string `hcl:"name,label"`
	Document string `hcl:"document"`
}

// Settings holds the optional runtime knobs.
type Settings struct {
	AssetsDir    string `hcl:"assets_dir,optional"`
	DocumentsDir string `hcl:"documents_dir,optional"`
	TickRateMS   int    `hcl:"tick_rate_ms,optional"`
	Ticks        int    `hcl:"ticks,optional"`
}

// File is the decoded configuration file.
type File struct {
	Settings *Settings `hcl:"settings,block"`
	Scenes   []*Scene  `hcl:"scene,block"`
}

// Load parses and decodes the configuration at path.
func Load(path string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing config %q: %w", path, diags)
	}

	var f File
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &f); diags.HasErrors() {
		return nil, fmt.Errorf("decoding config %q: %w", path, diags)
	}
	if f.Settings == nil {
		f.Settings = &Settings{}
	}
	if f.Settings.TickRateMS <= 0 {
		f.Settings.TickRateMS = 100
	}
	if len(f.Scenes) == 0 {
		return nil, fmt.Errorf("config %q: at least one scene block is required", path)
	}
	return &f, nil
}
