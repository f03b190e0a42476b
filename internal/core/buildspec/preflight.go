package buildspec

import (
	"errors"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/mod/modfile"
)

// =============================================================================
// Build Context Preflight
// =============================================================================

// Preflight reports every build input the descriptor needs that the context
// fsys lacks. An empty result means the build has its manifests and its entry
// package; a non-empty one means the build would fail. Optional files may be
// absent.
func Preflight(fsys fs.FS, d Descriptor) []Problem {
	var problems []Problem

	for _, name := range d.Manifests {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				problems = append(problems, Problem{Subject: name, Message: "dependency manifest is missing"})
			} else {
				problems = append(problems, Problem{Subject: name, Message: err.Error()})
			}
			continue
		}
		if name == "go.mod" {
			problems = append(problems, checkModFile(name, data)...)
			continue
		}
		if len(data) == 0 {
			problems = append(problems, Problem{Subject: name, Message: "dependency manifest is empty"})
		}
	}

	for _, name := range d.Optional {
		if _, err := fs.Stat(fsys, name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			problems = append(problems, Problem{Subject: name, Message: err.Error()})
		}
	}

	problems = append(problems, checkEntry(fsys, d.entryDir())...)
	for _, asset := range d.Assets {
		if _, err := fs.Stat(fsys, path.Clean(asset)); err != nil {
			problems = append(problems, Problem{Subject: asset, Message: "asset is missing"})
		}
	}
	return problems
}

// checkModFile parses a go.mod and requires a module directive.
func checkModFile(name string, data []byte) []Problem {
	f, err := modfile.Parse(name, data, nil)
	if err != nil {
		return []Problem{{Subject: name, Message: "malformed: " + err.Error()}}
	}
	if f.Module == nil || f.Module.Mod.Path == "" {
		return []Problem{{Subject: name, Message: "no module directive"}}
	}
	return nil
}

// checkEntry requires the entry directory to hold at least one non-test Go file.
func checkEntry(fsys fs.FS, dir string) []Problem {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return []Problem{{Subject: dir, Message: "entry package is missing"}}
	}
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go") {
			return nil
		}
	}
	return []Problem{{Subject: dir, Message: "entry package has no Go source"}}
}
