package bom

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Tree is a root manifest together with every manifest reachable from it
// through include edges. Each manifest is loaded once and keyed by its
// path relative to the working directory.
type Tree struct {
	Root      string
	manifests map[string]*Manifest
}

// LoadTree loads the manifest at rootPath and its include closure
func LoadTree(rootPath string) (*Tree, error) {
	root, err := LoadFile(rootPath)
	if err != nil {
		return nil, err
	}
	return TreeFrom(rootPath, root)
}

// LoadValidTree loads the tree rooted at rootPath and rejects it unless
// every manifest validates. The root is validated before its includes are
// loaded so a missing include is reported as such rather than as a load
// failure.
func LoadValidTree(rootPath string) (*Tree, error) {
	root, err := LoadFile(rootPath)
	if err != nil {
		return nil, err
	}
	if err := Validate(root, rootPath); err != nil {
		return nil, err
	}

	tree, err := TreeFrom(rootPath, root)
	if err != nil {
		return nil, err
	}
	if err := tree.CheckHashConflicts(); err != nil {
		return nil, err
	}
	if err := tree.ValidateIncluded(); err != nil {
		return nil, err
	}
	return tree, nil
}

// IncludeClosure returns the paths of all manifests reachable from the
// manifest at rootPath, excluding the root itself, sorted
func IncludeClosure(rootPath string) ([]string, error) {
	tree, err := LoadTree(rootPath)
	if err != nil {
		return nil, err
	}
	return tree.Included(), nil
}

// TreeFrom builds the tree of an already loaded root by walking the include
// graph depth-first. The visited set makes self-includes and cycles
// terminate.
func TreeFrom(rootPath string, root *Manifest) (*Tree, error) {
	rootKey := filepath.Clean(rootPath)
	t := &Tree{
		Root:      rootKey,
		manifests: map[string]*Manifest{rootKey: root},
	}

	visited := map[string]bool{rootKey: true}
	stack := includesOf(rootKey, root)

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[p] {
			continue
		}
		visited[p] = true

		m, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		t.manifests[p] = m

		for _, next := range includesOf(p, m) {
			if !visited[next] {
				stack = append(stack, next)
			}
		}
	}

	return t, nil
}

func includesOf(manifestPath string, m *Manifest) []string {
	paths := make([]string, 0, len(m.Include))
	for _, include := range m.Include {
		paths = append(paths, filepath.Clean(Resolve(manifestPath, include)))
	}
	return paths
}

// Manifest returns the loaded manifest for path, or nil
func (t *Tree) Manifest(path string) *Manifest {
	return t.manifests[filepath.Clean(path)]
}

// Included returns the include closure of the root, sorted
func (t *Tree) Included() []string {
	paths := make([]string, 0, len(t.manifests))
	for p := range t.manifests {
		if p != t.Root {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}

// Paths returns the root followed by the include closure
func (t *Tree) Paths() []string {
	return append([]string{t.Root}, t.Included()...)
}

// Len returns the number of manifests in the tree, root included
func (t *Tree) Len() int {
	return len(t.manifests)
}

// ValidateIncluded validates every included manifest against its own path
func (t *Tree) ValidateIncluded() error {
	for _, p := range t.Included() {
		if err := Validate(t.manifests[p], p); err != nil {
			return err
		}
	}
	return nil
}

// CheckHashConflicts reports a source file that two entries of the tree pin
// to different hashes
func (t *Tree) CheckHashConflicts() error {
	type pin struct {
		hash     string
		manifest string
	}
	seen := make(map[string]pin)

	for _, p := range t.Paths() {
		for _, f := range t.manifests[p].Files {
			if !f.HasHash() {
				continue
			}
			src := Resolve(p, f.Path)
			prev, ok := seen[src]
			if !ok {
				seen[src] = pin{hash: *f.Hash, manifest: p}
				continue
			}
			if !SameHash(prev.hash, *f.Hash) {
				return &Error{
					Kind: KindConflictingHash,
					Path: src,
					Other: fmt.Sprintf("%s in %s, %s in %s",
						prev.hash, prev.manifest, *f.Hash, p),
				}
			}
		}
	}
	return nil
}
