package automation

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree"
)

// moduleDoc is the subset of the DOCUMENTATION block the extractor reads.
type moduleDoc struct {
	Module       string    `yaml:"module"`
	Requirements yaml.Node `yaml:"requirements"`
	Options      yaml.Node `yaml:"options"`
}

// docBlock is the decoded DOCUMENTATION block. The zero value means "absent".
type docBlock struct {
	module       string
	requirements []string
	options      []string
}

// documentation returns the string assigned to the module-level DOCUMENTATION variable.
func documentation(tree *sourcetree.Tree) (string, bool) {
	for _, stmt := range tree.Children(tree.Root()) {
		assign := tree.ChildByKind(stmt, sourcetree.KindAssign)
		if tree.Text(tree.ChildByRole(assign, sourcetree.RoleLeft)) != "DOCUMENTATION" {
			continue
		}
		return literal(tree, tree.ChildByRole(assign, sourcetree.RoleRight))
	}
	return "", false
}

// parseDocBlock decodes the DOCUMENTATION block of a module. Missing or malformed
// blocks yield an empty docBlock and ok=false.
func parseDocBlock(tree *sourcetree.Tree) (docBlock, bool) {
	text, ok := documentation(tree)
	if !ok {
		return docBlock{}, false
	}
	var raw moduleDoc
	if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
		return docBlock{}, false
	}
	db := docBlock{module: raw.Module}

	switch raw.Requirements.Kind {
	case yaml.SequenceNode:
		for _, n := range raw.Requirements.Content {
			if n.Kind == yaml.ScalarNode {
				db.requirements = append(db.requirements, n.Value)
			}
		}
	case yaml.ScalarNode:
		for _, r := range strings.Split(raw.Requirements.Value, ",") {
			db.requirements = append(db.requirements, strings.TrimSpace(r))
		}
	}

	// Mapping node content alternates key, value; keep document order.
	if raw.Options.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(raw.Options.Content); i += 2 {
			db.options = append(db.options, raw.Options.Content[i].Value)
		}
	}
	return db, true
}
