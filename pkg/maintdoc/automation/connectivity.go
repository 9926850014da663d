package automation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree"
)

// Connection requirement types.
const (
	ConnectionRegion      = "region"
	ConnectionEndpoint    = "endpoint"
	ConnectionNetwork     = "network"
	ConnectionCredentials = "credentials_profile"
)

// identRe matches identifiers and parameter names that carry a connectivity keyword.
var identRe = regexp.MustCompile(`^\w*(?:region|endpoint|vpc|subnet|security_group|profile)\w*$`)

type connectivityRule struct {
	kind        string
	keywords    []string
	description string
	steps       []string
}

// connectivityRules are evaluated in order; each contributes at most one requirement.
var connectivityRules = []connectivityRule{
	{
		kind:        ConnectionRegion,
		keywords:    []string{"region"},
		description: "Target region must be configured",
		steps: []string{
			"Confirm the region parameter or AWS_REGION environment variable is set",
			"Verify the service is available in the configured region",
		},
	},
	{
		kind:        ConnectionEndpoint,
		keywords:    []string{"endpoint"},
		description: "Service endpoint must be reachable",
		steps: []string{
			"Resolve and reach the endpoint from the execution host",
			"Check proxy and firewall rules between the host and the endpoint",
		},
	},
	{
		kind:        ConnectionNetwork,
		keywords:    []string{"vpc", "subnet", "security_group"},
		description: "Network scope must exist and allow the required traffic",
		steps: []string{
			"Verify the referenced VPC, subnets and security groups exist in the target account",
			"Check route tables and security group rules for the required traffic",
		},
	},
	{
		kind:        ConnectionCredentials,
		keywords:    []string{"profile"},
		description: "Credential profile must be available",
		steps: []string{
			"Confirm the named profile exists in the credentials file of the executing user",
			"Run aws sts get-caller-identity with the profile to validate it",
		},
	},
}

// extractConnections reports region, endpoint, network and credential profile requirements
// from identifiers in the code and documented option names.
func extractConnections(tree *sourcetree.Tree) []maintdoc.ConnectionRequirement {
	out := []maintdoc.ConnectionRequirement{}
	if tree == nil {
		return out
	}
	var names []string
	if doc, ok := parseDocBlock(tree); ok {
		names = append(names, doc.options...)
	}
	for _, id := range tree.Find(tree.Root(), sourcetree.KindIdentifier, sourcetree.KindString) {
		name := tree.Text(id)
		if tree.Kind(id) == sourcetree.KindString {
			name, _ = literal(tree, id)
		}
		if identRe.MatchString(name) {
			names = append(names, name)
		}
	}
	names = dedupeFold(names)

	for _, rule := range connectivityRules {
		var matched []string
		for _, n := range names {
			lower := strings.ToLower(n)
			for _, k := range rule.keywords {
				if strings.Contains(lower, k) {
					matched = append(matched, n)
					break
				}
			}
		}
		if len(matched) == 0 {
			continue
		}
		out = append(out, maintdoc.ConnectionRequirement{
			RequirementType: rule.kind,
			Description:     fmt.Sprintf("%s (parameters: %s)", rule.description, strings.Join(matched, ", ")),
			ValidationSteps: append([]string(nil), rule.steps...),
		})
	}
	return out
}
