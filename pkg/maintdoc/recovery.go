package maintdoc

import (
	"fmt"
	"regexp"
	"strings"
)

// configNotFoundRe extracts the path from "config not found: /etc/app.yaml"-style messages.
var configNotFoundRe = regexp.MustCompile(`(?i)config(?:uration)?(?: file)? not found:?\s*['"]?([^\s'"]+)`)

// hintRule pairs lowercase substrings with the hints emitted when any of them occurs.
type hintRule struct {
	substrings []string
	hints      []string
}

// recoveryRules is evaluated in order; the first matching rule wins.
var recoveryRules = []hintRule{
	{
		substrings: []string{"access denied", "accessdenied", "unauthorized", "forbidden", "not authorized", "permission"},
		hints: []string{
			"Verify the IAM permissions of the executing role",
			"Check resource policies and service control policies for explicit denies",
		},
	},
	{
		substrings: []string{"throttl", "rate exceeded", "too many requests", "requestlimitexceeded"},
		hints: []string{
			"Retry the operation with exponential backoff",
			"Reduce call concurrency or request a service quota increase",
		},
	},
	{
		substrings: []string{"timed out", "timeout"},
		hints: []string{
			"Check network connectivity to the service endpoint",
			"Increase the operation timeout and retry",
		},
	},
	{
		substrings: []string{"credential", "token", "expired"},
		hints: []string{
			"Refresh or rotate the credentials used by the script",
			"Verify the configured credential profile and environment variables",
		},
	},
	{
		substrings: []string{"connection", "unreachable", "endpoint"},
		hints: []string{
			"Check network connectivity and DNS resolution for the endpoint",
			"Verify the endpoint URL and region settings",
		},
	},
	{
		substrings: []string{"not found", "does not exist", "notfound", "nosuch", "no such"},
		hints: []string{
			"Verify the referenced resource exists",
			"Check the resource name or identifier for typos",
		},
	},
	{
		substrings: []string{"already exists", "alreadyexists", "conflict", "in use"},
		hints: []string{
			"Check whether the resource was created by a previous run",
			"Choose a unique name or reuse the existing resource",
		},
	},
	{
		substrings: []string{"required", "missing", "must have"},
		hints: []string{
			"Provide the required parameter",
			"Check the module documentation for mandatory options",
		},
	},
	{
		substrings: []string{"invalid", "must be", "must not", "cannot be", "out of range"},
		hints: []string{
			"Validate the input values against the documented constraints",
			"Correct the offending parameter and re-run",
		},
	},
}

// fallbackHints is used when no rule matches.
var fallbackHints = []string{
	"Review the error message and the parameters of the failing call",
	"Re-run with increased verbosity to collect more context",
}

// RecoveryHints returns ordered recovery steps for an error message.
// Messages reporting a missing configuration file get the path interpolated into the first hint.
func RecoveryHints(message string) []string {
	if m := configNotFoundRe.FindStringSubmatch(message); m != nil {
		return []string{
			fmt.Sprintf("Create the configuration file at %s", m[1]),
			fmt.Sprintf("Verify %s is readable by the executing user", m[1]),
		}
	}
	lower := strings.ToLower(message)
	for _, rule := range recoveryRules {
		for _, s := range rule.substrings {
			if strings.Contains(lower, s) {
				return append([]string(nil), rule.hints...)
			}
		}
	}
	return append([]string(nil), fallbackHints...)
}
