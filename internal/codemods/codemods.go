// Package codemods defines the default codemod set: the security rewrites
// shipped with the tool, each binding metadata, an optional detector, and a
// pattern transformer.
package codemods

import (
	"embed"
	"io/fs"
	"regexp"

	"remedy/internal/codemod"
	"remedy/internal/finding"
	"remedy/internal/reportcache"
)

//go:embed docs
var docsTree embed.FS

// docsFS exposes the embedded markdown documents at their bare names.
func docsFS() fs.FS {
	sub, err := fs.Sub(docsTree, "docs")
	if err != nil {
		panic(err)
	}
	return sub
}

// Options configures construction of the default registry.
type Options struct {
	// SarifPaths are SARIF report files feeding detector-gated codemods.
	SarifPaths []string
	// SonarPaths are Sonar issues JSON exports.
	SonarPaths []string
	// Cache, when set, reuses normalized findings for unchanged reports.
	Cache *reportcache.Cache
}

// NewProcessSandbox rewrites subprocess.run calls to go through
// safe_command, which vetoes shell-injection-prone invocations.
func NewProcessSandbox() *codemod.Codemod {
	return &codemod.Codemod{
		Origin: "remedy",
		Metadata: codemod.Metadata{
			Name:           "process-sandbox",
			Summary:        "Sandbox process creation",
			ReviewGuidance: codemod.RequiresCursoryReview,
			Language:       "python",
			References: []codemod.Reference{
				{URL: "https://owasp.org/www-community/attacks/Command_Injection", Description: "Command injection"},
			},
		},
		Transformer: &PatternTransformer{
			Pattern:     regexp.MustCompile(`\bsubprocess\.run\(`),
			Replacement: "safe_command.run(",
			AddImport:   "from security import safe_command",
			Description: "Sandboxed process creation with safe_command",
		},
		Docs: docsFS(),
	}
}

// NewSecureRandom replaces the random module's insecure generator with the
// secrets module equivalent.
func NewSecureRandom() *codemod.Codemod {
	return &codemod.Codemod{
		Origin: "remedy",
		Metadata: codemod.Metadata{
			Name:           "secure-random",
			Summary:        "Use a secure source of randomness",
			ReviewGuidance: codemod.SafeToAutoMerge,
			Language:       "python",
			References: []codemod.Reference{
				{URL: "https://docs.python.org/3/library/secrets.html", Description: "secrets module"},
			},
		},
		Transformer: &PatternTransformer{
			Pattern:     regexp.MustCompile(`\brandom\.random\(\)`),
			Replacement: "secrets.SystemRandom().random()",
			AddImport:   "import secrets",
			Description: "Replaced random.random with a cryptographically secure generator",
		},
		Docs: docsFS(),
	}
}

// NewTempfileMktemp replaces the race-prone tempfile.mktemp with mkstemp.
func NewTempfileMktemp() *codemod.Codemod {
	return &codemod.Codemod{
		Origin: "remedy",
		Metadata: codemod.Metadata{
			Name:           "tempfile-mktemp",
			Summary:        "Upgrade deprecated tempfile.mktemp",
			ReviewGuidance: codemod.SafeToAutoMerge,
			Language:       "python",
			References: []codemod.Reference{
				{URL: "https://docs.python.org/3/library/tempfile.html#tempfile.mktemp", Description: "tempfile.mktemp deprecation"},
			},
		},
		Transformer: &PatternTransformer{
			Pattern:     regexp.MustCompile(`\btempfile\.mktemp\(`),
			Replacement: "tempfile.mkstemp(",
			Description: "Replaced tempfile.mktemp with the race-free mkstemp",
		},
		Docs: docsFS(),
	}
}

// NewURLSandbox is detector-gated: it only rewrites requests.get calls that
// an external scanner flagged, routing them through safe_requests.
func NewURLSandbox(opts Options) *codemod.Codemod {
	return &codemod.Codemod{
		Origin: "remedy",
		Metadata: codemod.Metadata{
			Name:           "url-sandbox",
			Summary:        "Sandbox URL creation",
			ReviewGuidance: codemod.RequiresCursoryReview,
			Language:       "python",
			Tool: &codemod.ToolMetadata{
				Name:     "semgrep",
				RuleID:   "url-sandbox",
				RuleName: "Server-side request forgery",
				RuleURL:  "https://owasp.org/www-community/attacks/Server_Side_Request_Forgery",
			},
			References: []codemod.Reference{
				{URL: "https://owasp.org/www-community/attacks/Server_Side_Request_Forgery", Description: "SSRF"},
			},
		},
		Detector: &codemod.ReportDetector{
			Paths:     opts.SarifPaths,
			Normalize: finding.NormalizeSARIF,
			Cache:     opts.Cache,
		},
		Transformer: &PatternTransformer{
			Pattern:     regexp.MustCompile(`\brequests\.get\(`),
			Replacement: "safe_requests.get(",
			AddImport:   "from security import safe_requests",
			Description: "Sandboxed outbound request with safe_requests",
		},
		Docs: docsFS(),
	}
}

// NewSonarSecureRandom remediates Sonar's S2245 findings with the same
// rewrite as secure-random, driven entirely by the imported report.
func NewSonarSecureRandom(opts Options) *codemod.Codemod {
	return &codemod.Codemod{
		Origin: "sonar",
		Metadata: codemod.Metadata{
			Name:           "sonar-secure-random",
			Summary:        "Use a secure source of randomness (Sonar)",
			ReviewGuidance: codemod.SafeToAutoMerge,
			Language:       "python",
			Tool: &codemod.ToolMetadata{
				Name:     "Sonar",
				RuleID:   "python:S2245",
				RuleName: "Using pseudorandom number generators (PRNGs) is security-sensitive",
				RuleURL:  "https://rules.sonarsource.com/python/RSPEC-2245/",
			},
		},
		ExtraRules: []string{"python:S2245"},
		Detector: &codemod.ReportDetector{
			Paths:     opts.SonarPaths,
			Normalize: finding.NormalizeSonar,
			Cache:     opts.Cache,
		},
		Transformer: &PatternTransformer{
			Pattern:     regexp.MustCompile(`\brandom\.random\(\)`),
			Replacement: "secrets.SystemRandom().random()",
			AddImport:   "import secrets",
			Description: "Replaced random.random with a cryptographically secure generator",
		},
		Docs: docsFS(),
	}
}

// DefaultRegistry builds the registry with the full default codemod set,
// in the order codemods are applied to the tree.
func DefaultRegistry(opts Options) *codemod.Registry {
	return codemod.NewRegistry().MustRegister(
		NewProcessSandbox(),
		NewSecureRandom(),
		NewTempfileMktemp(),
		NewURLSandbox(opts),
		NewSonarSecureRandom(opts),
	)
}
