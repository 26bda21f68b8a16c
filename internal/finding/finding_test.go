package finding

import (
	"testing"
)

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		name string
		path string
		base string
		want string
	}{
		{"relative", "src/app.py", "/repo", "/repo/src/app.py"},
		{"absolute", "/repo/src/app.py", "/other", "/repo/src/app.py"},
		{"file uri", "file:///repo/src/app.py", "/other", "/repo/src/app.py"},
		{"dot segments", "src/../src/app.py", "/repo", "/repo/src/app.py"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizePath(tc.path, tc.base); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestLastLine(t *testing.T) {
	if got := (Finding{StartLine: 3}).LastLine(); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := (Finding{StartLine: 3, EndLine: 7}).LastLine(); got != 7 {
		t.Errorf("expected 7, got %d", got)
	}
}

func TestResultIndexLookupPreservesOrder(t *testing.T) {
	findings := []Finding{
		{RuleID: "secure-random", Path: "/repo/a.py", StartLine: 10},
		{RuleID: "secure-random", Path: "/repo/b.py", StartLine: 1},
		{RuleID: "secure-random", Path: "/repo/a.py", StartLine: 2},
		{RuleID: "url-sandbox", Path: "/repo/a.py", StartLine: 5},
	}
	idx := NewResultIndex(findings)

	if idx.Len() != 4 {
		t.Fatalf("expected 4 findings, got %d", idx.Len())
	}

	got := idx.ForRuleAndFile("secure-random", "/repo/a.py")
	if len(got) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(got))
	}
	// Report order, not line order.
	if got[0].StartLine != 10 || got[1].StartLine != 2 {
		t.Errorf("expected report order [10, 2], got [%d, %d]", got[0].StartLine, got[1].StartLine)
	}

	if res := idx.ForRuleAndFile("secure-random", "/repo/c.py"); res != nil {
		t.Errorf("expected nil for unknown file, got %v", res)
	}
	if !idx.HasRule("url-sandbox") {
		t.Error("expected HasRule to find url-sandbox")
	}
	if idx.HasRule("unknown") {
		t.Error("expected HasRule to reject unknown rule")
	}
}

func TestResultIndexNilReceiver(t *testing.T) {
	var idx *ResultIndex
	if idx.Len() != 0 {
		t.Error("nil index must report zero findings")
	}
	if idx.ForRuleAndFile("r", "/f") != nil {
		t.Error("nil index must return nil findings")
	}
}

func TestNormalizeSARIF(t *testing.T) {
	doc := `{
		"runs": [{
			"tool": {"driver": {"name": "semgrep"}},
			"results": [
				{
					"ruleId": "url-sandbox",
					"locations": [{
						"physicalLocation": {
							"artifactLocation": {"uri": "src/app.py"},
							"region": {"startLine": 12, "endLine": 12, "startColumn": 5}
						}
					}]
				},
				{
					"ruleId": "no-location",
					"locations": [{"physicalLocation": {"artifactLocation": {"uri": ""}}}]
				}
			]
		}]
	}`

	findings, err := NormalizeSARIF([]byte(doc), "/repo")
	if err != nil {
		t.Fatalf("NormalizeSARIF failed: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	f := findings[0]
	if f.RuleID != "url-sandbox" || f.Path != "/repo/src/app.py" {
		t.Errorf("unexpected finding %+v", f)
	}
	if f.StartLine != 12 || f.Column != 5 || f.SourceTool != "semgrep" {
		t.Errorf("unexpected location %+v", f)
	}
}

func TestNormalizeSARIFMalformed(t *testing.T) {
	if _, err := NormalizeSARIF([]byte("{not json"), "/repo"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestNormalizeSARIFEmptyRuns(t *testing.T) {
	findings, err := NormalizeSARIF([]byte(`{"runs": []}`), "/repo")
	if err != nil {
		t.Fatalf("NormalizeSARIF failed: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("expected no findings, got %d", len(findings))
	}
}

func TestNormalizeSonar(t *testing.T) {
	doc := `{
		"issues": [
			{
				"rule": "python:S4830",
				"component": "proj:src/tls.py",
				"line": 40,
				"textRange": {"startLine": 42, "endLine": 43, "startOffset": 8}
			},
			{"rule": "python:S0000", "component": "proj:", "line": 1}
		]
	}`

	findings, err := NormalizeSonar([]byte(doc), "/repo")
	if err != nil {
		t.Fatalf("NormalizeSonar failed: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	f := findings[0]
	if f.RuleID != "python:S4830" || f.Path != "/repo/src/tls.py" {
		t.Errorf("unexpected finding %+v", f)
	}
	if f.StartLine != 42 || f.EndLine != 43 {
		t.Errorf("textRange must win over line: %+v", f)
	}
}
