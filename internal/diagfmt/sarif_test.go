package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestSarif(t *testing.T) {
	bag, fs := testBag(t)

	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "taskml", ToolVersion: "0.1.0", InvocationArgs: []string{"check", "sprint.tm"}}
	if err := Sarif(&buf, bag, fs, meta); err != nil {
		t.Fatalf("Sarif() error: %v", err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v\n%s", err, buf.String())
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected envelope: version=%q runs=%d", log.Version, len(log.Runs))
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "taskml" {
		t.Errorf("tool name = %q", run.Tool.Driver.Name)
	}
	if len(run.Tool.Driver.Rules) != 2 || run.Tool.Driver.Rules[0].ID != "E200" || run.Tool.Driver.Rules[1].ID != "E302" {
		t.Errorf("unexpected rules: %+v", run.Tool.Driver.Rules)
	}
	if len(run.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(run.Results))
	}

	res := run.Results[1]
	if res.RuleID != "E302" || res.RuleIndex != 1 || res.Level != "warning" {
		t.Errorf("unexpected result: %+v", res)
	}
	if len(res.Locations) != 1 {
		t.Fatalf("expected a location")
	}
	phys := res.Locations[0].PhysicalLocation
	if phys.ArtifactLocation.URI != "plans/sprint.tm" {
		t.Errorf("uri = %q", phys.ArtifactLocation.URI)
	}
	if phys.Region == nil || phys.Region.StartLine != 3 || phys.Region.StartColumn != 10 || phys.Region.EndColumn != 13 {
		t.Errorf("region = %+v", phys.Region)
	}

	if len(run.Invocations) != 1 || run.Invocations[0].ExecutionSuccessful {
		t.Errorf("invocation should report failure: %+v", run.Invocations)
	}
}
