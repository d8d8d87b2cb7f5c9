package runner

import (
	"testing"

	"augur/internal/config"
)

func TestNewWiresOraclesAndWeights(t *testing.T) {
	cfg := config.Default()
	r := New(cfg, nil)
	if len(r.oracles) != len(r.weights) {
		t.Fatalf("oracles=%d weights=%d", len(r.oracles), len(r.weights))
	}
	if r.oracles[0].Name() != "PredictedValue" {
		t.Fatalf("first oracle = %s", r.oracles[0].Name())
	}
	if r.weights[0] != cfg.Weights.Actions.Query || r.weights[1] != cfg.Weights.Actions.Explain {
		t.Fatalf("weights = %v", r.weights)
	}
}

func TestRecordStatementFiltersDDL(t *testing.T) {
	r := New(config.Default(), nil)
	r.recordStatement("CREATE TABLE t0 (id BIGINT)")
	r.recordStatement("INSERT INTO t0 (id) VALUES (1)")
	if len(r.insertLog) != 1 {
		t.Fatalf("insertLog = %v", r.insertLog)
	}
	if r.insertLog[0] != "INSERT INTO t0 (id) VALUES (1)" {
		t.Fatalf("unexpected entry %q", r.insertLog[0])
	}
}
