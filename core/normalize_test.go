package core

import (
	"testing"

	"github.com/huangsam/repometrics/schema"
	"github.com/stretchr/testify/assert"
)

type taggedVerdict struct {
	Passed bool   `json:"result"`
	Kind   string `json:"kind"`
}

type namedVerdict struct {
	Result bool
	Detail string
}

type embeddedVerdict struct {
	schema.Verdict
	Source string `json:"source"`
}

type versionPayload struct {
	Version string `json:"version"`
}

type stringVerdict struct {
	Result string `json:"result"`
}

func TestNormalizeResult(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"verdict true", schema.Verdict{Result: true}, map[string]any{"result": "true"}},
		{"verdict pointer", &schema.Verdict{Result: false}, map[string]any{"result": "false"}},
		{"map bool", map[string]any{"result": false}, map[string]any{"result": "false"}},
		{"map bool drops siblings", map[string]any{"result": true, "kind": "yarn"}, map[string]any{"result": "true"}},
		{"map of bools", map[string]bool{"result": true, "other": false}, map[string]any{"result": "true"}},
		{"tagged struct", taggedVerdict{Passed: true, Kind: "npm"}, map[string]any{"result": "true"}},
		{"tagged struct pointer", &taggedVerdict{Passed: false}, map[string]any{"result": "false"}},
		{"untagged struct", namedVerdict{Result: true, Detail: "x"}, map[string]any{"result": "true"}},
		{"anonymous struct", struct{ Result bool }{Result: false}, map[string]any{"result": "false"}},
		{"embedded verdict", embeddedVerdict{Verdict: schema.Verdict{Result: true}, Source: "ci"}, map[string]any{"result": "true"}},
		{"struct without verdict", versionPayload{Version: "18.2.0"}, versionPayload{Version: "18.2.0"}},
		{"struct with string result", stringVerdict{Result: "yes"}, stringVerdict{Result: "yes"}},
		{"string result untouched", map[string]any{"result": "yes"}, map[string]any{"result": "yes"}},
		{"map without result", map[string]any{"count": 3}, map[string]any{"count": 3}},
		{"plain string", "18.2.0", "18.2.0"},
		{"number", 42, 42},
		{"nil", nil, nil},
		{"nil verdict pointer", (*schema.Verdict)(nil), (*schema.Verdict)(nil)},
		{"nil struct pointer", (*taggedVerdict)(nil), (*taggedVerdict)(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeResult(tt.in))
		})
	}
}

func TestNormalizeResult_DoesNotMutateInput(t *testing.T) {
	in := map[string]any{"result": true, "kind": "npm"}
	NormalizeResult(in)
	assert.Equal(t, map[string]any{"result": true, "kind": "npm"}, in)
}
