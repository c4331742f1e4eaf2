package parser

import (
	"reflect"
	"testing"

	"queryd/pkg/types"
)

func TestExtractJSONWellFormed(t *testing.T) {
	text := "model chatter <<<JSON_START>>>\n  {\"layer\": \"listings\", \"filters\": {\"fire_risk\": \"low\", \"price\": {\"lt\": 450000}}}  \n<<<JSON_END>>> more chatter"
	res := ExtractJSON(text)
	want := types.Result{
		"layer": "listings",
		"filters": map[string]any{
			"fire_risk": "low",
			"price":     map[string]any{"lt": float64(450000)},
		},
	}
	if !reflect.DeepEqual(res, want) {
		t.Fatalf("res = %#v", res)
	}
}

func TestExtractJSONNoMarkers(t *testing.T) {
	text := "the model ignored the instructions entirely"
	res := ExtractJSON(text)
	if res.ErrorMessage() != "No JSON output found." {
		t.Fatalf("error = %q", res.ErrorMessage())
	}
	if res[types.KeyRaw] != text {
		t.Fatalf("raw = %v, want full decoded text", res[types.KeyRaw])
	}
}

func TestExtractJSONOnlyStartMarker(t *testing.T) {
	res := ExtractJSON("<<<JSON_START>>> {\"layer\": \"x\"}")
	if res.ErrorMessage() != "No JSON output found." {
		t.Fatalf("error = %q", res.ErrorMessage())
	}
}

func TestExtractJSONOnlyEndMarkerBeforeStart(t *testing.T) {
	// The end marker must occur after the start marker to count.
	res := ExtractJSON("<<<JSON_END>>> junk <<<JSON_START>>> {}")
	if res.ErrorMessage() != "No JSON output found." {
		t.Fatalf("error = %q", res.ErrorMessage())
	}
}

func TestExtractJSONMalformed(t *testing.T) {
	text := "<<<JSON_START>>> {layer: oops} <<<JSON_END>>>"
	res := ExtractJSON(text)
	if res.ErrorMessage() != "Failed to parse JSON output from model." {
		t.Fatalf("error = %q", res.ErrorMessage())
	}
	if res[types.KeyRaw] != text {
		t.Fatalf("raw must carry the full text, got %v", res[types.KeyRaw])
	}
}

func TestExtractJSONEmptyPayload(t *testing.T) {
	res := ExtractJSON("<<<JSON_START>>>   <<<JSON_END>>>")
	if res.ErrorMessage() != "Failed to parse JSON output from model." {
		t.Fatalf("error = %q", res.ErrorMessage())
	}
}

func TestExtractJSONNonObjectPayload(t *testing.T) {
	// Valid JSON that is not an object cannot be represented as the result
	// mapping and is reported through the malformed path.
	res := ExtractJSON("<<<JSON_START>>> [1, 2, 3] <<<JSON_END>>>")
	if res.ErrorMessage() != "Failed to parse JSON output from model." {
		t.Fatalf("error = %q", res.ErrorMessage())
	}
}

func TestExtractJSONFirstMarkerPairWins(t *testing.T) {
	text := "<<<JSON_START>>> {\"a\": 1} <<<JSON_END>>> <<<JSON_START>>> {\"b\": 2} <<<JSON_END>>>"
	res := ExtractJSON(text)
	want := types.Result{"a": float64(1)}
	if !reflect.DeepEqual(res, want) {
		t.Fatalf("res = %#v, want first pair", res)
	}
}
