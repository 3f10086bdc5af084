package conversation

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestBatchDecodesElementsIndependently(t *testing.T) {
	data := []byte(`[
		{"type":"user_message","text":"hello"},
		"not an object",
		{"type":"difficulty_roll","integer":"high"},
		{"type":"difficulty_roll","integer":42},
		{"type":"mystery","whatever":true}
	]`)
	var b Batch
	if err := json.Unmarshal(data, &b); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(b) != 5 {
		t.Fatalf("len(batch) = %d, want 5", len(b))
	}
	if b[0].Type != KindUserMessage || b[0].TextValue() != "hello" {
		t.Fatalf("batch[0] = %+v", b[0])
	}
	if b[1].DecodeErr == nil {
		t.Fatalf("batch[1] expected decode error")
	}
	if b[2].DecodeErr == nil || b[2].Type != KindDifficultyRoll {
		t.Fatalf("batch[2] = %+v, want decode error with probed type", b[2])
	}
	if roll, ok := b[3].Roll(); !ok || roll != 42 {
		t.Fatalf("batch[3].Roll() = %d,%v, want 42,true", roll, ok)
	}
	if b[4].Type.Known() {
		t.Fatalf("mystery kind should be unknown")
	}
}

func TestValidate(t *testing.T) {
	empty := ""
	cases := []struct {
		name    string
		obj     Object
		wantErr bool
	}{
		{"user message", UserMessage("hi"), false},
		{"empty text is present", Object{Type: KindOOCMessage, Text: scalarPtr(empty)}, false},
		{"missing text", Object{Type: KindIntroBlurb}, true},
		{"map data alias needs text", Object{Type: KindMapData}, true},
		{"numeric target", DifficultyTarget("70"), false},
		{"trivial target", DifficultyTarget("Trivial"), false},
		{"target via text field", Text(KindDifficultyTarget, "55"), false},
		{"garbage target", DifficultyTarget("hard"), true},
		{"target out of range", DifficultyTarget("140"), true},
		{"roll", DifficultyRoll(100), false},
		{"roll zero", RevealRoll(0), true},
		{"roll missing", Object{Type: KindDifficultyRoll}, true},
		{"level", RevealLevel("Moderate"), false},
		{"level missing", Object{Type: KindWorldRevealLevel}, true},
		{"unrecognized", Unrecognized("Notes", "body"), false},
		{"unrecognized missing body", Object{Type: KindUnrecognizedSection, HeaderText: &empty}, true},
		{"tool use", Object{Type: KindToolUse}, false},
		{"boot end", Object{Type: KindBootSequenceEnd}, false},
		{"decode error", Object{DecodeErr: errors.New("boom")}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.obj.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMalformed) {
				t.Fatalf("Validate() error %v is not ErrMalformed", err)
			}
		})
	}
}

func TestParseTarget(t *testing.T) {
	got, err := ParseTarget(" trivial ")
	if err != nil || !got.Trivial {
		t.Fatalf("ParseTarget(trivial) = %+v, %v", got, err)
	}
	if _, ok := got.Numeric(); ok {
		t.Fatalf("trivial target must not be numeric")
	}
	got, err = ParseTarget("35%")
	if err != nil {
		t.Fatalf("ParseTarget(35%%): %v", err)
	}
	if n, ok := got.Numeric(); !ok || n != 35 {
		t.Fatalf("Numeric() = %d,%v, want 35,true", n, ok)
	}
	if (Target{}).IsSet() {
		t.Fatalf("zero Target should be unset")
	}
}

func TestCanonical(t *testing.T) {
	if KindMapData.Canonical() != KindWorldGenData {
		t.Fatalf("map_data should fold into world_gen_data")
	}
	if KindIntroBlurb.Canonical() != KindIntroBlurb {
		t.Fatalf("intro_blurb should be unchanged")
	}
}

func TestScalarAcceptsStringsAndNumbers(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{`"Trivial"`, "Trivial", false},
		{`70`, "70", false},
		{`70.0`, "70", false},
		{`"55%"`, "55%", false},
		{`12.5`, "12.5", false},
		{`true`, "", true},
		{`{"n":1}`, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			var s Scalar
			err := json.Unmarshal([]byte(tc.in), &s)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if !tc.wantErr && s.String() != tc.want {
				t.Fatalf("Scalar = %q, want %q", s, tc.want)
			}
		})
	}
}

func TestNumericTargetDecodesFromServerShape(t *testing.T) {
	data := []byte(`[
		{"type":"difficulty_target","text":70},
		{"type":"world_reveal_level","value":null,"text":"Moderate"}
	]`)
	var b Batch
	if err := json.Unmarshal(data, &b); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if b[0].DecodeErr != nil {
		t.Fatalf("batch[0] decode error: %v", b[0].DecodeErr)
	}
	if err := b[0].Validate(); err != nil {
		t.Fatalf("batch[0].Validate() = %v", err)
	}
	if label, ok := b[0].Label(); !ok || label != "70" {
		t.Fatalf("batch[0].Label() = %q,%v, want 70,true", label, ok)
	}
	if label, ok := b[1].Label(); !ok || label != "Moderate" {
		t.Fatalf("batch[1].Label() = %q,%v, want Moderate,true", label, ok)
	}
}
