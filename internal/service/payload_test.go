package service

import (
	"encoding/json"
	"testing"
)

func TestDecodeChineseRecords(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "bare array",
			raw:  `[{"seq":1,"location":"右岸道路","content":"回填","quantity":"20m","shift":"白天"}]`,
		},
		{
			name: "string-encoded array",
			raw:  `"[{\"seq\":1,\"location\":\"右岸道路\",\"content\":\"回填\",\"quantity\":\"20m\",\"shift\":\"白天\"}]"`,
		},
		{
			name: "string seq",
			raw:  `[{"seq":"1","location":"右岸道路","content":"回填","quantity":"20m","shift":"白天"}]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := decodeChineseRecords(json.RawMessage(tt.raw))
			if err != nil {
				t.Fatalf("decodeChineseRecords: %v", err)
			}
			if len(recs) != 1 {
				t.Fatalf("got %d records, want 1", len(recs))
			}
			if recs[0].Seq != "1" || recs[0].Location != "右岸道路" || recs[0].Shift != "白天" {
				t.Errorf("record = %+v", recs[0])
			}
		})
	}
}

func TestDecodeChineseRecords_Malformed(t *testing.T) {
	if _, err := decodeChineseRecords(json.RawMessage(`{"not":"an array"}`)); err == nil {
		t.Fatal("expected error for non-array payload")
	}
}

func TestDecodeEnglishRecords(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "envelope",
			raw:  `{"translated_data":[{"seq":1,"location_en":"Right Bank","content_en":"Backfill","quantity_en":"20m","remarks_en":"Day"}]}`,
		},
		{
			name: "string-encoded envelope",
			raw:  `"{\"translated_data\":[{\"seq\":1,\"location_en\":\"Right Bank\",\"content_en\":\"Backfill\",\"quantity_en\":\"20m\",\"remarks_en\":\"Day\"}]}"`,
		},
		{
			name: "bare array",
			raw:  `[{"seq":1,"location_en":"Right Bank","content_en":"Backfill","quantity_en":"20m","remarks_en":"Day"}]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := decodeEnglishRecords(json.RawMessage(tt.raw))
			if err != nil {
				t.Fatalf("decodeEnglishRecords: %v", err)
			}
			if len(recs) != 1 {
				t.Fatalf("got %d records, want 1", len(recs))
			}
			if recs[0].Location != "Right Bank" || recs[0].Shift != "Day" {
				t.Errorf("record = %+v, remarks should map onto Shift", recs[0])
			}
		})
	}
}

func TestHasPayload(t *testing.T) {
	for raw, want := range map[string]bool{
		``:       false,
		`null`:   false,
		` null `: false,
		`[]`:     true,
		`"[]"`:   true,
	} {
		if got := hasPayload(json.RawMessage(raw)); got != want {
			t.Errorf("hasPayload(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestFlexString(t *testing.T) {
	var v struct {
		Seq flexString `json:"seq"`
	}
	for raw, want := range map[string]string{
		`{"seq":7}`:     "7",
		`{"seq":"7"}`:   "7",
		`{"seq":null}`:  "",
		`{"seq":2.5}`:   "2.5",
		`{"seq":"a-1"}`: "a-1",
	} {
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			t.Fatalf("%s: %v", raw, err)
		}
		if string(v.Seq) != want {
			t.Errorf("%s: seq = %q, want %q", raw, v.Seq, want)
		}
	}
}
