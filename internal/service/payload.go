package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/chazai233/word-service/report"
)

// The automation platform sends record lists two ways: as a JSON array,
// or as a string holding the JSON-encoded array (the workflow passes tool
// output through as text). Sequence numbers likewise arrive as numbers or
// strings. The decoders below accept every combination.

// hasPayload reports whether a raw field is actually present: absent and
// explicit-null fields both count as missing.
func hasPayload(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && !bytes.Equal(t, []byte("null"))
}

// flexString unmarshals from a JSON string, number, or null.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

// unwrapJSON peels one layer of string encoding: a payload of the form
// `"[...]"` becomes `[...]`; anything else passes through untouched.
func unwrapJSON(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return raw, nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, fmt.Errorf("unquoting payload: %w", err)
	}
	return json.RawMessage(s), nil
}

// decodeChineseRecords parses the chinese_data payload: an array of
// {seq, location, content, quantity, shift}.
func decodeChineseRecords(raw json.RawMessage) ([]report.Record, error) {
	data, err := unwrapJSON(raw)
	if err != nil {
		return nil, err
	}
	var items []struct {
		Seq      flexString `json:"seq"`
		Location string     `json:"location"`
		Content  string     `json:"content"`
		Quantity string     `json:"quantity"`
		Shift    string     `json:"shift"`
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing chinese_data: %w", err)
	}
	recs := make([]report.Record, len(items))
	for i, it := range items {
		recs[i] = report.Record{
			Seq:      string(it.Seq),
			Location: it.Location,
			Content:  it.Content,
			Quantity: it.Quantity,
			Shift:    it.Shift,
		}
	}
	return recs, nil
}

// decodeEnglishRecords parses the english_data payload: either the
// translation envelope {"translated_data": [...]} or a bare array of
// {seq, location_en, content_en, quantity_en, remarks_en}. Remarks map
// onto the shift column.
func decodeEnglishRecords(raw json.RawMessage) ([]report.Record, error) {
	data, err := unwrapJSON(raw)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			TranslatedData json.RawMessage `json:"translated_data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("parsing english_data envelope: %w", err)
		}
		data = envelope.TranslatedData
	}
	var items []struct {
		Seq      flexString `json:"seq"`
		Location string     `json:"location_en"`
		Content  string     `json:"content_en"`
		Quantity string     `json:"quantity_en"`
		Remarks  string     `json:"remarks_en"`
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing english_data: %w", err)
	}
	recs := make([]report.Record, len(items))
	for i, it := range items {
		recs[i] = report.Record{
			Seq:      string(it.Seq),
			Location: it.Location,
			Content:  it.Content,
			Quantity: it.Quantity,
			Shift:    it.Remarks,
		}
	}
	return recs, nil
}
