package proposals

import (
	"bytes"
	"encoding/json"
	"fmt"

	"proposal-ingest/core/reconcile"
	"proposal-ingest/core/utils"
)

// Wire field names of a scraped proposal.
const (
	fieldLegislativeTerm = "donem_yasama"
	fieldCaseNumber      = "esas_no"
	fieldDate            = "tarih"
	fieldProposer        = "milletvekili_veya_kurum"
	fieldSummary         = "ozet"
	fieldStatus          = "durum"
	fieldLinks           = "linkler"
)

// DecodeBatch parses an update-proposals body into records.
//
// The body must be an object whose "proposals" member is an array of objects.
// An empty array is a valid, empty batch. Anything else is an InvalidBatch error.
func DecodeBatch(body []byte) ([]reconcile.Record, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil || envelope == nil {
		return nil, reconcile.NewInvalidBatchError("body is not a JSON object")
	}

	raw, ok := envelope["proposals"]
	if !ok || isNull(raw) {
		return nil, reconcile.NewInvalidBatchError("missing proposals data")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, reconcile.NewInvalidBatchError("proposals is not an array")
	}

	batch := make([]reconcile.Record, 0, len(items))
	for i, item := range items {
		rec, err := decodeRecord(item)
		if err != nil {
			return nil, reconcile.NewInvalidBatchError(fmt.Sprintf("proposal %d: %v", i, err))
		}
		batch = append(batch, rec)
	}
	return batch, nil
}

func decodeRecord(item json.RawMessage) (reconcile.Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return reconcile.Record{}, fmt.Errorf("not a JSON object")
	}

	rec := reconcile.Record{
		LegislativeTerm: textField(fields[fieldLegislativeTerm]),
		Date:            textField(fields[fieldDate]),
		Proposer:        textField(fields[fieldProposer]),
		Summary:         textField(fields[fieldSummary]),
		Status:          textField(fields[fieldStatus]),
	}
	rec.CaseNumber = caseNumberField(fields[fieldCaseNumber])

	if links := fields[fieldLinks]; len(links) > 0 && !isNull(links) {
		var compact bytes.Buffer
		if err := json.Compact(&compact, links); err != nil {
			return reconcile.Record{}, fmt.Errorf("invalid %s: %w", fieldLinks, err)
		}
		rec.Links = compact.Bytes()
	}

	return rec, nil
}

// caseNumberField returns the business key of a record, or "" when the record
// has none. false, empty arrays and empty objects count as missing keys.
func caseNumberField(raw json.RawMessage) string {
	switch string(bytes.Join(bytes.Fields(raw), nil)) {
	case "false", "[]", "{}":
		return ""
	}
	if cn := textField(raw); cn != nil {
		return *cn
	}
	return ""
}

// textField converts a loosely typed JSON value to its text form.
// Absent and null values stay nil; nested values keep their JSON text.
func textField(raw json.RawMessage) *string {
	if len(raw) == 0 || isNull(raw) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}

	var s string
	switch v.(type) {
	case map[string]any, []any:
		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			return nil
		}
		s = compact.String()
	default:
		s = utils.ToString(v)
	}
	return &s
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
