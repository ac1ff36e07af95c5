// Package jsonutil decodes JSON out of text that may wrap it in prose
// or markdown fences, as tool payloads relayed through model output
// often are.
package jsonutil

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/quailyquaily/uniai"
)

var ErrNoJSON = errors.New("no decodable json in input")

// DecodeWithFallback unmarshals the first decodable JSON payload found
// in text into dst. Clean input decodes directly; otherwise uniai's
// snippet extraction and repair are tried, in that order.
func DecodeWithFallback(text string, dst any) error {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return ErrNoJSON
	}
	if tryDecode(raw, dst) {
		return nil
	}
	for _, cand := range uniai.FindJSONSnippets(raw) {
		if tryDecode(cand, dst) {
			return nil
		}
		if tryDecode(uniai.AttemptJSONRepair(cand), dst) {
			return nil
		}
	}
	if tryDecode(uniai.AttemptJSONRepair(raw), dst) {
		return nil
	}
	return ErrNoJSON
}

// tryDecode validates the candidate before touching dst, so a failed
// attempt never leaves partial fields behind.
func tryDecode(candidate string, dst any) bool {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return false
	}
	var tmp any
	if json.Unmarshal([]byte(candidate), &tmp) != nil {
		return false
	}
	return json.Unmarshal([]byte(candidate), dst) == nil
}
