package chain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/suipredict/market-gateway/internal/model"
)

var (
	ErrMalformedEvent = errors.New("chain: malformed swap event")
	ErrMissingField   = errors.New("chain: swap event missing required field")
)

// Field-name variants seen across indexer versions and RPC encodings.
// Normalizing them here is the whole point of this boundary: the engine
// packages only ever see a typed model.SwapEvent.
var (
	timestampFields = []string{"timestamp_ms", "timestampMs", "timestamp"}
	inputAmtFields  = []string{"input_amount", "inputAmount", "amount_in", "amountIn"}
	outputAmtFields = []string{"output_amount", "outputAmount", "amount_out", "amountOut"}
	outcomeFields   = []string{"input_outcome", "inputOutcome", "outcome"}
	yesInFields     = []string{"is_yes_input", "isYesInput", "yes_for_no"}
)

// ParseSwapEvent converts one raw event JSON object into a typed SwapEvent.
// Chain RPCs encode u64 values inconsistently (JSON numbers or decimal
// strings); both are accepted. Negative or non-integer values are rejected
// here so the engine never sees them. logIndex records arrival order and
// breaks timestamp ties downstream.
func ParseSwapEvent(raw json.RawMessage, logIndex uint64) (model.SwapEvent, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return model.SwapEvent{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	tsMs, err := intField(fields, timestampFields)
	if err != nil {
		return model.SwapEvent{}, err
	}
	if tsMs <= 0 {
		return model.SwapEvent{}, fmt.Errorf("%w: timestamp %d", ErrMalformedEvent, tsMs)
	}

	inputAmount, err := uintField(fields, inputAmtFields)
	if err != nil {
		return model.SwapEvent{}, err
	}
	outputAmount, err := uintField(fields, outputAmtFields)
	if err != nil {
		return model.SwapEvent{}, err
	}

	outcome, err := outcomeField(fields)
	if err != nil {
		return model.SwapEvent{}, err
	}

	return model.SwapEvent{
		TimestampMs:  tsMs,
		LogIndex:     logIndex,
		InputOutcome: outcome,
		InputAmount:  inputAmount,
		OutputAmount: outputAmount,
	}, nil
}

// ParseSwapEvents converts a page of raw events, assigning log indices in
// arrival order. The whole page is rejected on the first malformed event:
// a partially parsed log would silently skew the reconstructed history.
func ParseSwapEvents(raws []json.RawMessage) ([]model.SwapEvent, error) {
	events := make([]model.SwapEvent, 0, len(raws))
	for i, raw := range raws {
		ev, err := ParseSwapEvent(raw, uint64(i))
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func firstPresent(fields map[string]json.RawMessage, names []string) (json.RawMessage, bool) {
	for _, name := range names {
		if raw, ok := fields[name]; ok {
			return raw, true
		}
	}
	return nil, false
}

// intField reads a signed integer encoded as a JSON number or string.
func intField(fields map[string]json.RawMessage, names []string) (int64, error) {
	raw, ok := firstPresent(fields, names)
	if !ok {
		return 0, fmt.Errorf("%w: one of %s", ErrMissingField, strings.Join(names, "/"))
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrMalformedEvent, s)
		}
		return v, nil
	}

	var v int64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("%w: %s is not an integer", ErrMalformedEvent, raw)
	}
	return v, nil
}

// uintField reads a non-negative integer; negatives are caller bugs and
// fail fast rather than wrapping around.
func uintField(fields map[string]json.RawMessage, names []string) (uint64, error) {
	raw, ok := firstPresent(fields, names)
	if !ok {
		return 0, fmt.Errorf("%w: one of %s", ErrMissingField, strings.Join(names, "/"))
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a u64", ErrMalformedEvent, s)
		}
		return v, nil
	}

	var v int64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("%w: %s is not a u64", ErrMalformedEvent, raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: negative amount %d", ErrMalformedEvent, v)
	}
	return uint64(v), nil
}

// outcomeField accepts either a string outcome field ("yes"/"no", any
// case) or the older boolean is_yes_input encoding.
func outcomeField(fields map[string]json.RawMessage) (model.Outcome, error) {
	if raw, ok := firstPresent(fields, outcomeFields); ok {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("%w: outcome %s", ErrMalformedEvent, raw)
		}
		switch strings.ToLower(s) {
		case "yes":
			return model.OutcomeYes, nil
		case "no":
			return model.OutcomeNo, nil
		}
		return "", fmt.Errorf("%w: outcome %q", ErrMalformedEvent, s)
	}

	if raw, ok := firstPresent(fields, yesInFields); ok {
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return "", fmt.Errorf("%w: boolean outcome %s", ErrMalformedEvent, raw)
		}
		if b {
			return model.OutcomeYes, nil
		}
		return model.OutcomeNo, nil
	}

	return "", fmt.Errorf("%w: one of %s", ErrMissingField, strings.Join(outcomeFields, "/"))
}
