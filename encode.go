package simtrader

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/shopspring/decimal"
)

// DecodeOrderEvents reads a stream of JSONL order-lifecycle events, decodes
// each line into the appropriate event struct, and returns them in recorded
// order. Lines with an unrecognized event tag are logged and skipped: the
// event log is a historical artifact and one odd record must not abort a
// replay.
func DecodeOrderEvents(r io.Reader) ([]OrderEvent, error) {
	var events []OrderEvent
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Event EventType `json:"event"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify event in line %q: %w", string(lineBytes), err)
		}

		var decoded OrderEvent
		var err error

		switch identifier.Event {
		case EvtSubmitted:
			var ev struct {
				baseEvent
				Side       Side            `json:"side"`
				AssetID    string          `json:"asset_id"`
				LimitPrice decimal.Decimal `json:"limit_price"`
				Size       decimal.Decimal `json:"size"`
			}
			err = json.Unmarshal(lineBytes, &ev)
			decoded = Submitted{
				baseEvent:  ev.baseEvent,
				Side:       ev.Side,
				AssetID:    ev.AssetID,
				LimitPrice: ev.LimitPrice,
				Size:       ev.Size,
			}
		case EvtActivated:
			var ev Activated
			err = json.Unmarshal(lineBytes, &ev.baseEvent)
			decoded = ev
		case EvtFill:
			var ev struct {
				baseEvent
				FillPrice decimal.Decimal `json:"fill_price"`
				FillSize  decimal.Decimal `json:"fill_size"`
				Remaining decimal.Decimal `json:"remaining"`
			}
			err = json.Unmarshal(lineBytes, &ev)
			decoded = Fill{
				baseEvent: ev.baseEvent,
				FillPrice: ev.FillPrice,
				FillSize:  ev.FillSize,
				Remaining: ev.Remaining,
			}
		case EvtCancelled:
			var ev struct {
				baseEvent
				Remaining decimal.Decimal `json:"remaining"`
			}
			err = json.Unmarshal(lineBytes, &ev)
			decoded = Cancelled{baseEvent: ev.baseEvent, Remaining: ev.Remaining}
		case EvtCancelSubmitted:
			var ev CancelSubmitted
			err = json.Unmarshal(lineBytes, &ev.baseEvent)
			decoded = ev
		default:
			log.Printf("skipping line with unrecognized event kind %q", identifier.Event)
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("could not decode %q event: %w", identifier.Event, err)
		}
		events = append(events, decoded)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return events, nil
}

// DecodeBookTimeline reads a stream of JSONL top-of-book rows.
func DecodeBookTimeline(r io.Reader) ([]BookRow, error) {
	var rows []BookRow
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		var row BookRow
		if err := json.Unmarshal(lineBytes, &row); err != nil {
			return nil, fmt.Errorf("could not decode book row %q: %w", string(lineBytes), err)
		}
		rows = append(rows, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return rows, nil
}

// EncodeLedgerRows writes ledger rows to the writer in JSONL format, one row
// per line, in order. The output is byte-identical across re-runs of the
// same input.
func EncodeLedgerRows(w io.Writer, rows []LedgerRow) error {
	for _, row := range rows {
		if err := encodeLine(w, row); err != nil {
			return err
		}
	}
	return nil
}

// EncodeEquityRows writes equity-curve rows to the writer in JSONL format.
func EncodeEquityRows(w io.Writer, rows []EquityRow) error {
	for _, row := range rows {
		if err := encodeLine(w, row); err != nil {
			return err
		}
	}
	return nil
}

// EncodeSummary writes the run summary as a single JSON object followed by a
// newline.
func EncodeSummary(w io.Writer, s Summary) error {
	return encodeLine(w, s)
}

// DecodeSummary reads a summary.json artifact back.
func DecodeSummary(r io.Reader) (Summary, error) {
	var s Summary
	data, err := io.ReadAll(r)
	if err != nil {
		return s, fmt.Errorf("error reading summary: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("could not decode summary: %w", err)
	}
	return s, nil
}

func encodeLine(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal row: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}
