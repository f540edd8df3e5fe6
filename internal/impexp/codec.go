// Package impexp encodes the ledger as a portable backup document and
// applies such documents back onto a store.
//
// Import uses replace semantics: the document becomes the whole
// ledger. Records are validated before anything is touched, so a bad
// document never leaves partial state behind.
package impexp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"tally/internal/core"
	"tally/internal/ledger"
)

var (
	// ErrInvalidFormat marks a document that fails structural
	// validation: not a JSON object, or its expenses field is missing
	// or not an array.
	ErrInvalidFormat = errors.New("invalid backup document format")
)

// Document is the backup wire format. TotalIncome is optional on
// import; ExportDate records when the backup was produced.
type Document struct {
	Expenses    []core.Expense `json:"expenses"`
	TotalIncome *core.Money    `json:"totalIncome,omitempty"`
	ExportDate  time.Time      `json:"exportDate"`
}

// Export captures a snapshot as a backup document.
func Export(snap core.Snapshot) Document {
	expenses := snap.Expenses
	if expenses == nil {
		expenses = []core.Expense{}
	}
	income := snap.TotalIncome
	return Document{
		Expenses:    expenses,
		TotalIncome: &income,
		ExportDate:  time.Now().UTC(),
	}
}

// EncodeJSON writes the document with two-space indentation, the
// format the tracker has always produced for downloads.
func (d Document) EncodeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode backup document: %w", err)
	}
	return nil
}

// DecodeDocument reads and structurally validates a backup document.
// The expenses field must be present and must be an array; everything
// else about the records is validated at import time.
func DecodeDocument(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read backup document: %w", err)
	}

	var probe struct {
		Expenses json.RawMessage `json:"expenses"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if len(probe.Expenses) == 0 || probe.Expenses[0] != '[' {
		return Document{}, fmt.Errorf("%w: expenses must be an array", ErrInvalidFormat)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return doc, nil
}

// Import replaces the store's state with the document's. Records keep
// their ids and dates when the document carries them; missing ones are
// assigned so hand-edited documents still import. Validation failures
// abort the whole import with nothing applied.
func Import(ctx context.Context, store *ledger.Store, doc Document) error {
	records := make([]core.Expense, len(doc.Expenses))
	for i, e := range doc.Expenses {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.Date.IsZero() {
			e.Date = core.Today()
		}
		if err := e.Input().Validate(); err != nil {
			return fmt.Errorf("import record %d: %w", i, err)
		}
		records[i] = e
	}
	return store.ReplaceAll(ctx, records, doc.TotalIncome)
}

// ImportJSON decodes a document from r and applies it.
func ImportJSON(ctx context.Context, store *ledger.Store, r io.Reader) error {
	doc, err := DecodeDocument(r)
	if err != nil {
		return err
	}
	return Import(ctx, store, doc)
}
