package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/billfold-dev/billfold/internal/model"
)

// Header is the CSV header for the merged ledger file.
const Header = "date,type,category,subcategory,account,transfer_to,amount,merchant,description"

const (
	numFields      = 9
	colDate        = 0
	colType        = 1
	colCategory    = 2
	colSubcategory = 3
	colAccount     = 4
	colTransferTo  = 5
	colAmount      = 6
	colMerchant    = 7
	colDesc        = 8
)

// ReadLedger reads all transactions from a ledger CSV reader.
func ReadLedger(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		t, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// WriteLedger writes transactions to a ledger CSV writer (including header).
// Transient records are a bug at this point and are rejected.
func WriteLedger(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		if t.Transient() {
			return fmt.Errorf("row %d: transient %s record in final output", i+2, t.Marker.Kind)
		}
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, numFields)
	row[colDate] = t.Date
	row[colType] = string(t.Type)
	row[colCategory] = t.Category
	row[colSubcategory] = t.Subcategory
	row[colAccount] = t.Account
	row[colTransferTo] = t.TransferTo
	row[colAmount] = t.Amount.StringFixed(2)
	row[colMerchant] = t.Merchant
	row[colDesc] = t.Description
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	return model.Transaction{
		Date:        record[colDate],
		Type:        model.Type(record[colType]),
		Category:    record[colCategory],
		Subcategory: record[colSubcategory],
		Account:     record[colAccount],
		TransferTo:  record[colTransferTo],
		Amount:      amount,
		Merchant:    record[colMerchant],
		Description: record[colDesc],
	}, nil
}
