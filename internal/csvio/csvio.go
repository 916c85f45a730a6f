// Package csvio transcodes transactions to and from the CSV interchange
// shape: header "id,date,description,amount,type,category", one line per
// transaction, description quoted.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetbuddy/budgetbuddy/internal/domain"
)

const header = "id,date,description,amount,type,category"

// Export writes the transactions in the interchange shape. The description is
// always quoted, with embedded quotes doubled.
func Export(w io.Writer, transactions []domain.Transaction) error {
	if _, err := fmt.Fprintln(w, header); err != nil {
		return fmt.Errorf("Export: write header: %w", err)
	}
	for _, t := range transactions {
		quoted := strings.ReplaceAll(t.Description, `"`, `""`)
		_, err := fmt.Fprintf(w, "%s,%s,\"%s\",%s,%s,%s\n",
			t.ID, t.Date, quoted, t.Amount, t.Type, t.Category)
		if err != nil {
			return fmt.Errorf("Export: write row: %w", err)
		}
	}
	return nil
}

// Import parses the interchange shape, skipping the header row. Malformed
// rows (missing description or date, unparseable date, non-numeric amount)
// are silently dropped, not reported per row. Rows without an id get a
// generated one.
func Import(r io.Reader) ([]domain.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("Import: read csv: %w", err)
	}

	var out []domain.Transaction
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if t, ok := parseRow(row); ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func parseRow(row []string) (domain.Transaction, bool) {
	if len(row) < 6 {
		return domain.Transaction{}, false
	}
	id, rawDate, description := row[0], row[1], row[2]
	rawAmount, rawType, category := row[3], row[4], row[5]

	if description == "" || rawDate == "" {
		return domain.Transaction{}, false
	}
	date, err := civil.ParseDate(rawDate)
	if err != nil {
		return domain.Transaction{}, false
	}
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return domain.Transaction{}, false
	}
	if id == "" {
		id = uuid.New().String()
	}

	txType := domain.TransactionType(rawType)
	if txType != domain.TypeIncome && txType != domain.TypeExpense {
		txType = domain.TypeExpense
	}

	return domain.Transaction{
		ID:          id,
		Date:        date,
		Description: description,
		Amount:      amount,
		Type:        txType,
		Category:    category,
	}, true
}
