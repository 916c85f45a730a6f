package csvio

import (
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/budgetbuddy/budgetbuddy/internal/domain"
)

func TestExport(t *testing.T) {
	transactions := []domain.Transaction{
		{
			ID:          "t1",
			Date:        civil.Date{Year: 2025, Month: time.July, Day: 10},
			Description: "Coffee beans",
			Amount:      decimal.RequireFromString("12.50"),
			Type:        domain.TypeExpense,
			Category:    "Groceries",
		},
		{
			ID:          "t2",
			Date:        civil.Date{Year: 2025, Month: time.July, Day: 1},
			Description: `The "best" bakery`,
			Amount:      decimal.RequireFromString("8"),
			Type:        domain.TypeExpense,
			Category:    "Dining",
		},
	}

	var b strings.Builder
	if err := Export(&b, transactions); err != nil {
		t.Fatalf("Export: %v", err)
	}

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "id,date,description,amount,type,category" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != `t1,2025-07-10,"Coffee beans",12.5,expense,Groceries` {
		t.Errorf("row = %q", lines[1])
	}
	// Embedded quotes are doubled inside the quoted description.
	if lines[2] != `t2,2025-07-01,"The ""best"" bakery",8,expense,Dining` {
		t.Errorf("row = %q", lines[2])
	}
}

func TestExport_Empty(t *testing.T) {
	var b strings.Builder
	if err := Export(&b, nil); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if b.String() != "id,date,description,amount,type,category\n" {
		t.Errorf("empty export = %q", b.String())
	}
}

func TestImport(t *testing.T) {
	input := strings.Join([]string{
		"id,date,description,amount,type,category",
		`t1,2025-07-10,"Coffee beans",12.50,expense,Groceries`,
		`t2,2025-07-01,Salary,5000,income,Salary`,
	}, "\n")

	got, err := Import(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(got))
	}
	if got[0].ID != "t1" || got[0].Description != "Coffee beans" {
		t.Errorf("got[0] = %+v", got[0])
	}
	if !got[0].Amount.Equal(decimal.RequireFromString("12.50")) {
		t.Errorf("Amount = %s, want 12.50", got[0].Amount)
	}
	if got[1].Type != domain.TypeIncome {
		t.Errorf("Type = %s, want income", got[1].Type)
	}
}

func TestImport_DropsMalformedRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
		kept int
	}{
		{"valid row", `t1,2025-07-10,Coffee,12.50,expense,Groceries`, 1},
		{"missing description", `t1,2025-07-10,,12.50,expense,Groceries`, 0},
		{"missing date", `t1,,Coffee,12.50,expense,Groceries`, 0},
		{"bad date", `t1,July 10th,Coffee,12.50,expense,Groceries`, 0},
		{"bad amount", `t1,2025-07-10,Coffee,abc,expense,Groceries`, 0},
		{"too few fields", `t1,2025-07-10,Coffee`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "id,date,description,amount,type,category\n" + tt.row
			got, err := Import(strings.NewReader(input))
			if err != nil {
				t.Fatalf("Import: %v", err)
			}
			if len(got) != tt.kept {
				t.Errorf("kept %d rows, want %d", len(got), tt.kept)
			}
		})
	}
}

func TestImport_GeneratesMissingIDs(t *testing.T) {
	input := "id,date,description,amount,type,category\n" +
		`,2025-07-10,Coffee,12.50,expense,Groceries`

	got, err := Import(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(got))
	}
	if got[0].ID == "" {
		t.Error("expected a generated id")
	}
}

func TestImport_UnknownTypeDefaultsToExpense(t *testing.T) {
	input := "id,date,description,amount,type,category\n" +
		`t1,2025-07-10,Coffee,12.50,transfer,Groceries`

	got, err := Import(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got[0].Type != domain.TypeExpense {
		t.Errorf("Type = %s, want expense", got[0].Type)
	}
}

func TestRoundTrip(t *testing.T) {
	original := []domain.Transaction{
		{
			ID:          "t1",
			Date:        civil.Date{Year: 2025, Month: time.July, Day: 10},
			Description: `Quoted "stuff", with comma`,
			Amount:      decimal.RequireFromString("99.99"),
			Type:        domain.TypeExpense,
			Category:    "Misc",
		},
	}

	var b strings.Builder
	if err := Export(&b, original); err != nil {
		t.Fatalf("Export: %v", err)
	}
	got, err := Import(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(got))
	}
	if got[0].Description != original[0].Description {
		t.Errorf("Description = %q, want %q", got[0].Description, original[0].Description)
	}
	if !got[0].Amount.Equal(original[0].Amount) {
		t.Errorf("Amount = %s, want %s", got[0].Amount, original[0].Amount)
	}
}
