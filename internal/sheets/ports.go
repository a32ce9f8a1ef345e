package sheets

import (
	"context"
	"strconv"

	"financebot/internal/core"
)

// Mirror is a spreadsheet that holds a read-only copy of the ledger.
type Mirror interface {
	// Current returns every row of the sheet, header included.
	Current(ctx context.Context) ([][]string, error)
	// Replace overwrites the sheet with rows.
	Replace(ctx context.Context, rows [][]string) error
}

var Header = []string{"ID", "Data", "Tipo", "Valor", "Categoria", "Classe", "Descrição"}

// Rows renders txs under Header. Callers pass them in Query order.
func Rows(txs []core.Transaction) [][]string {
	rows := make([][]string, 0, len(txs)+1)
	rows = append(rows, Header)
	for _, tx := range txs {
		rows = append(rows, []string{
			strconv.FormatInt(tx.ID, 10),
			tx.Date.String(),
			string(tx.Kind),
			tx.Amount.StringFixed(2),
			tx.Category,
			tx.Class().String(),
			tx.Description,
		})
	}
	return rows
}

// Equal compares two sheets cell by cell, ignoring trailing empty cells that the
// Sheets API drops on read.
func Equal(a, b [][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ra, rb := trimRow(a[i]), trimRow(b[i])
		if len(ra) != len(rb) {
			return false
		}
		for j := range ra {
			if ra[j] != rb[j] {
				return false
			}
		}
	}
	return true
}

func trimRow(r []string) []string {
	n := len(r)
	for n > 0 && r[n-1] == "" {
		n--
	}
	return r[:n]
}
