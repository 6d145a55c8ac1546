package cli

import (
	"fmt"
	"strings"

	"expense-tracker/internal/core"
)

const (
	transactionHeader = "ID | Date | Amount | Type | Category | Description"
	monthRowFormat    = "%-10s | %-12s | %-12s | %-12s\n"
)

// formatTransaction renders one ledger line:
// id | yyyy-mm-dd | $amount | TYPE | category | description
func formatTransaction(t core.Transaction) string {
	return fmt.Sprintf("%s | %s | %s | %s | %s | %s",
		t.ID,
		t.Date.String(),
		core.FormatAmount(t.Amount),
		strings.ToUpper(string(t.Type)),
		t.Category,
		t.Description)
}
