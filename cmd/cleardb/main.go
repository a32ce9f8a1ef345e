// Command cleardb removes every transaction from the configured ledger after
// an explicit confirmation.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"financebot/internal/cli"
	"financebot/internal/ledger"
	applog "financebot/internal/log"
)

func main() {
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

	cli.LoadEnvFile()
	boot := cli.SetupLogger("info", applog.ComponentCLI)
	cfg := cli.LoadAndValidateConfig(boot)
	logger := cli.SetupLogger(cfg.LogLevel, applog.ComponentCLI)

	ctx := context.Background()
	res := cli.OpenLedger(ctx, logger, cfg)
	defer res.Cleanup()

	n, err := res.Store.Count(ctx)
	if err != nil {
		logger.Error("Failed to count transactions", applog.FieldError, err)
		os.Exit(1)
	}
	if n == 0 {
		fmt.Println("Nenhuma transação para apagar.")
		return
	}

	if !*yes && !confirm(n) {
		fmt.Println("Operação cancelada.")
		return
	}

	deleted, err := res.Store.DeleteByCriteria(ctx, ledger.DeleteCriteria{All: true})
	if err != nil {
		logger.Error("Failed to clear ledger", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Ledger cleared", applog.FieldOperation, applog.OpDelete, applog.FieldCount, deleted)
	fmt.Printf("%d transações apagadas.\n", deleted)
}

func confirm(n int64) bool {
	fmt.Printf("Isso vai apagar %d transações. Digite 'sim' para confirmar: ", n)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.EqualFold(strings.TrimSpace(answer), "sim")
}
