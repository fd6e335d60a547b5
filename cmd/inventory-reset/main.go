package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/ahadnetwork/inventory_backend/config"
	"bitbucket.org/ahadnetwork/inventory_backend/models"
)

// inventory-reset wipes the persisted reconciliation state: the catalog and
// ledger tables plus the redis snapshots. The next sync (or dashboard load)
// rebuilds everything from seed history and the webhook feeds, so this is
// the recovery path for a corrupted snapshot.
func main() {
	dryRun := flag.Bool("dry-run", true, "Show what would be cleared (no writes)")
	confirm := flag.String("confirm", "", "Type RESET to proceed when dry-run=false")
	flag.Parse()

	if !*dryRun && strings.TrimSpace(*confirm) != "RESET" {
		fmt.Fprintln(os.Stderr, "set --confirm=RESET to proceed")
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}

	store := models.NewDBStore(db)

	if *dryRun {
		catalog := store.ReadCatalog()
		ledger := store.ReadLedger()
		fmt.Printf("would clear %d products and %d ledger entries\n", len(catalog), len(ledger))
		for _, id := range models.ProductIDs() {
			if p, ok := catalog[id]; ok {
				fmt.Printf("%-14s stock=%d\n", p.ID, p.Stock)
			}
		}
		return
	}

	if err := store.Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "reset failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("inventory state cleared; run inventory-rebuild or trigger a sync to repopulate")
}
