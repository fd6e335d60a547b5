package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"bitbucket.org/ahadnetwork/inventory_backend/config"
	"bitbucket.org/ahadnetwork/inventory_backend/feeds"
	"bitbucket.org/ahadnetwork/inventory_backend/models"
	"bitbucket.org/ahadnetwork/inventory_backend/workflow"
)

// inventory-rebuild runs a full reconciliation from the command line: fetch
// both webhook feeds, merge with seed history, replay, and persist. With
// --dry-run the result is printed and nothing is written.
func main() {
	dryRun := flag.Bool("dry-run", false, "Replay and print the catalog without persisting")
	verify := flag.Bool("verify", true, "Audit the result against the replay invariants")
	timeoutSec := flag.Int("timeout", 30, "Overall timeout in seconds")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(*timeoutSec)*time.Second)
	defer cancel()

	var store models.Store
	if *dryRun {
		store = models.NewMemoryStore()
	} else {
		config.ConnectDatabaseWithRetry()
		config.ConnectRedisWithRetry()
		dbStore := models.NewDBStore(config.GetDB())
		if err := dbStore.Migrate(); err != nil {
			fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
			os.Exit(1)
		}
		store = dbStore
	}

	result, err := workflow.SyncInventory(ctx, store, feeds.NewAdapter())
	if err != nil {
		fmt.Fprintf(os.Stderr, "sync failed: %v\n", err)
		os.Exit(1)
	}

	if *verify {
		if problems := workflow.RunConsistencyChecks(result.Catalog, result.Ledger); len(problems) > 0 {
			for _, p := range problems {
				fmt.Fprintf(os.Stderr, "consistency: %s\n", p)
			}
			os.Exit(1)
		}
		fmt.Println("consistency checks clean")
	}

	fmt.Printf("ledger entries: %d\n", len(result.Ledger))
	for _, id := range models.ProductIDs() {
		p := result.Catalog[id]
		fmt.Printf("%-14s stock=%-5d last_updated=%s\n", p.ID, p.Stock, p.LastUpdated.Format(time.RFC3339))
	}
	if *dryRun {
		fmt.Println("dry run: nothing persisted")
	}
}
