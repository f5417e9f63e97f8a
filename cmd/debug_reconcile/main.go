package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"csv-reconciler/core/config"
	"csv-reconciler/core/document"
	"csv-reconciler/core/reconcile"
	"csv-reconciler/core/utils"
)

// debug_reconcile prints how the engine sees two snapshots: the identifier
// column found in each, their fingerprints and the combined result.
func main() {
	if len(os.Args) != 3 {
		log.Fatalf("usage: %s <first.csv> <second.csv>", os.Args[0])
	}

	// Load config
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	engine, err := reconcile.NewEngine(cfg.Reconcile)
	if err != nil {
		log.Fatal(err)
	}

	docs := make([]*document.Document, 2)
	for i, arg := range os.Args[1:] {
		path := utils.NormalizePath(arg)
		doc, err := document.Load(path, engine.LoadOptions()...)
		if err != nil {
			log.Fatal(err)
		}
		docs[i] = doc

		fmt.Printf("=== %s ===\n", path)
		fmt.Printf("Columns: %d, rows: %d\n", doc.ColumnCount(), doc.RowCount())
		fmt.Printf("Fingerprint: %s\n", reconcile.Fingerprint(doc.Headers()))
		if col := engine.Locator().Locate(doc); col != reconcile.NoKeyColumn && col < doc.ColumnCount() {
			fmt.Printf("Identifier column: %d (%s)\n", col, doc.Headers()[col])
		} else {
			fmt.Println("Identifier column: none")
		}
		for r, row := range doc.Rows() {
			if len(row) != doc.ColumnCount() {
				fmt.Printf("Malformed row %d: %d cells\n", r, len(row))
			}
		}
		fmt.Println()
	}

	result, err := engine.Reconcile(docs[0], docs[1])
	if err != nil {
		log.Fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatal(err)
	}
}
