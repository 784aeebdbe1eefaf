package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"tactical-link/infrastructure/storage"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

// Dumps the metadata of a tactical-link store: tombstones, pending and
// armed indexes, threat records. Message content is never printed.
func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	prefix := flag.String("prefix", storage.MessagePrefix, "Prefix to scan, empty for every key")
	encryptionKey := flag.String("key", os.Getenv("BADGER_ENCRYPTION_KEY"), "Badger encryption key, if any")
	flag.Parse()

	db, err := openDB(*dbPath, *encryptionKey)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Timestamp", "Entity ID", "Owner", "Detail", "Score"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	rows := 0
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())
			err := item.Value(func(v []byte) error {
				table.Append(toRow(storage.Describe(key, v)))
				rows++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
	fmt.Printf("%d record(s) under prefix %q\n", rows, *prefix)
}

func toRow(view storage.RecordView) []string {
	timestamp, score := "", ""
	if !view.Timestamp.IsZero() {
		timestamp = view.Timestamp.Format("2006-01-02 15:04:05")
	}
	if view.Score != nil {
		score = fmt.Sprintf("%.2f", *view.Score)
	}
	// First 8 characters are enough to tell ids apart on screen
	displayID := view.EntityID
	if len(displayID) > 8 {
		displayID = displayID[:8]
	}
	return []string{view.Key, view.Type, timestamp, displayID, view.Owner, view.Detail, score}
}

func openDB(path, encryptionKey string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	if encryptionKey != "" {
		opts = opts.WithEncryptionKey([]byte(encryptionKey)).WithIndexCacheSize(16 << 20)
	}

	db, err := badger.Open(opts)
	if err != nil && strings.Contains(err.Error(), "Log truncate required") {
		return nil, fmt.Errorf("store was not closed cleanly, restart the server once to truncate it: %w", err)
	}
	return db, err
}
