package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/eflixapp/eflix-server/internal/domain"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/eflix/store/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	sessionCount := countPrefix(db, "session:")

	myListCount := 0
	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(domain.CollectionMyList + ":")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())
			myListCount++

			// Show first few entries
			if myListCount <= 5 {
				err := item.Value(func(val []byte) error {
					var video domain.Video
					if err := json.Unmarshal(val, &video); err != nil {
						return err
					}
					fmt.Printf("My List: %s\n", video.Title)
					fmt.Printf("  Key: %s\n", key)
					fmt.Printf("  Category: %s\n", video.Category)
					fmt.Printf("  Thumbnail: %s\n", video.Thumbnail)
					fmt.Println()
					return nil
				})
				if err != nil {
					log.Printf("Error reading entry %s: %v", key, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Error iterating my list: %v", err)
	}

	historyCount := 0
	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(domain.CollectionHistory + ":")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())
			historyCount++

			if historyCount <= 5 {
				err := item.Value(func(val []byte) error {
					var entry domain.HistoryEntry
					if err := json.Unmarshal(val, &entry); err != nil {
						return err
					}
					fmt.Printf("History: %s\n", entry.Title)
					fmt.Printf("  Key: %s\n", key)
					fmt.Printf("  Viewed: %s\n", entry.ViewedAt.Format("2006-01-02 15:04:05"))
					fmt.Println()
					return nil
				})
				if err != nil {
					log.Printf("Error reading entry %s: %v", key, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Error iterating history: %v", err)
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Sessions: %d\n", sessionCount)
	fmt.Printf("My list entries: %d\n", myListCount)
	fmt.Printf("History entries: %d\n", historyCount)
}

func countPrefix(db *badger.DB, prefix string) int {
	count := 0
	_ = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count
}
