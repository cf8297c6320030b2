package expense

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	transactionBucketName = "transactions"
	categoryBucketName    = "categories"
)

// DB defines the interface for database operations
type DB interface {
	// SaveTransaction saves a transaction to the database
	SaveTransaction(tx *Transaction) error

	// GetTransaction retrieves a transaction by ID
	GetTransaction(id string) (*Transaction, error)

	// ListTransactions returns all transactions
	ListTransactions() ([]*Transaction, error)

	// DeleteTransaction removes a transaction from the database
	DeleteTransaction(id string) error

	// FindTransactionByReceiptNumber returns the transaction carrying the
	// given receipt number, or nil when none exists
	FindTransactionByReceiptNumber(receiptNumber string) (*Transaction, error)

	// SaveCategory saves a category to the database
	SaveCategory(category *Category) error

	// GetCategoryByName returns the category with the given name, or nil
	// when none exists
	GetCategoryByName(name string) (*Category, error)

	// ListCategories returns all categories
	ListCategories() ([]*Category, error)

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(transactionBucketName)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(categoryBucketName)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// SaveTransaction saves a transaction to the database
func (b *BoltDB) SaveTransaction(transaction *Transaction) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(transactionBucketName))
		data, err := json.Marshal(transaction)
		if err != nil {
			return fmt.Errorf("marshaling transaction: %w", err)
		}
		return bucket.Put([]byte(transaction.ID), data)
	})
}

// GetTransaction retrieves a transaction by ID
func (b *BoltDB) GetTransaction(id string) (*Transaction, error) {
	var transaction *Transaction
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(transactionBucketName))
		data := bucket.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("transaction not found: %s", id)
		}
		return json.Unmarshal(data, &transaction)
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// ListTransactions returns all transactions
func (b *BoltDB) ListTransactions() ([]*Transaction, error) {
	transactions := make([]*Transaction, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(transactionBucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var transaction Transaction
			if err := json.Unmarshal(v, &transaction); err != nil {
				return fmt.Errorf("unmarshaling transaction: %w", err)
			}
			transactions = append(transactions, &transaction)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// DeleteTransaction removes a transaction from the database
func (b *BoltDB) DeleteTransaction(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(transactionBucketName))
		return bucket.Delete([]byte(id))
	})
}

// FindTransactionByReceiptNumber scans for a transaction carrying the given
// receipt number. Receipt numbers are sparse so a bucket scan is fine at
// this scale.
func (b *BoltDB) FindTransactionByReceiptNumber(receiptNumber string) (*Transaction, error) {
	var found *Transaction
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(transactionBucketName))
		return bucket.ForEach(func(k, v []byte) error {
			if found != nil {
				return nil
			}
			var transaction Transaction
			if err := json.Unmarshal(v, &transaction); err != nil {
				return fmt.Errorf("unmarshaling transaction: %w", err)
			}
			if transaction.ReceiptNumber == receiptNumber {
				found = &transaction
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// SaveCategory saves a category to the database, keyed by name
func (b *BoltDB) SaveCategory(category *Category) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(categoryBucketName))
		data, err := json.Marshal(category)
		if err != nil {
			return fmt.Errorf("marshaling category: %w", err)
		}
		return bucket.Put([]byte(category.Name), data)
	})
}

// GetCategoryByName returns the category with the given name, or nil
func (b *BoltDB) GetCategoryByName(name string) (*Category, error) {
	var category *Category
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(categoryBucketName))
		data := bucket.Get([]byte(name))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories returns all categories
func (b *BoltDB) ListCategories() ([]*Category, error) {
	categories := make([]*Category, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(categoryBucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var category Category
			if err := json.Unmarshal(v, &category); err != nil {
				return fmt.Errorf("unmarshaling category: %w", err)
			}
			categories = append(categories, &category)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
