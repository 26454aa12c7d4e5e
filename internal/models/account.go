package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account represents an asset account, e.g. a bank account, or an
// external party money is paid to or received from.
type Account struct {
	DefaultModel
	Name               string `gorm:"uniqueIndex"`
	Note               string
	External           bool
	InitialBalance     decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	InitialBalanceDate *time.Time
	Archived           bool
}

var ErrAccountNameNotUnique = errors.New("the account name must be unique")

// BeforeSave trims whitespace from all strings
func (a *Account) BeforeSave(_ *gorm.DB) error {
	a.Name = strings.TrimSpace(a.Name)
	a.Note = strings.TrimSpace(a.Note)

	return nil
}

// Transactions returns all transactions for this account.
func (a Account) Transactions(db *gorm.DB) []Transaction {
	var transactions []Transaction

	// Get all transactions where the account is either the source or the destination
	db.Where(Transaction{SourceAccountID: a.ID}).Or(Transaction{DestinationAccountID: a.ID}).Find(&transactions)
	return transactions
}

// Balance calculates the balance of the account at a specific point in time, including all transactions
func (a Account) Balance(db *gorm.DB, time time.Time) (balance decimal.Decimal, err error) {
	var transactions []Transaction

	query := db.
		Where(
			db.Where(Transaction{DestinationAccountID: a.ID}).
				Or(db.Where(Transaction{SourceAccountID: a.ID}))).
		Where("datetime(transactions.date) < datetime(?)", time)

	err = query.Find(&transactions).Error
	if err != nil {
		return decimal.Zero, err
	}

	if a.InitialBalanceDate != nil && time.After(*a.InitialBalanceDate) {
		balance = a.InitialBalance
	}

	// Add incoming transactions, subtract outgoing transactions
	for _, transaction := range transactions {
		if transaction.DestinationAccountID == a.ID {
			balance = balance.Add(transaction.Amount)
		} else {
			balance = balance.Sub(transaction.Amount)
		}
	}

	return
}
