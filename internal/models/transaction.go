package models

import (
	"errors"
	"strings"
	"time"

	"github.com/billplan/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction represents money that actually moved between two accounts.
//
// When a transaction realizes an instance of a recurring obligation, it
// carries a link to the obligation and the original scheduled date of
// that instance. Reconciliation uses this link, never heuristics.
type Transaction struct {
	DefaultModel
	SourceAccountID      uuid.UUID `gorm:"check:source_destination_different,source_account_id != destination_account_id"`
	SourceAccount        Account   `json:"-"`
	DestinationAccountID uuid.UUID
	DestinationAccount   Account `json:"-"`
	Date                 time.Time
	Amount               decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Note                 string
	ObligationID         *uuid.UUID
	Obligation           Obligation `json:"-"`
	OriginalDate         *types.Date
	Reconciled           bool
}

var (
	ErrTransactionAmountNotPositive = errors.New("the transaction amount must be larger than zero")
	ErrTransactionLinkIncomplete    = errors.New("an obligation link needs both the obligation and the original date of the instance")
)

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000. Yes, this is different.
//
// We already store them in UTC, but somehow reading
// them from the database returns them as +0000.
func (t *Transaction) AfterFind(tx *gorm.DB) (err error) {
	err = t.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	// Enforce dates to be in UTC
	t.Date = t.Date.In(time.UTC)
	return
}

// BeforeSave
//   - sets the timezone for the Date to UTC
//   - verifies the obligation link is either complete or absent
//   - trims whitespace from string fields
func (t *Transaction) BeforeSave(_ *gorm.DB) (err error) {
	t.Note = strings.TrimSpace(t.Note)

	// Ensure that the obligation ID is nil and not a pointer to a nil
	// UUID when it is not set
	if t.ObligationID != nil && *t.ObligationID == uuid.Nil {
		t.ObligationID = nil
	}

	if !t.Amount.IsPositive() {
		return ErrTransactionAmountNotPositive
	}

	if (t.ObligationID == nil) != (t.OriginalDate == nil) {
		return ErrTransactionLinkIncomplete
	}

	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	return
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	_ = t.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Transaction)
	return t.checkIntegrity(tx, *toSave)
}

// BeforeUpdate verifies the state of the transaction before
// committing an update to the database.
func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	toSave := tx.Statement.Dest.(Transaction)

	if tx.Statement.Changed("SourceAccountID") || tx.Statement.Changed("DestinationAccountID") || tx.Statement.Changed("ObligationID") {
		err := t.checkIntegrity(tx, toSave)
		if err != nil {
			return err
		}
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (t *Transaction) checkIntegrity(tx *gorm.DB, toSave Transaction) error {
	err := tx.First(&Account{}, toSave.SourceAccountID).Error
	if err != nil {
		return err
	}

	err = tx.First(&Account{}, toSave.DestinationAccountID).Error
	if err != nil {
		return err
	}

	if toSave.ObligationID != nil && *toSave.ObligationID != uuid.Nil {
		return tx.First(&Obligation{}, *toSave.ObligationID).Error
	}

	return nil
}
