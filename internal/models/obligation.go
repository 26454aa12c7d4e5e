package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/billplan/backend/internal/recurrence"
	"github.com/billplan/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"gorm.io/gorm"
)

// Obligation is a recurring transaction or transfer series.
//
// The sign of the amount determines the direction of a transaction
// series: negative amounts are outflows, positive amounts are inflows.
// When a destination account is set, the obligation is a transfer series
// and the amount is the positive sum moved between the two accounts.
type Obligation struct {
	DefaultModel
	SourceAccountID      uuid.UUID `gorm:"check:source_destination_different,source_account_id != destination_account_id"`
	SourceAccount        Account   `json:"-"`
	DestinationAccountID *uuid.UUID
	DestinationAccount   Account `json:"-"`
	Description          string
	Note                 string
	Amount               decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Currency             string
	recurrence.Pattern   `gorm:"embedded"`
	StartDate            types.Date
	EndDate              *types.Date
	Archived             bool

	// NextDate caches the next occurrence for list queries. It is
	// refreshed on every save and never read by the projection itself.
	NextDate *types.Date

	Exceptions []Exception `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

var (
	ErrObligationAmountZero          = errors.New("the obligation amount must not be zero")
	ErrTransferAmountNotPositive     = errors.New("transfer series amounts must be larger than zero")
	ErrObligationEndBeforeStart      = errors.New("the end date must not be before the start date")
	ErrObligationCurrencyInvalid     = errors.New("the currency must be a valid ISO 4217 code")
	ErrSourceDoesNotEqualDestination = errors.New("source and destination accounts for a transfer must be different")
)

// IsTransfer reports whether the obligation is a transfer series.
func (o Obligation) IsTransfer() bool {
	return o.DestinationAccountID != nil && *o.DestinationAccountID != uuid.Nil
}

// BeforeSave validates the obligation and refreshes the occurrence cache.
func (o *Obligation) BeforeSave(_ *gorm.DB) error {
	o.Description = strings.TrimSpace(o.Description)
	o.Note = strings.TrimSpace(o.Note)
	o.Currency = strings.ToUpper(strings.TrimSpace(o.Currency))

	// Ensure that the destination account ID is nil and not a pointer
	// to a nil UUID when it is not set
	if o.DestinationAccountID != nil && *o.DestinationAccountID == uuid.Nil {
		o.DestinationAccountID = nil
	}

	if o.Amount.IsZero() {
		return ErrObligationAmountZero
	}

	if o.IsTransfer() && !o.Amount.IsPositive() {
		return ErrTransferAmountNotPositive
	}

	if o.Currency == "" {
		o.Currency = "USD"
	}

	if _, err := currency.ParseISO(o.Currency); err != nil {
		return fmt.Errorf("%w: %s", ErrObligationCurrencyInvalid, o.Currency)
	}

	if err := o.Pattern.Validate(); err != nil {
		return err
	}

	if o.StartDate.IsZero() {
		o.StartDate = types.Today()
	}

	if o.EndDate != nil && o.EndDate.Before(o.StartDate) {
		return ErrObligationEndBeforeStart
	}

	o.refreshNextDate()

	return nil
}

// refreshNextDate recomputes the cached next occurrence. The cache is
// cleared for archived obligations and for series that have ended.
func (o *Obligation) refreshNextDate() {
	o.NextDate = nil

	if o.Archived {
		return
	}

	next := o.Pattern.NextOnOrAfter(o.StartDate, types.Today())
	if o.EndDate != nil && next.After(*o.EndDate) {
		return
	}

	o.NextDate = &next
}

func (o *Obligation) BeforeCreate(tx *gorm.DB) error {
	_ = o.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Obligation)
	return o.checkIntegrity(tx, *toSave)
}

// BeforeUpdate verifies the state of the obligation before
// committing an update to the database.
func (o *Obligation) BeforeUpdate(tx *gorm.DB) error {
	toSave := tx.Statement.Dest.(Obligation)

	if tx.Statement.Changed("SourceAccountID") || tx.Statement.Changed("DestinationAccountID") {
		err := o.checkIntegrity(tx, toSave)
		if err != nil {
			return err
		}
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (o *Obligation) checkIntegrity(tx *gorm.DB, toSave Obligation) error {
	err := tx.First(&Account{}, toSave.SourceAccountID).Error
	if err != nil {
		return err
	}

	if toSave.DestinationAccountID != nil && *toSave.DestinationAccountID != uuid.Nil {
		return tx.First(&Account{}, *toSave.DestinationAccountID).Error
	}

	return nil
}
