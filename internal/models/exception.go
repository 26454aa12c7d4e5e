package models

import (
	"errors"
	"strings"

	"github.com/billplan/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// swagger:enum ExceptionKind
type ExceptionKind string

const (
	ExceptionSkip   ExceptionKind = "SKIP"
	ExceptionModify ExceptionKind = "MODIFY"
)

// Exception overrides a single instance of an obligation. It is keyed
// by the date the recurrence pattern generated, not the date the
// instance was possibly moved to.
type Exception struct {
	DefaultModel
	ObligationID        uuid.UUID  `gorm:"uniqueIndex:exception_obligation_original_date"`
	Obligation          Obligation `json:"-"`
	OriginalDate        types.Date `gorm:"uniqueIndex:exception_obligation_original_date"`
	Kind                ExceptionKind
	ModifiedAmount      *decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	ModifiedDescription *string
	ModifiedDate        *types.Date
}

var (
	ErrExceptionKindInvalid         = errors.New("the exception kind must be SKIP or MODIFY")
	ErrExceptionDateRequired        = errors.New("the original date of the instance must be set")
	ErrExceptionSkipWithOverrides   = errors.New("a skip exception must not set any overrides")
	ErrExceptionModifyWithoutFields = errors.New("a modify exception must set at least one override")
	ErrExceptionAmountZero          = errors.New("the modified amount must not be zero")
	ErrExceptionDateNotUnique       = errors.New("there already is an exception for this obligation and original date")
)

// hasOverrides reports whether any override field is set.
func (e Exception) hasOverrides() bool {
	return e.ModifiedAmount != nil || e.ModifiedDescription != nil || e.ModifiedDate != nil
}

// BeforeSave validates the exception.
func (e *Exception) BeforeSave(_ *gorm.DB) error {
	if e.OriginalDate.IsZero() {
		return ErrExceptionDateRequired
	}

	if e.ModifiedDescription != nil {
		trimmed := strings.TrimSpace(*e.ModifiedDescription)
		e.ModifiedDescription = &trimmed
	}

	switch e.Kind {
	case ExceptionSkip:
		if e.hasOverrides() {
			return ErrExceptionSkipWithOverrides
		}

	case ExceptionModify:
		if !e.hasOverrides() {
			return ErrExceptionModifyWithoutFields
		}

		if e.ModifiedAmount != nil && e.ModifiedAmount.IsZero() {
			return ErrExceptionAmountZero
		}

	default:
		return ErrExceptionKindInvalid
	}

	return nil
}

func (e *Exception) BeforeCreate(tx *gorm.DB) error {
	_ = e.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Exception)
	return e.checkIntegrity(tx, *toSave)
}

func (e *Exception) BeforeUpdate(tx *gorm.DB) (err error) {
	toSave := tx.Statement.Dest.(Exception)

	if tx.Statement.Changed("ObligationID") {
		err := e.checkIntegrity(tx, toSave)
		if err != nil {
			return err
		}
	}

	return nil
}

// checkIntegrity verifies that the parent obligation exists
func (e *Exception) checkIntegrity(tx *gorm.DB, toSave Exception) error {
	return tx.First(&Obligation{}, toSave.ObligationID).Error
}
