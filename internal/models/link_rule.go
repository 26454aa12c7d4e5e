package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LinkRule suggests an obligation for unlinked transactions whose note
// matches a glob pattern. Rules with a lower priority value win.
type LinkRule struct {
	DefaultModel
	Priority     uint
	Match        string
	ObligationID uuid.UUID
	Obligation   Obligation `json:"-"`
}

var ErrLinkRuleMatchEmpty = errors.New("the match pattern must be set")

// BeforeSave trims whitespace and validates the match pattern.
func (r *LinkRule) BeforeSave(_ *gorm.DB) error {
	r.Match = strings.TrimSpace(r.Match)
	if r.Match == "" {
		return ErrLinkRuleMatchEmpty
	}

	return nil
}

func (r *LinkRule) BeforeCreate(tx *gorm.DB) error {
	_ = r.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*LinkRule)
	return r.checkIntegrity(tx, *toSave)
}

func (r *LinkRule) BeforeUpdate(tx *gorm.DB) (err error) {
	toSave := tx.Statement.Dest.(LinkRule)

	if tx.Statement.Changed("ObligationID") {
		err := r.checkIntegrity(tx, toSave)
		if err != nil {
			return err
		}
	}

	return nil
}

// checkIntegrity verifies that the linked obligation exists
func (r *LinkRule) checkIntegrity(tx *gorm.DB, toSave LinkRule) error {
	return tx.First(&Obligation{}, toSave.ObligationID).Error
}
