package models_test

import (
	"github.com/billplan/backend/internal/models"
	"github.com/billplan/backend/internal/recurrence"
	"github.com/billplan/backend/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestObligationAmountZero() {
	obligation := models.Obligation{
		SourceAccountID: suite.createTestAccount(models.Account{}).ID,
		Pattern: recurrence.Pattern{
			Frequency: recurrence.FrequencyMonthly,
			Interval:  1,
		},
	}

	err := models.DB.Create(&obligation).Error
	assert.ErrorIs(suite.T(), err, models.ErrObligationAmountZero)
}

func (suite *TestSuiteStandard) TestObligationTransferNegative() {
	destination := suite.createTestAccount(models.Account{}).ID

	obligation := models.Obligation{
		SourceAccountID:      suite.createTestAccount(models.Account{}).ID,
		DestinationAccountID: &destination,
		Amount:               decimal.NewFromInt(-100),
		Pattern: recurrence.Pattern{
			Frequency: recurrence.FrequencyMonthly,
			Interval:  1,
		},
	}

	err := models.DB.Create(&obligation).Error
	assert.ErrorIs(suite.T(), err, models.ErrTransferAmountNotPositive)
}

func (suite *TestSuiteStandard) TestObligationEndBeforeStart() {
	endDate := types.NewDate(2026, 1, 1)

	obligation := models.Obligation{
		SourceAccountID: suite.createTestAccount(models.Account{}).ID,
		Amount:          decimal.NewFromInt(-100),
		Pattern: recurrence.Pattern{
			Frequency: recurrence.FrequencyMonthly,
			Interval:  1,
		},
		StartDate: types.NewDate(2026, 2, 1),
		EndDate:   &endDate,
	}

	err := models.DB.Create(&obligation).Error
	assert.ErrorIs(suite.T(), err, models.ErrObligationEndBeforeStart)
}

func (suite *TestSuiteStandard) TestObligationCurrency() {
	obligation := suite.createTestObligation(models.Obligation{})
	assert.Equal(suite.T(), "USD", obligation.Currency, "currency does not default to USD")

	obligation = models.Obligation{
		SourceAccountID: suite.createTestAccount(models.Account{}).ID,
		Amount:          decimal.NewFromInt(-100),
		Currency:        "NOPE",
		Pattern: recurrence.Pattern{
			Frequency: recurrence.FrequencyMonthly,
			Interval:  1,
		},
	}

	err := models.DB.Create(&obligation).Error
	assert.ErrorIs(suite.T(), err, models.ErrObligationCurrencyInvalid)
}

func (suite *TestSuiteStandard) TestObligationPatternValidated() {
	obligation := models.Obligation{
		SourceAccountID: suite.createTestAccount(models.Account{}).ID,
		Amount:          decimal.NewFromInt(-100),
		Pattern: recurrence.Pattern{
			Frequency: recurrence.FrequencyMonthly,
		},
	}

	err := models.DB.Create(&obligation).Error
	assert.ErrorIs(suite.T(), err, recurrence.ErrIntervalInvalid)
}

func (suite *TestSuiteStandard) TestObligationMissingAccount() {
	account := suite.createTestAccount(models.Account{})
	_ = models.DB.Delete(&account)

	obligation := models.Obligation{
		SourceAccountID: account.ID,
		Amount:          decimal.NewFromInt(-100),
		Pattern: recurrence.Pattern{
			Frequency: recurrence.FrequencyMonthly,
			Interval:  1,
		},
	}

	err := models.DB.Create(&obligation).Error
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestObligationNextDate() {
	obligation := suite.createTestObligation(models.Obligation{
		Pattern: recurrence.Pattern{
			Frequency: recurrence.FrequencyDaily,
			Interval:  1,
		},
	})

	if assert.NotNil(suite.T(), obligation.NextDate) {
		assert.Equal(suite.T(), types.Today().String(), obligation.NextDate.String())
	}
}

func (suite *TestSuiteStandard) TestObligationNextDateArchived() {
	obligation := suite.createTestObligation(models.Obligation{Archived: true})
	assert.Nil(suite.T(), obligation.NextDate)
}

func (suite *TestSuiteStandard) TestObligationNextDateEnded() {
	endDate := types.NewDate(2020, 12, 31)

	obligation := suite.createTestObligation(models.Obligation{
		StartDate: types.NewDate(2020, 1, 1),
		EndDate:   &endDate,
	})

	assert.Nil(suite.T(), obligation.NextDate)
}

func (suite *TestSuiteStandard) TestObligationIsTransfer() {
	obligation := suite.createTestObligation(models.Obligation{})
	assert.False(suite.T(), obligation.IsTransfer())

	destination := suite.createTestAccount(models.Account{}).ID
	transfer := suite.createTestObligation(models.Obligation{
		DestinationAccountID: &destination,
		Amount:               decimal.NewFromInt(100),
	})
	assert.True(suite.T(), transfer.IsTransfer())
}
