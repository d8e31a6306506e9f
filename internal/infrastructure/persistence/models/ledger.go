package models

import (
	"time"

	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountModel is the persistence model for the Account aggregate root.
type AccountModel struct {
	AggregateModel
	Code string `gorm:"type:varchar(20);not null;uniqueIndex:idx_accounts_code"`
	Name string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account entity.
func (m *AccountModel) ToDomain() *ledger.Account {
	return &ledger.Account{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
	}
}

// FromDomain populates the persistence model from a domain Account entity.
func (m *AccountModel) FromDomain(a *ledger.Account) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.Code = a.Code
	m.Name = a.Name
}

// AccountModelFromDomain creates a new persistence model from a domain Account.
func AccountModelFromDomain(a *ledger.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}

// AnalyticAccountModel is the persistence model for the AnalyticAccount aggregate root.
type AnalyticAccountModel struct {
	AuditedAggregateModel
	Code     string                       `gorm:"type:varchar(20);not null;uniqueIndex:idx_analytic_accounts_code"`
	Name     string                       `gorm:"type:varchar(200);not null"`
	ParentID *uuid.UUID                   `gorm:"type:uuid;index"`
	Status   ledger.AnalyticAccountStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
}

// TableName returns the table name for GORM
func (AnalyticAccountModel) TableName() string {
	return "analytic_accounts"
}

// ToDomain converts the persistence model to a domain AnalyticAccount entity.
func (m *AnalyticAccountModel) ToDomain() *ledger.AnalyticAccount {
	return &ledger.AnalyticAccount{
		AuditedAggregateRoot: m.ToDomainAuditedAggregateRoot(),
		Code:                 m.Code,
		Name:                 m.Name,
		ParentID:             m.ParentID,
		Status:               m.Status,
	}
}

// FromDomain populates the persistence model from a domain AnalyticAccount entity.
func (m *AnalyticAccountModel) FromDomain(a *ledger.AnalyticAccount) {
	m.FromDomainAuditedAggregateRoot(a.AuditedAggregateRoot)
	m.Code = a.Code
	m.Name = a.Name
	m.ParentID = a.ParentID
	m.Status = a.Status
}

// AnalyticAccountModelFromDomain creates a new persistence model from a domain AnalyticAccount.
func AnalyticAccountModelFromDomain(a *ledger.AnalyticAccount) *AnalyticAccountModel {
	m := &AnalyticAccountModel{}
	m.FromDomain(a)
	return m
}

// JournalEntryModel is the persistence model for the JournalEntry aggregate root.
type JournalEntryModel struct {
	AuditedAggregateModel
	Number    string                    `gorm:"type:varchar(50);not null;uniqueIndex:idx_journal_entries_number"`
	Reference string                    `gorm:"type:varchar(200)"`
	EntryDate time.Time                 `gorm:"not null;index"`
	Status    ledger.JournalEntryStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	PostedAt  *time.Time
	Lines     []JournalLineModel `gorm:"foreignKey:JournalEntryID;references:ID"`
}

// TableName returns the table name for GORM
func (JournalEntryModel) TableName() string {
	return "journal_entries"
}

// ToDomain converts the persistence model to a domain JournalEntry entity.
func (m *JournalEntryModel) ToDomain() *ledger.JournalEntry {
	entry := &ledger.JournalEntry{
		AuditedAggregateRoot: m.ToDomainAuditedAggregateRoot(),
		Number:               m.Number,
		Reference:            m.Reference,
		EntryDate:            m.EntryDate,
		Status:               m.Status,
		PostedAt:             m.PostedAt,
		Lines:                make([]ledger.JournalLine, len(m.Lines)),
	}
	for i, line := range m.Lines {
		entry.Lines[i] = *line.ToDomain()
	}
	return entry
}

// FromDomain populates the persistence model from a domain JournalEntry entity.
func (m *JournalEntryModel) FromDomain(e *ledger.JournalEntry) {
	m.FromDomainAuditedAggregateRoot(e.AuditedAggregateRoot)
	m.Number = e.Number
	m.Reference = e.Reference
	m.EntryDate = e.EntryDate
	m.Status = e.Status
	m.PostedAt = e.PostedAt
	m.Lines = make([]JournalLineModel, len(e.Lines))
	for i, line := range e.Lines {
		m.Lines[i] = *JournalLineModelFromDomain(&line)
	}
}

// JournalEntryModelFromDomain creates a new persistence model from a domain JournalEntry.
func JournalEntryModelFromDomain(e *ledger.JournalEntry) *JournalEntryModel {
	m := &JournalEntryModel{}
	m.FromDomain(e)
	return m
}

// JournalLineModel is the persistence model for JournalLine.
type JournalLineModel struct {
	BaseModel
	JournalEntryID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	PartnerID         *uuid.UUID      `gorm:"type:uuid;index"`
	AnalyticAccountID *uuid.UUID      `gorm:"type:uuid;index"`
	Label             string          `gorm:"type:varchar(500)"`
	Debit             decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Credit            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (JournalLineModel) TableName() string {
	return "journal_lines"
}

// ToDomain converts the persistence model to a domain JournalLine.
func (m *JournalLineModel) ToDomain() *ledger.JournalLine {
	return &ledger.JournalLine{
		BaseEntity:        m.BaseModel.ToDomain(),
		JournalEntryID:    m.JournalEntryID,
		AccountID:         m.AccountID,
		PartnerID:         m.PartnerID,
		AnalyticAccountID: m.AnalyticAccountID,
		Label:             m.Label,
		Debit:             m.Debit,
		Credit:            m.Credit,
	}
}

// FromDomain populates the persistence model from a domain JournalLine.
func (m *JournalLineModel) FromDomain(l *ledger.JournalLine) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.JournalEntryID = l.JournalEntryID
	m.AccountID = l.AccountID
	m.PartnerID = l.PartnerID
	m.AnalyticAccountID = l.AnalyticAccountID
	m.Label = l.Label
	m.Debit = l.Debit
	m.Credit = l.Credit
}

// JournalLineModelFromDomain creates a new persistence model from a domain JournalLine.
func JournalLineModelFromDomain(l *ledger.JournalLine) *JournalLineModel {
	m := &JournalLineModel{}
	m.FromDomain(l)
	return m
}
