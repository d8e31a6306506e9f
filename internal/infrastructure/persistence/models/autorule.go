package models

import (
	"github.com/finbooks/backend/internal/domain/autorule"
	"github.com/google/uuid"
)

// RuleModel is the persistence model for the auto-analytical Rule aggregate
// root. The match conditions flatten to four nullable columns; priority is
// stored denormalized so confirmed rules can be ordered in queries.
type RuleModel struct {
	AuditedAggregateModel
	Name              string              `gorm:"type:varchar(200);not null"`
	PartnerTagID      *uuid.UUID          `gorm:"type:uuid;index"`
	PartnerID         *uuid.UUID          `gorm:"type:uuid;index"`
	ProductCategoryID *uuid.UUID          `gorm:"type:uuid;index"`
	ProductID         *uuid.UUID          `gorm:"type:uuid;index"`
	AnalyticAccountID uuid.UUID           `gorm:"type:uuid;not null;index"`
	Priority          int                 `gorm:"not null"`
	Status            autorule.RuleStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
}

// TableName returns the table name for GORM
func (RuleModel) TableName() string {
	return "auto_analytical_rules"
}

// ToDomain converts the persistence model to a domain Rule entity.
func (m *RuleModel) ToDomain() *autorule.Rule {
	return &autorule.Rule{
		AuditedAggregateRoot: m.ToDomainAuditedAggregateRoot(),
		Name:                 m.Name,
		Conditions: autorule.MatchConditions{
			PartnerTagID:      m.PartnerTagID,
			PartnerID:         m.PartnerID,
			ProductCategoryID: m.ProductCategoryID,
			ProductID:         m.ProductID,
		},
		AnalyticAccountID: m.AnalyticAccountID,
		Priority:          m.Priority,
		Status:            m.Status,
	}
}

// FromDomain populates the persistence model from a domain Rule entity.
func (m *RuleModel) FromDomain(r *autorule.Rule) {
	m.FromDomainAuditedAggregateRoot(r.AuditedAggregateRoot)
	m.Name = r.Name
	m.PartnerTagID = r.Conditions.PartnerTagID
	m.PartnerID = r.Conditions.PartnerID
	m.ProductCategoryID = r.Conditions.ProductCategoryID
	m.ProductID = r.Conditions.ProductID
	m.AnalyticAccountID = r.AnalyticAccountID
	m.Priority = r.Priority
	m.Status = r.Status
}

// RuleModelFromDomain creates a new persistence model from a domain Rule.
func RuleModelFromDomain(r *autorule.Rule) *RuleModel {
	m := &RuleModel{}
	m.FromDomain(r)
	return m
}
