package models

import (
	"time"

	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// OrganizationModel is the persistence model for the Organization aggregate.
type OrganizationModel struct {
	AggregateModel
	Name            string     `gorm:"type:varchar(200);not null"`
	Slug            string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email           string     `gorm:"type:varchar(200);not null"`
	Phone           string     `gorm:"type:varchar(50)"`
	Address         string     `gorm:"type:text"`
	TaxNumber       string     `gorm:"type:varchar(50)"`
	DefaultCurrency string     `gorm:"type:varchar(3);not null;default:'EUR'"`
	InvoicePrefix   string     `gorm:"type:varchar(20);not null;default:'INV'"`
	Active          bool       `gorm:"not null;default:true"`
	DeactivatedAt   *time.Time
}

// TableName returns the table name for GORM
func (OrganizationModel) TableName() string {
	return "organizations"
}

// ToDomain converts the persistence model to a domain Organization entity.
func (m *OrganizationModel) ToDomain() *identity.Organization {
	return &identity.Organization{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Slug:              m.Slug,
		Email:             m.Email,
		Phone:             m.Phone,
		Address:           m.Address,
		TaxNumber:         m.TaxNumber,
		DefaultCurrency:   valueobject.Currency(m.DefaultCurrency),
		InvoicePrefix:     m.InvoicePrefix,
		Active:            m.Active,
		DeactivatedAt:     m.DeactivatedAt,
	}
}

// FromDomain populates the persistence model from a domain Organization entity.
func (m *OrganizationModel) FromDomain(o *identity.Organization) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.Name = o.Name
	m.Slug = o.Slug
	m.Email = o.Email
	m.Phone = o.Phone
	m.Address = o.Address
	m.TaxNumber = o.TaxNumber
	m.DefaultCurrency = string(o.DefaultCurrency)
	m.InvoicePrefix = o.InvoicePrefix
	m.Active = o.Active
	m.DeactivatedAt = o.DeactivatedAt
}

// OrganizationModelFromDomain creates a new persistence model from a domain Organization entity.
func OrganizationModelFromDomain(o *identity.Organization) *OrganizationModel {
	m := &OrganizationModel{}
	m.FromDomain(o)
	return m
}

// UserModel is the persistence model for the User aggregate.
// Emails are globally unique: a user belongs to exactly one organization.
type UserModel struct {
	AggregateModel
	OrganizationID uuid.UUID     `gorm:"type:uuid;not null;index"`
	Email          string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash   string        `gorm:"type:varchar(100);not null"`
	DisplayName    string        `gorm:"type:varchar(100);not null"`
	Role           identity.Role `gorm:"type:varchar(20);not null;default:'MEMBER'"`
	Active         bool          `gorm:"not null;default:true"`
	LastLoginAt    *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrganizationID:    m.OrganizationID,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		DisplayName:       m.DisplayName,
		Role:              m.Role,
		Active:            m.Active,
		LastLoginAt:       m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.OrganizationID = u.OrganizationID
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.DisplayName = u.DisplayName
	m.Role = u.Role
	m.Active = u.Active
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// SubscriptionModel is the persistence model for the Subscription aggregate.
type SubscriptionModel struct {
	OrgAggregateModel
	Plan             identity.Plan               `gorm:"type:varchar(20);not null"`
	Status           identity.SubscriptionStatus `gorm:"type:varchar(20);not null;index"`
	PeriodStart      time.Time                   `gorm:"not null"`
	PeriodEnd        time.Time                   `gorm:"not null"`
	GatewayReference string                      `gorm:"type:varchar(200);index"`
	CancelledAt      *time.Time
}

// TableName returns the table name for GORM
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// ToDomain converts the persistence model to a domain Subscription entity.
func (m *SubscriptionModel) ToDomain() *identity.Subscription {
	return &identity.Subscription{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		Plan:             m.Plan,
		Status:           m.Status,
		PeriodStart:      m.PeriodStart,
		PeriodEnd:        m.PeriodEnd,
		GatewayReference: m.GatewayReference,
		CancelledAt:      m.CancelledAt,
	}
}

// FromDomain populates the persistence model from a domain Subscription entity.
func (m *SubscriptionModel) FromDomain(s *identity.Subscription) {
	m.FromDomainOrgAggregateRoot(s.OrgAggregateRoot)
	m.Plan = s.Plan
	m.Status = s.Status
	m.PeriodStart = s.PeriodStart
	m.PeriodEnd = s.PeriodEnd
	m.GatewayReference = s.GatewayReference
	m.CancelledAt = s.CancelledAt
}

// SubscriptionModelFromDomain creates a new persistence model from a domain Subscription entity.
func SubscriptionModelFromDomain(s *identity.Subscription) *SubscriptionModel {
	m := &SubscriptionModel{}
	m.FromDomain(s)
	return m
}
