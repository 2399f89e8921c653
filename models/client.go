package models

import "time"

// Client represents a business client (account) record. Besides flat business
// fields it carries several nested sub-objects (addresses, compliance,
// preferences, billing) that are reconciled by deep merge, and a contact list
// that is de-duplicated by email during merging.
type Client struct {
	// ID is the entity identifier, unique within the organization.
	ID string `json:"id"`

	// OrganizationID scopes the client to a single tenant.
	OrganizationID int64 `json:"organization_id"`

	Name      string `json:"name"`
	LegalName string `json:"legal_name,omitempty"`
	Industry  string `json:"industry,omitempty"`

	// Status is the lifecycle state of the relationship
	// (e.g. "prospect", "active", "churned").
	Status string `json:"status"`

	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`

	// Contacts are the people associated with the client. Email is the
	// identity field: merging de-duplicates by email, newer side wins.
	Contacts []ClientContact `json:"contacts,omitempty"`

	Addresses   ClientAddresses   `json:"addresses,omitempty"`
	Compliance  ClientCompliance  `json:"compliance,omitempty"`
	Preferences ClientPreferences `json:"preferences,omitempty"`
	Billing     ClientBilling     `json:"billing,omitempty"`

	// RelationshipManagerIDs and TeamMemberIDs reference users of the
	// organization; both are unioned during merging.
	RelationshipManagerIDs []int64 `json:"relationship_manager_ids,omitempty"`
	TeamMemberIDs          []int64 `json:"team_member_ids,omitempty"`

	Tags []string `json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientContact is a person attached to a client record. Email serves as the
// identity when two contact lists are merged.
type ClientContact struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Title     string `json:"title,omitempty"`
	Primary   bool   `json:"primary,omitempty"`
}

// Address is a postal address used in the billing/shipping sub-objects.
type Address struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// ClientAddresses groups the postal addresses of a client.
type ClientAddresses struct {
	Billing  Address `json:"billing,omitempty"`
	Shipping Address `json:"shipping,omitempty"`
}

// ClientCompliance carries regulatory attributes of the client.
type ClientCompliance struct {
	TaxID          string     `json:"tax_id,omitempty"`
	VATNumber      string     `json:"vat_number,omitempty"`
	KYCVerified    bool       `json:"kyc_verified,omitempty"`
	KYCVerifiedAt  *time.Time `json:"kyc_verified_at,omitempty"`
	RiskRating     string     `json:"risk_rating,omitempty"`
	SanctionsCheck string     `json:"sanctions_check,omitempty"`
}

// ClientPreferences carries communication preferences of the client.
type ClientPreferences struct {
	Language         string `json:"language,omitempty"`
	Timezone         string `json:"timezone,omitempty"`
	ContactChannel   string `json:"contact_channel,omitempty"`
	MarketingOptIn   bool   `json:"marketing_opt_in,omitempty"`
	NewsletterOptIn  bool   `json:"newsletter_opt_in,omitempty"`
	PreferredManager string `json:"preferred_manager,omitempty"`
}

// ClientBilling carries invoicing attributes of the client.
type ClientBilling struct {
	Currency      string `json:"currency,omitempty"`
	PaymentTerms  string `json:"payment_terms,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
	CreditLimit   int64  `json:"credit_limit,omitempty"`
	InvoiceEmail  string `json:"invoice_email,omitempty"`
}

// EntityType implements [Entity].
func (c *Client) EntityType() EntityType { return EntityTypeClient }

// Key implements [Entity].
func (c *Client) Key() string { return c.ID }

// Clone implements [Entity].
func (c *Client) Clone() Entity {
	clone := *c
	if c.Contacts != nil {
		clone.Contacts = append([]ClientContact(nil), c.Contacts...)
	}
	if c.RelationshipManagerIDs != nil {
		clone.RelationshipManagerIDs = append([]int64(nil), c.RelationshipManagerIDs...)
	}
	if c.TeamMemberIDs != nil {
		clone.TeamMemberIDs = append([]int64(nil), c.TeamMemberIDs...)
	}
	if c.Tags != nil {
		clone.Tags = append([]string(nil), c.Tags...)
	}
	if c.Compliance.KYCVerifiedAt != nil {
		verifiedAt := *c.Compliance.KYCVerifiedAt
		clone.Compliance.KYCVerifiedAt = &verifiedAt
	}
	return &clone
}
