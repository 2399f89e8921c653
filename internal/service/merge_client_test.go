package service

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-record-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientMergeOp(client *models.Client) models.SyncOperation {
	return models.SyncOperation{
		EntityType: models.EntityTypeClient,
		EntityID:   client.ID,
		Data:       client,
		Timestamp:  client.UpdatedAt,
	}
}

func TestMergeClients_FieldPrecedence(t *testing.T) {
	base := time.Now().Add(-time.Hour)

	local := &models.Client{
		ID:             "client-a",
		OrganizationID: testOrgID,
		Name:           "Acme GmbH",
		Status:         "active",
		Email:          "",
		Phone:          "+49 30 1234",
		Tags:           []string{"eu"},
		CreatedAt:      base,
		UpdatedAt:      base.Add(30 * time.Minute), // newer side
	}
	remote := &models.Client{
		ID:             "client-a",
		OrganizationID: testOrgID,
		Name:           "Acme",
		LegalName:      "Acme Gesellschaft mbH",
		Status:         "prospect",
		Email:          "sales@acme.example",
		Tags:           []string{"manufacturing"},
		CreatedAt:      base,
		UpdatedAt:      base,
	}

	merged, err := mergeClients(clientMergeOp(local), clientMergeOp(remote))
	require.NoError(t, err)
	client := merged.(*models.Client)

	assert.Equal(t, "Acme GmbH", client.Name)
	assert.Equal(t, "active", client.Status)
	// empty newer-side fields fall back to the older side
	assert.Equal(t, "Acme Gesellschaft mbH", client.LegalName)
	assert.Equal(t, "sales@acme.example", client.Email)
	assert.Equal(t, "+49 30 1234", client.Phone)
	assert.ElementsMatch(t, []string{"eu", "manufacturing"}, client.Tags)
	assert.Equal(t, local.UpdatedAt, client.UpdatedAt)
}

func TestMergeClients_ContactsDeduplicatedByEmail(t *testing.T) {
	now := time.Now()

	local := &models.Client{
		ID: "client-a",
		Contacts: []models.ClientContact{
			{Email: "kim@acme.example", FirstName: "Kim", Title: "CTO"},
			{Email: "lee@acme.example", FirstName: "Lee"},
		},
		UpdatedAt: now,
	}
	remote := &models.Client{
		ID: "client-a",
		Contacts: []models.ClientContact{
			{Email: "kim@acme.example", FirstName: "Kim", Title: "VP Engineering"},
			{Email: "ada@acme.example", FirstName: "Ada"},
		},
		UpdatedAt: now.Add(-time.Minute),
	}

	merged, err := mergeClients(clientMergeOp(local), clientMergeOp(remote))
	require.NoError(t, err)

	contacts := merged.(*models.Client).Contacts
	require.Len(t, contacts, 3)
	// the newer side's duplicate wins
	assert.Equal(t, "CTO", contacts[0].Title)
	assert.Equal(t, "lee@acme.example", contacts[1].Email)
	assert.Equal(t, "ada@acme.example", contacts[2].Email)
}

func TestMergeClients_NestedObjectsGapFilled(t *testing.T) {
	now := time.Now()

	local := &models.Client{
		ID:        "client-a",
		Billing:   models.ClientBilling{Currency: "EUR"},
		Addresses: models.ClientAddresses{Billing: models.Address{City: "Berlin"}},
		UpdatedAt: now,
	}
	remote := &models.Client{
		ID:        "client-a",
		Billing:   models.ClientBilling{Currency: "USD", PaymentTerms: "net30"},
		Addresses: models.ClientAddresses{Billing: models.Address{City: "Boston", Country: "US"}},
		UpdatedAt: now.Add(-time.Minute),
	}

	merged, err := mergeClients(clientMergeOp(local), clientMergeOp(remote))
	require.NoError(t, err)
	client := merged.(*models.Client)

	// newer side is the base, older side only fills the zero-valued gaps
	assert.Equal(t, "EUR", client.Billing.Currency)
	assert.Equal(t, "net30", client.Billing.PaymentTerms)
	assert.Equal(t, "Berlin", client.Addresses.Billing.City)
	assert.Equal(t, "US", client.Addresses.Billing.Country)
}

func TestMergeClients_TeamUnions(t *testing.T) {
	now := time.Now()

	local := &models.Client{ID: "client-a", RelationshipManagerIDs: []int64{1, 2}, TeamMemberIDs: []int64{5}, UpdatedAt: now}
	remote := &models.Client{ID: "client-a", RelationshipManagerIDs: []int64{2, 3}, TeamMemberIDs: []int64{5, 6}, UpdatedAt: now}

	merged, err := mergeClients(clientMergeOp(local), clientMergeOp(remote))
	require.NoError(t, err)
	client := merged.(*models.Client)

	assert.ElementsMatch(t, []int64{1, 2, 3}, client.RelationshipManagerIDs)
	assert.ElementsMatch(t, []int64{5, 6}, client.TeamMemberIDs)
}

func TestMergeClients_WrongPayloadType(t *testing.T) {
	local := models.SyncOperation{EntityType: models.EntityTypeClient, Data: &models.Task{ID: "task-a"}}
	remote := clientMergeOp(&models.Client{ID: "client-a"})

	_, err := mergeClients(local, remote)
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}
