package quotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readyQuotation() *Quotation {
	desc := "pending"
	return &Quotation{
		ID:                   1,
		Status:               StatusDraft,
		InstallationHandling: 500,
		Rooms: []Room{
			{
				ID:           10,
				Name:         "Master Bedroom",
				Description:  &desc,
				SellingPrice: 6000,
				Products: []Product{
					{ID: 100, Quantity: 1, SellingPrice: 6000, DiscountedPrice: 5500},
				},
				Accessories: []Accessory{
					{ID: 200, Quantity: 2, SellingPrice: 150, DiscountedPrice: 120},
				},
				InstallationCharges: []InstallationCharge{
					{ID: 300, Description: "wardrobe install", Amount: 800},
				},
			},
		},
	}
}

func TestTransitionDraftToSaved(t *testing.T) {
	q := readyQuotation()

	terr := Transition(q, StatusSaved)

	require.Nil(t, terr)
	assert.Equal(t, StatusSaved, q.Status)
}

func TestTransitionGuardCollectsAllIssues(t *testing.T) {
	q := readyQuotation()
	q.Rooms[0].Accessories = nil
	q.Rooms[0].InstallationCharges = nil

	terr := Transition(q, StatusSaved)

	require.NotNil(t, terr)
	assert.Equal(t, StatusDraft, q.Status, "status must not change on guard failure")
	require.Len(t, terr.Issues, 2)

	types := []string{terr.Issues[0].Type, terr.Issues[1].Type}
	assert.Contains(t, types, IssueMissingAccessory)
	assert.Contains(t, types, IssueMissingInstallation)
	for _, issue := range terr.Issues {
		require.NotNil(t, issue.RoomID)
		assert.Equal(t, int64(10), *issue.RoomID)
	}
}

func TestTransitionEmptyQuotation(t *testing.T) {
	q := &Quotation{Status: StatusDraft}

	terr := Transition(q, StatusSaved)

	require.NotNil(t, terr)
	require.Len(t, terr.Issues, 2)
	assert.Equal(t, IssueNoRooms, terr.Issues[0].Type)
	assert.Equal(t, IssueMissingHandling, terr.Issues[1].Type)
}

func TestTransitionConvertedIsTerminal(t *testing.T) {
	for _, to := range []QuotationStatus{
		StatusDraft, StatusSaved, StatusSent, StatusApproved,
		StatusRejected, StatusExpired,
	} {
		q := &Quotation{Status: StatusConverted}
		terr := Transition(q, to)
		require.NotNil(t, terr, "CONVERTED -> %s must be rejected", to)
		assert.Empty(t, terr.Issues)
		assert.Equal(t, StatusConverted, q.Status)
	}
}

func TestTransitionConvertedNotReachableDirectly(t *testing.T) {
	for _, from := range []QuotationStatus{
		StatusDraft, StatusSaved, StatusSent, StatusApproved,
	} {
		assert.False(t, CanTransition(from, StatusConverted), "%s -> CONVERTED", from)
	}
}

func TestTransitionApprovedOnlyFromSaved(t *testing.T) {
	assert.True(t, CanTransition(StatusSaved, StatusApproved))
	assert.False(t, CanTransition(StatusDraft, StatusApproved))
	assert.False(t, CanTransition(StatusSent, StatusApproved))
	assert.False(t, CanTransition(StatusRejected, StatusApproved))
}

func TestTransitionTableEdges(t *testing.T) {
	cases := []struct {
		from, to QuotationStatus
		allowed  bool
	}{
		{StatusSaved, StatusSent, true},
		{StatusSaved, StatusRejected, true},
		{StatusSent, StatusRejected, true},
		{StatusSent, StatusExpired, true},
		{StatusApproved, StatusRejected, true},
		{StatusApproved, StatusExpired, true},
		{StatusDraft, StatusSent, false},
		{StatusRejected, StatusSaved, false},
		{StatusExpired, StatusSent, false},
		{StatusSaved, StatusDraft, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestValidateForSaveZeroSellingPrice(t *testing.T) {
	q := readyQuotation()
	q.Rooms[0].SellingPrice = 0

	issues := ValidateForSave(q)

	require.Len(t, issues, 1)
	assert.Equal(t, IssueZeroSellingPrice, issues[0].Type)
}
