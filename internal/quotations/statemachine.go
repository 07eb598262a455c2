package quotations

import "fmt"

// Validation issue types returned by ValidateForSave.
const (
	IssueNoRooms             = "no_rooms"
	IssueMissingProduct      = "missing_product"
	IssueMissingAccessory    = "missing_accessory"
	IssueMissingInstallation = "missing_installation"
	IssueZeroSellingPrice    = "zero_selling_price"
	IssueMissingHandling     = "missing_handling"
)

// ValidationIssue describes one problem blocking a status transition.
// RoomID is set when the issue concerns a specific room.
type ValidationIssue struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	RoomID  *int64 `json:"room_id,omitempty"`
}

// TransitionError reports an attempted edge not present in the transition
// table, or one whose guard rejected the quotation.
type TransitionError struct {
	From   QuotationStatus
	To     QuotationStatus
	Issues []ValidationIssue
}

func (e *TransitionError) Error() string {
	if len(e.Issues) > 0 {
		return fmt.Sprintf("transition %s -> %s blocked by %d validation issue(s)", e.From, e.To, len(e.Issues))
	}
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

type guardFn func(q *Quotation) []ValidationIssue

type transition struct {
	From QuotationStatus
	To   QuotationStatus
}

// transitionTable declares every legal edge and its guard. CONVERTED is
// deliberately absent as a target: it is only reachable through the
// conversion workflow, never through a direct status change.
// APPROVED is only reachable from SAVED.
var transitionTable = map[transition]guardFn{
	{StatusDraft, StatusSaved}:       guardSaveReady,
	{StatusSaved, StatusSent}:        nil,
	{StatusSaved, StatusApproved}:    nil,
	{StatusSaved, StatusRejected}:    nil,
	{StatusSent, StatusRejected}:     nil,
	{StatusSent, StatusExpired}:      nil,
	{StatusApproved, StatusRejected}: nil,
	{StatusApproved, StatusExpired}:  nil,
}

// CanTransition reports whether the edge exists in the table, ignoring guards.
func CanTransition(from, to QuotationStatus) bool {
	_, ok := transitionTable[transition{from, to}]
	return ok
}

// Transition validates the requested status change against the transition
// table and its guard. On success the quotation's status is updated in place.
// Guard violations are collected, not fail-fast, so the caller can present
// every problem at once.
func Transition(q *Quotation, to QuotationStatus) *TransitionError {
	guard, ok := transitionTable[transition{q.Status, to}]
	if !ok {
		return &TransitionError{From: q.Status, To: to}
	}
	if guard != nil {
		if issues := guard(q); len(issues) > 0 {
			return &TransitionError{From: q.Status, To: to, Issues: issues}
		}
	}
	q.Status = to
	return nil
}

// ValidateForSave runs the save-gate checks over a fully loaded quotation:
// at least one room; every room with at least one product, one accessory,
// one installation charge and a nonzero selling price; and a nonzero
// installation/handling fee on the quotation itself.
func ValidateForSave(q *Quotation) []ValidationIssue {
	var issues []ValidationIssue

	if len(q.Rooms) == 0 {
		issues = append(issues, ValidationIssue{
			Type:    IssueNoRooms,
			Message: "quotation must have at least one room",
		})
	}

	for i := range q.Rooms {
		room := &q.Rooms[i]
		roomID := room.ID
		if len(room.Products) == 0 {
			issues = append(issues, ValidationIssue{
				Type:    IssueMissingProduct,
				Message: fmt.Sprintf("room %q has no products", room.Name),
				RoomID:  &roomID,
			})
		}
		if len(room.Accessories) == 0 {
			issues = append(issues, ValidationIssue{
				Type:    IssueMissingAccessory,
				Message: fmt.Sprintf("room %q has no accessories", room.Name),
				RoomID:  &roomID,
			})
		}
		if len(room.InstallationCharges) == 0 {
			issues = append(issues, ValidationIssue{
				Type:    IssueMissingInstallation,
				Message: fmt.Sprintf("room %q has no installation charges", room.Name),
				RoomID:  &roomID,
			})
		}
		if room.SellingPrice == 0 {
			issues = append(issues, ValidationIssue{
				Type:    IssueZeroSellingPrice,
				Message: fmt.Sprintf("room %q has a zero selling price", room.Name),
				RoomID:  &roomID,
			})
		}
	}

	if q.InstallationHandling == 0 {
		issues = append(issues, ValidationIssue{
			Type:    IssueMissingHandling,
			Message: "installation and handling charge must be set",
		})
	}

	return issues
}

func guardSaveReady(q *Quotation) []ValidationIssue {
	return ValidateForSave(q)
}
