package paymentrpc

// Payment is one ledger record.
// Amounts are decimal strings ("50.00"); dates are "YYYY-MM-DD".
type Payment struct {
	ID           string `json:"id"`
	PlayerID     string `json:"playerId"`
	PlayerName   string `json:"playerName"`
	PlayerEmail  string `json:"playerEmail,omitempty"`
	GroupID      string `json:"groupId,omitempty"`
	GroupName    string `json:"groupName,omitempty"`
	SubgroupID   string `json:"subgroupId,omitempty"`
	SubgroupName string `json:"subgroupName,omitempty"`
	Amount       string `json:"amount"`
	Date         string `json:"date"`
	Method       string `json:"method"`
	Status       string `json:"status"`
	Receipt      string `json:"receipt,omitempty"`
	Timestamp    string `json:"timestamp"`
}

type Player struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Club       string `json:"club,omitempty"`
	GroupID    string `json:"groupId,omitempty"`
	SubgroupID string `json:"subgroupId,omitempty"`
}

type Group struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	SubgroupIDs []string `json:"subgroupIds,omitempty"`
}

type Subgroup struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	GroupID string `json:"groupId"`
}

// Summary holds the totals over a filtered history.
type Summary struct {
	TotalPayments   int32  `json:"totalPayments"`
	TotalAmount     string `json:"totalAmount"`
	CompletedAmount string `json:"completedAmount"`
	PendingAmount   string `json:"pendingAmount"`
}

// Filter selects history records.
type Filter struct {
	GroupID    string `json:"groupId,omitempty"`
	SubgroupID string `json:"subgroupId,omitempty"`

	// Status is "", "all", "paidOnly" or "unpaidOnly".
	Status string `json:"status,omitempty"`

	// Method is a payment method or "all".
	Method string `json:"method,omitempty"`

	StartDate string `json:"startDate,omitempty"`

	// EndDate defaults to today when absent. An explicit "" leaves it open.
	EndDate *string `json:"endDate,omitempty"`

	SearchText string `json:"searchText,omitempty"`
}

// ─── PaymentService ─────────────────────────────────────────────────────────

type RecordPaymentRequest struct {
	PlayerID string `json:"playerId"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
	Method   string `json:"method"`
	Receipt  string `json:"receipt,omitempty"`
}

type RecordPaymentResponse struct {
	Payment *Payment `json:"payment"`

	// Message is the confirmation shown to the user.
	Message string `json:"message"`

	// PersistenceDegraded is set when the payment was recorded in memory but
	// could not be saved.
	PersistenceDegraded bool   `json:"persistenceDegraded,omitempty"`
	Warning             string `json:"warning,omitempty"`
}

type RemovePaymentRequest struct {
	PaymentID string `json:"paymentId"`
}

type RemovePaymentResponse struct {
	PersistenceDegraded bool   `json:"persistenceDegraded,omitempty"`
	Warning             string `json:"warning,omitempty"`
}

type ListHistoryRequest struct {
	Filter Filter `json:"filter"`

	// SortKey is "date" or "playerName"; SortDirection is "asc" or "desc".
	// Both default to date desc.
	SortKey       string `json:"sortKey,omitempty"`
	SortDirection string `json:"sortDirection,omitempty"`

	// ToggleSortKey applies a column-header click to the order above.
	ToggleSortKey string `json:"toggleSortKey,omitempty"`
}

type ListHistoryResponse struct {
	Title         string     `json:"title"`
	Payments      []*Payment `json:"payments"`
	Summary       *Summary   `json:"summary"`
	SortKey       string     `json:"sortKey"`
	SortDirection string     `json:"sortDirection"`
	Version       uint64     `json:"version"`
}

type GetReconciliationRequest struct {
	GroupID    string `json:"groupId,omitempty"`
	SubgroupID string `json:"subgroupId,omitempty"`
}

type GetReconciliationResponse struct {
	GroupID     string    `json:"groupId,omitempty"`
	SubgroupID  string    `json:"subgroupId,omitempty"`
	RosterCount int32     `json:"rosterCount"`
	PaidCount   int32     `json:"paidCount"`
	UnpaidCount int32     `json:"unpaidCount"`
	Paid        []*Player `json:"paid"`
	Unpaid      []*Player `json:"unpaid"`
}

type ListPlayerStatusRequest struct {
	GroupID    string `json:"groupId,omitempty"`
	SubgroupID string `json:"subgroupId,omitempty"`

	// Kind is "all", "paid" or "unpaid" (default all).
	Kind   string `json:"kind,omitempty"`
	Search string `json:"search,omitempty"`
}

type ListPlayerStatusResponse struct {
	Title   string    `json:"title"`
	Players []*Player `json:"players"`
}

type ResetLedgerRequest struct{}

type ResetLedgerResponse struct {
	PersistenceDegraded bool   `json:"persistenceDegraded,omitempty"`
	Warning             string `json:"warning,omitempty"`
}

// ─── RosterService ──────────────────────────────────────────────────────────

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type ListSubgroupsRequest struct {
	GroupID string `json:"groupId"`
}

type ListSubgroupsResponse struct {
	Subgroups []*Subgroup `json:"subgroups"`
}

type ListPlayersRequest struct {
	GroupID    string `json:"groupId,omitempty"`
	SubgroupID string `json:"subgroupId,omitempty"`
}

type ListPlayersResponse struct {
	Players []*Player `json:"players"`
}
