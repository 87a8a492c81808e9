package dto

type PackageResponse struct {
	ID             string  `json:"id"`
	FullAddress    string  `json:"full_address"`
	RecipientName  string  `json:"recipient_name,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	Status         string  `json:"status"`
	SequenceNumber *int    `json:"sequence_number,omitempty"`
	RouteID        *string `json:"route_id,omitempty"`
	DeliveryNotes  string  `json:"delivery_notes,omitempty"`
}

type UserResponse struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	PlanName           string `json:"plan_name"`
	DailyQuota         int    `json:"daily_quota"`
	DeliveriesToday    int    `json:"deliveries_today"`
	FreeDeliveriesUsed int    `json:"free_deliveries_used"`
	PlanActive         bool   `json:"plan_active"`
	Remaining          int    `json:"remaining_allowance"`
}

type StateResponse struct {
	Phase        string            `json:"phase"`
	User         *UserResponse     `json:"user,omitempty"`
	Estimate     int               `json:"estimate,omitempty"`
	Packages     []PackageResponse `json:"packages"`
	WorkingOrder []PackageResponse `json:"working_order,omitempty"`
	Route        []PackageResponse `json:"route,omitempty"`
	CurrentStop  *PackageResponse  `json:"current_stop,omitempty"`
}

type OperationResponse struct {
	Phase      string   `json:"phase"`
	Denied     bool     `json:"denied,omitempty"`
	DenyReason string   `json:"deny_reason,omitempty"`
	Remaining  int      `json:"remaining,omitempty"`
	Notice     string   `json:"notice,omitempty"`
	FailedIDs  []string `json:"failed_ids,omitempty"`
}
