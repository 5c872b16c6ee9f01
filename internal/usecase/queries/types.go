package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type QuotationItemView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"item_name"`
	Description string    `json:"description,omitempty"`
	Quantity    int32     `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	Tax         string    `json:"tax"`
	TotalPrice  string    `json:"total_price"`
}

type ResponseView struct {
	ID        uuid.UUID `json:"id"`
	Status    string    `json:"status"`
	Comment   *string   `json:"comment,omitempty"`
	ClientIP  *string   `json:"client_ip,omitempty"`
	UserAgent *string   `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type QuotationView struct {
	ID           uuid.UUID           `json:"id"`
	AdminID      uuid.UUID           `json:"admin_id"`
	ClientName   string              `json:"client_name"`
	ClientEmail  string              `json:"client_email"`
	Status       string              `json:"status"`
	TotalAmount  string              `json:"total_amount"`
	ValidityDate *time.Time          `json:"validity_date,omitempty"`
	Items        []QuotationItemView `json:"items"`
	Responses    []ResponseView      `json:"responses,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type QuotationListItem struct {
	ID           uuid.UUID  `json:"id"`
	ClientName   string     `json:"client_name"`
	ClientEmail  string     `json:"client_email"`
	Status       string     `json:"status"`
	TotalAmount  string     `json:"total_amount"`
	ValidityDate *time.Time `json:"validity_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type QuotationPage struct {
	Items []QuotationListItem `json:"items"`
	Count int64               `json:"count"`
}

// PublicQuotationView is what an unauthenticated client sees through the
// capability link. It never exposes the owning admin.
type PublicQuotationView struct {
	ID             uuid.UUID           `json:"id"`
	ClientName     string              `json:"client_name"`
	Status         string              `json:"status"`
	TotalAmount    string              `json:"total_amount"`
	ValidityDate   *time.Time          `json:"validity_date,omitempty"`
	Items          []QuotationItemView `json:"items"`
	LatestResponse *ResponseView       `json:"latest_response,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

type StatusCounts struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Sent     int64 `json:"sent"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Expired  int64 `json:"expired"`
}

type DashboardStats struct {
	StatusCounts
	Recent []QuotationListItem `json:"recent"`
}

type UserView struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
