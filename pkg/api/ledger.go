package api

import "github.com/shopspring/decimal"

// Item is one line of a purchase.
type Item struct {
	ID       string          `json:"id,omitempty"`
	Name     string          `json:"name" validate:"required,max=200"`
	Price    decimal.Decimal `json:"price" validate:"gte=0"`
	Quantity int             `json:"quantity" validate:"gte=1"`
	Discount decimal.Decimal `json:"discount" validate:"gte=0"`

	// ContributorIDs share the item equally. May be empty.
	ContributorIDs []string `json:"contributorIds" validate:"dive,required"`

	// Total is price × quantity − discount. Output only.
	Total decimal.Decimal `json:"total"`
}

// Purchase is a set of items paid for by one payer.
type Purchase struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"projectId"`
	PayerID     string          `json:"payerId"`
	CreatorID   string          `json:"creatorId"`
	Name        string          `json:"name"`
	PurchasedOn string          `json:"purchasedOn"`
	Items       []*Item         `json:"items"`
	Total       decimal.Decimal `json:"total"`
	CreatedAt   int64           `json:"createdAt"`
}

// Payment is a direct transfer of money between two participants.
type Payment struct {
	ID         string          `json:"id"`
	ProjectID  string          `json:"projectId"`
	PayerID    string          `json:"payerId"`
	ReceiverID string          `json:"receiverId"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedBy  string          `json:"createdBy"`
	Note       string          `json:"note,omitempty"`
	PaidOn     string          `json:"paidOn"`
	CreatedAt  int64           `json:"createdAt"`
}

// CreatePurchaseRequest records a purchase in a project.
type CreatePurchaseRequest struct {
	ProjectID string `json:"projectId" validate:"required"`

	// PayerID defaults to the caller.
	PayerID     string  `json:"payerId"`
	Name        string  `json:"name" validate:"required,max=200"`
	PurchasedOn string  `json:"purchasedOn" validate:"omitempty,datetime=2006-01-02"`
	Items       []*Item `json:"items" validate:"required,min=1,dive,required"`
}

// CreatePurchaseResponse carries the stored purchase.
type CreatePurchaseResponse struct {
	Purchase *Purchase `json:"purchase"`
}

// GetPurchaseRequest fetches one purchase.
type GetPurchaseRequest struct {
	PurchaseID string `json:"purchaseId" validate:"required"`
}

// GetPurchaseResponse carries the requested purchase.
type GetPurchaseResponse struct {
	Purchase *Purchase `json:"purchase"`
}

// ListPurchasesRequest lists the purchases of a project.
type ListPurchasesRequest struct {
	ProjectID string `json:"projectId" validate:"required"`
}

// ListPurchasesResponse carries purchases, newest first.
type ListPurchasesResponse struct {
	Purchases []*Purchase `json:"purchases"`
}

// DeletePurchaseRequest removes a purchase.
type DeletePurchaseRequest struct {
	PurchaseID string `json:"purchaseId" validate:"required"`
}

// DeletePurchaseResponse is empty.
type DeletePurchaseResponse struct{}

// UpdatePurchaseRequest replaces the payer, name, date and items of a
// purchase. Only the purchase's creator may update it.
type UpdatePurchaseRequest struct {
	PurchaseID string `json:"purchaseId" validate:"required"`

	// PayerID and PurchasedOn keep their stored values when empty.
	PayerID     string  `json:"payerId"`
	Name        string  `json:"name" validate:"required,max=200"`
	PurchasedOn string  `json:"purchasedOn" validate:"omitempty,datetime=2006-01-02"`
	Items       []*Item `json:"items" validate:"required,min=1,dive,required"`
}

// UpdatePurchaseResponse carries the updated purchase.
type UpdatePurchaseResponse struct {
	Purchase *Purchase `json:"purchase"`
}

// CreatePaymentRequest records a direct payment.
type CreatePaymentRequest struct {
	ProjectID string `json:"projectId" validate:"required"`

	// PayerID defaults to the caller.
	PayerID    string          `json:"payerId"`
	ReceiverID string          `json:"receiverId" validate:"required,nefield=PayerID"`
	Amount     decimal.Decimal `json:"amount" validate:"gt=0"`
	Note       string          `json:"note" validate:"max=500"`
	PaidOn     string          `json:"paidOn" validate:"omitempty,datetime=2006-01-02"`
}

// CreatePaymentResponse carries the stored payment.
type CreatePaymentResponse struct {
	Payment *Payment `json:"payment"`
}

// ListPaymentsRequest lists the payments of a project.
type ListPaymentsRequest struct {
	ProjectID string `json:"projectId" validate:"required"`
}

// ListPaymentsResponse carries payments, newest first.
type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}

// DeletePaymentRequest removes a payment.
type DeletePaymentRequest struct {
	PaymentID string `json:"paymentId" validate:"required"`
}

// DeletePaymentResponse is empty.
type DeletePaymentResponse struct{}

// Transaction is one step of a settlement plan: From pays To the Amount.
type Transaction struct {
	FromID   string          `json:"fromId"`
	FromName string          `json:"fromName"`
	ToID     string          `json:"toId"`
	ToName   string          `json:"toName"`
	Amount   decimal.Decimal `json:"amount"`
}

// GetBalancesRequest asks for the settlement plan of a scope.
type GetBalancesRequest struct {
	// ProjectID scopes the settlement to one project. Empty means every
	// project the caller is active in.
	ProjectID string `json:"projectId"`
}

// GetBalancesResponse carries the settlement plan.
type GetBalancesResponse struct {
	Transactions []*Transaction `json:"transactions"`

	// Currency is the ISO 4217 code amounts are denominated in.
	Currency string `json:"currency"`
}

// GetMyBalancesRequest asks for the caller's part of a settlement plan.
type GetMyBalancesRequest struct {
	ProjectID string `json:"projectId"`
}

// GetMyBalancesResponse carries the transactions involving the caller.
type GetMyBalancesResponse struct {
	Transactions []*Transaction `json:"transactions"`
	Currency     string         `json:"currency"`
}
