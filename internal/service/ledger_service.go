package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/Rhymond/go-money"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

// LedgerService implements the Connect LedgerService: purchases, payments
// and the balances computed from them.
type LedgerService struct {
	store    storage.Store
	engine   *ledger.Engine
	metrics  *metrics.Metrics
	currency string
}

// NewLedgerService creates a LedgerService. A nil m records to an
// unexported registry.
func NewLedgerService(store storage.Store, m *metrics.Metrics) *LedgerService {
	if m == nil {
		m = metrics.NewUnregistered()
	}
	return &LedgerService{
		store:    store,
		engine:   ledger.NewEngine(store),
		metrics:  m,
		currency: money.EUR,
	}
}

// WithCurrency sets the currency code reported with balances.
func (s *LedgerService) WithCurrency(code string) *LedgerService {
	s.currency = code
	return s
}

// CreatePurchase records a purchase. The payer defaults to the caller; payer
// and contributors must be active participants of the project.
func (s *LedgerService) CreatePurchase(ctx context.Context, req *connect.Request[api.CreatePurchaseRequest]) (*connect.Response[api.CreatePurchaseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreatePurchase request received",
		"user_id", userID,
		"project_id", req.Msg.ProjectID,
		"items_count", len(req.Msg.Items),
	)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	project, err := activeProject(ctx, s.store, req.Msg.ProjectID, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	payerID := req.Msg.PayerID
	if payerID == "" {
		payerID = userID
	}
	purchase := &models.Purchase{
		ProjectID:   project.ID,
		PayerID:     payerID,
		CreatorID:   userID,
		Name:        req.Msg.Name,
		PurchasedOn: req.Msg.PurchasedOn,
		Items:       fromAPIItems(req.Msg.Items),
	}

	if err := validateItemTotals(purchase.Items); err != nil {
		return nil, err
	}
	if err := requireAssignable(project, purchase, nil); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.CreatePurchase(ctx, purchase); err != nil {
		slog.Error("CreatePurchase failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Purchase created",
		"purchase_id", purchase.ID,
		"project_id", purchase.ProjectID,
		"total", purchase.Total().String(),
	)
	return connect.NewResponse(&api.CreatePurchaseResponse{Purchase: toAPIPurchase(purchase)}), nil
}

// GetPurchase returns a purchase of a project the caller is active in.
func (s *LedgerService) GetPurchase(ctx context.Context, req *connect.Request[api.GetPurchaseRequest]) (*connect.Response[api.GetPurchaseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	purchase, err := s.store.GetPurchase(ctx, req.Msg.PurchaseID)
	if err != nil {
		slog.Warn("GetPurchase failed", "purchase_id", req.Msg.PurchaseID, "error", err)
		return nil, toConnectError(err)
	}
	if _, err := activeProject(ctx, s.store, purchase.ProjectID, userID); err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetPurchaseResponse{Purchase: toAPIPurchase(purchase)}), nil
}

// UpdatePurchase replaces the payer, name, date and items of a purchase.
// Only its creator may update it. Users already on the purchase keep their
// place even after leaving the project; anyone newly assigned must be active.
func (s *LedgerService) UpdatePurchase(ctx context.Context, req *connect.Request[api.UpdatePurchaseRequest]) (*connect.Response[api.UpdatePurchaseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdatePurchase request received",
		"user_id", userID,
		"purchase_id", req.Msg.PurchaseID,
		"items_count", len(req.Msg.Items),
	)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	existing, err := s.store.GetPurchase(ctx, req.Msg.PurchaseID)
	if err != nil {
		slog.Warn("UpdatePurchase failed", "purchase_id", req.Msg.PurchaseID, "error", err)
		return nil, toConnectError(err)
	}
	project, err := activeProject(ctx, s.store, existing.ProjectID, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if existing.CreatorID != userID {
		return nil, toConnectError(ErrNotCreator)
	}

	purchase := &models.Purchase{
		ID:          existing.ID,
		ProjectID:   existing.ProjectID,
		PayerID:     existing.PayerID,
		CreatorID:   existing.CreatorID,
		Name:        req.Msg.Name,
		PurchasedOn: existing.PurchasedOn,
		Items:       fromAPIItems(req.Msg.Items),
		CreatedAt:   existing.CreatedAt,
	}
	if req.Msg.PayerID != "" {
		purchase.PayerID = req.Msg.PayerID
	}
	if req.Msg.PurchasedOn != "" {
		purchase.PurchasedOn = req.Msg.PurchasedOn
	}

	if err := validateItemTotals(purchase.Items); err != nil {
		return nil, err
	}
	if err := requireAssignable(project, purchase, existing); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.UpdatePurchase(ctx, purchase); err != nil {
		slog.Error("UpdatePurchase failed", "purchase_id", purchase.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Purchase updated",
		"purchase_id", purchase.ID,
		"project_id", purchase.ProjectID,
		"total", purchase.Total().String(),
	)
	return connect.NewResponse(&api.UpdatePurchaseResponse{Purchase: toAPIPurchase(purchase)}), nil
}

// ListPurchases returns every purchase of the project, newest first.
func (s *LedgerService) ListPurchases(ctx context.Context, req *connect.Request[api.ListPurchasesRequest]) (*connect.Response[api.ListPurchasesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	if _, err := activeProject(ctx, s.store, req.Msg.ProjectID, userID); err != nil {
		return nil, toConnectError(err)
	}

	purchases, err := s.store.ListPurchasesByProject(ctx, req.Msg.ProjectID)
	if err != nil {
		slog.Error("ListPurchases failed", "project_id", req.Msg.ProjectID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Purchase, len(purchases))
	for i, p := range purchases {
		out[i] = toAPIPurchase(p)
	}
	return connect.NewResponse(&api.ListPurchasesResponse{Purchases: out}), nil
}

// DeletePurchase removes a purchase. Only its creator may do so.
func (s *LedgerService) DeletePurchase(ctx context.Context, req *connect.Request[api.DeletePurchaseRequest]) (*connect.Response[api.DeletePurchaseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	purchase, err := s.store.GetPurchase(ctx, req.Msg.PurchaseID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if _, err := activeProject(ctx, s.store, purchase.ProjectID, userID); err != nil {
		return nil, toConnectError(err)
	}
	if purchase.CreatorID != userID {
		return nil, toConnectError(ErrNotCreator)
	}

	if err := s.store.DeletePurchase(ctx, purchase.ID); err != nil {
		slog.Error("DeletePurchase failed", "purchase_id", purchase.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Purchase deleted", "purchase_id", purchase.ID, "by", userID)
	return connect.NewResponse(&api.DeletePurchaseResponse{}), nil
}

// CreatePayment records a direct payment. The caller must be the payer or
// the receiver, and both must be active participants.
func (s *LedgerService) CreatePayment(ctx context.Context, req *connect.Request[api.CreatePaymentRequest]) (*connect.Response[api.CreatePaymentResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreatePayment request received",
		"user_id", userID,
		"project_id", req.Msg.ProjectID,
		"amount", req.Msg.Amount.String(),
	)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ProjectID:  req.Msg.ProjectID,
		PayerID:    req.Msg.PayerID,
		ReceiverID: req.Msg.ReceiverID,
		Amount:     req.Msg.Amount,
		CreatedBy:  userID,
		Note:       req.Msg.Note,
		PaidOn:     req.Msg.PaidOn,
	}
	if payment.PayerID == "" {
		payment.PayerID = userID
	}
	if payment.PayerID == payment.ReceiverID {
		return nil, connect.NewError(connect.CodeInvalidArgument, ErrSelfPayment)
	}
	if !payment.Involves(userID) {
		return nil, toConnectError(ErrNotPaymentParty)
	}

	project, err := activeProject(ctx, s.store, payment.ProjectID, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := requireActive(project, payment.PayerID, payment.ReceiverID); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.CreatePayment(ctx, payment); err != nil {
		slog.Error("CreatePayment failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Payment created", "payment_id", payment.ID, "project_id", payment.ProjectID)
	return connect.NewResponse(&api.CreatePaymentResponse{Payment: toAPIPayment(payment)}), nil
}

// ListPayments returns every payment of the project, newest first.
func (s *LedgerService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	if _, err := activeProject(ctx, s.store, req.Msg.ProjectID, userID); err != nil {
		return nil, toConnectError(err)
	}

	payments, err := s.store.ListPaymentsByProject(ctx, req.Msg.ProjectID)
	if err != nil {
		slog.Error("ListPayments failed", "project_id", req.Msg.ProjectID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Payment, len(payments))
	for i, p := range payments {
		out[i] = toAPIPayment(p)
	}
	return connect.NewResponse(&api.ListPaymentsResponse{Payments: out}), nil
}

// DeletePayment removes a payment. Only its payer or receiver may do so.
func (s *LedgerService) DeletePayment(ctx context.Context, req *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	payment, err := s.store.GetPayment(ctx, req.Msg.PaymentID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !payment.Involves(userID) {
		return nil, toConnectError(ErrNotPaymentParty)
	}
	if _, err := activeProject(ctx, s.store, payment.ProjectID, userID); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.DeletePayment(ctx, payment.ID); err != nil {
		slog.Error("DeletePayment failed", "payment_id", payment.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Payment deleted", "payment_id", payment.ID, "by", userID)
	return connect.NewResponse(&api.DeletePaymentResponse{}), nil
}

// GetBalances returns the settlement plan of one project, or of every
// project the caller is active in. A project the caller cannot see yields
// an empty plan rather than an error.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	txs, err := s.compute(ctx, ledger.Query{ViewerID: userID, ProjectID: req.Msg.ProjectID})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetBalancesResponse{Transactions: txs, Currency: s.currency}), nil
}

// GetMyBalances is GetBalances restricted to transactions involving the caller.
func (s *LedgerService) GetMyBalances(ctx context.Context, req *connect.Request[api.GetMyBalancesRequest]) (*connect.Response[api.GetMyBalancesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	txs, err := s.compute(ctx, ledger.Query{ViewerID: userID, ProjectID: req.Msg.ProjectID, FilterUserID: userID})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetMyBalancesResponse{Transactions: txs, Currency: s.currency}), nil
}

func (s *LedgerService) compute(ctx context.Context, q ledger.Query) ([]*api.Transaction, error) {
	res, err := s.engine.Compute(ctx, q)
	if err != nil {
		slog.Error("Balance computation failed", "project_id", q.ProjectID, "error", err)
		return nil, toConnectError(err)
	}
	if !res.Authorized {
		s.metrics.UnauthorizedScopes.Inc()
		slog.Warn("Balances requested for unauthorized project",
			"user_id", q.ViewerID,
			"project_id", q.ProjectID,
		)
		return []*api.Transaction{}, nil
	}

	s.metrics.SettlementSize.Observe(float64(len(res.Transactions)))
	return toAPITransactions(res.Transactions), nil
}
