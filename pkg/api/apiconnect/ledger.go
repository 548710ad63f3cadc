package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "splitledger.v1.LedgerService"

// Procedure names, used as Spec.Procedure and as HTTP routes.
const (
	LedgerServiceCreatePurchaseProcedure = "/splitledger.v1.LedgerService/CreatePurchase"
	LedgerServiceGetPurchaseProcedure    = "/splitledger.v1.LedgerService/GetPurchase"
	LedgerServiceUpdatePurchaseProcedure = "/splitledger.v1.LedgerService/UpdatePurchase"
	LedgerServiceListPurchasesProcedure  = "/splitledger.v1.LedgerService/ListPurchases"
	LedgerServiceDeletePurchaseProcedure = "/splitledger.v1.LedgerService/DeletePurchase"
	LedgerServiceCreatePaymentProcedure  = "/splitledger.v1.LedgerService/CreatePayment"
	LedgerServiceListPaymentsProcedure   = "/splitledger.v1.LedgerService/ListPayments"
	LedgerServiceDeletePaymentProcedure  = "/splitledger.v1.LedgerService/DeletePayment"
	LedgerServiceGetBalancesProcedure    = "/splitledger.v1.LedgerService/GetBalances"
	LedgerServiceGetMyBalancesProcedure  = "/splitledger.v1.LedgerService/GetMyBalances"
)

// LedgerServiceClient is a client for the splitledger.v1.LedgerService service.
type LedgerServiceClient interface {
	CreatePurchase(context.Context, *connect.Request[api.CreatePurchaseRequest]) (*connect.Response[api.CreatePurchaseResponse], error)
	GetPurchase(context.Context, *connect.Request[api.GetPurchaseRequest]) (*connect.Response[api.GetPurchaseResponse], error)
	UpdatePurchase(context.Context, *connect.Request[api.UpdatePurchaseRequest]) (*connect.Response[api.UpdatePurchaseResponse], error)
	ListPurchases(context.Context, *connect.Request[api.ListPurchasesRequest]) (*connect.Response[api.ListPurchasesResponse], error)
	DeletePurchase(context.Context, *connect.Request[api.DeletePurchaseRequest]) (*connect.Response[api.DeletePurchaseResponse], error)
	CreatePayment(context.Context, *connect.Request[api.CreatePaymentRequest]) (*connect.Response[api.CreatePaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	DeletePayment(context.Context, *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetMyBalances(context.Context, *connect.Request[api.GetMyBalancesRequest]) (*connect.Response[api.GetMyBalancesResponse], error)
}

// NewLedgerServiceClient constructs a client for the splitledger.v1.LedgerService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &ledgerServiceClient{
		createPurchase: connect.NewClient[api.CreatePurchaseRequest, api.CreatePurchaseResponse](httpClient, baseURL+LedgerServiceCreatePurchaseProcedure, opts...),
		getPurchase:    connect.NewClient[api.GetPurchaseRequest, api.GetPurchaseResponse](httpClient, baseURL+LedgerServiceGetPurchaseProcedure, opts...),
		updatePurchase: connect.NewClient[api.UpdatePurchaseRequest, api.UpdatePurchaseResponse](httpClient, baseURL+LedgerServiceUpdatePurchaseProcedure, opts...),
		listPurchases:  connect.NewClient[api.ListPurchasesRequest, api.ListPurchasesResponse](httpClient, baseURL+LedgerServiceListPurchasesProcedure, opts...),
		deletePurchase: connect.NewClient[api.DeletePurchaseRequest, api.DeletePurchaseResponse](httpClient, baseURL+LedgerServiceDeletePurchaseProcedure, opts...),
		createPayment:  connect.NewClient[api.CreatePaymentRequest, api.CreatePaymentResponse](httpClient, baseURL+LedgerServiceCreatePaymentProcedure, opts...),
		listPayments:   connect.NewClient[api.ListPaymentsRequest, api.ListPaymentsResponse](httpClient, baseURL+LedgerServiceListPaymentsProcedure, opts...),
		deletePayment:  connect.NewClient[api.DeletePaymentRequest, api.DeletePaymentResponse](httpClient, baseURL+LedgerServiceDeletePaymentProcedure, opts...),
		getBalances:    connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
		getMyBalances:  connect.NewClient[api.GetMyBalancesRequest, api.GetMyBalancesResponse](httpClient, baseURL+LedgerServiceGetMyBalancesProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	createPurchase *connect.Client[api.CreatePurchaseRequest, api.CreatePurchaseResponse]
	getPurchase    *connect.Client[api.GetPurchaseRequest, api.GetPurchaseResponse]
	updatePurchase *connect.Client[api.UpdatePurchaseRequest, api.UpdatePurchaseResponse]
	listPurchases  *connect.Client[api.ListPurchasesRequest, api.ListPurchasesResponse]
	deletePurchase *connect.Client[api.DeletePurchaseRequest, api.DeletePurchaseResponse]
	createPayment  *connect.Client[api.CreatePaymentRequest, api.CreatePaymentResponse]
	listPayments   *connect.Client[api.ListPaymentsRequest, api.ListPaymentsResponse]
	deletePayment  *connect.Client[api.DeletePaymentRequest, api.DeletePaymentResponse]
	getBalances    *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	getMyBalances  *connect.Client[api.GetMyBalancesRequest, api.GetMyBalancesResponse]
}

func (c *ledgerServiceClient) CreatePurchase(ctx context.Context, req *connect.Request[api.CreatePurchaseRequest]) (*connect.Response[api.CreatePurchaseResponse], error) {
	return c.createPurchase.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetPurchase(ctx context.Context, req *connect.Request[api.GetPurchaseRequest]) (*connect.Response[api.GetPurchaseResponse], error) {
	return c.getPurchase.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) UpdatePurchase(ctx context.Context, req *connect.Request[api.UpdatePurchaseRequest]) (*connect.Response[api.UpdatePurchaseResponse], error) {
	return c.updatePurchase.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListPurchases(ctx context.Context, req *connect.Request[api.ListPurchasesRequest]) (*connect.Response[api.ListPurchasesResponse], error) {
	return c.listPurchases.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeletePurchase(ctx context.Context, req *connect.Request[api.DeletePurchaseRequest]) (*connect.Response[api.DeletePurchaseResponse], error) {
	return c.deletePurchase.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CreatePayment(ctx context.Context, req *connect.Request[api.CreatePaymentRequest]) (*connect.Response[api.CreatePaymentResponse], error) {
	return c.createPayment.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeletePayment(ctx context.Context, req *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error) {
	return c.deletePayment.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetMyBalances(ctx context.Context, req *connect.Request[api.GetMyBalancesRequest]) (*connect.Response[api.GetMyBalancesResponse], error) {
	return c.getMyBalances.CallUnary(ctx, req)
}

// LedgerServiceHandler is implemented by the server side of splitledger.v1.LedgerService.
// Purchases, payments and balances.
type LedgerServiceHandler interface {
	CreatePurchase(context.Context, *connect.Request[api.CreatePurchaseRequest]) (*connect.Response[api.CreatePurchaseResponse], error)
	GetPurchase(context.Context, *connect.Request[api.GetPurchaseRequest]) (*connect.Response[api.GetPurchaseResponse], error)
	UpdatePurchase(context.Context, *connect.Request[api.UpdatePurchaseRequest]) (*connect.Response[api.UpdatePurchaseResponse], error)
	ListPurchases(context.Context, *connect.Request[api.ListPurchasesRequest]) (*connect.Response[api.ListPurchasesResponse], error)
	DeletePurchase(context.Context, *connect.Request[api.DeletePurchaseRequest]) (*connect.Response[api.DeletePurchaseResponse], error)
	CreatePayment(context.Context, *connect.Request[api.CreatePaymentRequest]) (*connect.Response[api.CreatePaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	DeletePayment(context.Context, *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetMyBalances(context.Context, *connect.Request[api.GetMyBalancesRequest]) (*connect.Response[api.GetMyBalancesResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createPurchaseHandler := connect.NewUnaryHandler(LedgerServiceCreatePurchaseProcedure, svc.CreatePurchase, opts...)
	getPurchaseHandler := connect.NewUnaryHandler(LedgerServiceGetPurchaseProcedure, svc.GetPurchase, opts...)
	updatePurchaseHandler := connect.NewUnaryHandler(LedgerServiceUpdatePurchaseProcedure, svc.UpdatePurchase, opts...)
	listPurchasesHandler := connect.NewUnaryHandler(LedgerServiceListPurchasesProcedure, svc.ListPurchases, opts...)
	deletePurchaseHandler := connect.NewUnaryHandler(LedgerServiceDeletePurchaseProcedure, svc.DeletePurchase, opts...)
	createPaymentHandler := connect.NewUnaryHandler(LedgerServiceCreatePaymentProcedure, svc.CreatePayment, opts...)
	listPaymentsHandler := connect.NewUnaryHandler(LedgerServiceListPaymentsProcedure, svc.ListPayments, opts...)
	deletePaymentHandler := connect.NewUnaryHandler(LedgerServiceDeletePaymentProcedure, svc.DeletePayment, opts...)
	getBalancesHandler := connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...)
	getMyBalancesHandler := connect.NewUnaryHandler(LedgerServiceGetMyBalancesProcedure, svc.GetMyBalances, opts...)
	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceCreatePurchaseProcedure:
			createPurchaseHandler.ServeHTTP(w, r)
		case LedgerServiceGetPurchaseProcedure:
			getPurchaseHandler.ServeHTTP(w, r)
		case LedgerServiceUpdatePurchaseProcedure:
			updatePurchaseHandler.ServeHTTP(w, r)
		case LedgerServiceListPurchasesProcedure:
			listPurchasesHandler.ServeHTTP(w, r)
		case LedgerServiceDeletePurchaseProcedure:
			deletePurchaseHandler.ServeHTTP(w, r)
		case LedgerServiceCreatePaymentProcedure:
			createPaymentHandler.ServeHTTP(w, r)
		case LedgerServiceListPaymentsProcedure:
			listPaymentsHandler.ServeHTTP(w, r)
		case LedgerServiceDeletePaymentProcedure:
			deletePaymentHandler.ServeHTTP(w, r)
		case LedgerServiceGetBalancesProcedure:
			getBalancesHandler.ServeHTTP(w, r)
		case LedgerServiceGetMyBalancesProcedure:
			getMyBalancesHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
