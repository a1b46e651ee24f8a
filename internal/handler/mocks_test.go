package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"go-stockbit/internal/model"
	"go-stockbit/internal/service"
)

func NewNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type AuthServiceMock struct{ mock.Mock }

func (m *AuthServiceMock) Register(req *service.RegisterRequest) (*model.User, error) {
	args := m.Called(req)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *AuthServiceMock) Login(username, password string) (*service.LoginResponse, error) {
	args := m.Called(username, password)
	resp, _ := args.Get(0).(*service.LoginResponse)
	return resp, args.Error(1)
}

func (m *AuthServiceMock) Logout(userID uuid.UUID) error {
	return m.Called(userID).Error(0)
}

func (m *AuthServiceMock) Authenticate(token string) (*model.User, error) {
	args := m.Called(token)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

type InventoryServiceMock struct{ mock.Mock }

func (m *InventoryServiceMock) ListProducts(userID uuid.UUID) ([]model.Product, error) {
	args := m.Called(userID)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Error(1)
}

func (m *InventoryServiceMock) GetProduct(userID, id uuid.UUID) (*model.Product, error) {
	args := m.Called(userID, id)
	product, _ := args.Get(0).(*model.Product)
	return product, args.Error(1)
}

func (m *InventoryServiceMock) CreateProduct(userID uuid.UUID, req *service.ProductRequest) (*model.Product, error) {
	args := m.Called(userID, req)
	product, _ := args.Get(0).(*model.Product)
	return product, args.Error(1)
}

func (m *InventoryServiceMock) UpdateProduct(userID, id uuid.UUID, req *service.ProductRequest) (*model.Product, error) {
	args := m.Called(userID, id, req)
	product, _ := args.Get(0).(*model.Product)
	return product, args.Error(1)
}

func (m *InventoryServiceMock) DeleteProduct(userID, id uuid.UUID) error {
	return m.Called(userID, id).Error(0)
}

func (m *InventoryServiceMock) RecordSale(userID, productID uuid.UUID, quantity string) (*model.Sale, error) {
	args := m.Called(userID, productID, quantity)
	sale, _ := args.Get(0).(*model.Sale)
	return sale, args.Error(1)
}

func (m *InventoryServiceMock) ListSales(userID uuid.UUID) ([]model.SaleView, error) {
	args := m.Called(userID)
	sales, _ := args.Get(0).([]model.SaleView)
	return sales, args.Error(1)
}

type SubscriptionServiceMock struct{ mock.Mock }

func (m *SubscriptionServiceMock) SubmitPayment(ctx context.Context, user *model.User, req *service.PaymentRequest, upload *service.Upload) (*model.PaymentVerification, error) {
	args := m.Called(ctx, user, req, upload)
	payment, _ := args.Get(0).(*model.PaymentVerification)
	return payment, args.Error(1)
}

func (m *SubscriptionServiceMock) ListMyPayments(userID uuid.UUID) ([]model.PaymentVerification, error) {
	args := m.Called(userID)
	payments, _ := args.Get(0).([]model.PaymentVerification)
	return payments, args.Error(1)
}

func (m *SubscriptionServiceMock) Status(user *model.User) (*service.SubscriptionStatus, error) {
	args := m.Called(user)
	status, _ := args.Get(0).(*service.SubscriptionStatus)
	return status, args.Error(1)
}

func (m *SubscriptionServiceMock) OpenScreenshot(ctx context.Context, user *model.User, name string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, user, name)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.String(1), args.Error(2)
}

func (m *SubscriptionServiceMock) ListPendingPayments() ([]model.PaymentVerification, error) {
	args := m.Called()
	payments, _ := args.Get(0).([]model.PaymentVerification)
	return payments, args.Error(1)
}

func (m *SubscriptionServiceMock) ApprovePayment(admin *model.User, id uuid.UUID) (*model.PaymentVerification, error) {
	args := m.Called(admin, id)
	payment, _ := args.Get(0).(*model.PaymentVerification)
	return payment, args.Error(1)
}

func (m *SubscriptionServiceMock) RejectPayment(admin *model.User, id uuid.UUID) (*model.PaymentVerification, error) {
	args := m.Called(admin, id)
	payment, _ := args.Get(0).(*model.PaymentVerification)
	return payment, args.Error(1)
}

type AdminServiceMock struct{ mock.Mock }

func (m *AdminServiceMock) ListUsers() ([]model.UserResponse, error) {
	args := m.Called()
	users, _ := args.Get(0).([]model.UserResponse)
	return users, args.Error(1)
}

func (m *AdminServiceMock) GetUser(id uuid.UUID) (*model.UserResponse, error) {
	args := m.Called(id)
	user, _ := args.Get(0).(*model.UserResponse)
	return user, args.Error(1)
}

func (m *AdminServiceMock) UpdateUser(id uuid.UUID, req *service.UpdateUserRequest) (*model.User, error) {
	args := m.Called(id, req)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *AdminServiceMock) DeleteUser(actor *model.User, id uuid.UUID) error {
	return m.Called(actor, id).Error(0)
}

func (m *AdminServiceMock) CancelSubscription(id uuid.UUID) (*model.User, error) {
	args := m.Called(id)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *AdminServiceMock) CreateAdmin(req *service.CreateAdminRequest) (*model.User, error) {
	args := m.Called(req)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *AdminServiceMock) EnsureAdmin(req *service.CreateAdminRequest) (bool, error) {
	args := m.Called(req)
	return args.Bool(0), args.Error(1)
}

func (m *AdminServiceMock) ResetPassword(username, password string) error {
	return m.Called(username, password).Error(0)
}

type ReportServiceMock struct{ mock.Mock }

func (m *ReportServiceMock) Report(user *model.User) (*service.Report, error) {
	args := m.Called(user)
	r, _ := args.Get(0).(*service.Report)
	return r, args.Error(1)
}

func (m *ReportServiceMock) Dashboard(userID uuid.UUID) (*service.Dashboard, error) {
	args := m.Called(userID)
	d, _ := args.Get(0).(*service.Dashboard)
	return d, args.Error(1)
}
