package core

import (
	"context"
	"time"

	"github.com/ksysoev/intakebot/pkg/core/flow"
	"github.com/stretchr/testify/mock"
)

// MockFlowRepo is a mock implementation of FlowRepo.
type MockFlowRepo struct {
	mock.Mock
}

type MockFlowRepo_Expecter struct {
	mock *mock.Mock
}

func (_m *MockFlowRepo) EXPECT() *MockFlowRepo_Expecter {
	return &MockFlowRepo_Expecter{mock: &_m.Mock}
}

func (_m *MockFlowRepo) GetFlow(ctx context.Context, userID string) (*flow.Flow, error) {
	ret := _m.Called(ctx, userID)

	var r0 *flow.Flow
	if rf, ok := ret.Get(0).(func(context.Context, string) *flow.Flow); ok {
		r0 = rf(ctx, userID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*flow.Flow)
	}

	return r0, ret.Error(1)
}

func (_e *MockFlowRepo_Expecter) GetFlow(ctx, userID interface{}) *mock.Call {
	return _e.mock.On("GetFlow", ctx, userID)
}

func (_m *MockFlowRepo) SaveFlow(ctx context.Context, f *flow.Flow) error {
	ret := _m.Called(ctx, f)

	return ret.Error(0)
}

func (_e *MockFlowRepo_Expecter) SaveFlow(ctx, f interface{}) *mock.Call {
	return _e.mock.On("SaveFlow", ctx, f)
}

func (_m *MockFlowRepo) DeleteFlow(ctx context.Context, userID string) error {
	ret := _m.Called(ctx, userID)

	return ret.Error(0)
}

func (_e *MockFlowRepo_Expecter) DeleteFlow(ctx, userID interface{}) *mock.Call {
	return _e.mock.On("DeleteFlow", ctx, userID)
}

func (_m *MockFlowRepo) AddConsultation(ctx context.Context, userID, productID string, completedAt time.Time) error {
	ret := _m.Called(ctx, userID, productID, completedAt)

	return ret.Error(0)
}

func (_e *MockFlowRepo_Expecter) AddConsultation(ctx, userID, productID, completedAt interface{}) *mock.Call {
	return _e.mock.On("AddConsultation", ctx, userID, productID, completedAt)
}

func (_m *MockFlowRepo) GetConsultations(ctx context.Context, userID string, since time.Time) ([]Consultation, error) {
	ret := _m.Called(ctx, userID, since)

	var r0 []Consultation
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Consultation)
	}

	return r0, ret.Error(1)
}

func (_e *MockFlowRepo_Expecter) GetConsultations(ctx, userID, since interface{}) *mock.Call {
	return _e.mock.On("GetConsultations", ctx, userID, since)
}

// NewMockFlowRepo creates a new instance of MockFlowRepo and registers assertions on test cleanup.
func NewMockFlowRepo(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockFlowRepo {
	m := &MockFlowRepo{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockCatalog is a mock implementation of Catalog.
type MockCatalog struct {
	mock.Mock
}

type MockCatalog_Expecter struct {
	mock *mock.Mock
}

func (_m *MockCatalog) EXPECT() *MockCatalog_Expecter {
	return &MockCatalog_Expecter{mock: &_m.Mock}
}

func (_m *MockCatalog) Products() []Product {
	ret := _m.Called()

	var r0 []Product
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Product)
	}

	return r0
}

func (_e *MockCatalog_Expecter) Products() *mock.Call {
	return _e.mock.On("Products")
}

func (_m *MockCatalog) Questionnaire(productID string) (*flow.Questionnaire, error) {
	ret := _m.Called(productID)

	var r0 *flow.Questionnaire
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*flow.Questionnaire)
	}

	return r0, ret.Error(1)
}

func (_e *MockCatalog_Expecter) Questionnaire(productID interface{}) *mock.Call {
	return _e.mock.On("Questionnaire", productID)
}

// NewMockCatalog creates a new instance of MockCatalog and registers assertions on test cleanup.
func NewMockCatalog(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCatalog {
	m := &MockCatalog{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockCheckoutProv is a mock implementation of CheckoutProv.
type MockCheckoutProv struct {
	mock.Mock
}

type MockCheckoutProv_Expecter struct {
	mock *mock.Mock
}

func (_m *MockCheckoutProv) EXPECT() *MockCheckoutProv_Expecter {
	return &MockCheckoutProv_Expecter{mock: &_m.Mock}
}

func (_m *MockCheckoutProv) SubmitIntake(ctx context.Context, intake *Intake) (*CheckoutLink, error) {
	ret := _m.Called(ctx, intake)

	var r0 *CheckoutLink
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*CheckoutLink)
	}

	return r0, ret.Error(1)
}

func (_e *MockCheckoutProv_Expecter) SubmitIntake(ctx, intake interface{}) *mock.Call {
	return _e.mock.On("SubmitIntake", ctx, intake)
}

// NewMockCheckoutProv creates a new instance of MockCheckoutProv and registers assertions on test cleanup.
func NewMockCheckoutProv(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCheckoutProv {
	m := &MockCheckoutProv{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
