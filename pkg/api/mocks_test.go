package api

import (
	"context"

	"github.com/ksysoev/intakebot/pkg/core"
	"github.com/ksysoev/intakebot/pkg/core/flow"
	"github.com/stretchr/testify/mock"
)

// MockIntakeService is a mock implementation of IntakeService.
type MockIntakeService struct {
	mock.Mock
}

type MockIntakeService_Expecter struct {
	mock *mock.Mock
}

func (_m *MockIntakeService) EXPECT() *MockIntakeService_Expecter {
	return &MockIntakeService_Expecter{mock: &_m.Mock}
}

func (_m *MockIntakeService) ListProducts(ctx context.Context) []core.Product {
	ret := _m.Called(ctx)

	var r0 []core.Product
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]core.Product)
	}

	return r0
}

func (_e *MockIntakeService_Expecter) ListProducts(ctx interface{}) *mock.Call {
	return _e.mock.On("ListProducts", ctx)
}

func (_m *MockIntakeService) StartConsultation(ctx context.Context, userID, productID string) (*core.Response, error) {
	return responseOf(_m.Called(ctx, userID, productID))
}

func (_e *MockIntakeService_Expecter) StartConsultation(ctx, userID, productID interface{}) *mock.Call {
	return _e.mock.On("StartConsultation", ctx, userID, productID)
}

func (_m *MockIntakeService) CurrentQuestion(ctx context.Context, userID string) (*core.Response, error) {
	return responseOf(_m.Called(ctx, userID))
}

func (_e *MockIntakeService_Expecter) CurrentQuestion(ctx, userID interface{}) *mock.Call {
	return _e.mock.On("CurrentQuestion", ctx, userID)
}

func (_m *MockIntakeService) SubmitAnswer(ctx context.Context, userID, questionID string, v flow.Value) (*core.Response, error) {
	return responseOf(_m.Called(ctx, userID, questionID, v))
}

func (_e *MockIntakeService_Expecter) SubmitAnswer(ctx, userID, questionID, v interface{}) *mock.Call {
	return _e.mock.On("SubmitAnswer", ctx, userID, questionID, v)
}

func (_m *MockIntakeService) GoBack(ctx context.Context, userID string) (*core.Response, error) {
	return responseOf(_m.Called(ctx, userID))
}

func (_e *MockIntakeService_Expecter) GoBack(ctx, userID interface{}) *mock.Call {
	return _e.mock.On("GoBack", ctx, userID)
}

func (_m *MockIntakeService) ResetFlow(ctx context.Context, userID string) error {
	ret := _m.Called(ctx, userID)

	return ret.Error(0)
}

func (_e *MockIntakeService_Expecter) ResetFlow(ctx, userID interface{}) *mock.Call {
	return _e.mock.On("ResetFlow", ctx, userID)
}

func (_m *MockIntakeService) ConsultationStatus(ctx context.Context, userID string) ([]core.Consultation, error) {
	ret := _m.Called(ctx, userID)

	var r0 []core.Consultation
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]core.Consultation)
	}

	return r0, ret.Error(1)
}

func (_e *MockIntakeService_Expecter) ConsultationStatus(ctx, userID interface{}) *mock.Call {
	return _e.mock.On("ConsultationStatus", ctx, userID)
}

func responseOf(ret mock.Arguments) (*core.Response, error) {
	var r0 *core.Response
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*core.Response)
	}

	return r0, ret.Error(1)
}

// NewMockIntakeService creates a new instance of MockIntakeService and registers assertions on test cleanup.
func NewMockIntakeService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockIntakeService {
	m := &MockIntakeService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
