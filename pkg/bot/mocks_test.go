package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ksysoev/intakebot/pkg/core"
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
	ret := _m.Called(ctx, userID, productID)

	return responseOf(ret)
}

func (_e *MockIntakeService_Expecter) StartConsultation(ctx, userID, productID interface{}) *mock.Call {
	return _e.mock.On("StartConsultation", ctx, userID, productID)
}

func (_m *MockIntakeService) HandleMessage(ctx context.Context, userID, text string) (*core.Response, error) {
	ret := _m.Called(ctx, userID, text)

	return responseOf(ret)
}

func (_e *MockIntakeService_Expecter) HandleMessage(ctx, userID, text interface{}) *mock.Call {
	return _e.mock.On("HandleMessage", ctx, userID, text)
}

func (_m *MockIntakeService) CurrentQuestion(ctx context.Context, userID string) (*core.Response, error) {
	ret := _m.Called(ctx, userID)

	return responseOf(ret)
}

func (_e *MockIntakeService_Expecter) CurrentQuestion(ctx, userID interface{}) *mock.Call {
	return _e.mock.On("CurrentQuestion", ctx, userID)
}

func (_m *MockIntakeService) GoBack(ctx context.Context, userID string) (*core.Response, error) {
	ret := _m.Called(ctx, userID)

	return responseOf(ret)
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

// MocktgClient is a mock implementation of tgClient.
type MocktgClient struct {
	mock.Mock
}

type MocktgClient_Expecter struct {
	mock *mock.Mock
}

func (_m *MocktgClient) EXPECT() *MocktgClient_Expecter {
	return &MocktgClient_Expecter{mock: &_m.Mock}
}

func (_m *MocktgClient) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	ret := _m.Called(c)

	var r0 tgbotapi.Message
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(tgbotapi.Message)
	}

	return r0, ret.Error(1)
}

func (_e *MocktgClient_Expecter) Send(c interface{}) *mock.Call {
	return _e.mock.On("Send", c)
}

func (_m *MocktgClient) StopReceivingUpdates() {
	_m.Called()
}

func (_e *MocktgClient_Expecter) StopReceivingUpdates() *mock.Call {
	return _e.mock.On("StopReceivingUpdates")
}

func (_m *MocktgClient) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	ret := _m.Called(config)

	var r0 tgbotapi.UpdatesChannel
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(tgbotapi.UpdatesChannel)
	}

	return r0
}

func (_e *MocktgClient_Expecter) GetUpdatesChan(config interface{}) *mock.Call {
	return _e.mock.On("GetUpdatesChan", config)
}

// NewMocktgClient creates a new instance of MocktgClient and registers assertions on test cleanup.
func NewMocktgClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MocktgClient {
	m := &MocktgClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
