package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	payrollapp "github.com/hrms/backend/internal/application/payroll"
	"github.com/hrms/backend/internal/domain/payroll"
	"github.com/hrms/backend/internal/domain/shared"
)

func toDecimalPtr(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

// MockCompensationRepository implements payroll.CompensationRepository for testing
type MockCompensationRepository struct {
	mock.Mock
}

func (m *MockCompensationRepository) FindByUserAndType(ctx context.Context, userID uuid.UUID, compensationType string) (*payroll.CompensationEntry, error) {
	args := m.Called(ctx, userID, compensationType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.CompensationEntry), args.Error(1)
}

func (m *MockCompensationRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]payroll.CompensationEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payroll.CompensationEntry), args.Error(1)
}

func (m *MockCompensationRepository) FindByUsers(ctx context.Context, userIDs []uuid.UUID) ([]payroll.CompensationEntry, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payroll.CompensationEntry), args.Error(1)
}

func (m *MockCompensationRepository) DistinctTypesForOrg(ctx context.Context, organizationID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCompensationRepository) Save(ctx context.Context, entry *payroll.CompensationEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockEmployeeRepository implements payroll.EmployeeRepository for testing
type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*payroll.Employee, error) {
	args := m.Called(ctx, organizationID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) CountCompensated(ctx context.Context, organizationID uuid.UUID) (int64, error) {
	args := m.Called(ctx, organizationID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEmployeeRepository) FindCompensatedPage(ctx context.Context, organizationID uuid.UUID, offset, limit int) ([]payroll.Employee, error) {
	args := m.Called(ctx, organizationID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payroll.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) Save(ctx context.Context, employee *payroll.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

// MockTypeRegistryCache implements payroll.TypeRegistryCache for testing
type MockTypeRegistryCache struct {
	mock.Mock
}

func (m *MockTypeRegistryCache) Get(ctx context.Context, organizationID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTypeRegistryCache) Set(ctx context.Context, organizationID uuid.UUID, types []string) error {
	args := m.Called(ctx, organizationID, types)
	return args.Error(0)
}

func (m *MockTypeRegistryCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Ensure mocks implement the interfaces
var _ payroll.CompensationRepository = (*MockCompensationRepository)(nil)
var _ payroll.EmployeeRepository = (*MockEmployeeRepository)(nil)
var _ payroll.TypeRegistryCache = (*MockTypeRegistryCache)(nil)

// Test helpers

func setupPayrollTestRouter() (*gin.Engine, *MockCompensationRepository, *MockEmployeeRepository, *MockTypeRegistryCache, *PayrollHandler) {
	gin.SetMode(gin.TestMode)

	compRepo := new(MockCompensationRepository)
	employeeRepo := new(MockEmployeeRepository)
	registry := new(MockTypeRegistryCache)
	service := payrollapp.NewCompensationService(compRepo, employeeRepo, registry, zap.NewNop())
	handler := NewPayrollHandler(service)

	router := gin.New()

	return router, compRepo, employeeRepo, registry, handler
}

func createTestEmployee(organizationID uuid.UUID, name string) *payroll.Employee {
	now := time.Now()
	employee := &payroll.Employee{
		Name:     name,
		Email:    name + "@example.com",
		JoinDate: now.AddDate(-1, 0, 0),
	}
	employee.ID = uuid.New()
	employee.OrganizationID = organizationID
	employee.CreatedAt = now
	employee.UpdatedAt = now
	return employee
}

func createTestEntry(userID uuid.UUID, compensationType string, amount string) payroll.CompensationEntry {
	entry := payroll.CompensationEntry{
		UserID:           userID,
		CompensationType: compensationType,
		Amount:           decimal.RequireFromString(amount),
	}
	entry.ID = uuid.New()
	return entry
}

// Tests

func TestPayrollHandler_SaveCompensations(t *testing.T) {
	t.Run("should save compensations successfully", func(t *testing.T) {
		router, compRepo, employeeRepo, _, handler := setupPayrollTestRouter()
		orgID := uuid.New()
		employee := createTestEmployee(orgID, "alice")

		router.PUT("/payroll/employees/:id/compensations", handler.SaveCompensations)

		employeeRepo.On("FindByIDForOrg", mock.Anything, orgID, employee.ID).Return(employee, nil)
		compRepo.On("FindByUserAndType", mock.Anything, employee.ID, "Base Salary").Return(nil, shared.ErrNotFound)
		compRepo.On("Save", mock.Anything, mock.AnythingOfType("*payroll.CompensationEntry")).Return(nil)

		body, _ := json.Marshal(SaveCompensationsRequest{
			Compensations: []CompensationInputRequest{
				{CompensationType: "Base Salary", Amount: toDecimalPtr(5000)},
			},
		})

		req, _ := http.NewRequest(http.MethodPut, "/payroll/employees/"+employee.ID.String()+"/compensations", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Organization-ID", orgID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.True(t, response["success"].(bool))

		compRepo.AssertExpectations(t)
	})

	t.Run("should return not found for unknown employee", func(t *testing.T) {
		router, _, employeeRepo, _, handler := setupPayrollTestRouter()
		orgID := uuid.New()
		userID := uuid.New()

		router.PUT("/payroll/employees/:id/compensations", handler.SaveCompensations)

		employeeRepo.On("FindByIDForOrg", mock.Anything, orgID, userID).Return(nil, shared.ErrNotFound)

		body, _ := json.Marshal(SaveCompensationsRequest{
			Compensations: []CompensationInputRequest{
				{CompensationType: "Base Salary", Amount: toDecimalPtr(5000)},
			},
		})

		req, _ := http.NewRequest(http.MethodPut, "/payroll/employees/"+userID.String()+"/compensations", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Organization-ID", orgID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("should return error for an empty batch", func(t *testing.T) {
		router, _, _, _, handler := setupPayrollTestRouter()

		router.PUT("/payroll/employees/:id/compensations", handler.SaveCompensations)

		body, _ := json.Marshal(map[string]interface{}{"compensations": []interface{}{}})

		req, _ := http.NewRequest(http.MethodPut, "/payroll/employees/"+uuid.New().String()+"/compensations", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should return error for invalid employee ID", func(t *testing.T) {
		router, _, _, _, handler := setupPayrollTestRouter()

		router.PUT("/payroll/employees/:id/compensations", handler.SaveCompensations)

		body, _ := json.Marshal(SaveCompensationsRequest{
			Compensations: []CompensationInputRequest{
				{CompensationType: "Base Salary", Amount: toDecimalPtr(5000)},
			},
		})

		req, _ := http.NewRequest(http.MethodPut, "/payroll/employees/not-a-uuid/compensations", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPayrollHandler_GetEmployeePayroll(t *testing.T) {
	t.Run("should return zero-filled payroll for registry types", func(t *testing.T) {
		router, compRepo, employeeRepo, registry, handler := setupPayrollTestRouter()
		orgID := uuid.New()
		employee := createTestEmployee(orgID, "alice")

		router.GET("/payroll/employees/:id/compensations", handler.GetEmployeePayroll)

		employeeRepo.On("FindByIDForOrg", mock.Anything, orgID, employee.ID).Return(employee, nil)
		registry.On("Get", mock.Anything, orgID).Return([]string{"Base Salary", "Bonus"}, nil)
		compRepo.On("FindByUser", mock.Anything, employee.ID).Return([]payroll.CompensationEntry{
			createTestEntry(employee.ID, "Base Salary", "5000"),
		}, nil)

		req, _ := http.NewRequest(http.MethodGet, "/payroll/employees/"+employee.ID.String()+"/compensations", nil)
		req.Header.Set("X-Organization-ID", orgID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		data := response["data"].([]interface{})
		assert.Len(t, data, 2)
	})

	t.Run("should return empty payroll when no matrix has been built", func(t *testing.T) {
		router, _, employeeRepo, registry, handler := setupPayrollTestRouter()
		orgID := uuid.New()
		employee := createTestEmployee(orgID, "alice")

		router.GET("/payroll/employees/:id/compensations", handler.GetEmployeePayroll)

		employeeRepo.On("FindByIDForOrg", mock.Anything, orgID, employee.ID).Return(employee, nil)
		registry.On("Get", mock.Anything, orgID).Return(nil, nil)

		req, _ := http.NewRequest(http.MethodGet, "/payroll/employees/"+employee.ID.String()+"/compensations", nil)
		req.Header.Set("X-Organization-ID", orgID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		data := response["data"].([]interface{})
		assert.Len(t, data, 0)
	})
}

func TestPayrollHandler_GetMatrix(t *testing.T) {
	t.Run("should return the compensation matrix page", func(t *testing.T) {
		router, compRepo, employeeRepo, registry, handler := setupPayrollTestRouter()
		orgID := uuid.New()
		employee := createTestEmployee(orgID, "alice")

		router.GET("/payroll/compensations/matrix", handler.GetMatrix)

		compRepo.On("DistinctTypesForOrg", mock.Anything, orgID).Return([]string{"Base Salary"}, nil)
		employeeRepo.On("CountCompensated", mock.Anything, orgID).Return(int64(1), nil)
		employeeRepo.On("FindCompensatedPage", mock.Anything, orgID, 0, 20).Return([]payroll.Employee{*employee}, nil)
		compRepo.On("FindByUsers", mock.Anything, []uuid.UUID{employee.ID}).Return([]payroll.CompensationEntry{
			createTestEntry(employee.ID, "Base Salary", "5000"),
		}, nil)
		registry.On("Set", mock.Anything, orgID, []string{"Base Salary"}).Return(nil)

		req, _ := http.NewRequest(http.MethodGet, "/payroll/compensations/matrix", nil)
		req.Header.Set("X-Organization-ID", orgID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		registry.AssertExpectations(t)
	})

	t.Run("should return empty page for an organization without data", func(t *testing.T) {
		router, compRepo, employeeRepo, registry, handler := setupPayrollTestRouter()
		orgID := uuid.New()

		router.GET("/payroll/compensations/matrix", handler.GetMatrix)

		compRepo.On("DistinctTypesForOrg", mock.Anything, orgID).Return([]string{}, nil)
		employeeRepo.On("CountCompensated", mock.Anything, orgID).Return(int64(0), nil)

		req, _ := http.NewRequest(http.MethodGet, "/payroll/compensations/matrix", nil)
		req.Header.Set("X-Organization-ID", orgID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		registry.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should reject a non-numeric page", func(t *testing.T) {
		router, _, _, _, handler := setupPayrollTestRouter()

		router.GET("/payroll/compensations/matrix", handler.GetMatrix)

		req, _ := http.NewRequest(http.MethodGet, "/payroll/compensations/matrix?page=abc", nil)
		req.Header.Set("X-Organization-ID", uuid.New().String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
