package payroll

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestEmployee(t *testing.T) *Employee {
	t.Helper()
	hireDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	emp, err := NewEmployee(uuid.New(), "EMP-001", "Jamie Fischer", "jamie@example.com", "Fabricator", decimal.NewFromInt(4200), hireDate)
	require.NoError(t, err)
	return emp
}

func TestNewEmployee(t *testing.T) {
	tests := []struct {
		name    string
		orgID   uuid.UUID
		number  string
		empName string
		email   string
		salary  decimal.Decimal
		wantErr bool
		errCode string
	}{
		{
			name:    "valid employee",
			orgID:   uuid.New(),
			number:  "EMP-001",
			empName: "Jamie Fischer",
			email:   "jamie@example.com",
			salary:  decimal.NewFromInt(4200),
			wantErr: false,
		},
		{
			name:    "empty organization",
			orgID:   uuid.Nil,
			number:  "EMP-001",
			empName: "Jamie Fischer",
			salary:  decimal.NewFromInt(4200),
			wantErr: true,
			errCode: "INVALID_ORGANIZATION",
		},
		{
			name:    "empty number",
			orgID:   uuid.New(),
			number:  "",
			empName: "Jamie Fischer",
			salary:  decimal.NewFromInt(4200),
			wantErr: true,
			errCode: "INVALID_NUMBER",
		},
		{
			name:    "empty name",
			orgID:   uuid.New(),
			number:  "EMP-001",
			empName: "",
			salary:  decimal.NewFromInt(4200),
			wantErr: true,
			errCode: "INVALID_NAME",
		},
		{
			name:    "invalid email",
			orgID:   uuid.New(),
			number:  "EMP-001",
			empName: "Jamie Fischer",
			email:   "not-an-email",
			salary:  decimal.NewFromInt(4200),
			wantErr: true,
			errCode: "INVALID_EMAIL",
		},
		{
			name:    "empty email is allowed",
			orgID:   uuid.New(),
			number:  "EMP-001",
			empName: "Jamie Fischer",
			email:   "",
			salary:  decimal.NewFromInt(4200),
			wantErr: false,
		},
		{
			name:    "negative salary",
			orgID:   uuid.New(),
			number:  "EMP-001",
			empName: "Jamie Fischer",
			salary:  decimal.NewFromInt(-100),
			wantErr: true,
			errCode: "INVALID_SALARY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emp, err := NewEmployee(tt.orgID, tt.number, tt.empName, tt.email, "Fabricator", tt.salary, time.Now())

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errCode)
				return
			}

			require.NoError(t, err)
			assert.True(t, emp.Active)
			assert.Nil(t, emp.TerminatedAt)
			assert.Len(t, emp.GetDomainEvents(), 1)
		})
	}

	t.Run("email is normalized", func(t *testing.T) {
		emp, err := NewEmployee(uuid.New(), "EMP-002", "Jamie Fischer", "  Jamie@Example.COM ", "Fabricator", decimal.NewFromInt(4200), time.Now())
		require.NoError(t, err)
		assert.Equal(t, "jamie@example.com", emp.Email)
	})
}

func TestEmployeeChangeSalary(t *testing.T) {
	t.Run("updates the base salary", func(t *testing.T) {
		emp := createTestEmployee(t)

		require.NoError(t, emp.ChangeSalary(decimal.NewFromInt(4500)))
		assert.Equal(t, "4500", emp.BaseSalary.String())
	})

	t.Run("rejects negative salary", func(t *testing.T) {
		emp := createTestEmployee(t)
		assert.ErrorContains(t, emp.ChangeSalary(decimal.NewFromInt(-1)), "INVALID_SALARY")
	})

	t.Run("rejects change after termination", func(t *testing.T) {
		emp := createTestEmployee(t)
		require.NoError(t, emp.Terminate(time.Now()))

		assert.ErrorContains(t, emp.ChangeSalary(decimal.NewFromInt(5000)), "INVALID_STATE")
	})
}

func TestEmployeeTerminate(t *testing.T) {
	t.Run("terminates an active employee", func(t *testing.T) {
		emp := createTestEmployee(t)
		end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

		require.NoError(t, emp.Terminate(end))

		assert.False(t, emp.Active)
		require.NotNil(t, emp.TerminatedAt)
		assert.Equal(t, end, *emp.TerminatedAt)
	})

	t.Run("rejects double termination", func(t *testing.T) {
		emp := createTestEmployee(t)
		require.NoError(t, emp.Terminate(time.Now()))
		assert.ErrorContains(t, emp.Terminate(time.Now()), "INVALID_STATE")
	})

	t.Run("rejects termination before hire date", func(t *testing.T) {
		emp := createTestEmployee(t)
		before := emp.HireDate.AddDate(0, -1, 0)
		assert.ErrorContains(t, emp.Terminate(before), "INVALID_DATE")
	})
}

func TestEmployeeIsEmployedIn(t *testing.T) {
	emp := createTestEmployee(t) // hired 2024-03-01

	t.Run("before hire", func(t *testing.T) {
		assert.False(t, emp.IsEmployedIn(NewPeriod(2024, time.January)))
	})

	t.Run("hire month", func(t *testing.T) {
		assert.True(t, emp.IsEmployedIn(NewPeriod(2024, time.March)))
	})

	t.Run("while active", func(t *testing.T) {
		assert.True(t, emp.IsEmployedIn(NewPeriod(2026, time.May)))
	})

	t.Run("after termination", func(t *testing.T) {
		terminated := createTestEmployee(t)
		require.NoError(t, terminated.Terminate(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)))

		assert.True(t, terminated.IsEmployedIn(NewPeriod(2025, time.June)))
		assert.False(t, terminated.IsEmployedIn(NewPeriod(2025, time.July)))
	})
}
