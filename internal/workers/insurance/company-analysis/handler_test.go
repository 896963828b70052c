package companyanalysis

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-workers/internal/catalog"
	"insurance-workers/internal/common/errors"
	"insurance-workers/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{Timeout: time.Second}
}

func createTestHandler(t *testing.T, repo catalog.Repository) *Handler {
	return NewHandler(createTestConfig(), repo, logger.NewTestLogger(t))
}

func createSeedRepository(t *testing.T) catalog.Repository {
	repo, err := catalog.NewSeedRepository()
	require.NoError(t, err)
	return repo
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		company   string
		wantName  string
		wantGrade string
	}{
		{"HDFC ERGO", "HDFC ERGO", GradeExcellent},
		{"  care health ", "Care Health", GradeGood},
		{"Star Health", "Star Health", GradeAverage},
	}

	for _, tt := range tests {
		t.Run(tt.company, func(t *testing.T) {
			output, err := createTestHandler(t, createSeedRepository(t)).Execute(context.Background(), &Input{Company: tt.company})
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, output.Financials.Company)
			assert.Equal(t, tt.wantGrade, output.ClaimSettlementGrade)
			assert.Equal(t, "2023-24", output.Financials.FiscalYear)
		})
	}
}

func TestClaimSettlementGrade(t *testing.T) {
	assert.Equal(t, GradeExcellent, ClaimSettlementGrade(95))
	assert.Equal(t, GradeGood, ClaimSettlementGrade(94.99))
	assert.Equal(t, GradeGood, ClaimSettlementGrade(90))
	assert.Equal(t, GradeAverage, ClaimSettlementGrade(89.9))
}

func TestHandler_Execute_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"company", "claim_settlement_ratio", "incurred_claim_ratio", "solvency_ratio",
		"gross_written_premium", "network_hospitals", "complaints_per_10k_claims", "fiscal_year",
	}).AddRow("ICICI Lombard", 96.8, 78.4, 2.62, "₹8,120 Cr", 10000, 3.9, "2023-24")
	mock.ExpectQuery("SELECT company, claim_settlement_ratio").WithArgs("ICICI Lombard").WillReturnRows(rows)

	output, err := createTestHandler(t, catalog.NewPostgresRepository(db)).Execute(context.Background(), &Input{Company: "ICICI Lombard"})
	require.NoError(t, err)
	assert.Equal(t, GradeExcellent, output.ClaimSettlementGrade)
	assert.Equal(t, 10000, output.Financials.NetworkHospitals)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    *Input
		wantCode errors.ErrorCode
	}{
		{"blank company", &Input{Company: "  "}, errors.ErrCodeInvalidInput},
		{"unknown company", &Input{Company: "Acme Assurance"}, errors.ErrCodeCompanyNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := createTestHandler(t, createSeedRepository(t)).Execute(context.Background(), tt.input)

			var stdErr *errors.StandardError
			require.True(t, stderrors.As(err, &stdErr))
			assert.Equal(t, tt.wantCode, stdErr.Code)
		})
	}
}
