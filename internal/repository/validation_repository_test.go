package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esprim/pfe-catalog-api/internal/models"
)

func TestValidationAppendDefaults(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewValidationRepository(db)

	mock.ExpectExec("INSERT INTO validation_history").WillReturnResult(sqlmock.NewResult(1, 1))

	checklist := models.Checklist{GraphicCharter: true, Sections: true, Quality: true, ContentRelevance: true, Appropriate: true}
	entry := &models.ValidationHistory{
		ReportID:    "r1",
		ValidatorID: "t1",
		Action:      models.ActionValidated,
		Checklist:   &checklist,
	}
	err := repo.Append(context.Background(), entry)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidationListByReport(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewValidationRepository(db)

	now := time.Now()
	comments := "charte graphique non respectee"
	rows := sqlmock.NewRows([]string{"id", "report_id", "validator_id", "action", "comments", "checklist", "created_at"}).
		AddRow("v1", "r1", "t1", string(models.ActionRejected), comments, nil, now)
	mock.ExpectQuery("SELECT id, report_id, validator_id, action, comments, checklist").
		WithArgs("r1").
		WillReturnRows(rows)

	entries, err := repo.ListByReport(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionRejected, entries[0].Action)
	require.NotNil(t, entries[0].Comments)
	assert.Equal(t, comments, *entries[0].Comments)
	assert.NoError(t, mock.ExpectationsWereMet())
}
