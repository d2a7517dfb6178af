package postgres

import (
	"testing"

	"marketplace-api/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildJobListQuery(t *testing.T) {
	open := models.JobStatusOpen
	pageSQL, pageArgs, countSQL, countArgs := buildJobListQuery(models.JobFilter{
		Status:       &open,
		MaterialType: "wood",
		Limit:        20,
		Offset:       10,
	})

	assert.Contains(t, pageSQL, `FROM "services"`)
	assert.Contains(t, pageSQL, `"status" = $1`)
	assert.Contains(t, pageSQL, `ORDER BY "created_at" DESC, "id" DESC`)
	assert.Contains(t, pageSQL, "LIMIT 20")
	assert.Contains(t, pageSQL, "OFFSET 10")
	assert.Len(t, pageArgs, 2)
	assert.Equal(t, "open", pageArgs[0])

	assert.Contains(t, countSQL, "COUNT(*)")
	assert.NotContains(t, countSQL, "LIMIT")
	assert.Equal(t, pageArgs, countArgs)
}

func TestBuildJobListQuery_NoFilters(t *testing.T) {
	pageSQL, pageArgs, countSQL, countArgs := buildJobListQuery(models.JobFilter{Limit: 5})

	assert.NotContains(t, pageSQL, "WHERE")
	assert.NotContains(t, countSQL, "WHERE")
	assert.Empty(t, pageArgs)
	assert.Empty(t, countArgs)
}

func TestBuildPendingEvaluationQuery(t *testing.T) {
	query, args := buildPendingEvaluationQuery(7, models.RoleProvider)
	assert.Contains(t, query, `"provider_id" = $2`)
	assert.Contains(t, query, `NOT "provider_rating_done"`)
	assert.Equal(t, []any{"completed", int64(7)}, args)

	query, _ = buildPendingEvaluationQuery(7, models.RoleRequester)
	assert.Contains(t, query, `"requester_id" = $2`)
	assert.Contains(t, query, `NOT "requester_rating_done"`)
}

func TestBuildJobLockQuery(t *testing.T) {
	query, args := buildJobLockQuery(42)
	assert.Contains(t, query, `"id" = $1`)
	assert.Contains(t, query, "FOR UPDATE")
	assert.Equal(t, []any{int64(42)}, args)
}
