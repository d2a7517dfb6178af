package postgres

import (
	"strings"

	"marketplace-api/internal/models"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const (
	usersTable        = "users"
	jobsTable         = "services"
	applicationsTable = "applications"
	messagesTable     = "messages"
	ratingsTable      = "ratings"
)

// Column lists match the db tags of the models so rows can be collected by name.
var (
	userColumns = []string{
		"id", "username", "password_hash", "user_type", "display_name", "email", "phone",
		"profile_data", "created_at", "updated_at",
	}
	jobColumns = []string{
		"id", "requester_id", "provider_id", "title", "description", "location", "price",
		"material_type", "start_date", "end_date", "status", "payment_status", "rating_required",
		"requester_rating_done", "provider_rating_done", "both_ratings_done", "completed_at",
		"created_at", "updated_at",
	}
	applicationColumns = []string{"id", "service_id", "provider_id", "status", "created_at", "updated_at"}
	messageColumns     = []string{"id", "service_id", "sender_id", "message_type", "content", "attachment", "sent_at"}
	ratingColumns      = []string{
		"id", "service_id", "from_user_id", "to_user_id", "from_role", "to_role", "score",
		"punctuality", "quality", "compliance", "comment", "is_latest", "created_at",
	}
)

func pg() *entsql.DialectBuilder { return entsql.Dialect(dialect.Postgres) }

// selectFrom starts a postgres SELECT of columns from table.
func selectFrom(table string, columns []string) *entsql.Selector {
	return pg().Select(columns...).From(entsql.Table(table))
}

// jobFilterPredicates converts a JobFilter into WHERE predicates.
func jobFilterPredicates(f models.JobFilter) []*entsql.Predicate {
	var preds []*entsql.Predicate
	if f.Status != nil {
		preds = append(preds, entsql.EQ("status", string(*f.Status)))
	}
	if f.MaterialType != "" {
		preds = append(preds, entsql.EqualFold("material_type", f.MaterialType))
	}
	if f.RequesterID != nil {
		preds = append(preds, entsql.EQ("requester_id", *f.RequesterID))
	}
	if f.ProviderID != nil {
		preds = append(preds, entsql.EQ("provider_id", *f.ProviderID))
	}
	return preds
}

// buildJobListQuery returns the page query and the matching count query.
func buildJobListQuery(f models.JobFilter) (string, []any, string, []any) {
	preds := jobFilterPredicates(f)

	page := selectFrom(jobsTable, jobColumns)
	count := pg().Select(entsql.Count("*")).From(entsql.Table(jobsTable))
	if len(preds) > 0 {
		page.Where(entsql.And(preds...))
		count.Where(entsql.And(preds...))
	}
	page.OrderBy(entsql.Desc("created_at"), entsql.Desc("id")).Limit(f.Limit).Offset(f.Offset)

	pageSQL, pageArgs := page.Query()
	countSQL, countArgs := count.Query()
	return pageSQL, pageArgs, countSQL, countArgs
}

// buildPendingEvaluationQuery selects completed jobs where role's side has not rated.
func buildPendingEvaluationQuery(userID int64, role models.Role) (string, []any) {
	owner, flag := "requester_id", "requester_rating_done"
	if role == models.RoleProvider {
		owner, flag = "provider_id", "provider_rating_done"
	}
	q := selectFrom(jobsTable, jobColumns).
		Where(entsql.And(
			entsql.EQ("status", string(models.JobStatusCompleted)),
			entsql.EQ(owner, userID),
			entsql.EQ(flag, false),
		)).
		OrderBy(entsql.Desc("completed_at"))
	return q.Query()
}

// buildJobLockQuery selects one job row FOR UPDATE.
func buildJobLockQuery(id int64) (string, []any) {
	return selectFrom(jobsTable, jobColumns).
		Where(entsql.EQ("id", id)).
		ForUpdate().
		Query()
}

func eqID(id int64) *entsql.Predicate { return entsql.EQ("id", id) }

// columnList renders columns for RETURNING clauses.
func columnList(columns []string) string {
	return strings.Join(columns, ", ")
}
