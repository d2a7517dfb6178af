package services

import (
	"fmt"

	"marketplace-api/internal/models"
)

// Each predicate answers one capability question and runs before any
// business rule of the operation it guards.

func requireRole(actor models.Actor, role models.Role) error {
	if actor.Role != role {
		return fmt.Errorf("%w: requires role %s", ErrForbidden, role)
	}
	return nil
}

// requireJobRequester: caller posted the job.
func requireJobRequester(actor models.Actor, job *models.Job) error {
	if actor.Role != models.RoleRequester || job.RequesterID != actor.UserID {
		return fmt.Errorf("%w: only the job's requester may do this", ErrForbidden)
	}
	return nil
}

// requireAssignedProvider: caller is the provider assigned to the job.
func requireAssignedProvider(actor models.Actor, job *models.Job) error {
	if actor.Role != models.RoleProvider || !job.IsProvider(actor.UserID) {
		return fmt.Errorf("%w: only the assigned provider may do this", ErrForbidden)
	}
	return nil
}

// requireApplicant: caller is a provider other than the job's requester.
func requireApplicant(actor models.Actor, job *models.Job) error {
	if actor.UserID == job.RequesterID {
		return fmt.Errorf("%w: user %d posted job %d", ErrSelfAssignment, actor.UserID, job.ID)
	}
	return requireRole(actor, models.RoleProvider)
}

// requireParticipant: caller is the requester or the assigned provider. The
// returned role is the side the caller plays on this job.
func requireParticipant(actor models.Actor, job *models.Job) (models.Role, error) {
	role, ok := job.RoleOf(actor.UserID)
	if !ok || role != actor.Role {
		return "", fmt.Errorf("%w: not a participant of job %d", ErrForbidden, job.ID)
	}
	return role, nil
}

// requireThreadMember: caller is a participant, or a provider whose
// application to the job is still pending. hasPending is only consulted for
// the latter case.
func requireThreadMember(actor models.Actor, job *models.Job, hasPending func() (bool, error)) error {
	if _, err := requireParticipant(actor, job); err == nil {
		return nil
	}
	denied := fmt.Errorf("%w: not a member of the thread of job %d", ErrForbidden, job.ID)
	if actor.Role != models.RoleProvider || actor.UserID == job.RequesterID {
		return denied
	}
	ok, err := hasPending()
	if err != nil {
		return err
	}
	if !ok {
		return denied
	}
	return nil
}
