package services

import "github.com/tvu/thesisdesk/internal/app/repositories"

// Services holds all the service instances of the assignment engine.
//
// Services defined in this package:
//   - EligibilityService: resolves which lecturers/topics qualify for duty
//   - MembershipService: fills the fixed role slots of a committee
//   - ScheduleService: maps topics onto the session slot grid
//   - AutoAssignService: bulk-packs the topic pool across committees
//   - ReconcileService: diffs desired vs persisted topic sets
//   - CommitteeService: committee lifecycle around the engine
type Services struct {
	Eligibility *EligibilityService
	Membership  *MembershipService
	Schedule    *ScheduleService
	AutoAssign  *AutoAssignService
	Reconcile   *ReconcileService
	Committee   *CommitteeService
}

// NewServices wires all services onto the repository layer.
func NewServices(repos *repositories.Repositories) *Services {
	schedule := NewScheduleService(repos.CommitteeRepository, repos.TopicRepository, repos.LecturerRepository, repos.AssignmentRepository)
	return &Services{
		Eligibility: NewEligibilityService(repos.LecturerRepository, repos.TopicRepository, repos.CommitteeRepository),
		Membership:  NewMembershipService(repos.CommitteeRepository, repos.LecturerRepository),
		Schedule:    schedule,
		AutoAssign:  NewAutoAssignService(repos.CommitteeRepository, repos.TopicRepository, repos.LecturerRepository, repos.AssignmentRepository),
		Reconcile:   NewReconcileService(schedule, repos.CommitteeRepository),
		Committee:   NewCommitteeService(repos.CommitteeRepository),
	}
}
