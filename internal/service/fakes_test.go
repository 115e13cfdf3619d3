package service

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushq/projectdesk-api/internal/models"
	"github.com/campushq/projectdesk-api/internal/notify"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type capturedIntents struct {
	intents []notify.Intent
}

func (c *capturedIntents) Dispatch(_ context.Context, intent notify.Intent) {
	c.intents = append(c.intents, intent)
}

func (c *capturedIntents) byKind(kind string) []notify.Intent {
	var matched []notify.Intent
	for _, intent := range c.intents {
		if intent.Kind == kind {
			matched = append(matched, intent)
		}
	}
	return matched
}

type fakeUserRepo struct {
	users  map[uint]models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]models.User{}, nextID: 1}
}

func (f *fakeUserRepo) add(user models.User) models.User {
	if user.ID == 0 {
		user.ID = f.nextID
	}
	if user.ID >= f.nextID {
		f.nextID = user.ID + 1
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uint) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	*user = f.add(*user)
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var count int64
	for _, user := range f.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

func (f *fakeUserRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

type enrollmentKey struct {
	projectID uint
	userID    uint
}

type fakeProjectRepo struct {
	projects    map[uint]models.Project
	enrollments map[enrollmentKey]models.ProjectEnrollment
	nextID      uint
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		projects:    map[uint]models.Project{},
		enrollments: map[enrollmentKey]models.ProjectEnrollment{},
		nextID:      1,
	}
}

func (f *fakeProjectRepo) Create(_ context.Context, project *models.Project) error {
	project.ID = f.nextID
	f.nextID++
	project.CreatedAt = time.Now()
	f.projects[project.ID] = *project
	return nil
}

func (f *fakeProjectRepo) GetByID(_ context.Context, id uint) (models.Project, error) {
	project, ok := f.projects[id]
	if !ok {
		return models.Project{}, gorm.ErrRecordNotFound
	}
	return project, nil
}

func (f *fakeProjectRepo) List(_ context.Context, _, _ int) ([]models.Project, error) {
	projects := make([]models.Project, 0, len(f.projects))
	for _, project := range f.projects {
		projects = append(projects, project)
	}
	return projects, nil
}

func (f *fakeProjectRepo) Update(_ context.Context, project *models.Project) error {
	f.projects[project.ID] = *project
	return nil
}

func (f *fakeProjectRepo) CreateEnrollment(_ context.Context, enrollment *models.ProjectEnrollment) error {
	key := enrollmentKey{enrollment.ProjectID, enrollment.UserID}
	enrollment.EnrolledAt = time.Now()
	f.enrollments[key] = *enrollment
	return nil
}

func (f *fakeProjectRepo) GetEnrollment(_ context.Context, projectID, userID uint) (models.ProjectEnrollment, error) {
	enrollment, ok := f.enrollments[enrollmentKey{projectID, userID}]
	if !ok {
		return models.ProjectEnrollment{}, gorm.ErrRecordNotFound
	}
	return enrollment, nil
}

type fakeTeamRepo struct {
	teams       map[uint]models.Team
	members     map[uint][]uint
	invitations map[uint]models.TeamInvitation
	users       *fakeUserRepo
	nextTeam    uint
	nextInvite  uint
}

func newFakeTeamRepo(users *fakeUserRepo) *fakeTeamRepo {
	return &fakeTeamRepo{
		teams:       map[uint]models.Team{},
		members:     map[uint][]uint{},
		invitations: map[uint]models.TeamInvitation{},
		users:       users,
		nextTeam:    1,
		nextInvite:  1,
	}
}

func (f *fakeTeamRepo) Create(_ context.Context, team *models.Team) error {
	team.ID = f.nextTeam
	f.nextTeam++
	team.CreatedAt = time.Now()
	f.teams[team.ID] = *team
	f.members[team.ID] = []uint{team.LeaderID}
	return nil
}

func (f *fakeTeamRepo) GetByID(_ context.Context, id uint) (models.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return models.Team{}, gorm.ErrRecordNotFound
	}
	return team, nil
}

func (f *fakeTeamRepo) ListByProject(_ context.Context, projectID uint) ([]models.Team, error) {
	var teams []models.Team
	for _, team := range f.teams {
		if team.ProjectID == projectID {
			teams = append(teams, team)
		}
	}
	return teams, nil
}

func (f *fakeTeamRepo) Update(_ context.Context, team *models.Team) error {
	f.teams[team.ID] = *team
	return nil
}

func (f *fakeTeamRepo) AddMember(_ context.Context, teamID, userID uint) error {
	for _, id := range f.members[teamID] {
		if id == userID {
			return nil
		}
	}
	f.members[teamID] = append(f.members[teamID], userID)
	return nil
}

func (f *fakeTeamRepo) IsMember(_ context.Context, teamID, userID uint) (bool, error) {
	for _, id := range f.members[teamID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTeamRepo) Members(_ context.Context, teamID uint) ([]models.User, error) {
	var roster []models.User
	for _, id := range f.members[teamID] {
		if f.users != nil {
			if user, ok := f.users.users[id]; ok {
				roster = append(roster, user)
				continue
			}
		}
		roster = append(roster, models.User{ID: id})
	}
	return roster, nil
}

func (f *fakeTeamRepo) MembershipInProject(_ context.Context, projectID, userID uint) (bool, error) {
	for teamID, team := range f.teams {
		if team.ProjectID != projectID || team.Status == models.TeamStatusInactive {
			continue
		}
		for _, id := range f.members[teamID] {
			if id == userID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeTeamRepo) CreateInvitation(_ context.Context, invitation *models.TeamInvitation) error {
	invitation.ID = f.nextInvite
	f.nextInvite++
	invitation.InvitedAt = time.Now()
	f.invitations[invitation.ID] = *invitation
	return nil
}

func (f *fakeTeamRepo) GetInvitation(_ context.Context, id uint) (models.TeamInvitation, error) {
	invitation, ok := f.invitations[id]
	if !ok {
		return models.TeamInvitation{}, gorm.ErrRecordNotFound
	}
	return invitation, nil
}

func (f *fakeTeamRepo) PendingInvitationExists(_ context.Context, teamID uint, email string) (bool, error) {
	for _, invitation := range f.invitations {
		if invitation.TeamID == teamID && invitation.InviteeEmail == email && invitation.Status == models.ApprovalStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTeamRepo) ListInvitations(_ context.Context, teamID uint) ([]models.TeamInvitation, error) {
	var invitations []models.TeamInvitation
	for _, invitation := range f.invitations {
		if invitation.TeamID == teamID {
			invitations = append(invitations, invitation)
		}
	}
	return invitations, nil
}

func (f *fakeTeamRepo) UpdateInvitation(_ context.Context, invitation *models.TeamInvitation) error {
	f.invitations[invitation.ID] = *invitation
	return nil
}

func (f *fakeTeamRepo) ReevaluateActivation(_ context.Context, teamID uint) (models.Team, error) {
	team, ok := f.teams[teamID]
	if !ok {
		return models.Team{}, gorm.ErrRecordNotFound
	}

	if team.Status != models.TeamStatusPending {
		return team, nil
	}

	for _, invitation := range f.invitations {
		if invitation.TeamID == teamID && invitation.Status != models.ApprovalStatusApproved {
			return team, nil
		}
	}

	if len(f.members[teamID]) < 2 {
		return team, nil
	}

	team.Status = models.TeamStatusActive
	f.teams[teamID] = team
	return team, nil
}

type approvalKey struct {
	submissionID uint
	userID       uint
}

type fakeSubmissionRepo struct {
	submissions map[uint]models.Submission
	approvals   map[approvalKey]models.SubmissionApproval
	nextID      uint
	nextVote    uint
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{
		submissions: map[uint]models.Submission{},
		approvals:   map[approvalKey]models.SubmissionApproval{},
		nextID:      1,
		nextVote:    1,
	}
}

func (f *fakeSubmissionRepo) CreateWithApprovals(_ context.Context, submission *models.Submission, voterIDs []uint) error {
	submission.ID = f.nextID
	f.nextID++
	submission.SubmittedAt = time.Now()
	submission.TeamApprovalStatus = models.ApprovalStatusPending

	if len(voterIDs) == 0 {
		approvedAt := submission.SubmittedAt
		submission.TeamApprovalStatus = models.ApprovalStatusApproved
		submission.ApprovedAt = &approvedAt
	}

	f.submissions[submission.ID] = *submission

	for _, voterID := range voterIDs {
		approval := models.SubmissionApproval{
			ID:           f.nextVote,
			SubmissionID: submission.ID,
			UserID:       voterID,
			Status:       models.ApprovalStatusPending,
		}
		f.nextVote++
		f.approvals[approvalKey{submission.ID, voterID}] = approval
	}

	return nil
}

func (f *fakeSubmissionRepo) GetByID(_ context.Context, id uint) (models.Submission, error) {
	submission, ok := f.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (f *fakeSubmissionRepo) ListByTeam(_ context.Context, teamID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	for _, submission := range f.submissions {
		if submission.TeamID == teamID {
			submissions = append(submissions, submission)
		}
	}
	return submissions, nil
}

func (f *fakeSubmissionRepo) LatestByTeamAndStage(_ context.Context, teamID uint, stage string) (models.Submission, error) {
	var latest models.Submission
	found := false
	for _, submission := range f.submissions {
		if submission.TeamID != teamID || submission.Stage != stage {
			continue
		}
		if !found || submission.SubmittedAt.After(latest.SubmittedAt) {
			latest = submission
			found = true
		}
	}
	if !found {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (f *fakeSubmissionRepo) EarliestFinalSubmissionTime(_ context.Context, teamID uint) (*time.Time, error) {
	var earliest *time.Time
	for _, submission := range f.submissions {
		if submission.TeamID != teamID || submission.Stage != models.StageFinalSubmission {
			continue
		}
		at := submission.SubmittedAt
		if earliest == nil || at.Before(*earliest) {
			earliest = &at
		}
	}
	return earliest, nil
}

func (f *fakeSubmissionRepo) GetApproval(_ context.Context, submissionID, userID uint) (models.SubmissionApproval, error) {
	approval, ok := f.approvals[approvalKey{submissionID, userID}]
	if !ok {
		return models.SubmissionApproval{}, gorm.ErrRecordNotFound
	}
	return approval, nil
}

func (f *fakeSubmissionRepo) ListApprovals(_ context.Context, submissionID uint) ([]models.SubmissionApproval, error) {
	var approvals []models.SubmissionApproval
	for _, approval := range f.approvals {
		if approval.SubmissionID == submissionID {
			approvals = append(approvals, approval)
		}
	}
	return approvals, nil
}

func (f *fakeSubmissionRepo) RecordVote(ctx context.Context, submissionID, userID uint, status string, at time.Time) (models.Submission, error) {
	submission, ok := f.submissions[submissionID]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}

	key := approvalKey{submissionID, userID}
	approval, ok := f.approvals[key]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}

	approval.Status = status
	approval.RespondedAt = &at
	f.approvals[key] = approval

	approvals, _ := f.ListApprovals(ctx, submissionID)
	if models.QuorumApproved(approvals) {
		submission.TeamApprovalStatus = models.ApprovalStatusApproved
		submission.ApprovedAt = &at
	} else {
		submission.TeamApprovalStatus = models.ApprovalStatusPending
		submission.ApprovedAt = nil
	}
	f.submissions[submissionID] = submission

	return submission, nil
}

func (f *fakeSubmissionRepo) ListTeamApprovedForProject(_ context.Context, _ uint) ([]models.Submission, error) {
	var approved []models.Submission
	for _, submission := range f.submissions {
		if submission.TeamApprovalStatus == models.ApprovalStatusApproved {
			approved = append(approved, submission)
		}
	}
	return approved, nil
}

type fakeFeedbackRepo struct {
	rows        map[uint]models.SubmissionFeedback
	submissions *fakeSubmissionRepo
	nextID      uint
}

func newFakeFeedbackRepo(submissions *fakeSubmissionRepo) *fakeFeedbackRepo {
	return &fakeFeedbackRepo{rows: map[uint]models.SubmissionFeedback{}, submissions: submissions, nextID: 1}
}

func (f *fakeFeedbackRepo) Create(_ context.Context, feedback *models.SubmissionFeedback) error {
	feedback.ID = f.nextID
	f.nextID++
	feedback.CreatedAt = time.Now()
	feedback.UpdatedAt = feedback.CreatedAt
	f.rows[feedback.ID] = *feedback
	return nil
}

func (f *fakeFeedbackRepo) Update(_ context.Context, feedback *models.SubmissionFeedback) error {
	feedback.UpdatedAt = time.Now()
	f.rows[feedback.ID] = *feedback
	return nil
}

func (f *fakeFeedbackRepo) ListBySubmission(_ context.Context, submissionID uint) ([]models.SubmissionFeedback, error) {
	var rows []models.SubmissionFeedback
	for _, row := range f.rows {
		if row.SubmissionID == submissionID {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (f *fakeFeedbackRepo) GetSupervisorRow(_ context.Context, submissionID uint) (models.SubmissionFeedback, error) {
	for _, row := range f.rows {
		if row.SubmissionID == submissionID && row.SupervisorID != nil {
			return row, nil
		}
	}
	return models.SubmissionFeedback{}, gorm.ErrRecordNotFound
}

func (f *fakeFeedbackRepo) GetAdminRow(_ context.Context, submissionID uint) (models.SubmissionFeedback, error) {
	for _, row := range f.rows {
		if row.SubmissionID == submissionID && row.AdminID != nil {
			return row, nil
		}
	}
	return models.SubmissionFeedback{}, gorm.ErrRecordNotFound
}

func (f *fakeFeedbackRepo) SupervisorScoresByTeam(ctx context.Context, teamID uint) ([]float64, error) {
	var scores []float64
	for _, row := range f.rows {
		if row.SupervisorScore == nil || f.submissions == nil {
			continue
		}
		submission, err := f.submissions.GetByID(ctx, row.SubmissionID)
		if err != nil || submission.TeamID != teamID {
			continue
		}
		scores = append(scores, *row.SupervisorScore)
	}
	return scores, nil
}

func (f *fakeFeedbackRepo) LatestAdminScoreByTeam(ctx context.Context, teamID uint) (*float64, error) {
	var latest *models.SubmissionFeedback
	for id := range f.rows {
		row := f.rows[id]
		if row.AdminScore == nil || f.submissions == nil {
			continue
		}
		submission, err := f.submissions.GetByID(ctx, row.SubmissionID)
		if err != nil || submission.TeamID != teamID {
			continue
		}
		if latest == nil || row.CreatedAt.After(latest.CreatedAt) || (row.CreatedAt.Equal(latest.CreatedAt) && row.ID > latest.ID) {
			copied := row
			latest = &copied
		}
	}
	if latest == nil {
		return nil, nil
	}
	return latest.AdminScore, nil
}

type fakeOTPRepo struct {
	tokens map[uint]models.OTPToken
	nextID uint
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{tokens: map[uint]models.OTPToken{}, nextID: 1}
}

func (f *fakeOTPRepo) PurgeUnused(_ context.Context, email string) error {
	for id, token := range f.tokens {
		if token.Email == email && !token.IsUsed {
			delete(f.tokens, id)
		}
	}
	return nil
}

func (f *fakeOTPRepo) Create(_ context.Context, token *models.OTPToken) error {
	token.ID = f.nextID
	f.nextID++
	token.CreatedAt = time.Now()
	f.tokens[token.ID] = *token
	return nil
}

func (f *fakeOTPRepo) FindUsable(_ context.Context, email, code string, now time.Time) (models.OTPToken, error) {
	for _, token := range f.tokens {
		if token.Email == email && token.Code == code && token.Usable(now) {
			return token, nil
		}
	}
	return models.OTPToken{}, gorm.ErrRecordNotFound
}

func (f *fakeOTPRepo) MarkUsed(_ context.Context, token *models.OTPToken) error {
	token.IsUsed = true
	f.tokens[token.ID] = *token
	return nil
}

type fakeSupervisorRequestRepo struct {
	requests map[uint]models.SupervisorRequest
	nextID   uint
}

func newFakeSupervisorRequestRepo() *fakeSupervisorRequestRepo {
	return &fakeSupervisorRequestRepo{requests: map[uint]models.SupervisorRequest{}, nextID: 1}
}

func (f *fakeSupervisorRequestRepo) Create(_ context.Context, request *models.SupervisorRequest) error {
	request.ID = f.nextID
	f.nextID++
	request.RequestDate = time.Now()
	f.requests[request.ID] = *request
	return nil
}

func (f *fakeSupervisorRequestRepo) GetByID(_ context.Context, id uint) (models.SupervisorRequest, error) {
	request, ok := f.requests[id]
	if !ok {
		return models.SupervisorRequest{}, gorm.ErrRecordNotFound
	}
	return request, nil
}

func (f *fakeSupervisorRequestRepo) ListByStatus(_ context.Context, status string) ([]models.SupervisorRequest, error) {
	var requests []models.SupervisorRequest
	for _, request := range f.requests {
		if status == "" || request.Status == status {
			requests = append(requests, request)
		}
	}
	return requests, nil
}

func (f *fakeSupervisorRequestRepo) Update(_ context.Context, request *models.SupervisorRequest) error {
	f.requests[request.ID] = *request
	return nil
}

func (f *fakeSupervisorRequestRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	var count int64
	for _, request := range f.requests {
		if request.Status == status {
			count++
		}
	}
	return count, nil
}

type fakeAdminLogRepo struct {
	entries []models.AdminLog
}

func (f *fakeAdminLogRepo) Create(_ context.Context, entry *models.AdminLog) error {
	entry.ID = uint(len(f.entries) + 1)
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAdminLogRepo) List(_ context.Context, _, _ int) ([]models.AdminLog, error) {
	return append([]models.AdminLog(nil), f.entries...), nil
}

type fakeChatRepo struct {
	sessions map[uint]models.ChatSession
	nextID   uint
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{sessions: map[uint]models.ChatSession{}, nextID: 1}
}

func (f *fakeChatRepo) Create(_ context.Context, session *models.ChatSession) error {
	session.ID = f.nextID
	f.nextID++
	session.CreatedAt = time.Now()
	f.sessions[session.ID] = *session
	return nil
}

func (f *fakeChatRepo) ListByUser(_ context.Context, userID uint, _ int) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	for _, session := range f.sessions {
		if session.UserID == userID {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

func (f *fakeChatRepo) Get(_ context.Context, id, userID uint) (models.ChatSession, error) {
	session, ok := f.sessions[id]
	if !ok || session.UserID != userID {
		return models.ChatSession{}, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (f *fakeChatRepo) Delete(_ context.Context, id uint) error {
	delete(f.sessions, id)
	return nil
}
