package models

import "time"

// Submission stages in canonical order.
const (
	StageSynopsis        = "synopsis"
	StageProgress1       = "progress_1"
	StageProgress2       = "progress_2"
	StageFinalSubmission = "final_submission"
)

// Approval status values shared by invitations, member votes and the
// submission-level quorum field.
const (
	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)

// Stages returns the canonical ordered stage set.
func Stages() []string {
	return []string{StageSynopsis, StageProgress1, StageProgress2, StageFinalSubmission}
}

// ValidStage reports whether the given stage belongs to the canonical set.
func ValidStage(stage string) bool {
	for _, s := range Stages() {
		if s == stage {
			return true
		}
	}
	return false
}

// Submission is one staged document upload by a team leader. Re-uploads for a
// stage insert new rows; history is additive and the latest submitted row is
// authoritative for scoring.
type Submission struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	TeamID             uint       `gorm:"not null;index" json:"team_id"`
	Stage              string     `gorm:"size:32;not null;index" json:"stage"`
	FileURL            string     `gorm:"size:512;not null" json:"file_url"`
	FileName           string     `gorm:"size:255;not null" json:"file_name"`
	UploadedBy         uint       `gorm:"not null" json:"uploaded_by"`
	TeamApprovalStatus string     `gorm:"size:32;not null;default:pending" json:"team_approval_status"`
	SubmittedAt        time.Time  `gorm:"autoCreateTime;index" json:"submitted_at"`
	ApprovedAt         *time.Time `json:"approved_at"`
}

// IsTeamApproved reports whether the peer quorum has been reached.
func (s Submission) IsTeamApproved() bool {
	return s.TeamApprovalStatus == ApprovalStatusApproved
}

// QuorumApproved reports whether every vote is APPROVED. A rejected vote only
// withholds quorum; it never flips the submission itself to rejected.
func QuorumApproved(approvals []SubmissionApproval) bool {
	for _, approval := range approvals {
		if approval.Status != ApprovalStatusApproved {
			return false
		}
	}
	return true
}

// SubmissionApproval records one member's vote on a submission. A row exists
// for every roster member except the uploader, created at upload time.
type SubmissionApproval struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	SubmissionID uint       `gorm:"not null;uniqueIndex:idx_submission_voter" json:"submission_id"`
	UserID       uint       `gorm:"not null;uniqueIndex:idx_submission_voter" json:"user_id"`
	Status       string     `gorm:"size:32;not null;default:pending" json:"status"`
	RespondedAt  *time.Time `json:"responded_at"`
}
