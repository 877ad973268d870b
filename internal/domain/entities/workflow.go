package entities

// WorkflowStep is one stage of an onboarding workflow
type WorkflowStep string

const (
	StepEmailVerification   WorkflowStep = "email_verification"
	StepDocumentUpload      WorkflowStep = "document_upload"
	StepLicenseUpload       WorkflowStep = "license_upload"
	StepAgencyVerification  WorkflowStep = "agency_verification"
	StepCompanyVerification WorkflowStep = "company_verification"
	StepPortfolioReview     WorkflowStep = "portfolio_review"
	StepAdminReview         WorkflowStep = "admin_review"
	StepInvitationOnly      WorkflowStep = "invitation_only"
)

// Workflow describes what an account of a given role must do before it can use the platform
type Workflow struct {
	Role              Role           `json:"user_type"`
	Steps             []WorkflowStep `json:"steps"`
	RemainingSteps    []WorkflowStep `json:"remaining_steps"`
	RequiresApproval  bool           `json:"requires_approval"`
	RequiresDocuments bool           `json:"requires_documents"`
	AutoApprove       bool           `json:"auto_approve"`
	ApprovalMessage   string         `json:"approval_message"`
}

type workflowTemplate struct {
	steps     []WorkflowStep
	documents bool
	message   string
}

var workflowTemplates = map[Role]workflowTemplate{
	RoleBuyer: {
		steps:   []WorkflowStep{StepEmailVerification},
		message: "Account ready to use!",
	},
	RoleSeller: {
		steps:     []WorkflowStep{StepEmailVerification, StepDocumentUpload, StepAdminReview},
		documents: true,
		message:   "Account approved! You can now list properties.",
	},
	RoleAgent: {
		steps:     []WorkflowStep{StepEmailVerification, StepLicenseUpload, StepAgencyVerification, StepAdminReview},
		documents: true,
		message:   "Agent account approved! You can now manage client properties.",
	},
	RoleDeveloper: {
		steps:     []WorkflowStep{StepEmailVerification, StepCompanyVerification, StepPortfolioReview, StepAdminReview},
		documents: true,
		message:   "Developer account approved! You can now create projects.",
	},
	RoleAdmin: {
		steps:   []WorkflowStep{StepInvitationOnly},
		message: "Admin account activated.",
	},
}

// WorkflowFor returns the workflow template of a role. Unknown roles get the buyer workflow.
func WorkflowFor(role Role) Workflow {
	tpl, ok := workflowTemplates[role]
	if !ok {
		role = RoleBuyer
		tpl = workflowTemplates[RoleBuyer]
	}
	steps := append([]WorkflowStep(nil), tpl.steps...)
	return Workflow{
		Role:              role,
		Steps:             steps,
		RemainingSteps:    append([]WorkflowStep(nil), steps...),
		RequiresApproval:  role.RequiresApproval(),
		RequiresDocuments: tpl.documents,
		AutoApprove:       role.IsInstantAccess(),
		ApprovalMessage:   tpl.message,
	}
}

// WorkflowForAccount returns the workflow with steps the account has already completed removed.
// documentsUploaded reflects the account's current role profile.
func WorkflowForAccount(a *Account, documentsUploaded bool) Workflow {
	wf := WorkflowFor(a.Role)
	if a.Status == AccountStatusApproved {
		wf.RemainingSteps = []WorkflowStep{}
		return wf
	}

	remaining := make([]WorkflowStep, 0, len(wf.Steps))
	for _, step := range wf.Steps {
		switch step {
		case StepEmailVerification:
			if a.IsEmailVerified {
				continue
			}
		case StepDocumentUpload, StepLicenseUpload, StepCompanyVerification:
			if documentsUploaded {
				continue
			}
		}
		remaining = append(remaining, step)
	}
	wf.RemainingSteps = remaining
	return wf
}
