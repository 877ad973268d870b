package notification

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"realestate.backend/internal/domain/entities"
	"realestate.backend/pkg/logger"
)

// Sender queues a rendered message
type Sender interface {
	Send(ctx context.Context, msg Message) bool
}

// NotifierConfig holds what templates need besides the account
type NotifierConfig struct {
	Brand           string
	FrontendURL     string
	VerificationTTL time.Duration
	ResetTTL        time.Duration
}

// Notifier renders account lifecycle emails and queues them
type Notifier struct {
	renderer *Renderer
	sender   Sender
	cfg      NotifierConfig
}

// NewNotifier creates a notifier
func NewNotifier(renderer *Renderer, sender Sender, cfg NotifierConfig) *Notifier {
	if cfg.Brand == "" {
		cfg.Brand = "Real Estate Platform"
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	return &Notifier{renderer: renderer, sender: sender, cfg: cfg}
}

// Welcome greets a new account with its onboarding steps
func (n *Notifier) Welcome(ctx context.Context, a *entities.Account, wf entities.Workflow) {
	steps := make([]string, 0, len(wf.RemainingSteps))
	for _, s := range wf.RemainingSteps {
		steps = append(steps, strings.ReplaceAll(string(s), "_", " "))
	}
	data := n.base(a)
	data.Steps = steps
	if wf.AutoApprove {
		data.Message = "Verify your email and your account is ready to use."
	} else {
		data.Message = "Once your profile and documents are complete, our team will review your account."
	}
	n.dispatch(ctx, TemplateWelcome, a, data)
}

// VerificationEmail sends the email verification link
func (n *Notifier) VerificationEmail(ctx context.Context, a *entities.Account, token string) {
	data := n.base(a)
	data.Link = n.link("/verify-email", token)
	data.ExpiresIn = humanizeDuration(n.cfg.VerificationTTL)
	n.dispatch(ctx, TemplateVerifyEmail, a, data)
}

// StatusChanged informs the account of a review outcome
func (n *Notifier) StatusChanged(ctx context.Context, a *entities.Account, action entities.StatusAction, reason string) {
	var name string
	switch action {
	case entities.ActionSubmitted:
		name = TemplateSubmitted
	case entities.ActionApproved:
		name = TemplateApproved
	case entities.ActionRejected:
		name = TemplateRejected
	case entities.ActionSuspended:
		name = TemplateSuspended
	default:
		return
	}
	data := n.base(a)
	data.Reason = reason
	data.Link = n.cfg.FrontendURL + "/login"
	n.dispatch(ctx, name, a, data)
}

// RoleChanged informs the account of an admin role change
func (n *Notifier) RoleChanged(ctx context.Context, a *entities.Account, previous entities.Role) {
	data := n.base(a)
	data.PreviousRole = string(previous)
	if a.Role.RequiresApproval() {
		data.Message = "Your account now needs admin approval. Complete your new profile to speed up the review."
	}
	n.dispatch(ctx, TemplateRoleChanged, a, data)
}

// PasswordReset sends the password reset link
func (n *Notifier) PasswordReset(ctx context.Context, a *entities.Account, token string) {
	data := n.base(a)
	data.Link = n.link("/reset-password", token)
	data.ExpiresIn = humanizeDuration(n.cfg.ResetTTL)
	n.dispatch(ctx, TemplatePasswordReset, a, data)
}

// PasswordChanged confirms a completed password reset
func (n *Notifier) PasswordChanged(ctx context.Context, a *entities.Account) {
	n.dispatch(ctx, TemplatePasswordChanged, a, n.base(a))
}

func (n *Notifier) base(a *entities.Account) TemplateData {
	name := a.FirstName
	if name == "" {
		name = a.Email
	}
	return TemplateData{Brand: n.cfg.Brand, Name: name, Role: string(a.Role)}
}

func (n *Notifier) link(path, token string) string {
	return n.cfg.FrontendURL + path + "?token=" + url.QueryEscape(token)
}

func (n *Notifier) dispatch(ctx context.Context, name string, a *entities.Account, data TemplateData) {
	msg, err := n.renderer.Render(name, a.Email, data)
	if err != nil {
		logger.Error(ctx, "Failed to render notification", zap.String("template", name), zap.Error(err))
		return
	}
	n.sender.Send(ctx, msg)
}

func humanizeDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "a short time"
	case d%(24*time.Hour) == 0:
		days := int(d / (24 * time.Hour))
		if days == 1 {
			return "24 hours"
		}
		return strconv.Itoa(days) + " days"
	case d%time.Hour == 0:
		hours := int(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return strconv.Itoa(hours) + " hours"
	default:
		return d.String()
	}
}
