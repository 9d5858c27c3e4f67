package booking

import (
	"strings"

	"barberbook/models"
)

// BookingContext is what the step predicates look at.
type BookingContext struct {
	SelectedCount int
	Date          string
	BarberID      string
	TimeSlot      string
	Customer      models.CustomerDetails
}

// ContextFromSession extracts the predicate inputs from a session.
func ContextFromSession(s *models.BookingSession) BookingContext {
	return BookingContext{
		SelectedCount: len(s.Selected),
		Date:          s.Date,
		BarberID:      s.BarberID,
		TimeSlot:      s.TimeSlot,
		Customer:      s.Customer,
	}
}

// CanAdvance reports whether the customer has done what step requires.
func CanAdvance(step models.BookingStep, ctx BookingContext) bool {
	switch step {
	case models.StepServices:
		return ctx.SelectedCount > 0
	case models.StepDateTime:
		return ctx.Date != ""
	case models.StepBarber:
		return ctx.BarberID != "" && ctx.TimeSlot != ""
	case models.StepDetails:
		return strings.TrimSpace(ctx.Customer.Name) != "" && strings.TrimSpace(ctx.Customer.Phone) != ""
	}
	return false
}

type Outcome string

const (
	OutcomeAdvanced    Outcome = "advanced"
	OutcomeWentBack    Outcome = "went_back"
	OutcomeIntercepted Outcome = "intercepted"
	OutcomeRefused     Outcome = "refused"
	OutcomeDismissed   Outcome = "dismissed"
)

// TransitionResult tells the caller what happened to a requested transition. Step is
// the current step afterwards; Pending is set when an upsell deferred the move.
type TransitionResult struct {
	Outcome Outcome            `json:"outcome"`
	Step    models.BookingStep `json:"step"`
	Pending models.BookingStep `json:"pending,omitempty"`
}

// Flow is the booking step machine. Steps only move forward one at a time, and
// only when the current step is complete; moving back is always allowed.
type Flow struct {
	current models.BookingStep
	upsell  *UpsellPolicy
}

func NewFlow() *Flow {
	return RestoreFlow(models.NewFlowState())
}

// RestoreFlow rebuilds a flow from its persisted state.
func RestoreFlow(state models.FlowState) *Flow {
	current := state.CurrentStep
	if !current.Valid() {
		current = models.StepServices
	}
	return &Flow{current: current, upsell: restoreUpsellPolicy(state)}
}

// State returns a snapshot suitable for persisting.
func (f *Flow) State() models.FlowState {
	state := models.FlowState{
		CurrentStep:      f.current,
		ShowUpsellModal:  f.upsell.ShowModal(),
		InterceptedSteps: f.upsell.interceptedSteps(),
	}
	if pending, ok := f.upsell.Pending(); ok {
		state.PendingStep = &pending
	}
	return state
}

func (f *Flow) Current() models.BookingStep {
	return f.current
}

func (f *Flow) refuse() TransitionResult {
	return TransitionResult{Outcome: OutcomeRefused, Step: f.current}
}

// RequestTransition tries to move to target. A refused transition leaves the flow
// untouched. While an upsell offer is on screen every transition is refused until
// CompleteUpsell or CancelUpsell is called.
func (f *Flow) RequestTransition(target models.BookingStep, ctx BookingContext, offers []models.UpsellOffer) TransitionResult {
	if !target.Valid() || f.upsell.ShowModal() {
		return f.refuse()
	}

	ci, ti := f.current.Index(), target.Index()
	switch {
	case ti < ci:
		f.current = target
		return TransitionResult{Outcome: OutcomeWentBack, Step: f.current}
	case ti != ci+1:
		return f.refuse()
	case !CanAdvance(f.current, ctx):
		return f.refuse()
	}

	if d := f.upsell.Decide(Intent{From: f.current, To: target}, offers); d.Intercept {
		return TransitionResult{Outcome: OutcomeIntercepted, Step: f.current, Pending: d.Pending}
	}
	f.current = target
	return TransitionResult{Outcome: OutcomeAdvanced, Step: f.current}
}

// Next requests the step after the current one.
func (f *Flow) Next(ctx BookingContext, offers []models.UpsellOffer) TransitionResult {
	next, ok := f.current.Next()
	if !ok {
		return f.refuse()
	}
	return f.RequestTransition(next, ctx, offers)
}

// Back moves to the previous step without checking anything.
func (f *Flow) Back() TransitionResult {
	prev, ok := f.current.Prev()
	if !ok || f.upsell.ShowModal() {
		return f.refuse()
	}
	f.current = prev
	return TransitionResult{Outcome: OutcomeWentBack, Step: f.current}
}

// CompleteUpsell closes the offer and performs the transition it deferred.
func (f *Flow) CompleteUpsell() TransitionResult {
	step, ok := f.upsell.Resolve()
	if !ok {
		return f.refuse()
	}
	f.current = step
	return TransitionResult{Outcome: OutcomeAdvanced, Step: f.current}
}

// CancelUpsell closes the offer and stays on the current step.
func (f *Flow) CancelUpsell() TransitionResult {
	if _, ok := f.upsell.Resolve(); !ok {
		return f.refuse()
	}
	return TransitionResult{Outcome: OutcomeDismissed, Step: f.current}
}

// CanSubmit reports whether the booking can be handed to submission.
func (f *Flow) CanSubmit(ctx BookingContext) bool {
	return f.current == models.StepDetails && !f.upsell.ShowModal() && CanAdvance(models.StepDetails, ctx)
}
