package booking

import "barberbook/models"

// Intent is what the step machine announces before moving from one step to another.
type Intent struct {
	From models.BookingStep
	To   models.BookingStep
}

// Decision is the upsell policy's answer to an Intent.
type Decision struct {
	Intercept bool
	Pending   models.BookingStep
}

// UpsellPolicy decides whether a step transition pauses to show upsell offers. It
// does not know which offers exist; the caller passes them on every call.
type UpsellPolicy struct {
	pending     *models.BookingStep
	showModal   bool
	intercepted map[models.BookingStep]bool
}

func NewUpsellPolicy() *UpsellPolicy {
	return &UpsellPolicy{intercepted: make(map[models.BookingStep]bool)}
}

// restoreUpsellPolicy rebuilds the policy from persisted flow state.
func restoreUpsellPolicy(state models.FlowState) *UpsellPolicy {
	p := NewUpsellPolicy()
	if state.PendingStep != nil {
		step := *state.PendingStep
		p.pending = &step
	}
	p.showModal = state.ShowUpsellModal
	for _, s := range state.InterceptedSteps {
		p.intercepted[s] = true
	}
	return p
}

// ShouldIntercept reports whether moving to target must pause for the offers. Only
// a move to the date/time step with at least one offer is intercepted, and only once
// per target. When it returns true the target is recorded as pending and the modal
// is marked as shown.
func (p *UpsellPolicy) ShouldIntercept(target models.BookingStep, offers []models.UpsellOffer) bool {
	if target != models.StepDateTime || len(offers) == 0 {
		return false
	}
	if p.intercepted[target] {
		return false
	}
	p.intercepted[target] = true
	p.pending = &target
	p.showModal = true
	return true
}

// Decide answers an Intent.
func (p *UpsellPolicy) Decide(intent Intent, offers []models.UpsellOffer) Decision {
	if p.ShouldIntercept(intent.To, offers) {
		return Decision{Intercept: true, Pending: intent.To}
	}
	return Decision{}
}

// Resolve returns the deferred step and clears the interjection state. ok is false
// when nothing was pending.
func (p *UpsellPolicy) Resolve() (models.BookingStep, bool) {
	p.showModal = false
	if p.pending == nil {
		return "", false
	}
	step := *p.pending
	p.pending = nil
	return step, true
}

func (p *UpsellPolicy) Pending() (models.BookingStep, bool) {
	if p.pending == nil {
		return "", false
	}
	return *p.pending, true
}

func (p *UpsellPolicy) ShowModal() bool {
	return p.showModal
}

func (p *UpsellPolicy) interceptedSteps() []models.BookingStep {
	var steps []models.BookingStep
	for _, s := range models.BookingSteps {
		if p.intercepted[s] {
			steps = append(steps, s)
		}
	}
	return steps
}
