package models

// BookingStep is one screen of the guided booking flow.
type BookingStep string

const (
	StepServices BookingStep = "services"
	StepDateTime BookingStep = "datetime"
	StepBarber   BookingStep = "barber"
	StepDetails  BookingStep = "details"
)

// BookingSteps is the fixed order of the flow.
var BookingSteps = []BookingStep{StepServices, StepDateTime, StepBarber, StepDetails}

// Index returns the position of the step in BookingSteps, or -1 for an unknown step.
func (s BookingStep) Index() int {
	for i, step := range BookingSteps {
		if step == s {
			return i
		}
	}
	return -1
}

func (s BookingStep) Valid() bool {
	return s.Index() >= 0
}

// Next returns the following step; ok is false on the last step.
func (s BookingStep) Next() (BookingStep, bool) {
	i := s.Index()
	if i < 0 || i+1 >= len(BookingSteps) {
		return "", false
	}
	return BookingSteps[i+1], true
}

// Prev returns the preceding step; ok is false on the first step.
func (s BookingStep) Prev() (BookingStep, bool) {
	i := s.Index()
	if i <= 0 {
		return "", false
	}
	return BookingSteps[i-1], true
}

// FlowState is the persisted part of the step machine and the upsell interjection.
type FlowState struct {
	CurrentStep      BookingStep   `json:"currentStep"`
	PendingStep      *BookingStep  `json:"pendingStep,omitempty"`
	ShowUpsellModal  bool          `json:"showUpsellModal"`
	InterceptedSteps []BookingStep `json:"interceptedSteps,omitempty"`
}

// NewFlowState returns the state of a flow that has not started yet.
func NewFlowState() FlowState {
	return FlowState{CurrentStep: StepServices}
}
