package dialog

// Stage is a discrete phase of the conversation state machine.
// Transitions are pure functions of the conversation state.
type Stage string

const (
	StageCollectingIdentity Stage = "collecting_identity"
	StageClarifyingDetails  Stage = "clarifying_details"
	StageReadyToSearch      Stage = "ready_to_search"
)

// Identity slots collected before anything else.
const (
	SlotGender     = "gender"
	SlotAgeBracket = "age_bracket"
	SlotCategory   = "category"
)

// Common detail slots shared across categories.
const (
	SlotWorkFormat      = "work_format"
	SlotProblemType     = "problem_type"
	SlotGoal            = "goal"
	SlotUrgency         = "urgency"
	SlotBudget          = "budget"
	SlotExperienceLevel = "experience_level"
)
