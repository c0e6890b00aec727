package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrorEvent is one recorded failure. Events are values and are never
// mutated after creation.
type ErrorEvent struct {
	ID         string
	Kind       ErrorKind
	Context    string
	RetryCount int
	Timestamp  time.Time
}

// NewErrorEvent creates an event stamped with now. Negative retry counts
// are clamped to zero.
func NewErrorEvent(kind ErrorKind, context string, retryCount int, now time.Time) ErrorEvent {
	if retryCount < 0 {
		retryCount = 0
	}
	if kind == nil {
		kind = Unknown{}
	}
	return ErrorEvent{
		ID:         uuid.NewString(),
		Kind:       kind,
		Context:    context,
		RetryCount: retryCount,
		Timestamp:  now,
	}
}

// Message is the rendered message of the event's kind.
func (e ErrorEvent) Message() string { return Message(e.Kind) }

// Category is the category of the event's kind.
func (e ErrorEvent) Category() Category { return CategoryOf(e.Kind) }

// Code is the discriminant of the event's kind.
func (e ErrorEvent) Code() Code { return codeOf(e.Kind) }

// Action is a recovery step offered to the user.
type Action string

// Recovery actions.
const (
	ActionRetry               Action = "retry"
	ActionWorkOffline         Action = "work_offline"
	ActionCheckConnection     Action = "check_connection"
	ActionFreeUpSpace         Action = "free_up_space"
	ActionManageStorage       Action = "manage_storage"
	ActionSignIn              Action = "sign_in"
	ActionFixInput            Action = "fix_input"
	ActionCancel              Action = "cancel"
	ActionContactSupport      Action = "contact_support"
	ActionRestartApp          Action = "restart_app"
	ActionChooseDifferentFile Action = "choose_different_file"
	ActionOpenSettings        Action = "open_settings"
	ActionReplaceFile         Action = "replace_file"
	ActionKeepBoth            Action = "keep_both"
	ActionRename              Action = "rename"
	ActionReassignItems       Action = "reassign_items"
	ActionSelectDifferentOrg  Action = "select_different_organization"
	ActionRefresh             Action = "refresh"
	ActionDismiss             Action = "dismiss"
)

//nolint:gochecknoglobals // static lookup table
var actionLabels = map[Action]string{
	ActionRetry:               "Retry",
	ActionWorkOffline:         "Work Offline",
	ActionCheckConnection:     "Check Connection",
	ActionFreeUpSpace:         "Free Up Space",
	ActionManageStorage:       "Manage Storage",
	ActionSignIn:              "Sign In",
	ActionFixInput:            "Fix Input",
	ActionCancel:              "Cancel",
	ActionContactSupport:      "Contact Support",
	ActionRestartApp:          "Restart",
	ActionChooseDifferentFile: "Choose Different File",
	ActionOpenSettings:        "Open Settings",
	ActionReplaceFile:         "Replace",
	ActionKeepBoth:            "Keep Both",
	ActionRename:              "Rename",
	ActionReassignItems:       "Reassign Items",
	ActionSelectDifferentOrg:  "Select Organization",
	ActionRefresh:             "Refresh",
	ActionDismiss:             "Dismiss",
}

// Label is the button text for a.
func (a Action) Label() string {
	if l, ok := actionLabels[a]; ok {
		return l
	}
	return string(a)
}

// Tier is how prominently an error is shown.
type Tier int

// Presentation tiers, least to most intrusive.
const (
	TierInline Tier = iota
	TierBanner
	TierModal
)

//nolint:gochecknoglobals // static lookup table
var tierNames = [...]string{"inline", "banner", "modal"}

func (t Tier) String() string {
	if t < 0 || int(t) >= len(tierNames) {
		return fmt.Sprintf("tier(%d)", int(t))
	}
	return tierNames[t]
}

func (t Tier) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(tierNames) {
		return nil, fmt.Errorf("invalid tier %d", int(t))
	}
	return []byte(tierNames[t]), nil
}

func (t *Tier) UnmarshalText(b []byte) error {
	for i, n := range tierNames {
		if n == string(b) {
			*t = Tier(i)
			return nil
		}
	}
	return fmt.Errorf("invalid tier %q", string(b))
}

// Priority orders competing errors.
type Priority int

// Priorities.
const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

//nolint:gochecknoglobals // static lookup table
var priorityNames = [...]string{"low", "medium", "high"}

func (p Priority) String() string {
	if p < 0 || int(p) >= len(priorityNames) {
		return fmt.Sprintf("priority(%d)", int(p))
	}
	return priorityNames[p]
}

func (p Priority) MarshalText() ([]byte, error) {
	if p < 0 || int(p) >= len(priorityNames) {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return []byte(priorityNames[p]), nil
}

func (p *Priority) UnmarshalText(b []byte) error {
	for i, n := range priorityNames {
		if n == string(b) {
			*p = Priority(i)
			return nil
		}
	}
	return fmt.Errorf("invalid priority %q", string(b))
}

// PresentationSpec tells the UI how to disclose an error.
type PresentationSpec struct {
	Tier              Tier     `json:"tier"`
	Actions           []string `json:"actions"`
	BlocksInteraction bool     `json:"blocks_interaction"`
	Priority          Priority `json:"priority"`
	Dismissible       bool     `json:"dismissible"`
}

// Accessibility is the assistive-technology description of an error.
type Accessibility struct {
	Label               string `json:"label"`
	Hint                string `json:"hint"`
	AnnounceImmediately bool   `json:"announce_immediately"`
	InterruptSpeech     bool   `json:"interrupt_speech"`
}

// RecoveryPlan is the recommended way out of an error. Plans are derived,
// never stored.
type RecoveryPlan struct {
	PrimaryAction      Action        `json:"primary_action"`
	AlternativeActions []Action      `json:"alternative_actions"`
	AutoRetryEligible  bool          `json:"auto_retry_eligible"`
	RetryDelay         time.Duration `json:"retry_delay"`
	GuidanceText       string        `json:"guidance_text"`
}
