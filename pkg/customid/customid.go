// Package customid parses the custom IDs carried by buttons, select menus and modals into a
// structured action and target so handlers can switch on the action instead of string prefixes.
package customid

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknown is returned when a custom ID does not belong to the bot.
var ErrUnknown = errors.New("unknown custom id")

// Action is the routed action of a component or modal.
type Action int

const (
	ActionUnknown Action = iota
	ActionStartVerify
	ActionChooseMethod
	ActionUploadEvidence
	ActionCloseTicket
	ActionOpenVouch
	ActionSubmitVouch
	ActionApprove
	ActionDeny
	ActionApproveModal
	ActionDenyModal
)

// Component and modal field IDs that carry no target.
const (
	StartVerify    = "start_verify"
	ChooseMethod   = "verification_type"
	UploadEvidence = "upload_files"
	CloseTicket    = "close_ticket"
	OpenVouch      = "vouch_modal"
	SubmitVouch    = "vouch_submit"

	// FieldVouchName is the trusted member name input in the vouch modal.
	FieldVouchName = "vouch_name"

	// FieldVouchText is the justification input in the vouch modal.
	FieldVouchText = "vouch_text"

	// FieldStaffText is the log text or deny reason input in the staff modals.
	FieldStaffText = "staff_text"
)

// Prefixes of targeted IDs. The modal prefixes must be matched before the button prefixes.
const (
	prefixApproveModal = "approve_modal_"
	prefixDenyModal    = "deny_modal_"
	prefixApprove      = "approve_"
	prefixDeny         = "deny_"
)

var fixed = map[string]Action{
	StartVerify:    ActionStartVerify,
	ChooseMethod:   ActionChooseMethod,
	UploadEvidence: ActionUploadEvidence,
	CloseTicket:    ActionCloseTicket,
	OpenVouch:      ActionOpenVouch,
	SubmitVouch:    ActionSubmitVouch,
}

var targeted = []struct {
	prefix string
	action Action
}{
	{prefixApproveModal, ActionApproveModal},
	{prefixDenyModal, ActionDenyModal},
	{prefixApprove, ActionApprove},
	{prefixDeny, ActionDeny},
}

// ID is a parsed custom ID.
type ID struct {
	Action Action

	// TargetID is the user the action applies to. Only set for staff actions.
	TargetID string
}

// Parse parses a raw custom ID.
func Parse(raw string) (ID, error) {
	if a, ok := fixed[raw]; ok {
		return ID{Action: a}, nil
	}

	for _, t := range targeted {
		target, ok := strings.CutPrefix(raw, t.prefix)
		if !ok {
			continue
		}
		if !isSnowflake(target) {
			return ID{}, fmt.Errorf("%w: %q has an invalid target", ErrUnknown, raw)
		}
		return ID{Action: t.action, TargetID: target}, nil
	}

	return ID{}, fmt.Errorf("%w: %q", ErrUnknown, raw)
}

// Approve is the ID of the approve button for the user.
func Approve(userID string) string { return prefixApprove + userID }

// Deny is the ID of the deny button for the user.
func Deny(userID string) string { return prefixDeny + userID }

// ApproveModal is the ID of the approve modal for the user.
func ApproveModal(userID string) string { return prefixApproveModal + userID }

// DenyModal is the ID of the deny modal for the user.
func DenyModal(userID string) string { return prefixDenyModal + userID }

// String returns the raw custom ID.
func (id ID) String() string {
	switch id.Action {
	case ActionStartVerify:
		return StartVerify
	case ActionChooseMethod:
		return ChooseMethod
	case ActionUploadEvidence:
		return UploadEvidence
	case ActionCloseTicket:
		return CloseTicket
	case ActionOpenVouch:
		return OpenVouch
	case ActionSubmitVouch:
		return SubmitVouch
	case ActionApprove:
		return Approve(id.TargetID)
	case ActionDeny:
		return Deny(id.TargetID)
	case ActionApproveModal:
		return ApproveModal(id.TargetID)
	case ActionDenyModal:
		return DenyModal(id.TargetID)
	default:
		return ""
	}
}

// String returns the name of the action, used as a metric label.
func (a Action) String() string {
	switch a {
	case ActionStartVerify:
		return "start_verify"
	case ActionChooseMethod:
		return "choose_method"
	case ActionUploadEvidence:
		return "upload_evidence"
	case ActionCloseTicket:
		return "close_ticket"
	case ActionOpenVouch:
		return "open_vouch"
	case ActionSubmitVouch:
		return "submit_vouch"
	case ActionApprove:
		return "approve"
	case ActionDeny:
		return "deny"
	case ActionApproveModal:
		return "approve_modal"
	case ActionDenyModal:
		return "deny_modal"
	default:
		return "unknown"
	}
}

func isSnowflake(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
