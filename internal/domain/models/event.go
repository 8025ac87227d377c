package models

import "strings"

// ChangeAction enumerates the user gestures the engine reacts to.
type ChangeAction string

const (
	ActionAdd     ChangeAction = "add"
	ActionRemove  ChangeAction = "remove"
	ActionRevert  ChangeAction = "revert"
	ActionUnknown ChangeAction = "unknown"
)

// ParseChangeAction normalizes a raw action string from the UI.
func ParseChangeAction(raw string) ChangeAction {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(ActionAdd):
		return ActionAdd
	case string(ActionRemove):
		return ActionRemove
	case string(ActionRevert):
		return ActionRevert
	default:
		return ActionUnknown
	}
}

// ChangeEvent is one drag-drop, delete or revert gesture delivered by
// the UI against a single period.
type ChangeEvent struct {
	Action string  `json:"action" binding:"required"`
	Item   MenuRef `json:"item" binding:"required"`
}

// ChangeResponse reports the engine outcome back for transient user
// feedback; the UI decides how (or whether) to display it.
type ChangeResponse struct {
	Outcome Outcome `json:"outcome"`
	Period  string  `json:"period"`
	Item    MenuRef `json:"item"`
}
