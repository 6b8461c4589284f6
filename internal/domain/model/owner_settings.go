package model

// OwnerSettings holds the bot owner identity and the chat the owner uses
// for privileged commands. Zero values mean "not configured yet".
type OwnerSettings struct {
	OwnerID       int64 `json:"owner_id"`
	ControlChatID int64 `json:"control_chat_id"`
}

func (o *OwnerSettings) HasOwner() bool { return o != nil && o.OwnerID != 0 }
