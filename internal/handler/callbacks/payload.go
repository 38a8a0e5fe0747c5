package callbacks

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformedPayload = errors.New("malformed callback payload")

type Kind string

const (
	KindVerify       Kind = "verify"
	KindShowChats    Kind = "show_chats"
	KindOpenSettings Kind = "settings"
	KindToggle       Kind = "toggle"
)

// Action is a decoded callback button payload. Which fields are set
// depends on Kind: verify carries UserID, show_chats carries OwnerID,
// settings carries ChatID, toggle carries Field and ChatID.
type Action struct {
	Kind    Kind
	UserID  int64
	OwnerID int64
	ChatID  int64
	Field   string
}

// Parse decodes the wire payload of a callback button. Payloads are
// underscore-separated with a trailing numeric id: verify_<userId>,
// show_chats_<ownerId>, settings_<chatId>, toggle_<field>_<chatId>.
// Toggle fields may themselves contain underscores, so the id is
// always split off the tail.
func Parse(payload string) (Action, error) {
	switch {
	case strings.HasPrefix(payload, "verify_"):
		id, err := parseID(strings.TrimPrefix(payload, "verify_"))
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: KindVerify, UserID: id}, nil

	case strings.HasPrefix(payload, "show_chats_"):
		id, err := parseID(strings.TrimPrefix(payload, "show_chats_"))
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: KindShowChats, OwnerID: id}, nil

	case strings.HasPrefix(payload, "settings_"):
		id, err := parseID(strings.TrimPrefix(payload, "settings_"))
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: KindOpenSettings, ChatID: id}, nil

	case strings.HasPrefix(payload, "toggle_"):
		rest := strings.TrimPrefix(payload, "toggle_")
		sep := strings.LastIndex(rest, "_")
		if sep <= 0 {
			return Action{}, fmt.Errorf("%w: %q", ErrMalformedPayload, payload)
		}
		id, err := parseID(rest[sep+1:])
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: KindToggle, Field: rest[:sep], ChatID: id}, nil
	}

	return Action{}, fmt.Errorf("%w: %q", ErrMalformedPayload, payload)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad id %q", ErrMalformedPayload, s)
	}
	return id, nil
}

func VerifyPayload(userID int64) string {
	return fmt.Sprintf("verify_%d", userID)
}

func ShowChatsPayload(ownerID int64) string {
	return fmt.Sprintf("show_chats_%d", ownerID)
}

func SettingsPayload(chatID int64) string {
	return fmt.Sprintf("settings_%d", chatID)
}

func TogglePayload(field string, chatID int64) string {
	return fmt.Sprintf("toggle_%s_%d", field, chatID)
}
