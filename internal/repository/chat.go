package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrChatNotFound = errors.New("chat not found")
	ErrUnknownField = errors.New("unknown settings field")
)

// Toggleable filter fields. The set is closed: anything else is rejected
// with ErrUnknownField before touching the store.
const (
	FieldCaptcha  = "captcha"
	FieldBadWords = "bad_words"
	FieldLinks    = "links"
)

var toggleColumns = map[string]string{
	FieldCaptcha:  "captcha",
	FieldBadWords: "bad_words",
	FieldLinks:    "links",
}

type ChatRepository interface {
	EnsureOwnerAndChat(ctx context.Context, ownerUserID, chatID int64, title string) error
	GetChat(ctx context.Context, chatID int64) (*ManagedChat, error)
	ListChats(ctx context.Context, ownerUserID int64) ([]ManagedChat, error)
	Toggle(ctx context.Context, chatID int64, field string) (bool, error)
	UpdateTitle(ctx context.Context, chatID int64, title string) error
}

type PostgresChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &PostgresChatRepository{db: db}
}

// EnsureOwnerAndChat creates the owner and the chat record if either is
// missing. Existing records are never overwritten, so concurrent join
// events for the same chat are safe.
func (r *PostgresChatRepository) EnsureOwnerAndChat(ctx context.Context, ownerUserID, chatID int64, title string) error {
	owner := Owner{UserID: ownerUserID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&owner).Error
	if err != nil {
		return fmt.Errorf("failed to ensure owner: %w", err)
	}
	if owner.ID == 0 {
		// Conflict path: the row already existed, fetch its id.
		if err := r.db.WithContext(ctx).Where("user_id = ?", ownerUserID).First(&owner).Error; err != nil {
			return fmt.Errorf("failed to load owner: %w", err)
		}
	}

	chat := ManagedChat{
		ChatID:         chatID,
		Title:          title,
		OwnerID:        owner.ID,
		Enabled:        true,
		FilterSettings: FilterSettings{Captcha: true},
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "chat_id"}}, DoNothing: true}).
		Create(&chat).Error
	if err != nil {
		return fmt.Errorf("failed to ensure chat: %w", err)
	}
	return nil
}

func (r *PostgresChatRepository) GetChat(ctx context.Context, chatID int64) (*ManagedChat, error) {
	var chat ManagedChat
	err := r.db.WithContext(ctx).First(&chat, "chat_id = ?", chatID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return &chat, nil
}

func (r *PostgresChatRepository) ListChats(ctx context.Context, ownerUserID int64) ([]ManagedChat, error) {
	var chats []ManagedChat
	err := r.db.WithContext(ctx).
		Joins("JOIN owners ON owners.id = managed_chats.owner_id").
		Where("owners.user_id = ?", ownerUserID).
		Order("managed_chats.created_at ASC").
		Find(&chats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	return chats, nil
}

// Toggle flips the named filter in a single UPDATE so concurrent toggles
// for the same chat cannot lose updates. The new value comes back via
// RETURNING.
func (r *PostgresChatRepository) Toggle(ctx context.Context, chatID int64, field string) (bool, error) {
	col, ok := toggleColumns[field]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	var chat ManagedChat
	res := r.db.WithContext(ctx).
		Model(&chat).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: col}}}).
		Where("chat_id = ?", chatID).
		Update(col, gorm.Expr("NOT "+col))
	if res.Error != nil {
		return false, fmt.Errorf("failed to toggle %s: %w", field, res.Error)
	}
	if res.RowsAffected == 0 {
		return false, ErrChatNotFound
	}

	switch field {
	case FieldCaptcha:
		return chat.Captcha, nil
	case FieldBadWords:
		return chat.BadWords, nil
	default:
		return chat.Links, nil
	}
}

func (r *PostgresChatRepository) UpdateTitle(ctx context.Context, chatID int64, title string) error {
	if title == "" {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&ManagedChat{}).
		Where("chat_id = ? AND title <> ?", chatID, title).
		Update("title", title).Error
	if err != nil {
		return fmt.Errorf("failed to update chat title: %w", err)
	}
	return nil
}
