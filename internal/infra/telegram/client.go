package telegram

import (
	"context"
	"encoding/json"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client — тонкая обёртка над Bot API для операций с приватным каналом:
// выпуск/отзыв инвайт-ссылок и проверка членства.
type Client struct {
	api *tgbotapi.BotAPI
}

func NewClient(api *tgbotapi.BotAPI) *Client { return &Client{api: api} }

// CreateSingleUseInvite выпускает одноразовую ссылку (member_limit=1).
func (c *Client) CreateSingleUseInvite(_ context.Context, channelID int64) (string, error) {
	cfg := tgbotapi.CreateChatInviteLinkConfig{
		ChatConfig:  tgbotapi.ChatConfig{ChatID: channelID},
		MemberLimit: 1,
	}
	resp, err := c.api.Request(cfg)
	if err != nil {
		return "", fmt.Errorf("create invite link: %w", err)
	}
	var link tgbotapi.ChatInviteLink
	if err := json.Unmarshal(resp.Result, &link); err != nil {
		return "", fmt.Errorf("decode invite link: %w", err)
	}
	return link.InviteLink, nil
}

func (c *Client) RevokeInvite(_ context.Context, channelID int64, inviteLink string) error {
	cfg := tgbotapi.RevokeChatInviteLinkConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: channelID},
		InviteLink: inviteLink,
	}
	if _, err := c.api.Request(cfg); err != nil {
		return fmt.Errorf("revoke invite link: %w", err)
	}
	return nil
}

// IsMember: left/kicked считаем «не в канале», остальные статусы — «в канале».
func (c *Client) IsMember(_ context.Context, channelID, userID int64) (bool, error) {
	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: channelID, UserID: userID},
	})
	if err != nil {
		return false, fmt.Errorf("get chat member: %w", err)
	}
	return MemberStatus(member.Status), nil
}

// MemberStatus сообщает, означает ли статус членство в канале.
func MemberStatus(status string) bool {
	switch status {
	case "creator", "administrator", "member", "restricted":
		return true
	}
	return false
}
