package discord

import (
	"context"

	"github.com/stretchr/testify/mock"

	"botpanel/models"
)

// MockDiscordClient implements the clients.DiscordClient interface for testing
type MockDiscordClient struct {
	mock.Mock
}

func (m *MockDiscordClient) GetCurrentUser(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockDiscordClient) GetGuilds(ctx context.Context, token string) ([]models.Guild, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Guild), args.Error(1)
}

func (m *MockDiscordClient) GetGuildChannels(
	ctx context.Context,
	token, guildID string,
) ([]models.Channel, error) {
	args := m.Called(ctx, token, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Channel), args.Error(1)
}

func (m *MockDiscordClient) GetDMChannels(ctx context.Context, token string) ([]models.Channel, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Channel), args.Error(1)
}

func (m *MockDiscordClient) CreateDMChannel(
	ctx context.Context,
	token, recipientID string,
) (*models.Channel, error) {
	args := m.Called(ctx, token, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Channel), args.Error(1)
}

func (m *MockDiscordClient) GetMessages(
	ctx context.Context,
	token, channelID string,
	limit int,
	beforeID string,
) ([]models.Message, error) {
	args := m.Called(ctx, token, channelID, limit, beforeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockDiscordClient) SendMessage(
	ctx context.Context,
	token, channelID, content string,
) (*models.Message, error) {
	args := m.Called(ctx, token, channelID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockDiscordClient) EditMessage(
	ctx context.Context,
	token, channelID, messageID, content string,
) (*models.Message, error) {
	args := m.Called(ctx, token, channelID, messageID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockDiscordClient) DeleteMessage(ctx context.Context, token, channelID, messageID string) error {
	args := m.Called(ctx, token, channelID, messageID)
	return args.Error(0)
}

func (m *MockDiscordClient) AddReaction(ctx context.Context, token, channelID, messageID, emoji string) error {
	args := m.Called(ctx, token, channelID, messageID, emoji)
	return args.Error(0)
}
