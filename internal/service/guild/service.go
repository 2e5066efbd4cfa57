package guild

import (
	"context"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/model"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/repository"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/errors"
)

type Service struct {
	repo repository.GuildSettingsRepository
}

func NewService(repo repository.GuildSettingsRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) SetChannel(ctx context.Context, guildID, channelID string) error {
	return s.repo.Set(ctx, guildID, channelID)
}

// GetChannel returns the configured destination for a guild, or a
// DestinationUnresolvable error when none is set.
func (s *Service) GetChannel(ctx context.Context, guildID string) (*model.GuildSettings, error) {
	settings, err := s.repo.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, errors.DestinationUnresolvable(guildID)
	}
	return settings, nil
}
