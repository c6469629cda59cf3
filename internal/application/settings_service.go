package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/ordo-prm/internal/domain/entity"
	repo "github.com/oksasatya/ordo-prm/internal/domain/repository"
)

// MaxFrequencyDays bounds a priority cadence at ten years.
const MaxFrequencyDays = 3650

type SettingsService struct {
	Users  repo.UserRepository
	Logger logrus.FieldLogger
}

func NewSettingsService(users repo.UserRepository, logger logrus.FieldLogger) *SettingsService {
	return &SettingsService{Users: users, Logger: logger}
}

// FrequencyPatch updates individual priority cadences.
type FrequencyPatch struct {
	L1 *int `json:"L1" binding:"omitempty,gte=1,lte=3650"`
	L2 *int `json:"L2" binding:"omitempty,gte=1,lte=3650"`
	L3 *int `json:"L3" binding:"omitempty,gte=1,lte=3650"`
}

// SettingsPatch is a partial settings update; nil fields are kept.
type SettingsPatch struct {
	Theme               *string         `json:"theme" binding:"omitempty,theme"`
	PriorityFrequencies *FrequencyPatch `json:"priorityFrequencies"`
	PingTemplates       *[]string       `json:"pingTemplates"`
}

func (s *SettingsService) Get(ctx context.Context, userID string) (entity.Settings, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return entity.Settings{}, err
	}
	return u.Settings, nil
}

// Update merges p into the stored settings. Existing contacts keep the
// frequency they were saved with.
func (s *SettingsService) Update(ctx context.Context, userID string, p SettingsPatch) (entity.Settings, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return entity.Settings{}, err
	}
	st := u.Settings

	if p.Theme != nil {
		t := entity.Theme(strings.ToLower(strings.TrimSpace(*p.Theme)))
		if t != entity.ThemeDark && t != entity.ThemeLight {
			return entity.Settings{}, invalid("theme must be dark or light")
		}
		st.Theme = t
	}
	if f := p.PriorityFrequencies; f != nil {
		for _, pair := range []struct {
			v   *int
			dst *int
			tag string
		}{{f.L1, &st.PriorityFrequencies.L1, "L1"}, {f.L2, &st.PriorityFrequencies.L2, "L2"}, {f.L3, &st.PriorityFrequencies.L3, "L3"}} {
			if pair.v == nil {
				continue
			}
			if *pair.v < 1 || *pair.v > MaxFrequencyDays {
				return entity.Settings{}, invalid("priorityFrequencies.%s must be between 1 and %d", pair.tag, MaxFrequencyDays)
			}
			*pair.dst = *pair.v
		}
	}
	if p.PingTemplates != nil {
		templates := make([]string, 0, len(*p.PingTemplates))
		for i, t := range *p.PingTemplates {
			t = strings.TrimSpace(t)
			if t == "" {
				return entity.Settings{}, invalid("pingTemplates[%d] must not be empty", i)
			}
			if !strings.Contains(t, entity.NamePlaceholder) {
				return entity.Settings{}, invalid("pingTemplates[%d] must contain %s", i, entity.NamePlaceholder)
			}
			templates = append(templates, t)
		}
		st.PingTemplates = templates
	}

	if err := s.Users.UpdateSettings(ctx, userID, st); err != nil {
		return entity.Settings{}, err
	}
	return st, nil
}
