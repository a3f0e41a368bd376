package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"

	"github.com/SnapScribe/app/internal/pkg/serr"
	"github.com/SnapScribe/app/internal/services/words/internal/model"
	"github.com/SnapScribe/app/internal/services/words/internal/state"
)

type languageResolver interface {
	Language(ctx context.Context, iso string) (model.Language, error)
}

// SettingsService keeps per-user preferences: theme and active language.
type SettingsService struct {
	store       state.Store
	langs       languageResolver
	entitlement string

	// serializes load-modify-save of stored settings
	mu sync.Mutex
}

func NewSettingsService(s state.Store, langs languageResolver, entitlement string) *SettingsService {
	return &SettingsService{
		store:       s,
		langs:       langs,
		entitlement: entitlement,
	}
}

type storedSettings struct {
	Theme       model.Theme `json:"theme"`
	LanguageISO string      `json:"language"`
}

// GetSettings returns the user's settings, filling in the system theme and
// the default language for anything never set.
func (s *SettingsService) GetSettings(ctx context.Context, userID string) (model.Settings, error) {
	st, err := s.load(ctx, userID)
	if err != nil {
		return model.Settings{}, err
	}

	res := model.Settings{Theme: st.Theme, LanguageISO: st.LanguageISO}
	if !res.Theme.Valid() {
		res.Theme = model.ThemeSystem
	}
	if res.LanguageISO == "" {
		lang, err := s.langs.Language(ctx, "")
		if err != nil {
			return model.Settings{}, err
		}
		res.LanguageISO = lang.ISO639
	}

	return res, nil
}

type SetThemeRequest struct {
	UserID string
	Theme  model.Theme
}

func (s *SettingsService) SetTheme(ctx context.Context, r SetThemeRequest) (model.Settings, error) {
	if !r.Theme.Valid() {
		return model.Settings{}, serr.NewServiceError(nil, http.StatusBadRequest, "invalid theme: %s", r.Theme).
			With("user_id", r.UserID)
	}

	err := s.update(ctx, r.UserID, func(st *storedSettings) {
		st.Theme = r.Theme
	})
	if err != nil {
		return model.Settings{}, err
	}

	return s.GetSettings(ctx, r.UserID)
}

type ChangeLanguageRequest struct {
	UserID      string
	LanguageISO string
}

func (s *SettingsService) ChangeLanguage(ctx context.Context, r ChangeLanguageRequest) (model.Settings, error) {
	if r.LanguageISO == "" {
		return model.Settings{}, serr.NewServiceError(nil, http.StatusBadRequest, "invalid language selected").
			With("user_id", r.UserID)
	}

	lang, err := s.langs.Language(ctx, r.LanguageISO)
	if err != nil {
		return model.Settings{}, err
	}

	err = s.update(ctx, r.UserID, func(st *storedSettings) {
		st.LanguageISO = lang.ISO639
	})
	if err != nil {
		return model.Settings{}, err
	}

	return s.GetSettings(ctx, r.UserID)
}

type SubscriptionRequest struct {
	UserID       string
	Anonymous    bool
	Entitlements []string
}

// Subscription reports whether the caller holds the premium entitlement.
func (s *SettingsService) Subscription(r SubscriptionRequest) model.Subscription {
	return model.Subscription{
		UserID:    r.UserID,
		Anonymous: r.Anonymous,
		Active:    s.entitlement != "" && slices.Contains(r.Entitlements, s.entitlement),
	}
}

func (s *SettingsService) update(ctx context.Context, userID string, modify func(*storedSettings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	modify(&st)
	return s.save(ctx, userID, st)
}

func (s *SettingsService) load(ctx context.Context, userID string) (storedSettings, error) {
	var st storedSettings

	raw, err := s.store.Get(ctx, settingsKey(userID))
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return st, nil
		}
		return st, fmt.Errorf("load settings: %w", err)
	}

	if err := json.Unmarshal(raw, &st); err != nil {
		return st, fmt.Errorf("decode settings: %w", err)
	}
	return st, nil
}

func (s *SettingsService) save(ctx context.Context, userID string, st storedSettings) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err := s.store.Put(ctx, settingsKey(userID), raw, 0); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func settingsKey(userID string) string {
	return "settings:" + userID
}
