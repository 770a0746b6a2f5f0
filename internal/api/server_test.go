package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gamedex/internal/catalog"
	"gamedex/internal/recommend"
	"gamedex/internal/slots"
)

type fakeCatalog struct {
	games map[string]catalog.Game
	tags  []catalog.NamedCount
	pubs  []catalog.NamedCount
	err   error
}

func (f *fakeCatalog) GameByName(_ context.Context, name string) (*catalog.Game, error) {
	if f.err != nil {
		return nil, f.err
	}
	for key, g := range f.games {
		if strings.EqualFold(key, name) {
			return &g, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) TopTags(context.Context) ([]catalog.NamedCount, error) {
	return f.tags, f.err
}

func (f *fakeCatalog) TopPublishers(context.Context) ([]catalog.NamedCount, error) {
	return f.pubs, f.err
}

func (f *fakeCatalog) Enrich(_ context.Context, games []catalog.Game) ([]catalog.Game, error) {
	return games, f.err
}

func (f *fakeCatalog) TagNames(context.Context) ([]string, error) {
	return []string{"RPG", "Action"}, f.err
}

func (f *fakeCatalog) PublisherNames(context.Context) ([]string, error) {
	return []string{"Valve", "Acme"}, f.err
}

type fakeRecommender struct {
	result recommend.Result
	games  []catalog.Game
	err    error
	gotCfg slots.FilterConfig
}

func (f *fakeRecommender) Recommend(_ context.Context, cfg slots.FilterConfig) (recommend.Result, error) {
	f.gotCfg = cfg
	return f.result, f.err
}

func (f *fakeRecommender) TopByPublisher(context.Context, string, int) ([]catalog.Game, error) {
	return f.games, f.err
}

type fakeImages struct {
	ok  bool
	err error
}

func (f *fakeImages) IsImage(context.Context, string) (bool, error) {
	return f.ok, f.err
}

func newTestServer(store CatalogStore, rec Recommender) *Server {
	return New(nil, store, rec, &fakeImages{ok: true})
}

func postWebhook(t *testing.T, s *Server, req WebhookRequest) (*httptest.ResponseRecorder, WebhookResponse) {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body)))

	var out WebhookResponse
	if rec.Code == http.StatusOK {
		if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return rec, out
}

func allText(responses []Response) string {
	var sb strings.Builder
	for _, r := range responses {
		sb.WriteString(r.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

func TestWebhookGameInfoFound(t *testing.T) {
	store := &fakeCatalog{games: map[string]catalog.Game{
		"Portal": {AppID: 1, Name: "Portal", Publishers: []string{"Valve"}, HeaderImage: "https://cdn.example.com/p.jpg"},
	}}
	s := newTestServer(store, &fakeRecommender{})

	rec, out := postWebhook(t, s, WebhookRequest{
		NextAction: ActionProvideGameInfo,
		SenderID:   "u1",
		Tracker:    Tracker{Slots: map[string]any{"game": "portal"}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(allText(out.Responses), "Portal was released") {
		t.Fatalf("expected game card, got %+v", out.Responses)
	}
	if out.Responses[0].Image == "" {
		t.Fatalf("expected image attached when the probe passes")
	}
	// The game slot is cleared after the turn.
	found := false
	for _, ev := range out.Events {
		if ev.Event == eventSlot && ev.Name == slots.SlotGame && ev.Value == nil {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected game slot cleared, events %+v", out.Events)
	}
}

func TestWebhookGameInfoNotFound(t *testing.T) {
	s := newTestServer(&fakeCatalog{}, &fakeRecommender{})
	rec, out := postWebhook(t, s, WebhookRequest{
		NextAction: ActionProvideGameInfo,
		Tracker:    Tracker{Slots: map[string]any{"game": "Zzyzx Quest"}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(allText(out.Responses), "couldn't retrieve details") {
		t.Fatalf("expected a not-found reply, got %+v", out.Responses)
	}
}

func TestWebhookRecommendationSuccessResetsSlots(t *testing.T) {
	rec := &fakeRecommender{result: recommend.Result{
		Kind:       recommend.KindCombined,
		Genres:     []string{"RPG"},
		Publishers: []string{"Acme"},
		Games:      []catalog.Game{{AppID: 1, Name: "A"}, {AppID: 2, Name: "B"}},
	}}
	s := newTestServer(&fakeCatalog{}, rec)

	code, out := postWebhook(t, s, WebhookRequest{
		NextAction: ActionProvideRecommendation,
		Tracker: Tracker{Slots: map[string]any{
			"genres": []any{"RPG"}, "genres_filter": true,
			"publishers": []any{"Acme"}, "publishers_filter": true,
		}},
	})
	if code.Code != http.StatusOK {
		t.Fatalf("status %d", code.Code)
	}
	if rec.gotCfg.Genres.Kind != slots.FacetConfirmed || rec.gotCfg.Publishers.Kind != slots.FacetConfirmed {
		t.Fatalf("expected confirmed facets handed to recommender, got %+v", rec.gotCfg)
	}
	text := allText(out.Responses)
	if !strings.Contains(text, "of our recommendations") {
		t.Fatalf("expected positive header, got %q", text)
	}
	if len(out.Events) != 1 || out.Events[0].Event != eventResetSlots {
		t.Fatalf("expected slots reset after recommendation, events %+v", out.Events)
	}
}

func TestWebhookRecommendationUnsupportedFilters(t *testing.T) {
	rec := &fakeRecommender{err: recommend.ErrUnsupportedFilters}
	s := newTestServer(&fakeCatalog{}, rec)

	code, out := postWebhook(t, s, WebhookRequest{
		NextAction: ActionProvideRecommendation,
		Tracker:    Tracker{Slots: map[string]any{"genres_filter": true}},
	})
	if code.Code != http.StatusOK {
		t.Fatalf("unsupported filters must not be a server error, status %d", code.Code)
	}
	if !strings.Contains(allText(out.Responses), "couldn't process your request") {
		t.Fatalf("expected uniform fallback reply, got %+v", out.Responses)
	}
}

func TestWebhookRecommendationStoreFailure(t *testing.T) {
	rec := &fakeRecommender{err: errors.New("connection refused")}
	s := newTestServer(&fakeCatalog{}, rec)

	code, _ := postWebhook(t, s, WebhookRequest{
		NextAction: ActionProvideRecommendation,
		Tracker:    Tracker{Slots: map[string]any{}},
	})
	if code.Code != http.StatusInternalServerError {
		t.Fatalf("expected store failure surfaced as 500, got %d", code.Code)
	}
}

func TestWebhookFormValidationDecline(t *testing.T) {
	s := newTestServer(&fakeCatalog{}, &fakeRecommender{})

	code, out := postWebhook(t, s, WebhookRequest{
		NextAction: ActionValidateForm,
		Tracker:    Tracker{Slots: map[string]any{"genres_filter": false}},
	})
	if code.Code != http.StatusOK {
		t.Fatalf("status %d", code.Code)
	}
	if !strings.Contains(allText(out.Responses), "won't filter by genres") {
		t.Fatalf("expected decline confirmation, got %+v", out.Responses)
	}

	slotValues := make(map[string]any)
	for _, ev := range out.Events {
		if ev.Event == eventSlot {
			slotValues[ev.Name] = ev.Value
		}
	}
	if v, ok := slotValues[slots.SlotGenresFilter].(bool); !ok || v {
		t.Fatalf("expected genres_filter false, got %v", slotValues[slots.SlotGenresFilter])
	}
	vals, ok := slotValues[slots.SlotGenres].([]any)
	if !ok || len(vals) != 1 || vals[0] != slots.NoFilter {
		t.Fatalf("expected %q sentinel for genres, got %v", slots.NoFilter, slotValues[slots.SlotGenres])
	}
}

func TestWebhookFormValidationConfirmsValues(t *testing.T) {
	s := newTestServer(&fakeCatalog{}, &fakeRecommender{})

	_, out := postWebhook(t, s, WebhookRequest{
		NextAction: ActionValidateForm,
		Tracker: Tracker{Slots: map[string]any{
			"genres_filter":     true,
			"genres":            []any{" rpg ", "Racing"},
			"publishers_filter": false,
		}},
	})
	slotValues := make(map[string]any)
	for _, ev := range out.Events {
		if ev.Event == eventSlot {
			slotValues[ev.Name] = ev.Value
		}
	}
	vals, ok := slotValues[slots.SlotGenres].([]any)
	if !ok || len(vals) != 1 || vals[0] != "rpg" {
		t.Fatalf("expected trimmed valid genre confirmed, got %v", slotValues[slots.SlotGenres])
	}
	if v, ok := slotValues[slots.SlotGenresFilter].(bool); !ok || !v {
		t.Fatalf("expected genres_filter true, got %v", slotValues[slots.SlotGenresFilter])
	}
}

func TestWebhookFormValidationRejectsUnknownValue(t *testing.T) {
	s := newTestServer(&fakeCatalog{}, &fakeRecommender{})

	_, out := postWebhook(t, s, WebhookRequest{
		NextAction: ActionValidateForm,
		Tracker: Tracker{Slots: map[string]any{
			"genres_filter": true,
			"genres":        []any{"Zzyzx"},
		}},
	})
	if !strings.Contains(allText(out.Responses), "not a valid genre") {
		t.Fatalf("expected re-prompt, got %+v", out.Responses)
	}
}

func TestWebhookResumeForm(t *testing.T) {
	s := newTestServer(&fakeCatalog{}, &fakeRecommender{})

	_, out := postWebhook(t, s, WebhookRequest{
		NextAction: ActionResumeForm,
		Tracker: Tracker{Slots: map[string]any{
			"genres_filter": true,
			"genres":        []any{"RPG"},
		}},
	})
	// Resume must not touch the slots: only the active_loop event comes back.
	for _, ev := range out.Events {
		if ev.Event == eventSlot {
			t.Fatalf("resume must not rewrite slots, got %+v", out.Events)
		}
	}
	found := false
	for _, ev := range out.Events {
		if ev.Event == eventActiveLoop && ev.Name == recommendationFormName {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected active_loop event, got %+v", out.Events)
	}
}

func TestWebhookBrowseGenres(t *testing.T) {
	store := &fakeCatalog{tags: []catalog.NamedCount{
		{Name: "Action", GameCount: 120},
		{Name: "RPG", GameCount: 80},
	}}
	s := newTestServer(store, &fakeRecommender{})

	_, out := postWebhook(t, s, WebhookRequest{NextAction: ActionProvideGenres})
	text := allText(out.Responses)
	if !strings.Contains(text, "Action") || !strings.Contains(text, "120") {
		t.Fatalf("expected genre list, got %q", text)
	}
}

func TestWebhookUnknownAction(t *testing.T) {
	s := newTestServer(&fakeCatalog{}, &fakeRecommender{})
	rec, _ := postWebhook(t, s, WebhookRequest{NextAction: "action_dance"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown action, got %d", rec.Code)
	}
}
