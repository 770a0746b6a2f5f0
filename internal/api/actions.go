package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gamedex/internal/catalog"
	"gamedex/internal/imagecheck"
	"gamedex/internal/recommend"
	"gamedex/internal/slots"
)

// Action names shared with the external dialogue engine.
const (
	ActionProvideGameInfo       = "action_provide_game_info"
	ActionProvidePublisherGames = "action_provide_publisher_games"
	ActionProvideGenres         = "action_provide_genres"
	ActionProvidePublishers     = "action_provide_publishers"
	ActionProvideRecommendation = "action_provide_recommendation"
	ActionResumeForm            = "action_resume_form"
	ActionResetSlots            = "action_reset_slots"
	ActionValidateForm          = "validate_detailed_recommendation_form"

	recommendationFormName = "detailed_recommendation_form"
	browseListLength       = 10
)

var errUnknownAction = errors.New("unknown action")

func (s *Server) runAction(ctx context.Context, action string, tracker *trackerStore, d *Dispatcher) ([]Event, error) {
	switch action {
	case ActionProvideGameInfo:
		return nil, s.provideGameInfo(ctx, tracker, d)
	case ActionProvidePublisherGames:
		return nil, s.providePublisherGames(ctx, tracker, d)
	case ActionProvideGenres:
		return nil, s.provideGenres(ctx, d)
	case ActionProvidePublishers:
		return nil, s.providePublishers(ctx, d)
	case ActionProvideRecommendation:
		return nil, s.provideRecommendation(ctx, tracker, d)
	case ActionResumeForm:
		d.Say("Alright, let's pick up where we left off!")
		return []Event{{Event: eventActiveLoop, Name: recommendationFormName}}, nil
	case ActionResetSlots:
		tracker.ResetAll()
		return nil, nil
	case ActionValidateForm:
		return nil, s.validateRecommendationForm(ctx, tracker, d)
	default:
		return nil, errUnknownAction
	}
}

func (s *Server) provideGameInfo(ctx context.Context, tracker *trackerStore, d *Dispatcher) error {
	name := stringSlot(tracker, slots.SlotGame)
	defer tracker.Set(slots.SlotGame, nil)

	if name == "" {
		d.Say("I need the name of the game to provide details.")
		return nil
	}

	game, err := s.store.GameByName(ctx, name)
	if err != nil {
		return err
	}
	if game == nil {
		d.Say(fmt.Sprintf("Sorry, I couldn't retrieve details for the game '%s'.", name))
		return nil
	}
	return s.describeGames(ctx, d, []catalog.Game{*game})
}

func (s *Server) providePublisherGames(ctx context.Context, tracker *trackerStore, d *Dispatcher) error {
	publishers := stringsSlot(tracker, slots.SlotPublishers)
	defer tracker.Set(slots.SlotPublishers, nil)

	if len(publishers) == 0 {
		d.Say("I need the name of the publisher to provide details.")
		return nil
	}
	publisher := publishers[0]

	games, err := s.rec.TopByPublisher(ctx, publisher, recommend.DefaultDisplayCount)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		d.Say(fmt.Sprintf("Sorry, I couldn't find any games for the publisher %s.", publisher))
		return nil
	}
	d.Say(fmt.Sprintf("Here %s %d of our recommendations based on the publisher %s:",
		pluralVerb(len(games)), len(games), publisher))
	return s.describeGames(ctx, d, games)
}

func (s *Server) provideGenres(ctx context.Context, d *Dispatcher) error {
	genres, err := s.store.TopTags(ctx)
	if err != nil {
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "I have a total of %d genres and subgenres available. These are the %d most popular:\n\n",
		len(genres), min(browseListLength, len(genres)))
	for i, genre := range genres {
		if i == browseListLength {
			break
		}
		fmt.Fprintf(&sb, "%d. %s - %d games in this genre\n", i+1, genre.Name, genre.GameCount)
	}
	d.Say(sb.String())
	return nil
}

func (s *Server) providePublishers(ctx context.Context, d *Dispatcher) error {
	publishers, err := s.store.TopPublishers(ctx)
	if err != nil {
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "I have %d publishers available. These are the %d who have produced the most games:\n\n",
		len(publishers), min(browseListLength, len(publishers)))
	for i, publisher := range publishers {
		if i == browseListLength {
			break
		}
		fmt.Fprintf(&sb, "%d. %s - Games produced: %d\n", i+1, publisher.Name, publisher.GameCount)
	}
	d.Say(sb.String())
	return nil
}

func (s *Server) provideRecommendation(ctx context.Context, tracker *trackerStore, d *Dispatcher) error {
	cfg := slots.LoadConfig(tracker)

	result, err := s.rec.Recommend(ctx, cfg)
	if errors.Is(err, recommend.ErrUnsupportedFilters) {
		d.Say("Sorry, I couldn't process your request. Please try specifying different criteria or check your input.")
		tracker.ResetAll()
		return nil
	}
	if err != nil {
		return err
	}

	positive, negative := recommendationReplies(result)
	if len(result.Games) == 0 {
		d.Say(negative)
		tracker.ResetAll()
		return nil
	}
	d.Say(positive)
	if err := s.describeGames(ctx, d, result.Games); err != nil {
		return err
	}

	// The filter configuration is consumed exactly once per dialogue.
	tracker.ResetAll()
	return nil
}

func (s *Server) validateRecommendationForm(ctx context.Context, tracker *trackerStore, d *Dispatcher) error {
	for _, facetName := range []slots.FacetName{slots.FacetGenres, slots.FacetPublishers} {
		toggleKey, _ := slots.FacetKeys(facetName)
		rawToggle, _ := tracker.Get(toggleKey)
		current := slots.LoadFacet(tracker, facetName)

		facet, reply := s.validator.ValidateToggle(facetName, current, rawToggle)
		d.Say(reply)

		facet, reply, err := s.validator.ValidateValues(ctx, facetName, facet, nil)
		if err != nil {
			return err
		}
		d.Say(reply)

		slots.SaveFacet(tracker, facetName, facet)
	}
	return nil
}

// describeGames attaches the related-name lists and emits one card per game,
// with artwork when the header image checks out.
func (s *Server) describeGames(ctx context.Context, d *Dispatcher, games []catalog.Game) error {
	games, err := s.store.Enrich(ctx, games)
	if err != nil {
		return err
	}
	for _, game := range games {
		text := gameInfo(game)
		if !imagecheck.ValidURL(game.HeaderImage) {
			d.Say(text + "\nNo valid image URL found")
			continue
		}
		ok, err := s.images.IsImage(ctx, game.HeaderImage)
		switch {
		case err != nil:
			d.Say(text + "\nFailed to retrieve image")
		case ok:
			d.SayWithImage(text, game.HeaderImage)
		default:
			d.Say(text + "\nThe URL does not point to an image")
		}
	}
	return nil
}

func stringSlot(tracker *trackerStore, key string) string {
	v, ok := tracker.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func stringsSlot(tracker *trackerStore, key string) []string {
	v, ok := tracker.Get(key)
	if !ok {
		return nil
	}
	switch vv := v.(type) {
	case string:
		if vv == "" {
			return nil
		}
		return []string{vv}
	case []string:
		return vv
	case []any:
		var out []string
		for _, item := range vv {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
