package subscribers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/core"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/events"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/mana"
)

func TestLoggerSubscriber(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logSub := subscribers.NewLoggerSubscriber("test-logger", logger, zerolog.InfoLevel)

	assert.Equal(t, "test-logger", logSub.ID())
	assert.True(t, logSub.InterestedIn(events.TypeTrialStarted))
	assert.True(t, logSub.InterestedIn(events.TypeTurnStarted))
	assert.True(t, logSub.InterestedIn("any.event.type"))
}

func TestLoggerSubscriberEventLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	cat := core.NewCatalog()
	forest := cat.MustAdd(core.Card{Name: "Forest", Type: core.TypeLand, Produces: mana.Pool{G: 1}})
	omnath := cat.MustAdd(core.Card{Name: "Omnath", Type: core.TypeCreature, Cost: mana.MustParseCost("{2}{G}{G}"), Tags: []string{core.TagCommander}})

	logSub := subscribers.NewLoggerSubscriber("event-logger", logger, zerolog.InfoLevel)
	logSub.SetCatalog(cat)

	testCases := []struct {
		name  string
		event events.Event
		check func(t *testing.T, logLine map[string]interface{})
	}{
		{
			name:  "TrialStartedEvent",
			event: events.NewTrialStartedEvent("trial-1", 42, 40, true),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(42), logLine["seed"])
				assert.Equal(t, float64(40), logLine["deck_size"])
				assert.Equal(t, true, logLine["on_the_play"])
			},
		},
		{
			name:  "LandPlayedEvent",
			event: events.NewLandPlayedEvent("trial-1", 2, forest, mana.Pool{G: 1}),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(2), logLine["turn"])
				assert.Equal(t, "Forest", logLine["card"])
				assert.Equal(t, "{G}", logLine["produces"])
			},
		},
		{
			name:  "SpellCastEvent",
			event: events.NewSpellCastEvent("trial-1", 4, omnath, cat.Card(omnath), core.ZoneCommand, mana.Pool{G: 4}),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "Omnath", logLine["card"])
				assert.Equal(t, "command", logLine["from"])
				assert.Equal(t, float64(4), logLine["mana_value"])
				assert.Equal(t, true, logLine["commander"])
			},
		},
		{
			name:  "TrialFinishedEvent",
			event: events.NewTrialFinishedEvent("trial-1", 10, "turn_limit_reached"),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "turn_limit_reached", logLine["reason"])
				assert.Equal(t, float64(10), logLine["turns_played"])
			},
		},
		{
			name:  "TrialAbortedEvent",
			event: events.NewTrialAbortedEvent("trial-1", 3, errors.New("bad cast")),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "bad cast", logLine["error"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf.Reset()
			logSub.HandleEvent(tc.event)

			logOutput := buf.String()
			require.NotEmpty(t, logOutput, "Log output should not be empty")

			var logLine map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(logOutput), &logLine))

			assert.Equal(t, "info", logLine["level"])
			assert.Equal(t, "Trial event", logLine["message"])
			assert.Equal(t, tc.event.Type(), logLine["event_type"])
			assert.Equal(t, "trial-1", logLine["trial_id"])

			tc.check(t, logLine)
		})
	}
}

func TestLoggerSubscriberWithFilter(t *testing.T) {
	logSub := subscribers.NewLoggerSubscriber("filtered-logger", zerolog.Nop(), zerolog.InfoLevel)
	logSub.SetEventFilter([]string{events.TypeTrialStarted, events.TypeTrialFinished})

	assert.True(t, logSub.InterestedIn(events.TypeTrialStarted))
	assert.True(t, logSub.InterestedIn(events.TypeTrialFinished))
	assert.False(t, logSub.InterestedIn(events.TypeTurnStarted))

	logSub.SetEventFilter(nil)
	assert.True(t, logSub.InterestedIn(events.TypeTurnStarted))
}

func TestLoggerSubscriberLogLevels(t *testing.T) {
	testCases := []struct {
		name     string
		logLevel zerolog.Level
		expected string
	}{
		{"Debug", zerolog.DebugLevel, "debug"},
		{"Info", zerolog.InfoLevel, "info"},
		{"Warn", zerolog.WarnLevel, "warn"},
		{"Error", zerolog.ErrorLevel, "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Level(tc.logLevel)

			logSub := subscribers.NewLoggerSubscriber("level-logger", logger, tc.logLevel)
			logSub.HandleEvent(events.NewTrialStartedEvent("trial-1", 1, 40, true))

			var logLine map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &logLine))
			assert.Equal(t, tc.expected, logLine["level"])
		})
	}
}

func TestLoggerSubscriberDevMode(t *testing.T) {
	var buf bytes.Buffer
	logSub := subscribers.NewLoggerSubscriber("dev-logger", zerolog.New(&buf), zerolog.InfoLevel)
	logSub.SetDevMode(true)

	logSub.HandleEvent(events.NewStopConditionMetEvent("trial-1", 5, "commander_cast"))

	var logLine map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logLine))
	data, ok := logLine["event_data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "commander_cast", data["condition"])
	assert.Equal(t, float64(5), data["turn"])
}

func TestLoggerSubscriberSkipsDisabledLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.InfoLevel)
	logSub := subscribers.NewLoggerSubscriber("quiet", logger, zerolog.DebugLevel)

	logSub.HandleEvent(events.NewTurnEndedEvent("trial-1", 1))
	assert.Empty(t, buf.String())
}
