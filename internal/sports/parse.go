package sports

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/WNGBrady/polymarket-data-collector/internal/model"
)

// ParseEvents normalizes one sports feed frame into match events. The
// feed sends both single objects and arrays; anything unparseable is
// dropped.
func ParseEvents(raw []byte) []model.MatchEvent {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}

	var objects []map[string]any
	switch v := payload.(type) {
	case []any:
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				objects = append(objects, obj)
			}
		}
	case map[string]any:
		objects = append(objects, v)
	}

	var events []model.MatchEvent
	for _, obj := range objects {
		events = append(events, extractEvent(obj))
	}
	return events
}

func extractEvent(data map[string]any) model.MatchEvent {
	ev := model.MatchEvent{
		League:   strings.ToLower(str(data["leagueAbbreviation"])),
		GameID:   str(data["gameId"]),
		HomeTeam: str(data["homeTeam"]),
		AwayTeam: str(data["awayTeam"]),
		Period:   str(data["period"]),
	}

	ev.Ended, _ = data["ended"].(bool)

	if score, ok := data["score"]; ok && score != nil {
		if encoded, err := json.Marshal(score); err == nil {
			ev.Score = string(encoded)
		}
	}

	ev.FinishedTimestamp = parseTime(data["finishedTimestamp"])
	ev.GameStartTime = parseTime(data["gameStartTime"])

	return ev
}

// parseTime accepts the feed's mixed timestamp encodings: RFC3339
// strings and epoch milliseconds, as number or numeric string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
		var ms json.Number = json.Number(t)
		if epoch, err := ms.Int64(); err == nil && epoch > 0 {
			return time.UnixMilli(epoch).UTC()
		}
	case float64:
		if t > 0 {
			return time.UnixMilli(int64(t)).UTC()
		}
	}
	return time.Time{}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
