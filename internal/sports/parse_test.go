package sports

import (
	"testing"
	"time"
)

func TestParseEvents_SingleEnded(t *testing.T) {
	raw := []byte(`{
		"leagueAbbreviation": "CDL",
		"gameId": "game-1",
		"ended": true,
		"homeTeam": "OpTic",
		"awayTeam": "FaZe",
		"score": {"home": 3, "away": 1},
		"period": "final",
		"finishedTimestamp": "2025-03-01T18:30:00Z"
	}`)

	events := ParseEvents(raw)
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}

	ev := events[0]
	if ev.League != "cdl" {
		t.Errorf("League = %q, want lowercased cdl", ev.League)
	}
	if !ev.Ended || ev.GameID != "game-1" {
		t.Errorf("event = %+v", ev)
	}
	if ev.HomeTeam != "OpTic" || ev.AwayTeam != "FaZe" {
		t.Errorf("teams = %s vs %s", ev.HomeTeam, ev.AwayTeam)
	}
	if ev.Score != `{"away":1,"home":3}` {
		t.Errorf("Score = %q, want re-encoded JSON", ev.Score)
	}
	want := time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)
	if !ev.FinishedTimestamp.Equal(want) {
		t.Errorf("FinishedTimestamp = %v, want %v", ev.FinishedTimestamp, want)
	}
}

func TestParseEvents_Array(t *testing.T) {
	raw := []byte(`[
		{"leagueAbbreviation":"cs2","gameId":"g-1","ended":false},
		{"leagueAbbreviation":"csgo","gameId":"g-2","ended":true},
		"not an object"
	]`)

	events := ParseEvents(raw)
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].Ended || !events[1].Ended {
		t.Errorf("ended flags = %v/%v, want false/true", events[0].Ended, events[1].Ended)
	}
}

func TestParseEvents_EpochTimestamps(t *testing.T) {
	raw := []byte(`{"leagueAbbreviation":"cdl","gameId":"g-1","ended":true,"finishedTimestamp":1740850200000}`)

	events := ParseEvents(raw)
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].FinishedTimestamp.UnixMilli() != 1740850200000 {
		t.Errorf("FinishedTimestamp = %v", events[0].FinishedTimestamp)
	}
}

func TestParseEvents_Malformed(t *testing.T) {
	if events := ParseEvents([]byte(`{"gameId": `)); len(events) != 0 {
		t.Errorf("events = %v, want none", events)
	}
	if events := ParseEvents([]byte(`"ping"`)); len(events) != 0 {
		t.Errorf("events = %v, want none", events)
	}
}
