package nba

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ParseActions extracts the chronological action stream from a play-by-play
// document. Documents with no actions yield an empty slice, which callers
// treat as an unresolvable game.
func ParseActions(pbpData map[string]interface{}) []Action {
	game := extractMap(pbpData, "game")
	raw := extractArray(game, "actions")

	actions := make([]Action, 0, len(raw))
	for _, actionInterface := range raw {
		actionData, ok := actionInterface.(map[string]interface{})
		if !ok {
			continue
		}

		actions = append(actions, Action{
			Period:         extractInt(actionData, "period"),
			Clock:          extractString(actionData, "clock"),
			ActionType:     strings.ToLower(extractString(actionData, "actionType")),
			SubType:        strings.ToLower(extractString(actionData, "subType")),
			Description:    strings.ToLower(extractString(actionData, "description")),
			ShotResult:     strings.ToLower(extractString(actionData, "shotResult")),
			PersonID:       extractInt(actionData, "personId"),
			AssistPersonID: extractInt(actionData, "assistPersonId"),
			TeamID:         extractInt(actionData, "teamId"),
		})
	}

	return actions
}

// ParseBoxScore extracts the requested team's side of a box-score document.
func ParseBoxScore(boxData map[string]interface{}, teamID int) (*BoxScore, error) {
	game := extractMap(boxData, "game")
	if len(game) == 0 {
		return nil, fmt.Errorf("no game data in box score")
	}

	for _, key := range []string{"homeTeam", "awayTeam"} {
		teamData := extractMap(game, key)
		if extractInt(teamData, "teamId") != teamID {
			continue
		}

		box := &BoxScore{TeamID: teamID}
		for _, playerInterface := range extractArray(teamData, "players") {
			playerData, ok := playerInterface.(map[string]interface{})
			if !ok {
				continue
			}

			statistics := extractMap(playerData, "statistics")
			box.Players = append(box.Players, BoxPlayer{
				PersonID: extractInt(playerData, "personId"),
				Name:     extractString(playerData, "name"),
				Position: strings.TrimSpace(extractString(playerData, "position")),
				Starter:  isStarterFlag(playerData["starter"]),
				Minutes:  parseMinutes(extractString(statistics, "minutes")),
			})
		}
		return box, nil
	}

	return nil, fmt.Errorf("team %d not in box score", teamID)
}

// The feed encodes the starter flag as "1", 1, or true depending on vintage.
func isStarterFlag(v interface{}) bool {
	switch val := v.(type) {
	case string:
		return val == "1"
	case float64:
		return val == 1
	case bool:
		return val
	default:
		return false
	}
}

var isoMinutesRe = regexp.MustCompile(`PT(\d+)M([\d.]+)S`)

// parseMinutes converts a box-score minutes value ("PT36M12.00S" or
// "36:12") to fractional minutes.
func parseMinutes(minutesStr string) float64 {
	minutesStr = strings.TrimSpace(minutesStr)
	if minutesStr == "" {
		return 0
	}

	if match := isoMinutesRe.FindStringSubmatch(minutesStr); match != nil {
		mins, _ := strconv.Atoi(match[1])
		secs, _ := strconv.ParseFloat(match[2], 64)
		return float64(mins) + secs/60.0
	}

	if strings.Contains(minutesStr, ":") {
		parts := strings.Split(minutesStr, ":")
		mins, _ := strconv.Atoi(parts[0])
		secs := 0
		if len(parts) > 1 {
			secs, _ = strconv.Atoi(parts[1])
		}
		return float64(mins) + float64(secs)/60.0
	}

	f, _ := strconv.ParseFloat(minutesStr, 64)
	return f
}

// ParseScheduleGameIDs extracts the distinct game identifiers from a
// leaguegamefinder result document, sorted ascending so processing order is
// stable across runs.
func ParseScheduleGameIDs(scheduleData map[string]interface{}) ([]string, error) {
	resultSets := extractArray(scheduleData, "resultSets")
	if len(resultSets) == 0 {
		return nil, fmt.Errorf("no result sets in schedule response")
	}

	resultSet, ok := resultSets[0].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("malformed result set")
	}

	gameIDIdx := -1
	for i, headerInterface := range extractArray(resultSet, "headers") {
		if header, ok := headerInterface.(string); ok && header == "GAME_ID" {
			gameIDIdx = i
			break
		}
	}
	if gameIDIdx < 0 {
		return nil, fmt.Errorf("schedule response missing GAME_ID column")
	}

	seen := make(map[string]bool)
	var gameIDs []string
	for _, rowInterface := range extractArray(resultSet, "rowSet") {
		row, ok := rowInterface.([]interface{})
		if !ok || gameIDIdx >= len(row) {
			continue
		}
		gameID, ok := row[gameIDIdx].(string)
		if !ok || gameID == "" || seen[gameID] {
			continue
		}
		seen[gameID] = true
		gameIDs = append(gameIDs, gameID)
	}

	sort.Strings(gameIDs)
	return gameIDs, nil
}

// Helper functions

func extractString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

func extractInt(m map[string]interface{}, key string) int {
	if v, ok := m[key]; ok {
		switch val := v.(type) {
		case float64:
			return int(val)
		case int:
			return val
		case string:
			i, _ := strconv.Atoi(val)
			return i
		}
	}
	return 0
}

func extractMap(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key]; ok {
		if mapVal, ok := v.(map[string]interface{}); ok {
			return mapVal
		}
	}
	return map[string]interface{}{}
}

func extractArray(m map[string]interface{}, key string) []interface{} {
	if v, ok := m[key]; ok {
		if arrVal, ok := v.([]interface{}); ok {
			return arrVal
		}
	}
	return []interface{}{}
}
