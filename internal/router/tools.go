package router

import (
	"encoding/json"

	"github.com/xaenox/mailmind/internal/llm"
)

// The closed set of action names the model may request. Anything else is a
// contract violation reported as a router error.
const (
	ActionCreateEvent          = "create_event"
	ActionSpotifyLinkDiscovery = "spotify_link_discovery"
	ActionAttractionDiscovery  = "attraction_discovery"
)

var routerTools = []llm.Tool{
	{
		Name: ActionCreateEvent,
		Description: "Create a calendar event based on extracted email features. " +
			"Use this when an email contains information about meetings, appointments, " +
			"deadlines, or any time-sensitive events.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {},
			"required": []
		}`),
	},
	{
		Name: ActionSpotifyLinkDiscovery,
		Description: "Discover Spotify links for songs or artists mentioned in the email. " +
			"Use this when the email mentions music, concerts, or artists. " +
			"Only pass the exact song title and artist name literally present in the email.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"song": {"type": "string", "description": "Exact song title mentioned in the email"},
				"artist": {"type": "string", "description": "Exact artist name mentioned in the email"}
			},
			"required": []
		}`),
	},
	{
		Name: ActionAttractionDiscovery,
		Description: "Discover attractions, venues, or points of interest based on a location " +
			"mentioned in the email. Use this when the email mentions travel, tourism, or " +
			"local attractions.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"location": {"type": "string", "description": "Location mentioned in the email"},
				"attraction_type": {"type": "string", "description": "Kind of attraction requested"}
			},
			"required": []
		}`),
	},
}

// toolArguments is the union of every tool's argument shape; unused fields
// stay empty per call.
type toolArguments struct {
	Song           string `json:"song"`
	Artist         string `json:"artist"`
	Location       string `json:"location"`
	AttractionType string `json:"attraction_type"`
}
