package extract

import "encoding/json"

// featuresSchema constrains the extraction call to the EmailFeatures shape.
// Nullable fields are declared as ["T", "null"] unions so the model can emit
// explicit nulls instead of omitting keys.
var featuresSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "scheduled_datetime": {"type": ["string", "null"]},
    "date_text": {"type": ["string", "null"]},
    "date_from": {"type": ["string", "null"]},
    "date_to": {"type": ["string", "null"]},
    "time_from": {"type": ["string", "null"]},
    "time_to": {"type": ["string", "null"]},
    "has_complete_datetime": {"type": "boolean"},
    "location": {"type": ["string", "null"]},
    "meeting_url": {"type": ["string", "null"]},
    "maps_url": {"type": ["string", "null"]},
    "coordinates": {"type": ["string", "null"]},
    "location_type": {
      "type": ["string", "null"],
      "enum": ["physical", "virtual", "hybrid", "none", null]
    },
    "title": {"type": ["string", "null"]},
    "event_type": {
      "type": ["string", "null"],
      "enum": ["appointment", "meeting", "deadline", "maintenance", "payment",
               "verification", "notification", "reminder", "final", "other", null]
    },
    "event_confidence": {"type": ["number", "null"]},
    "urgency_level": {
      "type": ["string", "null"],
      "enum": ["low", "medium", "high", "critical", null]
    },
    "urgency_score": {"type": ["number", "null"]},
    "urgency_indicators": {"type": "array", "items": {"type": "string"}},
    "recurrence_pattern": {
      "type": ["string", "null"],
      "enum": ["none", "daily", "weekly", "monthly", "yearly", "custom", null]
    },
    "recurrence_text": {"type": ["string", "null"]},
    "action_required": {
      "type": ["string", "boolean", "null"],
      "enum": ["confirm", "reply", "pay", "verify", "click", "download",
               "complete", "review", "none", true, false, null]
    },
    "action_deadline": {"type": ["string", "null"]},
    "action_confidence": {"type": ["number", "null"]},
    "action_phrases": {"type": "array", "items": {"type": "string"}},
    "contains_links": {"type": "boolean"},
    "contains_attachments": {"type": "boolean"},
    "financial_amount": {"type": ["string", "null"]}
  },
  "required": [],
  "additionalProperties": false
}`)
