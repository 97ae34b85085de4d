package constants

import "fmt"

// Redis cache keys for the ticketly application.
// Pattern: ticketly:{module}:{operation}:{identifier}

const CACHE_PREFIX = "ticketly"

// ================== EVENTS MODULE ==================

const (
	CACHE_KEY_EVENTS_LIST  = CACHE_PREFIX + ":events:list"         // + :page:X:limit:Y
	CACHE_KEY_EVENT_DETAIL = CACHE_PREFIX + ":events:detail:uuid:" // + event-id
)

// ================== SEATS MODULE ==================

const (
	CACHE_KEY_SEATS_BY_EVENT  = CACHE_PREFIX + ":seats:event:"     // + event-id:category
	CACHE_KEY_SEATS_AVAILABLE = CACHE_PREFIX + ":seats:available:" // + event-id:category
)

// ================== INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_EVENTS_ALL = CACHE_PREFIX + ":events:*"
	PATTERN_INVALIDATE_SEATS_ALL  = CACHE_PREFIX + ":seats:*"
)

// ================== KEY BUILDERS ==================

func BuildEventListKey(page, limit int, search string, upcoming bool) string {
	return fmt.Sprintf("%s:page:%d:limit:%d:search:%s:upcoming:%t", CACHE_KEY_EVENTS_LIST, page, limit, search, upcoming)
}

func BuildEventDetailKey(eventID string) string {
	return CACHE_KEY_EVENT_DETAIL + eventID
}

func BuildSeatsByEventKey(eventID, category string) string {
	if category == "" {
		category = "all"
	}
	return CACHE_KEY_SEATS_BY_EVENT + eventID + ":" + category
}

func BuildAvailableSeatsKey(eventID, category string) string {
	if category == "" {
		category = "all"
	}
	return CACHE_KEY_SEATS_AVAILABLE + eventID + ":" + category
}

func BuildSeatInvalidationPattern(eventID string) string {
	return CACHE_PREFIX + ":seats:*" + eventID + "*"
}
