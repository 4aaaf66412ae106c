package plex

import (
	"strconv"
	"strings"
)

// ExternalID is a typed cross-reference identifier extracted from a catalog
// item, e.g. {Namespace: "tvdb", ID: 371980}.
type ExternalID struct {
	Namespace string
	ID        int64
}

// NamespaceTVDB is the provenance namespace of the inventory source's
// primary key.
const NamespaceTVDB = "tvdb"

// guidExtractor pulls external identifiers out of one representation of an
// item's cross-references. Extractors are tried in order and the first one
// that yields any identifier wins; later representations are ignored. The
// structured Guid list is authoritative, the legacy agent guid string is the
// fallback for libraries scanned by pre-agent-framework Plex versions.
type guidExtractor func(Item) []ExternalID

var guidExtractors = []guidExtractor{
	extractStructuredGUIDs,
	extractLegacyGUID,
}

// ExtractExternalIDs returns the item's typed cross-references from the
// first extraction strategy that produces any.
func ExtractExternalIDs(item Item) []ExternalID {
	for _, extract := range guidExtractors {
		if ids := extract(item); len(ids) > 0 {
			return ids
		}
	}
	return nil
}

// MatchesExternalID reports whether the item cross-references the given
// identifier in the given namespace.
func MatchesExternalID(item Item, namespace string, id int64) bool {
	for _, ref := range ExtractExternalIDs(item) {
		if ref.Namespace == namespace && ref.ID == id {
			return true
		}
	}
	return false
}

// extractStructuredGUIDs parses the modern "ns://id" Guid list.
func extractStructuredGUIDs(item Item) []ExternalID {
	var ids []ExternalID
	for _, ref := range item.GUIDs {
		if parsed, ok := parseGUID(ref.ID); ok {
			ids = append(ids, parsed)
		}
	}
	return ids
}

// legacyAgents maps old metadata-agent names onto modern namespaces.
var legacyAgents = map[string]string{
	"thetvdb":    "tvdb",
	"themoviedb": "tmdb",
	"imdb":       "imdb",
}

// extractLegacyGUID parses the primary guid string written by legacy agents,
// e.g. "com.plexapp.agents.thetvdb://371980?lang=en".
func extractLegacyGUID(item Item) []ExternalID {
	const prefix = "com.plexapp.agents."
	guid := item.GUID
	if !strings.HasPrefix(guid, prefix) {
		return nil
	}
	rest := guid[len(prefix):]
	agent, value, ok := strings.Cut(rest, "://")
	if !ok {
		return nil
	}
	namespace, ok := legacyAgents[agent]
	if !ok {
		return nil
	}
	if idx := strings.IndexAny(value, "?/"); idx >= 0 {
		value = value[:idx]
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil
	}
	return []ExternalID{{Namespace: namespace, ID: id}}
}

func parseGUID(raw string) (ExternalID, bool) {
	namespace, value, ok := strings.Cut(raw, "://")
	if !ok || namespace == "" {
		return ExternalID{}, false
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return ExternalID{}, false
	}
	return ExternalID{Namespace: namespace, ID: id}, true
}
