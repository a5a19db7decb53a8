package mapping

import (
	"fmt"
	"strings"

	"aquarius/internal/archivesspace"
	"aquarius/internal/packages"
)

// ParsedName is a person name split into its primary and remaining segments.
type ParsedName struct {
	Primary string
	Rest    string
	Order   string
}

// ParsePersonName splits a person name into (primary, rest). A name with a
// comma is treated as already inverted and splits on the first ", ". A name
// with spaces but no comma is assumed "given family": it splits on the last
// space and the parts are reversed. A bare token keeps an empty rest.
func ParsePersonName(name string) ParsedName {
	if idx := strings.Index(name, ", "); idx >= 0 {
		return ParsedName{
			Primary: name[:idx],
			Rest:    name[idx+2:],
			Order:   "inverted",
		}
	}
	if idx := strings.LastIndex(name, " "); idx >= 0 {
		return ParsedName{
			Primary: name[idx+1:],
			Rest:    name[:idx],
			Order:   "inverted",
		}
	}
	return ParsedName{Primary: name, Rest: "", Order: "inverted"}
}

// MapAgent translates a creator description into the target agent record
// and the record kind used for its endpoint.
func MapAgent(creator packages.Creator) (string, *archivesspace.Agent, error) {
	name := strings.TrimSpace(creator.Name)
	if name == "" {
		return "", nil, missingField("creator", "name")
	}

	switch creator.Type {
	case "person":
		parsed := ParsePersonName(name)
		return archivesspace.KindPerson, &archivesspace.Agent{
			JSONModelType: "agent_person",
			AgentType:     "agent_person",
			Names: []archivesspace.AgentName{{
				PrimaryName:          parsed.Primary,
				RestOfName:           parsed.Rest,
				NameOrder:            parsed.Order,
				SortNameAutoGenerate: true,
				JSONModelType:        "name_person",
			}},
			Publish: true,
		}, nil
	case "organization":
		return archivesspace.KindOrganization, &archivesspace.Agent{
			JSONModelType: "agent_corporate_entity",
			AgentType:     "agent_corporate_entity",
			Names: []archivesspace.AgentName{{
				PrimaryName:          name,
				SortNameAutoGenerate: true,
				JSONModelType:        "name_corporate_entity",
			}},
			Publish: true,
		}, nil
	case "family":
		return archivesspace.KindFamily, &archivesspace.Agent{
			JSONModelType: "agent_family",
			AgentType:     "agent_family",
			Names: []archivesspace.AgentName{{
				FamilyName:           name,
				SortNameAutoGenerate: true,
				JSONModelType:        "name_family",
			}},
			Publish: true,
		}, nil
	default:
		return "", nil, malformedField("creator", "type", fmt.Errorf("unknown agent type %q", creator.Type))
	}
}
