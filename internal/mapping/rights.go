package mapping

import (
	"fmt"
	"strings"

	"aquarius/internal/archivesspace"
	"aquarius/internal/packages"
)

// MapRightsStatements translates source rights statements into target form.
// The basis maps to rights_type lowercased, other bases lowercase, the
// jurisdiction uppercases, and each granted act becomes one acts sub-record.
func MapRightsStatements(statements []packages.RightsStatement) ([]archivesspace.RightsStatement, error) {
	if len(statements) == 0 {
		return nil, nil
	}
	mapped := make([]archivesspace.RightsStatement, 0, len(statements))
	for i, statement := range statements {
		rightsType := strings.ToLower(strings.TrimSpace(statement.RightsBasis))
		if rightsType == "" {
			return nil, missingField(fmt.Sprintf("rights_statement[%d]", i), "rights_basis")
		}
		if !ValidRightsBasis(rightsType) {
			return nil, malformedField(fmt.Sprintf("rights_statement[%d]", i), "rights_basis",
				fmt.Errorf("unknown basis %q", statement.RightsBasis))
		}

		target := archivesspace.RightsStatement{
			RightsType:        rightsType,
			OtherRightsBasis:  strings.ToLower(statement.OtherRightsBasis),
			Jurisdiction:      strings.ToUpper(statement.Jurisdiction),
			DeterminationDate: statement.DeterminationDate,
			StartDate:         statement.StartDate,
			EndDate:           statement.EndDate,
			Status:            statement.Status,
			LicenseTerms:      statement.LicenseTerms,
			StatuteCitation:   statement.Citation,
			JSONModelType:     "rights_statement",
		}
		if statement.Note != "" {
			target.Notes = []archivesspace.Note{{
				JSONModelType: "note_rights_statement",
				Type:          "type_note",
				Content:       []string{statement.Note},
			}}
		}

		acts, err := mapActs(statement.RightsGranted, i)
		if err != nil {
			return nil, err
		}
		target.Acts = acts
		mapped = append(mapped, target)
	}
	return mapped, nil
}

func mapActs(granted []packages.RightsGranted, statementIndex int) ([]archivesspace.RightsStatementAct, error) {
	if len(granted) == 0 {
		return nil, nil
	}
	acts := make([]archivesspace.RightsStatementAct, 0, len(granted))
	for i, grant := range granted {
		record := fmt.Sprintf("rights_statement[%d].rights_granted[%d]", statementIndex, i)
		if strings.TrimSpace(grant.Act) == "" {
			return nil, missingField(record, "act")
		}
		if !ValidActType(grant.Act) {
			return nil, malformedField(record, "act", fmt.Errorf("unknown act %q", grant.Act))
		}
		if grant.Restriction != "" && !ValidRestriction(grant.Restriction) {
			return nil, malformedField(record, "restriction", fmt.Errorf("unknown restriction %q", grant.Restriction))
		}

		act := archivesspace.RightsStatementAct{
			ActType:       grant.Act,
			Restriction:   grant.Restriction,
			StartDate:     grant.StartDate,
			EndDate:       grant.EndDate,
			JSONModelType: "rights_statement_act",
		}
		if grant.Note != "" {
			act.Notes = []archivesspace.Note{{
				JSONModelType: "note_rights_statement_act",
				Type:          "additional_information",
				Content:       []string{grant.Note},
			}}
		}
		acts = append(acts, act)
	}
	return acts, nil
}
