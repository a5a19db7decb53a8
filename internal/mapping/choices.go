package mapping

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed choices.yaml
var choicesYAML []byte

type choiceTables struct {
	RightsBases  []string `yaml:"rights_bases"`
	ActTypes     []string `yaml:"act_types"`
	Restrictions []string `yaml:"restrictions"`
	NameOrders   []string `yaml:"name_orders"`
}

var choices = func() choiceTables {
	var tables choiceTables
	if err := yaml.Unmarshal(choicesYAML, &tables); err != nil {
		panic(fmt.Sprintf("mapping: parse choices.yaml: %v", err))
	}
	return tables
}()

func contains(list []string, value string) bool {
	for _, entry := range list {
		if entry == value {
			return true
		}
	}
	return false
}

// ValidRightsBasis reports whether a lowercased rights basis is a known
// controlled value.
func ValidRightsBasis(basis string) bool {
	return contains(choices.RightsBases, basis)
}

// ValidActType reports whether an act type is a known controlled value.
func ValidActType(act string) bool {
	return contains(choices.ActTypes, act)
}

// ValidRestriction reports whether a restriction is a known controlled value.
func ValidRestriction(restriction string) bool {
	return contains(choices.Restrictions, restriction)
}
