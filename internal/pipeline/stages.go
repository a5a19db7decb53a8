package pipeline

import (
	"context"
	"fmt"

	"aquarius/internal/packages"
)

// Stage describes one pipeline transition: packages at Start are transformed
// by Apply and advanced to End. The engine runs the same loop for every
// stage; all stage-specific behavior lives in Apply.
type Stage struct {
	Name  string
	Start packages.Status
	End   packages.Status
	Apply func(ctx context.Context, e *Engine, pkg *packages.Package) error
}

// Stage names, in pipeline order.
const (
	StageAccession         = "accession"
	StageGroupingComponent = "grouping_component"
	StageTransferComponent = "transfer_component"
	StageDigitalObject     = "digital_object"
	StageUpdateTransfer    = "update_transfer"
	StageUpdateAccession   = "update_accession"
)

var stages = []Stage{
	{
		Name:  StageAccession,
		Start: packages.StatusSaved,
		End:   packages.StatusAccessionCreated,
		Apply: applyAccession,
	},
	{
		Name:  StageGroupingComponent,
		Start: packages.StatusAccessionCreated,
		End:   packages.StatusGroupingComponentCreated,
		Apply: applyGroupingComponent,
	},
	{
		Name:  StageTransferComponent,
		Start: packages.StatusGroupingComponentCreated,
		End:   packages.StatusTransferComponentCreated,
		Apply: applyTransferComponent,
	},
	{
		Name:  StageDigitalObject,
		Start: packages.StatusTransferComponentCreated,
		End:   packages.StatusDigitalObjectCreated,
		Apply: applyDigitalObject,
	},
	{
		Name:  StageUpdateTransfer,
		Start: packages.StatusDigitalObjectCreated,
		End:   packages.StatusUpdateSent,
		Apply: applyUpdateTransfer,
	},
	{
		Name:  StageUpdateAccession,
		Start: packages.StatusUpdateSent,
		End:   packages.StatusAccessionUpdateSent,
		Apply: applyUpdateAccession,
	},
}

// Stages returns the ordered stage list.
func Stages() []Stage {
	cp := make([]Stage, len(stages))
	copy(cp, stages)
	return cp
}

// StageNames returns the ordered stage names.
func StageNames() []string {
	names := make([]string, len(stages))
	for i, stage := range stages {
		names[i] = stage.Name
	}
	return names
}

// StageByName looks up a stage descriptor.
func StageByName(name string) (Stage, error) {
	for _, stage := range stages {
		if stage.Name == name {
			return stage, nil
		}
	}
	return Stage{}, fmt.Errorf("unknown stage %q", name)
}
