package creature

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FormID returns the identifier of the evolution form for (kind, stage, path),
// e.g. "flame_teen_happy".
func FormID(k Kind, s GrowthStage, p EvolutionPath) string {
	return strings.ToLower(k.String() + "_" + s.String() + "_" + p.String())
}

// New hatches a creature of the given kind.
// Combat stats come from the kind; condition starts full and content; history is zeroed.
//
// Precondition: name must be non-empty and free of '|', CR and LF, which delimit
// snapshot and turn-log encodings; kind must be valid.
// Postcondition: Returns an active BABY/NORMAL creature with CurrentHP == MaxHP, or a non-nil error.
func New(name string, kind Kind, now time.Time) (Creature, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Creature{}, errors.New("creature name must not be empty")
	}
	if strings.ContainsAny(name, "|\r\n") {
		return Creature{}, fmt.Errorf("creature name %q must not contain '|' or line breaks", name)
	}
	if !kind.Valid() {
		return Creature{}, fmt.Errorf("creature kind %d is not valid", int(kind))
	}

	stats := kind.BaseStats()
	return Creature{
		ID:     uuid.New().String(),
		Name:   name,
		Kind:   kind,
		Stage:  StageBaby,
		Path:   PathNormal,
		FormID: FormID(kind, StageBaby, PathNormal),
		Combat: stats,
		Condition: ConditionStats{
			CurrentHP:   stats.MaxHP,
			Happiness:   StatMax,
			Cleanliness: StatMax,
		},
		Active:        true,
		CreatedAt:     now,
		LastCaredAt:   now,
		LastUpdatedAt: now,
	}, nil
}
