package creature

import (
	"fmt"
	"time"
)

// Kind is one of the three fixed creature archetypes.
type Kind int

const (
	KindFlame Kind = iota
	KindAqua
	KindLeaf
)

// Kinds lists every Kind in declaration order.
var Kinds = []Kind{KindFlame, KindAqua, KindLeaf}

var kindTokens = map[Kind]string{
	KindFlame: "FLAME",
	KindAqua:  "AQUA",
	KindLeaf:  "LEAF",
}

// String returns the stable upper-case token used in encodings.
func (k Kind) String() string {
	if s, ok := kindTokens[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	_, ok := kindTokens[k]
	return ok
}

// BaseStats returns the kind-specific combat stats a freshly hatched creature starts with.
//
// Precondition: k.Valid().
func (k Kind) BaseStats() CombatStats {
	switch k {
	case KindFlame:
		return CombatStats{Strength: 12, Defense: 8, Speed: 10, MaxHP: 100}
	case KindAqua:
		return CombatStats{Strength: 9, Defense: 12, Speed: 8, MaxHP: 110}
	case KindLeaf:
		return CombatStats{Strength: 10, Defense: 10, Speed: 12, MaxHP: 95}
	default:
		return CombatStats{}
	}
}

// ParseKind parses a Kind token.
//
// Postcondition: Returns the Kind whose String() equals s, or an error.
func ParseKind(s string) (Kind, error) {
	for k, tok := range kindTokens {
		if tok == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q", s)
}

// GrowthStage is one of five ordered, age-gated maturity levels.
type GrowthStage int

const (
	StageBaby GrowthStage = iota
	StageChild
	StageTeen
	StageAdult
	StageElder
)

// Stages lists every GrowthStage in ascending order.
var Stages = []GrowthStage{StageBaby, StageChild, StageTeen, StageAdult, StageElder}

type stageInfo struct {
	token  string
	minAge time.Duration
}

var stageTable = map[GrowthStage]stageInfo{
	StageBaby:  {"BABY", 0},
	StageChild: {"CHILD", 24 * time.Hour},
	StageTeen:  {"TEEN", 72 * time.Hour},
	StageAdult: {"ADULT", 7 * 24 * time.Hour},
	StageElder: {"ELDER", 14 * 24 * time.Hour},
}

// String returns the stable upper-case token used in encodings.
func (s GrowthStage) String() string {
	if info, ok := stageTable[s]; ok {
		return info.token
	}
	return fmt.Sprintf("GrowthStage(%d)", int(s))
}

// Order is the integer used for monotonic stage comparison.
func (s GrowthStage) Order() int { return int(s) }

// MinAge is the minimum creature age at which the stage is reached.
func (s GrowthStage) MinAge() time.Duration { return stageTable[s].minAge }

// Valid reports whether s is one of the declared stages.
func (s GrowthStage) Valid() bool {
	_, ok := stageTable[s]
	return ok
}

// StageForAge returns the stage with the greatest MinAge not exceeding age.
//
// Postcondition: Returns StageBaby for any age below the CHILD threshold, including negative ages.
func StageForAge(age time.Duration) GrowthStage {
	best := StageBaby
	for _, s := range Stages {
		if s.MinAge() <= age {
			best = s
		}
	}
	return best
}

// ParseGrowthStage parses a GrowthStage token.
func ParseGrowthStage(s string) (GrowthStage, error) {
	for st, info := range stageTable {
		if info.token == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown growth stage %q", s)
}

// EvolutionPath tags how a creature was raised.
type EvolutionPath int

const (
	PathNormal EvolutionPath = iota
	PathHappy
	PathStrong
	PathWise
	PathNeglected
	PathSick
	PathAngry
)

// Paths lists every EvolutionPath in declaration order.
var Paths = []EvolutionPath{PathNormal, PathHappy, PathStrong, PathWise, PathNeglected, PathSick, PathAngry}

var pathTokens = map[EvolutionPath]string{
	PathNormal:    "NORMAL",
	PathHappy:     "HAPPY",
	PathStrong:    "STRONG",
	PathWise:      "WISE",
	PathNeglected: "NEGLECTED",
	PathSick:      "SICK",
	PathAngry:     "ANGRY",
}

// String returns the stable upper-case token used in encodings.
func (p EvolutionPath) String() string {
	if s, ok := pathTokens[p]; ok {
		return s
	}
	return fmt.Sprintf("EvolutionPath(%d)", int(p))
}

// Valid reports whether p is one of the declared paths.
func (p EvolutionPath) Valid() bool {
	_, ok := pathTokens[p]
	return ok
}

// IsPositive reports whether p is one of the good-care branches.
func (p EvolutionPath) IsPositive() bool {
	return p == PathHappy || p == PathStrong || p == PathWise
}

// IsNegative reports whether p is one of the poor-care branches.
func (p EvolutionPath) IsNegative() bool {
	return p == PathNeglected || p == PathSick || p == PathAngry
}

// ParseEvolutionPath parses an EvolutionPath token.
func ParseEvolutionPath(s string) (EvolutionPath, error) {
	for p, tok := range pathTokens {
		if tok == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown evolution path %q", s)
}
