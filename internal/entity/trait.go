package entity

// CharacterTrait is the residue of a concept that evaporated after
// spending too long motionless at the surface.
type CharacterTrait struct {
	Name               string
	CrystallizedAtTick uint64
	SourceConceptName  string
}
