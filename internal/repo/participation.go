package repo

import (
	"slices"

	"github.com/roach88/vihar/internal/model"
)

// Join adds name to the roster of the vihar with id. Joining twice is a
// no-op reported with changed=false. Names are compared after
// model.NormalizeName and stored normalized.
//
// The returned slice is a new collection; vihars is not modified.
func Join(vihars []model.Vihar, id, name string) (out []model.Vihar, changed bool, err error) {
	return updateRoster(vihars, id, name, func(v *model.Vihar, n string) bool {
		if v.HasParticipant(n) {
			return false
		}
		v.Participants = append(v.Participants, n)
		return true
	})
}

// Leave removes every occurrence of name from the roster. Leaving a roster
// the name is not on is a no-op.
func Leave(vihars []model.Vihar, id, name string) (out []model.Vihar, changed bool, err error) {
	return updateRoster(vihars, id, name, func(v *model.Vihar, n string) bool {
		before := len(v.Participants)
		v.Participants = slices.DeleteFunc(v.Participants, func(p string) bool {
			return model.NormalizeName(p) == n
		})
		return len(v.Participants) != before
	})
}

func updateRoster(vihars []model.Vihar, id, name string, apply func(*model.Vihar, string) bool) ([]model.Vihar, bool, error) {
	n := model.NormalizeName(name)
	if n == "" {
		return vihars, false, model.NewValidationError("name", "is required")
	}
	idx := slices.IndexFunc(vihars, func(v model.Vihar) bool { return v.ID == id })
	if idx < 0 {
		return vihars, false, model.NotFound("vihar", id)
	}

	target := vihars[idx].Clone()
	if !apply(&target, n) {
		return vihars, false, nil
	}
	out := slices.Clone(vihars)
	out[idx] = target
	return out, true, nil
}
