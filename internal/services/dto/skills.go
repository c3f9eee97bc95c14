package dto

// SkillsOp selects how UpdateUserSkills treats the submitted set.
type SkillsOp string

const (
	SkillsOpAdd     SkillsOp = "add"     // insert new, leave existing alone
	SkillsOpUpdate  SkillsOp = "update"  // update matching names
	SkillsOpRemove  SkillsOp = "remove"  // delete matching names
	SkillsOpReplace SkillsOp = "replace" // reconcile stored set with submitted set
)

func (op SkillsOp) Valid() bool {
	switch op {
	case SkillsOpAdd, SkillsOpUpdate, SkillsOpRemove, SkillsOpReplace:
		return true
	}
	return false
}

type UpdateSkillsRequest struct {
	Op     SkillsOp     `json:"op" validate:"required"`
	Skills []SkillEntry `json:"skills" validate:"required,min=1,dive"`
}

type SkillResponse struct {
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Proficiency string `json:"proficiency,omitempty"`
	Verified    bool   `json:"verified"`
}
