package models

import "time"

const SetupSchemaVersion = "1.0"

const (
	MomStatusPregnant   = "Pregnant"
	MomStatusNewMom     = "New Mom"
	MomStatusToddlerMom = "Toddler Mom"
	MomStatusMixed      = "Mixed"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

func MomStatuses() []string {
	return []string{MomStatusPregnant, MomStatusNewMom, MomStatusToddlerMom, MomStatusMixed}
}

func IsValidMomStatus(value string) bool {
	for _, status := range MomStatuses() {
		if status == value {
			return true
		}
	}
	return false
}

// DefaultGoals are the built-in goals offered on the mom setup screen.
// They can be selected but never edited or deleted.
func DefaultGoals() []string {
	return []string{
		"Sleep",
		"Feeding",
		"Self-care",
		"Mental health",
		"Nutrition",
		"Fitness",
		"Milestones",
		"Community",
	}
}

type ChildRecord struct {
	FullName string `json:"fullName"`
	Age      string `json:"age"`
	DOB      string `json:"dob"`
	Gender   string `json:"gender"`
}

type PartnerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type MomSetupRecord struct {
	MomStatus            string       `json:"momStatus"`
	SelectedGoals        []string     `json:"selectedGoals"`
	CustomGoals          []string     `json:"customGoals"`
	Partner              *PartnerInfo `json:"partner,omitempty"`
	NotificationsEnabled bool         `json:"notificationsEnabled"`
}

// SetupRecord is the finished onboarding form. A new onboarding run
// replaces it entirely.
type SetupRecord struct {
	UserID      string         `json:"userId"`
	MomSetup    MomSetupRecord `json:"momSetup"`
	Children    []ChildRecord  `json:"children"`
	CompletedAt time.Time      `json:"completedAt"`
	Version     string         `json:"version"`
}

// TempSetupRecord is the partial record kept between the two onboarding stages.
type TempSetupRecord struct {
	MomSetup *MomSetupRecord `json:"momSetup,omitempty"`
}
