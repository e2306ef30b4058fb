package services

import (
	"errors"
	"strings"

	"github.com/terraincognita07/nestwell/internal/models"
)

var (
	ErrMomSetupInvalid = errors.New("mom setup invalid")
	ErrGoalBlank       = errors.New("goal name is blank")
	ErrGoalDuplicate   = errors.New("goal already exists")
	ErrGoalNotFound    = errors.New("goal not found")
	ErrGoalNotCustom   = errors.New("only custom goals can be changed")
)

const (
	FieldMomStatus     = "momStatus"
	FieldSelectedGoals = "selectedGoals"
	FieldCustomGoals   = "customGoals"
	FieldPartnerName   = "partnersName"
	FieldPartnerEmail  = "email"
)

// FieldErrors maps a form field to the message key describing its problem.
type FieldErrors map[string]string

func (errs FieldErrors) HasErrors() bool {
	return len(errs) > 0
}

// MomSetupForm is the first onboarding stage. Goals holds everything offered
// on screen, CustomGoals the user-authored subset of it and SelectedGoals the
// picked subset.
type MomSetupForm struct {
	MomStatus            string   `json:"momStatus"`
	Goals                []string `json:"goals"`
	CustomGoals          []string `json:"customGoals"`
	SelectedGoals        []string `json:"selectedGoals"`
	PartnerExpanded      bool     `json:"partnerExpanded"`
	PartnerName          string   `json:"partnersName"`
	PartnerEmail         string   `json:"email"`
	NotificationsEnabled bool     `json:"notificationsEnabled"`
}

func NewMomSetupForm() *MomSetupForm {
	return &MomSetupForm{
		Goals:         models.DefaultGoals(),
		CustomGoals:   []string{},
		SelectedGoals: []string{},
	}
}

// PrefillMomSetupForm starts the form from a previously saved record. Custom
// goals are offered again even when they were left unselected.
func PrefillMomSetupForm(record *models.MomSetupRecord) *MomSetupForm {
	form := NewMomSetupForm()
	if record == nil {
		return form
	}

	form.MomStatus = record.MomStatus
	form.NotificationsEnabled = record.NotificationsEnabled
	for _, goal := range record.CustomGoals {
		form.Goals = appendUnique(form.Goals, goal)
		form.CustomGoals = appendUnique(form.CustomGoals, goal)
	}
	for _, goal := range record.SelectedGoals {
		form.Goals = appendUnique(form.Goals, goal)
		form.SelectedGoals = appendUnique(form.SelectedGoals, goal)
	}
	if record.Partner != nil {
		form.PartnerExpanded = true
		form.PartnerName = record.Partner.Name
		form.PartnerEmail = record.Partner.Email
	}
	return form
}

// AddGoal offers a new user-authored goal. Selection is left untouched.
func (form *MomSetupForm) AddGoal(raw string) error {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ErrGoalBlank
	}
	if containsGoal(form.Goals, name) {
		return ErrGoalDuplicate
	}

	form.Goals = append(form.Goals, name)
	form.CustomGoals = append(form.CustomGoals, name)
	return nil
}

// EditGoal renames a custom goal in Goals, CustomGoals and SelectedGoals at once.
func (form *MomSetupForm) EditGoal(oldName string, rawNewName string) error {
	if !containsGoal(form.CustomGoals, oldName) {
		if containsGoal(form.Goals, oldName) {
			return ErrGoalNotCustom
		}
		return ErrGoalNotFound
	}

	newName := strings.TrimSpace(rawNewName)
	if newName == "" {
		return ErrGoalBlank
	}
	if newName == oldName {
		return nil
	}
	if containsGoal(form.Goals, newName) {
		return ErrGoalDuplicate
	}

	form.Goals = renameGoal(form.Goals, oldName, newName)
	form.CustomGoals = renameGoal(form.CustomGoals, oldName, newName)
	form.SelectedGoals = renameGoal(form.SelectedGoals, oldName, newName)
	return nil
}

// DeleteGoal removes a custom goal from all three lists. Built-in goals cannot be deleted.
func (form *MomSetupForm) DeleteGoal(name string) error {
	if !containsGoal(form.CustomGoals, name) {
		if containsGoal(form.Goals, name) {
			return ErrGoalNotCustom
		}
		return ErrGoalNotFound
	}

	form.Goals = removeGoal(form.Goals, name)
	form.CustomGoals = removeGoal(form.CustomGoals, name)
	form.SelectedGoals = removeGoal(form.SelectedGoals, name)
	return nil
}

func (form *MomSetupForm) ToggleGoal(name string) error {
	if !containsGoal(form.Goals, name) {
		return ErrGoalNotFound
	}
	if containsGoal(form.SelectedGoals, name) {
		form.SelectedGoals = removeGoal(form.SelectedGoals, name)
		return nil
	}
	form.SelectedGoals = append(form.SelectedGoals, name)
	return nil
}

func (form *MomSetupForm) Validate() FieldErrors {
	errs := FieldErrors{}

	if !models.IsValidMomStatus(form.MomStatus) {
		errs[FieldMomStatus] = "setup.error.mom_status_required"
	}

	selected := dedupeGoals(form.SelectedGoals)
	if len(selected) == 0 {
		errs[FieldSelectedGoals] = "setup.error.goals_required"
	} else if !isGoalSubset(selected, form.Goals) {
		errs[FieldSelectedGoals] = "setup.error.goals_mismatch"
	}
	if !isGoalSubset(form.CustomGoals, form.Goals) {
		errs[FieldCustomGoals] = "setup.error.goals_mismatch"
	}

	if form.PartnerExpanded {
		if strings.TrimSpace(form.PartnerName) == "" {
			errs[FieldPartnerName] = "setup.error.partner_name_required"
		}
		if !strings.Contains(form.PartnerEmail, "@") {
			errs[FieldPartnerEmail] = "setup.error.partner_email_invalid"
		}
	}

	return errs
}

// Record validates the form and builds the record saved between stages.
func (form *MomSetupForm) Record() (models.MomSetupRecord, FieldErrors, error) {
	if errs := form.Validate(); errs.HasErrors() {
		return models.MomSetupRecord{}, errs, ErrMomSetupInvalid
	}

	record := models.MomSetupRecord{
		MomStatus:            form.MomStatus,
		SelectedGoals:        dedupeGoals(form.SelectedGoals),
		CustomGoals:          dedupeGoals(form.CustomGoals),
		NotificationsEnabled: form.NotificationsEnabled,
	}
	if form.PartnerExpanded {
		record.Partner = &models.PartnerInfo{
			Name:  strings.TrimSpace(form.PartnerName),
			Email: strings.TrimSpace(form.PartnerEmail),
		}
	}
	return record, nil, nil
}

func containsGoal(goals []string, name string) bool {
	for _, goal := range goals {
		if goal == name {
			return true
		}
	}
	return false
}

func isGoalSubset(goals []string, offered []string) bool {
	for _, goal := range goals {
		if !containsGoal(offered, goal) {
			return false
		}
	}
	return true
}

func renameGoal(goals []string, oldName string, newName string) []string {
	result := make([]string, len(goals))
	for index, goal := range goals {
		if goal == oldName {
			result[index] = newName
			continue
		}
		result[index] = goal
	}
	return result
}

func removeGoal(goals []string, name string) []string {
	result := make([]string, 0, len(goals))
	for _, goal := range goals {
		if goal != name {
			result = append(result, goal)
		}
	}
	return result
}

func dedupeGoals(goals []string) []string {
	result := make([]string, 0, len(goals))
	for _, goal := range goals {
		result = appendUnique(result, goal)
	}
	return result
}

func appendUnique(goals []string, name string) []string {
	if containsGoal(goals, name) {
		return goals
	}
	return append(goals, name)
}
