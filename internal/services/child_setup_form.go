package services

import (
	"errors"
	"strings"

	"github.com/terraincognita07/nestwell/internal/models"
)

var (
	ErrChildDraftIndex       = errors.New("child draft index out of range")
	ErrChildDraftsIncomplete = errors.New("child drafts incomplete")
)

// ChildDrafts is the growable list edited on the child setup screen.
// Every operation returns a new slice and leaves the receiver unchanged.
type ChildDrafts []models.ChildRecord

func NewChildDrafts() ChildDrafts {
	return ChildDrafts{{}}
}

func (drafts ChildDrafts) Add() ChildDrafts {
	next := make(ChildDrafts, len(drafts), len(drafts)+1)
	copy(next, drafts)
	return append(next, models.ChildRecord{})
}

func (drafts ChildDrafts) Update(index int, draft models.ChildRecord) (ChildDrafts, error) {
	if index < 0 || index >= len(drafts) {
		return drafts, ErrChildDraftIndex
	}
	next := make(ChildDrafts, len(drafts))
	copy(next, drafts)
	next[index] = draft
	return next, nil
}

func (drafts ChildDrafts) Remove(index int) (ChildDrafts, error) {
	if index < 0 || index >= len(drafts) {
		return drafts, ErrChildDraftIndex
	}
	next := make(ChildDrafts, 0, len(drafts)-1)
	next = append(next, drafts[:index]...)
	return append(next, drafts[index+1:]...), nil
}

// CompleteChildren returns the drafts with a name, date of birth and gender.
func (drafts ChildDrafts) CompleteChildren() []models.ChildRecord {
	complete := make([]models.ChildRecord, 0, len(drafts))
	for _, draft := range drafts {
		if IsChildDraftComplete(draft) {
			complete = append(complete, draft)
		}
	}
	return complete
}

// AreAllFilledChildrenComplete reports whether every touched draft is complete.
// Blank drafts are ignored.
func (drafts ChildDrafts) AreAllFilledChildrenComplete() bool {
	return len(drafts.IncompleteIndexes()) == 0
}

func (drafts ChildDrafts) IncompleteIndexes() []int {
	indexes := make([]int, 0)
	for index, draft := range drafts {
		if !IsChildDraftEmpty(draft) && !IsChildDraftComplete(draft) {
			indexes = append(indexes, index)
		}
	}
	return indexes
}

func IsChildDraftComplete(draft models.ChildRecord) bool {
	return !isBlank(draft.FullName) && !isBlank(draft.DOB) && !isBlank(draft.Gender)
}

func IsChildDraftEmpty(draft models.ChildRecord) bool {
	return isBlank(draft.FullName) && isBlank(draft.Age) && isBlank(draft.DOB) && isBlank(draft.Gender)
}

// NormalizeChildGender maps free-form input to male, female or other.
func NormalizeChildGender(raw string) string {
	switch gender := strings.ToLower(strings.TrimSpace(raw)); gender {
	case models.GenderMale, models.GenderFemale:
		return gender
	default:
		return models.GenderOther
	}
}

func NormalizeChildren(children []models.ChildRecord) []models.ChildRecord {
	normalized := make([]models.ChildRecord, 0, len(children))
	for _, child := range children {
		normalized = append(normalized, models.ChildRecord{
			FullName: strings.TrimSpace(child.FullName),
			Age:      strings.TrimSpace(child.Age),
			DOB:      strings.TrimSpace(child.DOB),
			Gender:   NormalizeChildGender(child.Gender),
		})
	}
	return normalized
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
