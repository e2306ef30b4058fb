package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/nestwell/internal/logging"
	"github.com/terraincognita07/nestwell/internal/models"
	"github.com/terraincognita07/nestwell/internal/remote"
)

var (
	ErrRemoteSetupFailed = errors.New("remote setup submission failed")
	ErrSetupCommitFailed = errors.New("setup could not be saved locally")
)

type SetupFlowAPI interface {
	CompleteSetupFlow(ctx context.Context, userID string, momSetup models.MomSetupRecord, children []models.ChildRecord) error
}

type ChildSetupOutcome string

const (
	// ChildSetupCompleted means the profile service accepted the submission.
	ChildSetupCompleted ChildSetupOutcome = "completed"
	// ChildSetupReconciled means the profile service already had a setup for
	// this user and local state was brought in line with it.
	ChildSetupReconciled ChildSetupOutcome = "reconciled"
)

type ChildSetupResult struct {
	Outcome  ChildSetupOutcome
	Record   models.SetupRecord
	Children []models.ChildRecord
}

type ChildSetupFlow struct {
	state  *SetupState
	api    SetupFlowAPI
	logger logrus.FieldLogger
}

func NewChildSetupFlow(state *SetupState, api SetupFlowAPI, logger logrus.FieldLogger) *ChildSetupFlow {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ChildSetupFlow{state: state, api: api, logger: logger}
}

// Submit sends the complete drafts with the cached mom setup to the profile
// service and records local completion. Local state is left untouched when the
// profile service rejects the submission for any reason other than an
// existing setup.
func (flow *ChildSetupFlow) Submit(ctx context.Context, userID string, drafts ChildDrafts) (ChildSetupResult, error) {
	log := logging.FromContext(ctx, flow.logger).WithField("user_id", userID)

	snapshot := flow.state.Snapshot()
	if snapshot.MomSetupData == nil {
		log.Warn("Child setup submitted without mom setup data")
		return ChildSetupResult{}, ErrMomSetupMissing
	}
	if !drafts.AreAllFilledChildrenComplete() {
		return ChildSetupResult{}, ErrChildDraftsIncomplete
	}

	children := NormalizeChildren(drafts.CompleteChildren())
	outcome := ChildSetupCompleted
	if err := flow.api.CompleteSetupFlow(ctx, userID, *snapshot.MomSetupData, children); err != nil {
		if !remote.IsSetupAlreadyExists(err) {
			log.WithError(err).Error("Profile service rejected setup submission")
			return ChildSetupResult{}, fmt.Errorf("%w: %w", ErrRemoteSetupFailed, err)
		}
		log.WithError(err).Warn("Profile setup already exists remotely, reconciling local state")
		outcome = ChildSetupReconciled
	}

	record, err := flow.state.CompleteSetup(ctx, children, userID)
	if err != nil {
		if errors.Is(err, ErrMomSetupMissing) {
			return ChildSetupResult{}, err
		}
		log.WithError(err).Error("Failed to persist setup completion")
		return ChildSetupResult{}, fmt.Errorf("%w: %w", ErrSetupCommitFailed, err)
	}

	log.WithFields(logrus.Fields{
		"outcome":  outcome,
		"children": len(children),
	}).Info("Onboarding completed")
	return ChildSetupResult{Outcome: outcome, Record: record, Children: children}, nil
}
