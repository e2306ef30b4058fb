package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/nestwell/internal/models"
	"github.com/terraincognita07/nestwell/internal/services"
)

func (handler *Handler) SetupStatus(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	return c.JSON(handler.setupStateFor(c, user.ID).Snapshot())
}

func (handler *Handler) RefreshSetup(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	state := handler.setupStates.ForUser(user.ID)
	state.RefreshSetupData(c.UserContext())
	return c.JSON(state.Snapshot())
}

// ResetSetup sends the user back through onboarding. The last submitted
// record stays available to prefill the forms.
func (handler *Handler) ResetSetup(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	if err := handler.setupStateFor(c, user.ID).ResetSetup(c.UserContext()); err != nil {
		handler.metrics.ObserveStorageError("reset")
		handler.requestLogger(c).WithError(err).Error("Failed to reset setup")
		return handler.respondError(c, fiber.StatusInternalServerError, "setup.error.save_failed", nil)
	}
	return redirectJSON(c, fiber.StatusOK, services.RouteMomSetup, nil)
}

func (handler *Handler) Home(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	snapshot := handler.setupStateFor(c, user.ID).Snapshot()
	return c.JSON(fiber.Map{
		"user":  newUserView(*user),
		"setup": snapshot.SetupData,
	})
}

// prefillRecord prefers the unfinished mom setup over the last submitted one.
func prefillRecord(snapshot services.SetupSnapshot) *models.MomSetupRecord {
	if snapshot.MomSetupData != nil {
		return snapshot.MomSetupData
	}
	if snapshot.SetupData != nil {
		return &snapshot.SetupData.MomSetup
	}
	return nil
}

func (handler *Handler) GetMomSetup(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	snapshot := handler.setupStateFor(c, user.ID).Snapshot()
	return c.JSON(fiber.Map{
		"form":        services.PrefillMomSetupForm(prefillRecord(snapshot)),
		"momStatuses": models.MomStatuses(),
	})
}

func (handler *Handler) SaveMomSetup(c *fiber.Ctx) error {
	user, _ := currentUser(c)

	form := services.NewMomSetupForm()
	form.Goals = nil
	if err := c.BodyParser(form); err != nil {
		handler.metrics.ObserveMomSetupSave("invalid")
		return handler.respondError(c, fiber.StatusBadRequest, "setup.error.invalid_input", nil)
	}
	if len(form.Goals) == 0 {
		form.Goals = append(models.DefaultGoals(), form.CustomGoals...)
	}

	record, fieldErrors, err := form.Record()
	if err != nil {
		handler.metrics.ObserveMomSetupSave("invalid")
		return handler.respondError(c, fiber.StatusBadRequest, "setup.error.invalid_input", fiber.Map{
			"fields": handler.i18n.TranslateFields(currentLanguage(c), fieldErrors),
		})
	}

	if err := handler.setupStateFor(c, user.ID).SaveMomSetup(c.UserContext(), record); err != nil {
		handler.metrics.ObserveMomSetupSave("storage_failed")
		handler.requestLogger(c).WithError(err).Error("Failed to save mom setup")
		return handler.respondError(c, fiber.StatusInternalServerError, "setup.error.save_failed", nil)
	}

	handler.metrics.ObserveMomSetupSave("saved")
	return redirectJSON(c, fiber.StatusOK, services.RouteChildSetup, nil)
}

// ChildSetupGuard tells the client whether the child stage may be shown.
// It runs with an optional session so signed out visitors get a redirect
// instead of a 401.
func (handler *Handler) ChildSetupGuard(c *fiber.Ctx) error {
	session := services.SessionSignal{}
	snapshot := services.SetupSnapshot{}
	if user, ok := currentUser(c); ok {
		session.Authenticated = true
		snapshot = handler.setupStateFor(c, user.ID).Snapshot()
	}

	decision := services.ResolveChildSetupRoute(session, snapshot)
	payload := fiber.Map{"action": decision.Action}
	switch decision.Action {
	case services.ChildSetupGuardRedirect:
		payload["redirect"] = decision.Redirect
		payload["reason"] = decision.Reason
	case services.ChildSetupGuardAllow:
		payload["drafts"] = services.NewChildDrafts()
	}
	return c.JSON(payload)
}

func (handler *Handler) SubmitChildSetup(c *fiber.Ctx) error {
	user, _ := currentUser(c)

	input := childSetupInput{}
	if err := c.BodyParser(&input); err != nil {
		handler.metrics.ObserveChildSubmission("invalid")
		return handler.respondError(c, fiber.StatusBadRequest, "setup.error.invalid_input", nil)
	}
	drafts := make(services.ChildDrafts, 0, len(input.Children))
	for _, child := range input.Children {
		drafts = append(drafts, models.ChildRecord{
			FullName: child.FullName,
			Age:      child.Age,
			DOB:      child.DOB,
			Gender:   child.Gender,
		})
	}

	state := handler.setupStateFor(c, user.ID)
	flow := services.NewChildSetupFlow(state, handler.setupAPI, handler.requestLogger(c))
	result, err := flow.Submit(c.UserContext(), formatUserID(user.ID), drafts)
	if err != nil {
		return handler.respondChildSetupError(c, err, drafts)
	}

	handler.metrics.ObserveChildSubmission(string(result.Outcome))
	toastKey := "setup.success"
	if result.Outcome == services.ChildSetupReconciled {
		toastKey = "setup.already_exists_warning"
	}
	return redirectJSON(c, fiber.StatusOK, services.RouteHome, fiber.Map{
		"outcome":   result.Outcome,
		"toast":     handler.translate(c, toastKey),
		"setupData": result.Record,
	})
}

func (handler *Handler) respondChildSetupError(c *fiber.Ctx, err error, drafts services.ChildDrafts) error {
	switch {
	case errors.Is(err, services.ErrMomSetupMissing):
		handler.metrics.ObserveChildSubmission("mom_setup_missing")
		return handler.respondError(c, fiber.StatusConflict, "setup.error.mom_setup_missing", fiber.Map{
			"redirect": services.RouteMomSetup,
		})
	case errors.Is(err, services.ErrChildDraftsIncomplete):
		handler.metrics.ObserveChildSubmission("invalid")
		return handler.respondError(c, fiber.StatusBadRequest, "setup.error.children_incomplete", fiber.Map{
			"incomplete": drafts.IncompleteIndexes(),
		})
	case errors.Is(err, services.ErrRemoteSetupFailed):
		handler.metrics.ObserveChildSubmission("remote_failed")
		return handler.respondError(c, fiber.StatusBadGateway, "setup.error.retry", nil)
	default:
		handler.metrics.ObserveChildSubmission("storage_failed")
		handler.metrics.ObserveStorageError("complete")
		return handler.respondError(c, fiber.StatusInternalServerError, "setup.error.save_failed", nil)
	}
}
