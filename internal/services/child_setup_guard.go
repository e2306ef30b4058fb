package services

const (
	RouteSignIn     = "/login"
	RouteMomSetup   = "/setup/mom"
	RouteChildSetup = "/setup/child"
	RouteHome       = "/home"
)

type ChildSetupGuardAction string

const (
	ChildSetupGuardAllow    ChildSetupGuardAction = "allow"
	ChildSetupGuardWait     ChildSetupGuardAction = "wait"
	ChildSetupGuardRedirect ChildSetupGuardAction = "redirect"
)

// Redirect reasons, kept apart for diagnostics even where the destination is the same.
const (
	GuardReasonNoSession   = "no_session_no_setup"
	GuardReasonStageOrder  = "mom_setup_required"
	GuardReasonLostSession = "session_lost"
)

type SessionSignal struct {
	Authenticated bool
	Loading       bool
}

type ChildSetupGuardDecision struct {
	Action   ChildSetupGuardAction
	Redirect string
	Reason   string
}

// ResolveChildSetupRoute decides whether the child setup stage can be shown.
// It waits while the setup state is still hydrating, then requires cached
// mom setup data.
func ResolveChildSetupRoute(session SessionSignal, setup SetupSnapshot) ChildSetupGuardDecision {
	if setup.IsLoading {
		return ChildSetupGuardDecision{Action: ChildSetupGuardWait}
	}
	if setup.MomSetupData != nil {
		return ChildSetupGuardDecision{Action: ChildSetupGuardAllow}
	}

	switch {
	case !session.Loading && !session.Authenticated:
		return redirectDecision(RouteSignIn, GuardReasonNoSession)
	case !session.Loading && session.Authenticated:
		return redirectDecision(RouteMomSetup, GuardReasonStageOrder)
	default:
		return redirectDecision(RouteSignIn, GuardReasonLostSession)
	}
}

func redirectDecision(route string, reason string) ChildSetupGuardDecision {
	return ChildSetupGuardDecision{Action: ChildSetupGuardRedirect, Redirect: route, Reason: reason}
}

