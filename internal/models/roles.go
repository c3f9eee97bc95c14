package models

import "fmt"

// Client-side routes this backend produces in redirect payloads. They are the
// primary "protocol" of the onboarding core, so they live in one place.
const (
	RouteLogin            = "/login"
	RouteRegister         = "/register"
	RouteRegisterSuccess  = "/register/success"
	RouteUnauthorized     = "/unauthorized"
	RouteDashboard        = "/dashboard"
	RoutePartnerDashboard = "/partner-dashboard"
	RouteAdminDashboard   = "/admin-dashboard"
)

const (
	JobSeekerOnboardingSteps = 5
	PartnerOnboardingSteps   = 4
)

func JobSeekerStepRoute(step int) string {
	return fmt.Sprintf("/onboarding/job-seeker/step%d", step)
}

func PartnerStepRoute(step int) string {
	return fmt.Sprintf("/onboarding/partner/step%d", step)
}

// OnboardingSteps returns the terminal step index for a role. Admins have no
// onboarding.
func OnboardingSteps(t UserType) int {
	switch t {
	case UserTypeJobSeeker:
		return JobSeekerOnboardingSteps
	case UserTypePartner:
		return PartnerOnboardingSteps
	}
	return 0
}

// RoleState is the one place redirect decisions are derived from. The auth
// callback, login, and terminal onboarding steps all consult it instead of
// re-deriving the role→route mapping at every call site.
type RoleState struct {
	Type             UserType
	ProfileCompleted bool
	OnboardingStep   int
}

func (r RoleState) IsOnboardingComplete() bool {
	if r.Type == UserTypeAdmin {
		return true
	}
	return r.ProfileCompleted
}

func (r RoleState) DashboardRoute() string {
	switch r.Type {
	case UserTypeAdmin:
		return RouteAdminDashboard
	case UserTypePartner:
		return RoutePartnerDashboard
	default:
		return RouteDashboard
	}
}

// NextOnboardingRoute resumes where the user left off: the step after the
// last persisted one, clamped to the terminal step.
func (r RoleState) NextOnboardingRoute() string {
	next := r.OnboardingStep + 1
	if max := OnboardingSteps(r.Type); next > max {
		next = max
	}
	if next < 1 {
		next = 1
	}
	switch r.Type {
	case UserTypePartner:
		return PartnerStepRoute(next)
	case UserTypeJobSeeker:
		return JobSeekerStepRoute(next)
	}
	return r.DashboardRoute()
}

// LandingRoute is the post-authentication destination.
func (r RoleState) LandingRoute() string {
	if r.IsOnboardingComplete() {
		return r.DashboardRoute()
	}
	return r.NextOnboardingRoute()
}
