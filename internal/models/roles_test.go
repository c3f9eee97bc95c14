package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLandingRoute(t *testing.T) {
	cases := []struct {
		name  string
		state RoleState
		want  string
	}{
		{"admin always lands on admin dashboard", RoleState{Type: UserTypeAdmin}, RouteAdminDashboard},
		{"completed job seeker", RoleState{Type: UserTypeJobSeeker, ProfileCompleted: true, OnboardingStep: 5}, RouteDashboard},
		{"completed partner", RoleState{Type: UserTypePartner, ProfileCompleted: true, OnboardingStep: 4}, RoutePartnerDashboard},
		{"fresh job seeker starts at step 1", RoleState{Type: UserTypeJobSeeker}, "/onboarding/job-seeker/step1"},
		{"job seeker resumes after last step", RoleState{Type: UserTypeJobSeeker, OnboardingStep: 2}, "/onboarding/job-seeker/step3"},
		{"job seeker clamps at terminal step", RoleState{Type: UserTypeJobSeeker, OnboardingStep: 5}, "/onboarding/job-seeker/step5"},
		{"fresh partner starts at step 1", RoleState{Type: UserTypePartner}, "/onboarding/partner/step1"},
		{"partner clamps at terminal step", RoleState{Type: UserTypePartner, OnboardingStep: 4}, "/onboarding/partner/step4"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.state.LandingRoute())
		})
	}
}

func TestOnboardingSteps(t *testing.T) {
	assert.Equal(t, 5, OnboardingSteps(UserTypeJobSeeker))
	assert.Equal(t, 4, OnboardingSteps(UserTypePartner))
	assert.Equal(t, 0, OnboardingSteps(UserTypeAdmin))
}

func TestIsOnboardingComplete(t *testing.T) {
	assert.True(t, RoleState{Type: UserTypeAdmin}.IsOnboardingComplete())
	assert.False(t, RoleState{Type: UserTypeJobSeeker}.IsOnboardingComplete())
	assert.True(t, RoleState{Type: UserTypeJobSeeker, ProfileCompleted: true}.IsOnboardingComplete())
}
