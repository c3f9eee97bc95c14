package handlers

// AppHandlers holds every HTTP handler in the application.
type AppHandlers struct {
	AuthHandler           *AuthHandler
	OnboardingHandler     *OnboardingHandler
	ProfileHandler        *ProfileHandler
	RecommendationHandler *RecommendationHandler
	UploadHandler         *UploadHandler
	UserHandler           *UserHandler
}
