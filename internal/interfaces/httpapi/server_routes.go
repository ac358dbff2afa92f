package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/auth/register", handler.Register)
	mux.HandleFunc("POST /v1/auth/login", handler.Login)
	mux.HandleFunc("GET /v1/courses/search", handler.SearchCourses)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedAccountRoutes(mux, handler, verifier)
	registerAuthorizedCourseRoutes(mux, handler, verifier)
	registerAuthorizedRoundRoutes(mux, handler, verifier)
	registerAuthorizedStatsRoutes(mux, handler, verifier)
}

func registerAuthorizedAccountRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/auth/profile", RequireAuth(verifier, http.HandlerFunc(handler.AuthProfile)))
	mux.Handle("GET /v1/users/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyProfile)))
	mux.Handle("PATCH /v1/users/me", RequireAuth(verifier, http.HandlerFunc(handler.UpdateMyProfile)))
	mux.Handle("PATCH /v1/users/me/password", RequireAuth(verifier, http.HandlerFunc(handler.ChangeMyPassword)))
}

func registerAuthorizedCourseRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/courses", RequireAuth(verifier, http.HandlerFunc(handler.CreateCourse)))
	mux.Handle("GET /v1/courses", RequireAuth(verifier, http.HandlerFunc(handler.ListCourses)))
	mux.Handle("GET /v1/courses/{courseID}", RequireAuth(verifier, http.HandlerFunc(handler.GetCourse)))
	mux.Handle("PATCH /v1/courses/{courseID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateCourse)))
	mux.Handle("DELETE /v1/courses/{courseID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteCourse)))
	mux.Handle("PATCH /v1/courses/{courseID}/holes/{holeNumber}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateHole)))
}

func registerAuthorizedRoundRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/rounds", RequireAuth(verifier, http.HandlerFunc(handler.CreateRound)))
	mux.Handle("GET /v1/rounds", RequireAuth(verifier, http.HandlerFunc(handler.ListRounds)))
	mux.Handle("POST /v1/rounds/import", RequireAuth(verifier, http.HandlerFunc(handler.ImportRounds)))
	mux.Handle("GET /v1/rounds/{roundID}", RequireAuth(verifier, http.HandlerFunc(handler.GetRound)))
	mux.Handle("PATCH /v1/rounds/{roundID}/status", RequireAuth(verifier, http.HandlerFunc(handler.UpdateRoundStatus)))
	mux.Handle("POST /v1/rounds/{roundID}/players", RequireAuth(verifier, http.HandlerFunc(handler.AddPlayerToRound)))
	mux.Handle("PATCH /v1/rounds/{roundID}/players/{playerID}/holes/{holeID}/score", RequireAuth(verifier, http.HandlerFunc(handler.UpdateScore)))
}

func registerAuthorizedStatsRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/stats/player", RequireAuth(verifier, http.HandlerFunc(handler.GetPlayerStats)))
	mux.Handle("GET /v1/stats/rounds/{roundID}", RequireAuth(verifier, http.HandlerFunc(handler.GetRoundStats)))
}
