// Copyright (c) 2026 Kalamos. All rights reserved.
// Author: giannis@kalamos.gr

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jgiannako/kalamos/internal/platform/constants"
	"github.com/jgiannako/kalamos/internal/platform/middleware"
	requestutil "github.com/jgiannako/kalamos/internal/platform/request"
	"github.com/jgiannako/kalamos/internal/platform/respond"
	"github.com/jgiannako/kalamos/internal/platform/sec"
	"github.com/jgiannako/kalamos/internal/platform/validate"
	"github.com/jgiannako/kalamos/internal/users/auth"
)

// # Definitions & Constructors

// Handler implements profile and dashboard HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with account-specific routes.
//
// # Endpoints
//   - GET   /users/{uuid} : Public profile view, no session required.
//   - GET   /me           : Returns the authenticated profile.
//   - PATCH /me           : Changes the username and re-signs the session.
//   - POST  /me/delete    : Deletes the account after a password confirmation.
//   - GET   /dashboard    : Author-gated dashboard landing payload.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/users/{uuid}", handler.publicProfile)

	router.Route("/me", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", handler.profile)
		r.Patch("/", handler.changeUsername)
		r.Post("/delete", handler.deleteAccount)
	})

	router.Route("/dashboard", func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAuthor))
		r.Get("/", handler.dashboard)
	})

	return router
}

// # Request Payloads

type changeUsernameRequest struct {
	Username string `json:"username"`
}

type deleteAccountRequest struct {
	Password string `json:"password"`
}

/*
PublicProfile returns the anonymous-readable view of any account.

GET /api/v1/users/{uuid}

Response:
  - 200: PublicProfile: Username, role name, and enrollment date
  - 400: ErrValidation: Malformed UUID
  - 404: ErrNotFound: No account with that id
*/
func (handler *Handler) publicProfile(writer http.ResponseWriter, request *http.Request) {
	userID := chi.URLParam(request, "uuid")

	validator := &validate.Validator{}
	validator.UUID("uuid", userID)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.PublicProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
Profile returns the authenticated user's private identity.

GET /api/v1/me

Response:
  - 200: User: The hydrated profile (password hash omitted)
  - 401: ErrUnauthorized: Missing or invalid session
*/
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
ChangeUsername renames the authenticated account.

PATCH /api/v1/me

Description: Validates the candidate name, persists it, and delivers the
re-signed session token both in the body and as a refreshed cookie.

Request:
  - Body: changeUsernameRequest (Username)

Response:
  - 200: UsernameChange: Replacement token and updated profile
  - 401: ErrUnauthorized: Missing or invalid session
  - 409: ErrConflict: Username already taken
*/
func (handler *Handler) changeUsername(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changeUsernameRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldUsername, input.Username).
		MaxLen(auth.FieldUsername, input.Username, auth.MaxUsernameLength).
		Username(auth.FieldUsername, input.Username)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	change, err := handler.accountService.ChangeUsername(request.Context(), claims, input.Username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    change.Token,
		Path:     constants.SessionCookiePath,
		MaxAge:   int(constants.SessionTokenTTL.Seconds()),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.OK(writer, change)
}

/*
DeleteAccount permanently removes the authenticated account.

POST /api/v1/me/delete

Description: Requires the current password as confirmation. On success every
outstanding session token is revoked and the cookie is cleared.

Request:
  - Body: deleteAccountRequest (Password)

Response:
  - 204: No Content: Account removed
  - 401: ErrUnauthorized: Wrong password or invalid session
*/
func (handler *Handler) deleteAccount(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input deleteAccountRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), userID, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.NoContent(writer)
}

/*
Dashboard returns the landing payload for the writing dashboard.

GET /api/v1/dashboard

Description: The route is gated at the author role. Readers receive 403,
anonymous callers 401, regardless of the payload below.

Response:
  - 200: DashboardSummary: Profile facts for the dashboard landing page
  - 401: ErrUnauthorized: Missing or invalid session
  - 403: ErrForbidden: Authenticated but below the author role
*/
func (handler *Handler) dashboard(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	summary, err := handler.accountService.Dashboard(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, summary)
}
