// Package handler exposes the auth flows over HTTP. Every response is an
// HTTP 200 carrying a JSON envelope; failures are reported only through the
// message field, so the strings written here are part of the wire contract.
package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/leapwind/serverless-auth/internal/auth/service"
	verifdomain "github.com/leapwind/serverless-auth/internal/verification/domain"
)

// emailRegex accepts dot-separated local parts or a quoted string, followed
// by a bracketed IPv4 literal or a dotted domain with a 2+ letter TLD.
var emailRegex = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)

// Handler holds the HTTP endpoints for the auth API.
type Handler struct {
	svc *service.AuthService
}

// New returns a Handler backed by svc.
func New(svc *service.AuthService) *Handler {
	return &Handler{svc: svc}
}

type messageResponse struct {
	Message string `json:"message"`
}

type authRequest struct {
	Email string `json:"email"`
	Mode  string `json:"mode"`
}

type authResponse struct {
	Message string `json:"message"`
	PollID  string `json:"pollId"`
	Email   string `json:"email"`
}

type verifyRequest struct {
	PollID string `json:"pollId"`
}

type verifyResponse struct {
	Message            string                 `json:"message"`
	VerificationStatus verifdomain.PollStatus `json:"verification_status"`
	Token              *string                `json:"token"`
}

type statusResponse struct {
	Message string `json:"message"`
	Status  bool   `json:"status"`
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, messageResponse{Message: message})
}

// decodeBody reads and unmarshals a JSON request body into v. The returned
// message is non-empty when the body is unusable.
func decodeBody(r *http.Request, v any) string {
	body, err := io.ReadAll(r.Body)
	if err != nil || len(strings.TrimSpace(string(body))) == 0 {
		return "got empty request body"
	}
	if err := json.Unmarshal(body, v); err != nil {
		return "got empty request body"
	}
	return ""
}

// authDefect classifies a malformed Authorization header.
type authDefect int

const (
	authOK authDefect = iota
	authNoSpace
	authNotBearer
)

// bearerToken splits an Authorization header into scheme and token. Callers
// pick the endpoint-specific wording for each defect themselves.
func bearerToken(authorization string) (string, authDefect) {
	if !strings.Contains(authorization, " ") {
		return "", authNoSpace
	}
	parts := strings.Split(authorization, " ")
	if parts[0] != "Bearer" {
		return "", authNotBearer
	}
	return parts[1], authOK
}

// Index is a liveness probe; it answers success to any request.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, "success")
}

// Auth starts a sign-in or sign-up flow: POST with a JSON body carrying
// email and mode, answered with the poll id for the started request.
func (h *Handler) Auth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, "invalid request method")
		return
	}
	if r.Header.Get("Content-Type") != "application/json" {
		writeMessage(w, "invalid request header content-type")
		return
	}
	var body authRequest
	if msg := decodeBody(r, &body); msg != "" {
		writeMessage(w, msg)
		return
	}
	if body.Email == "" || body.Mode == "" {
		writeMessage(w, "required data is missing in request body")
		return
	}
	mode := verifdomain.Mode(body.Mode)
	if !mode.Valid() {
		writeMessage(w, "invalid mode in request body")
		return
	}
	if !emailRegex.MatchString(body.Email) {
		writeMessage(w, "invalid email syntax in request body")
		return
	}

	res, err := h.svc.StartAuth(r.Context(), body.Email, mode)
	if err != nil {
		writeMessage(w, err.Error())
		return
	}
	writeJSON(w, authResponse{Message: "success", PollID: res.PollID, Email: res.Email})
}

// Confirm consumes a confirmation link: GET with email, mode and token as
// query parameters. A request with any of them missing is answered exactly
// like a wrong method.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, "invalid request method")
		return
	}
	q := r.URL.Query()
	email, token, modeStr := q.Get("email"), q.Get("token"), q.Get("mode")
	if email == "" || token == "" || modeStr == "" {
		writeMessage(w, "invalid request method")
		return
	}
	mode := verifdomain.Mode(modeStr)
	if !mode.Valid() {
		writeMessage(w, "invalid mode")
		return
	}
	if !emailRegex.MatchString(email) {
		writeMessage(w, "invalid email syntax")
		return
	}

	if err := h.svc.Confirm(r.Context(), email, mode, token); err != nil {
		writeMessage(w, err.Error())
		return
	}
	writeMessage(w, "success")
}

// Verify resolves a poll id to the verification status of its request, with
// the session token once verified. The token field renders as null until
// then.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, "invalid request method")
		return
	}
	if r.Header.Get("Content-Type") != "application/json" {
		writeMessage(w, "invalid request header content-type")
		return
	}
	var body verifyRequest
	if msg := decodeBody(r, &body); msg != "" {
		writeMessage(w, msg)
		return
	}
	if body.PollID == "" {
		writeMessage(w, "required data is missing in request body")
		return
	}

	res, err := h.svc.Poll(r.Context(), body.PollID)
	if err != nil {
		writeMessage(w, err.Error())
		return
	}
	out := verifyResponse{Message: "success", VerificationStatus: res.Status}
	if res.Token != "" {
		out.Token = &res.Token
	}
	writeJSON(w, out)
}

// Signout invalidates the bearer session. Every authorization defect and
// every backend failure collapses to the same terse answers.
func (h *Handler) Signout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, "invalid request method")
		return
	}
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		writeMessage(w, "invalid authorization")
		return
	}
	token, defect := bearerToken(authorization)
	if defect != authOK {
		writeMessage(w, "invalid authorization")
		return
	}

	if err := h.svc.Signout(r.Context(), token); err != nil {
		writeMessage(w, "Signout Failed")
		return
	}
	writeMessage(w, "success")
}

// Status reports whether the bearer session is live. A missing or expired
// session is a successful answer with status false, not an error.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, "invalid request method")
		return
	}
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		writeMessage(w, "invalid request header")
		return
	}
	token, defect := bearerToken(authorization)
	if defect == authNoSpace {
		writeMessage(w, "invalid authorization syntax")
		return
	}
	if defect == authNotBearer {
		writeMessage(w, "'Bearer' not found in authorization header")
		return
	}

	live, err := h.svc.Status(r.Context(), token)
	if err != nil {
		writeMessage(w, err.Error())
		return
	}
	writeJSON(w, statusResponse{Message: "success", Status: live})
}
