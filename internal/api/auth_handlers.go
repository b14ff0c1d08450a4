package api

import (
	"errors"
	"net/http"

	"github.com/spender-app/spender/internal/auth"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

func (a *API) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := a.authenticator.Register(r.Context(), req.Email, req.Name, req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailExists) || errors.Is(err, auth.ErrWeakPassword) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		serviceError(w, err)
		return
	}

	token, err := a.tokens.Generate(user)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":    user,
		"token":   token,
		"message": "Account created successfully",
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := a.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	token, err := a.tokens.Generate(user)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":    user,
		"token":   token,
		"message": "Login successful",
	})
}

func (a *API) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	// Never reveal whether the email exists.
	const reply = "If that email exists, a reset code has been sent."

	code, err := a.authenticator.StartPasswordReset(r.Context(), req.Email)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": reply})
		return
	}

	// Delivery would go through an email service; the code is returned for
	// development use, matching the console-only delivery elsewhere.
	writeJSON(w, http.StatusOK, map[string]string{
		"message":   reply,
		"resetCode": code,
	})
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	ResetCode   string `json:"resetCode"`
	NewPassword string `json:"newPassword"`
}

func (a *API) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := a.authenticator.CompletePasswordReset(r.Context(), req.Email, req.ResetCode, req.NewPassword)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidResetCode) || errors.Is(err, auth.ErrWeakPassword) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Password reset successful. You can now login with your new password.",
	})
}
