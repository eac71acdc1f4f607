package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/grammarkit/server/dao"
	"github.com/dekarrin/grammarkit/server/result"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthKey is a key in the context of a request populated by the bearer-auth
// middleware.
type AuthKey int64

const (
	AuthLoggedIn AuthKey = iota
	AuthCredential
)

// signingKeyFor derives the per-credential signing key: the server secret
// plus the credential's password hash and last-logout timestamp, so that a
// changed password or a logout immediately invalidates every token issued
// before it.
func signingKeyFor(secret []byte, c dao.Credential) []byte {
	var key []byte
	key = append(key, secret...)
	key = append(key, []byte(c.PasswordHash)...)
	key = append(key, []byte(fmt.Sprintf("%d", c.LastLogoutTime.Unix()))...)
	return key
}

func validateAndLookupCredential(ctx context.Context, tok string, secret []byte, db dao.CredentialRepository) (dao.Credential, error) {
	var cred dao.Credential

	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		subj, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("cannot get subject: %w", err)
		}

		id, err := uuid.Parse(subj)
		if err != nil {
			return nil, fmt.Errorf("cannot parse subject UUID: %w", err)
		}

		cred, err = db.GetByID(ctx, id)
		if err != nil {
			if err == dao.ErrNotFound {
				return nil, fmt.Errorf("subject does not exist")
			}
			return nil, fmt.Errorf("subject could not be validated")
		}

		return signingKeyFor(secret, cred), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer("grammarkit"), jwt.WithLeeway(time.Minute))

	if err != nil {
		return dao.Credential{}, err
	}
	return cred, nil
}

func getBearerToken(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	token := strings.TrimSpace(authParts[1])
	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return token, nil
}

func (s *Server) generateToken(c dao.Credential) (string, error) {
	claims := &jwt.MapClaims{
		"iss": "grammarkit",
		"exp": time.Now().Add(time.Hour).Unix(),
		"sub": c.ID.String(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	tokStr, err := tok.SignedString(signingKeyFor(s.jwtSecret, c))
	if err != nil {
		return "", err
	}
	return tokStr, nil
}

// requireAuth wraps next so that requests without a valid bearer token for a
// registered credential are rejected before next ever runs.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		tok, err := getBearerToken(req)
		if err != nil {
			result.Unauthorized("", "missing bearer token: %s", err).WriteResponse(w, req)
			return
		}

		cred, err := validateAndLookupCredential(req.Context(), tok, s.jwtSecret, s.db.Credentials())
		if err != nil {
			result.Unauthorized("", "invalid bearer token: %s", err).WriteResponse(w, req)
			return
		}

		ctx := context.WithValue(req.Context(), AuthLoggedIn, true)
		ctx = context.WithValue(ctx, AuthCredential, cred)
		next(w, req.WithContext(ctx))
	}
}
