package mockapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/me/shopctl/pkg/model"
	"golang.org/x/crypto/bcrypt"
)

// SeedUser is an account loaded at startup.
type SeedUser struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
}

type account struct {
	model.User
	hash []byte
}

// tokenClaims is the payload of issued access tokens.
type tokenClaims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

var errEmailTaken = errors.New("email already registered")

// addUser hashes the password and stores the account. The caller must not
// hold s.mu.
func (s *Server) addUser(u SeedUser) error {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	role := u.Role
	if role == "" {
		role = model.RoleUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[email]; ok {
		return errEmailTaken
	}
	s.users[email] = &account{
		User: model.User{ID: uuid.NewString(), Name: u.Name, Email: email, Role: role},
		hash: hash,
	}
	return nil
}

func (s *Server) issueToken(u model.User) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenTTL)),
			Subject:   u.ID,
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWTSecret))
}

func (s *Server) parseToken(tokenStr string) (*tokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token or claims")
	}
	return claims, nil
}

func claimsFromContext(ctx context.Context) *tokenClaims {
	if c, ok := ctx.Value(ctxKeyClaims).(*tokenClaims); ok {
		return c
	}
	return nil
}

// authMiddleware attaches token claims when a bearer token is present.
// A present but invalid token is rejected outright.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			respondError(w, http.StatusUnauthorized, model.ErrUnauthorized, "malformed Authorization header")
			return
		}
		claims, err := s.parseToken(tokenStr)
		if err != nil {
			s.logger.Debug("rejecting token", "error", err, "request_id", RequestIDFromContext(r.Context()))
			respondError(w, http.StatusUnauthorized, model.ErrUnauthorized, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyClaims, claims)))
	})
}

func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claimsFromContext(r.Context()) == nil {
			respondError(w, http.StatusUnauthorized, model.ErrUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		if claims == nil {
			respondError(w, http.StatusUnauthorized, model.ErrUnauthorized, "authentication required")
			return
		}
		if claims.Role != model.RoleAdmin {
			respondError(w, http.StatusForbidden, model.ErrForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string     `json:"accessToken"`
	User        model.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if _, err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, model.ErrValidation, "invalid JSON body")
		return
	}

	s.mu.Lock()
	acct, ok := s.users[strings.ToLower(strings.TrimSpace(req.Email))]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acct.hash, []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, model.ErrUnauthorized, "invalid email or password")
		return
	}

	token, err := s.issueToken(acct.User)
	if err != nil {
		s.logger.Error("issue token", "error", err)
		respondError(w, http.StatusInternalServerError, model.ErrInternal, "could not issue token")
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{AccessToken: token, User: acct.User})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg model.Registration
	if _, err := decodeJSON(r, &reg); err != nil {
		respondError(w, http.StatusBadRequest, model.ErrValidation, "invalid JSON body")
		return
	}
	if strings.TrimSpace(reg.Name) == "" || strings.TrimSpace(reg.Email) == "" || reg.Password == "" {
		respondError(w, http.StatusBadRequest, model.ErrValidation, "name, email and password are required")
		return
	}

	err := s.addUser(SeedUser{Name: reg.Name, Email: reg.Email, Password: reg.Password, Role: model.RoleUser})
	if errors.Is(err, errEmailTaken) {
		respondError(w, http.StatusConflict, model.ErrConflict, "email already registered")
		return
	}
	if err != nil {
		s.logger.Error("register", "error", err)
		respondError(w, http.StatusInternalServerError, model.ErrInternal, "could not create account")
		return
	}

	s.mu.Lock()
	user := s.users[strings.ToLower(strings.TrimSpace(reg.Email))].User
	s.mu.Unlock()
	respondJSON(w, http.StatusCreated, user)
}
