// Package server implements the grammarkit grammar registry: an HTTP
// service for registering named grammars and parsing text against them.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/dekarrin/grammarkit"
	"github.com/dekarrin/grammarkit/internal/compiler"
	"github.com/dekarrin/grammarkit/internal/peg"
	"github.com/dekarrin/grammarkit/server/dao"
	"github.com/dekarrin/grammarkit/server/dao/sqlite"
	"github.com/dekarrin/grammarkit/server/result"
	"github.com/dekarrin/grammarkit/server/serr"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

// Server is the grammarkit grammar registry HTTP service.
type Server struct {
	router    chi.Router
	db        dao.Store
	jwtSecret []byte
}

// New creates a Server backed by a sqlite datastore rooted at storageDir,
// signing tokens with secret.
func New(storageDir string, secret []byte) (*Server, error) {
	db, err := sqlite.NewDatastore(storageDir)
	if err != nil {
		return nil, fmt.Errorf("open datastore: %w", err)
	}

	s := &Server{db: db, jwtSecret: secret}
	s.router = s.buildRouter()
	return s, nil
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Post("/auth/login", s.handleLogin)
	r.Post("/grammars", s.requireAuth(s.handleCreateGrammar))
	r.Get("/grammars/{name}", s.handleGetGrammar)
	r.Post("/grammars/{name}/parse", s.handleParse)

	return r
}

// ServeHTTP makes Server usable directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

// ListenAndServe starts listening on addr, serving requests until an
// unrecoverable error occurs.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("INFO  grammarkit registry listening on %s", addr)
	return http.ListenAndServe(addr, s)
}

// Close releases the Server's datastore resources.
func (s *Server) Close() error {
	return s.db.Close()
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, req *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		result.BadRequest("malformed login request body").WriteResponse(w, req)
		return
	}

	cred, err := s.db.Credentials().GetByUsername(req.Context(), body.Username)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			result.Unauthorized(serr.ErrBadCredentials.Error()).WriteResponse(w, req)
			return
		}
		result.InternalServerError("lookup credential: %s", err).WriteResponse(w, req)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(body.Password)); err != nil {
		result.Unauthorized(serr.ErrBadCredentials.Error()).WriteResponse(w, req)
		return
	}

	tok, err := s.generateToken(cred)
	if err != nil {
		result.InternalServerError("generate token: %s", err).WriteResponse(w, req)
		return
	}

	result.OK(loginResponse{Token: tok}).WriteResponse(w, req)
}

type createGrammarRequest struct {
	Name      string `json:"name"`
	Source    string `json:"source"`
	EntryRule string `json:"entry_rule"`
}

type grammarResponse struct {
	Name      string         `json:"name"`
	EntryRule string         `json:"entry_rule"`
	Rules     []dao.RuleInfo `json:"rules"`
	Created   int64          `json:"created_at"`
}

func toGrammarResponse(g dao.Grammar) grammarResponse {
	return grammarResponse{
		Name:      g.Name,
		EntryRule: g.EntryRule,
		Rules:     g.Rules,
		Created:   g.Created.Unix(),
	}
}

func (s *Server) handleCreateGrammar(w http.ResponseWriter, req *http.Request) {
	var body createGrammarRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		result.BadRequest("malformed grammar request body").WriteResponse(w, req)
		return
	}
	if body.Name == "" || body.Source == "" || body.EntryRule == "" {
		result.BadRequest("name, source, and entry_rule are all required").WriteResponse(w, req)
		return
	}

	table, _, err := compiler.Compile(body.Source, body.EntryRule)
	if err != nil {
		result.BadRequest(fmt.Sprintf("grammar does not compile: %s", err)).WriteResponse(w, req)
		return
	}

	rules := ruleInfoFromTable(table)

	g, err := s.db.Grammars().Create(req.Context(), dao.Grammar{
		Name:      body.Name,
		Source:    body.Source,
		EntryRule: body.EntryRule,
		Rules:     rules,
	})
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			result.Conflict(fmt.Sprintf("a grammar named %q already exists", body.Name)).WriteResponse(w, req)
			return
		}
		result.InternalServerError("store grammar: %s", err).WriteResponse(w, req)
		return
	}

	result.Created(toGrammarResponse(g)).WriteResponse(w, req)
}

func ruleInfoFromTable(table *peg.Table) []dao.RuleInfo {
	names := table.Names()
	rules := make([]dao.RuleInfo, 0, len(names))
	for _, name := range names {
		decl, _ := table.Get(name)
		rules = append(rules, dao.RuleInfo{Name: name, Kind: declKind(decl)})
	}
	return rules
}

func declKind(decl peg.NamedDeclaration) string {
	switch decl.(type) {
	case *peg.Decl:
		return "reported"
	case *peg.UnreportedDecl:
		return "unreported"
	case *peg.ExpandedDecl:
		return "expanded"
	default:
		return "unknown"
	}
}

func (s *Server) handleGetGrammar(w http.ResponseWriter, req *http.Request) {
	name := chi.URLParam(req, "name")

	g, err := s.db.Grammars().GetByName(req.Context(), name)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			result.NotFound().WriteResponse(w, req)
			return
		}
		result.InternalServerError("lookup grammar: %s", err).WriteResponse(w, req)
		return
	}

	result.OK(toGrammarResponse(g)).WriteResponse(w, req)
}

func (s *Server) handleParse(w http.ResponseWriter, req *http.Request) {
	name := chi.URLParam(req, "name")
	rule := req.URL.Query().Get("rule")

	g, err := s.db.Grammars().GetByName(req.Context(), name)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			result.NotFound().WriteResponse(w, req)
			return
		}
		result.InternalServerError("lookup grammar: %s", err).WriteResponse(w, req)
		return
	}
	if rule == "" {
		rule = g.EntryRule
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		result.BadRequest("could not read request body").WriteResponse(w, req)
		return
	}

	// always recompile from source: the stored rule cache is read-only
	// metadata and is never used to satisfy a parse.
	compiled, err := grammarkit.Compile(g.Source, g.EntryRule)
	if err != nil {
		result.InternalServerError("recompile stored grammar: %s", err).WriteResponse(w, req)
		return
	}

	parseResult, err := compiled.ParseRule(rule, string(body))
	if err != nil {
		result.BadRequest(err.Error(), "parse error: %s", err).WriteResponse(w, req)
		return
	}
	if !parseResult.Ok() {
		result.BadRequest("input did not match the grammar").WriteResponse(w, req)
		return
	}

	result.OK(parseResult.Nodes()).WriteResponse(w, req)
}

// CreateCredential registers a new API credential with a bcrypt-hashed
// password, for use by an operator provisioning the initial account.
func (s *Server) CreateCredential(ctx context.Context, username, password string) (dao.Credential, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dao.Credential{}, err
	}

	return s.db.Credentials().Create(ctx, dao.Credential{
		Username:     username,
		PasswordHash: string(hash),
	})
}
